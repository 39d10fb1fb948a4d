package repository

import "github.com/fulfila/stock-api/internal/domain/entity"

// StockRepository define el puerto para las filas de stock por
// (producto, ubicación). Usado dentro de transacciones para garantizar
// consistencia; los getters devuelven (nil, nil) si no hay fila.
type StockRepository interface {
	Get(productID, storageID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, storageID string) (*entity.Stock, error)
	GetByID(id string) (*entity.Stock, error)
	// GetByIDForUpdate bloquea la fila por ID (transferencias).
	GetByIDForUpdate(id string) (*entity.Stock, error)
	// Save inserta o actualiza la fila por (producto, ubicación).
	Save(stock *entity.Stock) error
	ListByProduct(productID string) ([]*entity.Stock, error)
}
