package repository

import "github.com/fulfila/stock-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los getters devuelven (nil, nil) cuando no existe la fila.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByBusinessEANSKU resuelve por la clave única (businessId, ean, sku).
	GetByBusinessEANSKU(businessID, ean, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// AdjustStockTotals suma delta (puede ser negativo) a TotalStock de forma
	// atómica, reduce ReservedStock acotado en cero cuando delta < 0, mantiene
	// Status según el total resultante y devuelve el producto actualizado
	// (nil si no existe).
	AdjustStockTotals(productID string, delta int) (*entity.Product, error)
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
