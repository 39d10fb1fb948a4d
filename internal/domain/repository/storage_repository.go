package repository

import "github.com/fulfila/stock-api/internal/domain/entity"

// StorageRepository define el puerto de persistencia para Storage (DIP).
type StorageRepository interface {
	Create(storage *entity.Storage) error
	GetByID(id string) (*entity.Storage, error)
	// GetByRagSite resuelve por la clave única (rag, site). (nil, nil) si no existe.
	GetByRagSite(rag, site string) (*entity.Storage, error)
	Update(storage *entity.Storage) error
	List(limit, offset int) ([]*entity.Storage, error)
}
