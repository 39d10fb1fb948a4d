package repository

import (
	"time"

	"github.com/fulfila/stock-api/internal/domain/entity"
)

// MovementRepository define el puerto del log de auditoría de stock.
// Append-only: solo Create y lecturas.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByStorage(storageID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByBusiness(businessID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
