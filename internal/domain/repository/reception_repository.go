package repository

import "github.com/fulfila/stock-api/internal/domain/entity"

// ReceptionRepository define el puerto de persistencia para recepciones.
type ReceptionRepository interface {
	Create(reception *entity.Reception) error
	GetByID(id string) (*entity.Reception, error)
	Update(reception *entity.Reception) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.Reception, error)
}
