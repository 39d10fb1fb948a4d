package repository

import "github.com/fulfila/stock-api/internal/domain/entity"

// MovementOrderRepository define el puerto de persistencia para órdenes de
// movimiento. GetByIDForUpdate y UpdateState participan en la transacción de
// reconciliación: la orden se bloquea y se re-verifica su estado dentro de la
// misma transacción que aplica las líneas, para que dos completaciones
// concurrentes no apliquen el batch dos veces.
type MovementOrderRepository interface {
	Create(order *entity.MovementOrder) error
	GetByID(id string) (*entity.MovementOrder, error)
	GetByIDForUpdate(id string) (*entity.MovementOrder, error)
	Update(order *entity.MovementOrder) error
	UpdateState(id, state string) error
	ListByBusiness(businessID string, limit, offset int) ([]*entity.MovementOrder, error)
	ListByState(state string, limit, offset int) ([]*entity.MovementOrder, error)
	Delete(id string) error
}
