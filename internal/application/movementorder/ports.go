package movementorder

import (
	"context"

	"github.com/fulfila/stock-api/internal/domain/repository"
)

// ReconciliationTxRunner abre la transacción única del batch de
// reconciliación y pasa los repositorios atados a esa tx. Commit solo si fn
// devuelve nil; cualquier error hace rollback del batch completo.
type ReconciliationTxRunner interface {
	RunReconciliation(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		storageRepo repository.StorageRepository,
		orderRepo repository.MovementOrderRepository,
	) error) error
}
