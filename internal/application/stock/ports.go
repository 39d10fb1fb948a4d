package stock

import (
	"context"

	"github.com/fulfila/stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para cada operación
// del ledger: las filas de Product, Stock y Movement tocadas por una misma
// operación se escriben juntas o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
