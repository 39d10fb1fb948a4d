package stock

import (
	"context"
	"time"

	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// Query lado de lectura del ledger: filas de stock y el historial de
// movimientos (repositorios atados al pool, fuera de transacción).
type Query struct {
	stockRepo   repository.StockRepository
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
}

// NewQuery construye el lado de lectura.
func NewQuery(stockRepo repository.StockRepository, movRepo repository.MovementRepository, productRepo repository.ProductRepository) *Query {
	return &Query{stockRepo: stockRepo, movRepo: movRepo, productRepo: productRepo}
}

// StocksByProduct devuelve las filas de stock de un producto en todas las
// ubicaciones, verificando pertenencia al business.
func (q *Query) StocksByProduct(ctx context.Context, businessID, productID string) ([]*entity.Stock, error) {
	product, err := q.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", Key: productID}
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return q.stockRepo.ListByProduct(productID)
}

// MovementsByProduct historial de movimientos de un producto.
func (q *Query) MovementsByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return q.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// MovementsByStorage historial de movimientos de una ubicación.
func (q *Query) MovementsByStorage(ctx context.Context, storageID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return q.movRepo.ListByStorage(storageID, from, to, limit, offset)
}

// MovementsByBusiness historial de movimientos de un business.
func (q *Query) MovementsByBusiness(ctx context.Context, businessID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return q.movRepo.ListByBusiness(businessID, from, to, limit, offset)
}
