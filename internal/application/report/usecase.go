// Package report genera reportes descargables sobre el historial de
// movimientos de stock.
package report

import (
	"context"
	"time"

	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// MovementRow fila del reporte: movimiento más los datos legibles del
// producto y la ubicación resueltos para la representación.
type MovementRow struct {
	Movement *entity.Movement
	Product  *entity.Product
	Storage  *entity.Storage
}

// MovementsPDFGenerator puerto de render del reporte de movimientos.
type MovementsPDFGenerator interface {
	GenerateMovementsPDF(ctx context.Context, business *entity.Business, from, to time.Time, rows []MovementRow) ([]byte, error)
}

// UseCase arma el reporte de movimientos de un business en un rango de
// fechas y lo entrega como PDF.
type UseCase struct {
	movRepo      repository.MovementRepository
	productRepo  repository.ProductRepository
	storageRepo  repository.StorageRepository
	businessRepo repository.BusinessRepository
	pdf          MovementsPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	storageRepo repository.StorageRepository,
	businessRepo repository.BusinessRepository,
	pdf MovementsPDFGenerator,
) *UseCase {
	return &UseCase{
		movRepo:      movRepo,
		productRepo:  productRepo,
		storageRepo:  storageRepo,
		businessRepo: businessRepo,
		pdf:          pdf,
	}
}

const reportMaxRows = 500

// MovementsPDF genera el PDF del historial de movimientos del business.
func (uc *UseCase) MovementsPDF(ctx context.Context, businessID string, from, to time.Time) ([]byte, error) {
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, &domain.NotFoundError{Entity: "business", Key: businessID}
	}
	movements, err := uc.movRepo.ListByBusiness(businessID, &from, &to, reportMaxRows, 0)
	if err != nil {
		return nil, err
	}

	// Resolver producto y ubicación una sola vez por ID.
	products := map[string]*entity.Product{}
	storages := map[string]*entity.Storage{}
	rows := make([]MovementRow, 0, len(movements))
	for _, mov := range movements {
		product, ok := products[mov.ProductID]
		if !ok {
			product, err = uc.productRepo.GetByID(mov.ProductID)
			if err != nil {
				return nil, err
			}
			products[mov.ProductID] = product
		}
		storage, ok := storages[mov.StorageID]
		if !ok {
			storage, err = uc.storageRepo.GetByID(mov.StorageID)
			if err != nil {
				return nil, err
			}
			storages[mov.StorageID] = storage
		}
		rows = append(rows, MovementRow{Movement: mov, Product: product, Storage: storage})
	}
	return uc.pdf.GenerateMovementsPDF(ctx, business, from, to, rows)
}
