// Package reception implementa el flujo de recepciones: estructuralmente
// igual al de órdenes de movimiento pero sin aplicación de stock al cierre.
package reception

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// UseCase casos de uso de recepciones.
type UseCase struct {
	receptionRepo repository.ReceptionRepository
	businessRepo  repository.BusinessRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(receptionRepo repository.ReceptionRepository, businessRepo repository.BusinessRepository) *UseCase {
	return &UseCase{receptionRepo: receptionRepo, businessRepo: businessRepo}
}

// CreateInput entrada para crear una recepción.
type CreateInput struct {
	BusinessID string
	SheetFile  string
	Remittance string
}

// Create registra la recepción en estado Pendiente.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Reception, error) {
	if in.BusinessID == "" {
		return nil, fmt.Errorf("%w: businessId", domain.ErrMissingParameter)
	}
	if in.SheetFile == "" {
		return nil, fmt.Errorf("%w: sheetFile", domain.ErrMissingParameter)
	}
	business, err := uc.businessRepo.GetByID(in.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, &domain.NotFoundError{Entity: "business", Key: in.BusinessID}
	}
	now := time.Now()
	reception := &entity.Reception{
		ID:         uuid.New().String(),
		BusinessID: in.BusinessID,
		Date:       now,
		State:      entity.ReceptionStatePendiente,
		SheetFile:  in.SheetFile,
		Remittance: in.Remittance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.receptionRepo.Create(reception); err != nil {
		return nil, err
	}
	return reception, nil
}

// Approve transiciona Pendiente -> Aprobado y fija ReceptionDate.
func (uc *UseCase) Approve(ctx context.Context, receptionID string) (*entity.Reception, error) {
	reception, err := uc.receptionRepo.GetByID(receptionID)
	if err != nil {
		return nil, err
	}
	if reception == nil {
		return nil, &domain.NotFoundError{Entity: "recepción", Key: receptionID}
	}
	if reception.State != entity.ReceptionStatePendiente {
		return nil, fmt.Errorf("%w: la recepción está %q, se esperaba %q",
			domain.ErrInvalidState, reception.State, entity.ReceptionStatePendiente)
	}
	now := time.Now()
	reception.State = entity.ReceptionStateAprobado
	reception.ReceptionDate = &now
	reception.UpdatedAt = now
	if err := uc.receptionRepo.Update(reception); err != nil {
		return nil, err
	}
	return reception, nil
}

// Complete cierra la recepción (Aprobado -> Completado). No hay efectos de
// stock: la recepción solo documenta la llegada física.
func (uc *UseCase) Complete(ctx context.Context, receptionID string) (*entity.Reception, error) {
	reception, err := uc.receptionRepo.GetByID(receptionID)
	if err != nil {
		return nil, err
	}
	if reception == nil {
		return nil, &domain.NotFoundError{Entity: "recepción", Key: receptionID}
	}
	if reception.State != entity.ReceptionStateAprobado {
		return nil, fmt.Errorf("%w: la recepción está %q, se esperaba %q",
			domain.ErrInvalidState, reception.State, entity.ReceptionStateAprobado)
	}
	reception.State = entity.ReceptionStateCompletado
	reception.UpdatedAt = time.Now()
	if err := uc.receptionRepo.Update(reception); err != nil {
		return nil, err
	}
	return reception, nil
}

// List lista las recepciones de un business.
func (uc *UseCase) List(ctx context.Context, businessID string, limit, offset int) ([]*entity.Reception, error) {
	return uc.receptionRepo.ListByBusiness(businessID, limit, offset)
}
