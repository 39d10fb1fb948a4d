// Package movementorder implementa el ciclo de vida de las órdenes de
// movimiento: creación por el vendedor, aprobación por el admin y el motor
// de reconciliación que aplica las líneas al ledger en una sola transacción.
package movementorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// UseCase orquesta órdenes de movimiento. La parte interesante es
// CompleteOrder: todo el batch de líneas comparte una transacción y el batch
// commitea o se revierte completo; "Parcial" es una etiqueta terminal
// asignada por el caller (diferencias de reconciliación calculadas aguas
// arriba), nunca un commit parcial.
type UseCase struct {
	txRunner     ReconciliationTxRunner
	ledger       *stock.Ledger
	orderRepo    repository.MovementOrderRepository
	businessRepo repository.BusinessRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ReconciliationTxRunner,
	ledger *stock.Ledger,
	orderRepo repository.MovementOrderRepository,
	businessRepo repository.BusinessRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		orderRepo:    orderRepo,
		businessRepo: businessRepo,
	}
}

// CreateOrderInput entrada para la creación por el vendedor. SheetFile y
// Remittance son rutas devueltas por el blob store al subir los archivos.
type CreateOrderInput struct {
	BusinessID string
	Type       string // ENTRADA | SALIDA
	SheetFile  string
	Remittance string
}

// CreateOrder registra la orden en estado Pendiente. La planilla es
// obligatoria siempre; el remito solo para ENTRADA.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.MovementOrder, error) {
	if in.BusinessID == "" {
		return nil, fmt.Errorf("%w: businessId", domain.ErrMissingParameter)
	}
	if in.Type != entity.MovementOrderTypeEntrada && in.Type != entity.MovementOrderTypeSalida {
		return nil, fmt.Errorf("%w: tipo de orden %q", domain.ErrInvalidInput, in.Type)
	}
	if in.SheetFile == "" {
		return nil, fmt.Errorf("%w: sheetFile", domain.ErrMissingParameter)
	}
	if in.Type == entity.MovementOrderTypeEntrada && in.Remittance == "" {
		return nil, fmt.Errorf("%w: remittance (obligatorio para ENTRADA)", domain.ErrMissingParameter)
	}
	business, err := uc.businessRepo.GetByID(in.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, &domain.NotFoundError{Entity: "business", Key: in.BusinessID}
	}
	now := time.Now()
	order := &entity.MovementOrder{
		ID:         uuid.New().String(),
		BusinessID: in.BusinessID,
		Date:       now,
		Type:       in.Type,
		State:      entity.MovementOrderStatePendiente,
		SheetFile:  in.SheetFile,
		Remittance: in.Remittance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ApproveOrder transiciona Pendiente -> Aprobado y fija ReceptionDate.
func (uc *UseCase) ApproveOrder(ctx context.Context, orderID string) (*entity.MovementOrder, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: movementOrderId", domain.ErrMissingParameter)
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Entity: "orden de movimiento", Key: orderID}
	}
	if order.State != entity.MovementOrderStatePendiente {
		return nil, fmt.Errorf("%w: la orden está %q, se esperaba %q",
			domain.ErrInvalidState, order.State, entity.MovementOrderStatePendiente)
	}
	now := time.Now()
	order.State = entity.MovementOrderStateAprobado
	order.ReceptionDate = &now
	order.UpdatedAt = now
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// CompleteOrderInput entrada del motor de reconciliación. TargetState viene
// asegurado por el caller según el diff de planillas hecho aguas arriba:
// Completado si no hubo diferencias, Parcial si las hubo.
type CompleteOrderInput struct {
	OrderID     string
	Lines       []stock.LineItem
	ActorID     string
	TargetState string
}

// CompleteOrderResult orden actualizada, cantidad de líneas aplicadas y
// estado final.
type CompleteOrderResult struct {
	Order        *entity.MovementOrder
	SuccessCount int
	State        string
}

// CompleteOrder aplica el batch de líneas reconciliadas al ledger dentro de
// una única transacción, en el orden recibido y de forma estrictamente
// secuencial (líneas sobre el mismo par producto/ubicación deben acumular,
// no competir). Si cualquier línea falla se revierte el batch completo y la
// orden queda en Aprobado sin cambios; si todas validan, el estado pasa a
// TargetState dentro de la misma transacción.
func (uc *UseCase) CompleteOrder(ctx context.Context, in CompleteOrderInput) (*CompleteOrderResult, error) {
	if in.OrderID == "" {
		return nil, fmt.Errorf("%w: movementOrderId", domain.ErrMissingParameter)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: lineItems", domain.ErrMissingParameter)
	}
	if in.ActorID == "" {
		return nil, fmt.Errorf("%w: actorId", domain.ErrMissingParameter)
	}
	if in.TargetState == "" {
		return nil, fmt.Errorf("%w: targetState", domain.ErrMissingParameter)
	}
	if in.TargetState != entity.MovementOrderStateCompletado &&
		in.TargetState != entity.MovementOrderStateParcial {
		return nil, fmt.Errorf("%w: estado final %q no es terminal", domain.ErrInvalidInput, in.TargetState)
	}

	order, err := uc.orderRepo.GetByID(in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Entity: "orden de movimiento", Key: in.OrderID}
	}
	if order.State != entity.MovementOrderStateAprobado {
		return nil, fmt.Errorf("%w: la orden está %q, se esperaba %q",
			domain.ErrInvalidState, order.State, entity.MovementOrderStateAprobado)
	}
	// Defensivo: con integridad referencial no debería ocurrir.
	business, err := uc.businessRepo.GetByID(order.BusinessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, &domain.NotFoundError{Entity: "business", Key: order.BusinessID}
	}

	err = uc.txRunner.RunReconciliation(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		storageRepo repository.StorageRepository,
		orderRepo repository.MovementOrderRepository,
	) error {
		// Re-verificación bajo lock: el chequeo de arriba corre fuera de la
		// transacción y dos completaciones concurrentes podrían pasarlo ambas.
		// Bloquear la fila y re-leer el estado garantiza que el batch se
		// aplica una sola vez.
		current, err := orderRepo.GetByIDForUpdate(order.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return &domain.NotFoundError{Entity: "orden de movimiento", Key: order.ID}
		}
		if current.IsTerminal() {
			return fmt.Errorf("%w: la orden ya está en estado terminal %q",
				domain.ErrInvalidState, current.State)
		}
		if current.State != entity.MovementOrderStateAprobado {
			return fmt.Errorf("%w: la orden está %q, se esperaba %q",
				domain.ErrInvalidState, current.State, entity.MovementOrderStateAprobado)
		}
		now := time.Now()
		for i, line := range in.Lines {
			_, err := uc.ledger.ApplyLineInTx(
				movRepo, stockRepo, productRepo, storageRepo,
				order.BusinessID, order.Type, in.ActorID, line, now,
			)
			if err != nil {
				return fmt.Errorf("línea %d (ean=%s, sku=%s): %w", i+1, line.EAN, line.SKU, err)
			}
		}
		return orderRepo.UpdateState(order.ID, in.TargetState)
	})
	if err != nil {
		return nil, err
	}

	order.State = in.TargetState
	order.UpdatedAt = time.Now()
	return &CompleteOrderResult{
		Order:        order,
		SuccessCount: len(in.Lines),
		State:        in.TargetState,
	}, nil
}

// GetOrder devuelve una orden por ID.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*entity.MovementOrder, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &domain.NotFoundError{Entity: "orden de movimiento", Key: orderID}
	}
	return order, nil
}

// ListOrders lista las órdenes de un business.
func (uc *UseCase) ListOrders(ctx context.Context, businessID string, limit, offset int) ([]*entity.MovementOrder, error) {
	return uc.orderRepo.ListByBusiness(businessID, limit, offset)
}

// ListPending lista las órdenes Pendiente de todos los businesses (vista admin).
func (uc *UseCase) ListPending(ctx context.Context, limit, offset int) ([]*entity.MovementOrder, error) {
	return uc.orderRepo.ListByState(entity.MovementOrderStatePendiente, limit, offset)
}

// DeleteOrder borra una orden (acción explícita de admin; no toca stock).
func (uc *UseCase) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return &domain.NotFoundError{Entity: "orden de movimiento", Key: orderID}
	}
	return uc.orderRepo.Delete(orderID)
}
