// Package stock implementa el ledger de inventario: ingreso, egreso y
// transferencia sobre filas (producto, ubicación), manteniendo el agregado
// TotalStock del producto y el log de auditoría Movement en la misma
// transacción.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/location"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// Ledger expone las primitivas de stock. Las variantes públicas abren su
// propia transacción vía TxRunner; las variantes *InTx reciben los
// repositorios atados a una transacción del caller (motor de reconciliación).
type Ledger struct {
	txRunner    TxRunner
	storageRepo repository.StorageRepository
}

// NewLedger construye el ledger. storageRepo (atado al pool) se usa para
// validar ubicaciones antes de abrir la transacción.
func NewLedger(txRunner TxRunner, storageRepo repository.StorageRepository) *Ledger {
	return &Ledger{txRunner: txRunner, storageRepo: storageRepo}
}

// MovementInput entrada para Ingress/Egress directos.
type MovementInput struct {
	ProductID  string
	StorageID  string
	Quantity   int
	ActorID    string
	BusinessID string
}

// TransferInput entrada para Transfer: mueve Quantity desde la fila de stock
// FromStockID hacia la ubicación ToStorageID (mismo producto).
type TransferInput struct {
	Date        time.Time
	Quantity    int
	FromStockID string
	ToStorageID string
	ActorID     string
	BusinessID  string
}

// LineItem es una línea de reconciliación: identifica producto por (ean, sku),
// cantidad y ubicación destino en formato "rag/site/posición". Transitoria,
// no se persiste como entidad.
type LineItem struct {
	EAN      string `json:"ean"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

// MovementResult filas resultantes de un ingreso o egreso.
type MovementResult struct {
	Stock    *entity.Stock
	Product  *entity.Product
	Movement *entity.Movement
}

// TransferResult filas resultantes de una transferencia.
type TransferResult struct {
	Stocks    []*entity.Stock
	Movements []*entity.Movement
}

// Ingress suma Quantity al stock de (producto, ubicación) en su propia
// transacción. Crea la fila de stock si es el primer ingreso del par.
func (l *Ledger) Ingress(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	storage, err := l.storageRepo.GetByID(in.StorageID)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, &domain.NotFoundError{Entity: "ubicación", Key: in.StorageID}
	}
	var res *MovementResult
	err = l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		r, err := l.IngressInTx(movRepo, stockRepo, productRepo, in, time.Now())
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Egress resta Quantity del stock de (producto, ubicación) en su propia
// transacción. Falla si no hay fila o si Enabled < Quantity.
func (l *Ledger) Egress(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var res *MovementResult
	err := l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		r, err := l.EgressInTx(movRepo, stockRepo, productRepo, in, time.Now())
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Transfer mueve stock entre ubicaciones en su propia transacción: resta de
// la fila origen y suma en la fila destino (find-or-create), registrando dos
// movimientos Transferencia.
func (l *Ledger) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	dest, err := l.storageRepo.GetByID(in.ToStorageID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, &domain.NotFoundError{Entity: "ubicación destino", Key: in.ToStorageID}
	}
	var res *TransferResult
	err = l.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
	) error {
		r, err := l.transferInTx(movRepo, stockRepo, in)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// IngressInTx ejecuta un ingreso con los repositorios del caller (misma
// transacción): bloquea la fila de stock (SELECT FOR UPDATE) o la crea,
// suma a Amount y Enabled, suma al TotalStock del producto y registra el
// movimiento Ingreso.
func (l *Ledger) IngressInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
	now time.Time,
) (*MovementResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	stock, err := stockRepo.GetForUpdate(in.ProductID, in.StorageID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		stock = &entity.Stock{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			StorageID: in.StorageID,
			Amount:    in.Quantity,
			Enabled:   in.Quantity,
			CreatedAt: now,
		}
	} else {
		stock.Amount += in.Quantity
		stock.Enabled += in.Quantity
	}
	stock.RecalcIsFull()
	stock.UpdatedAt = now
	if err := stockRepo.Save(stock); err != nil {
		return nil, err
	}

	product, err := productRepo.AdjustStockTotals(in.ProductID, in.Quantity)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", Key: in.ProductID}
	}

	mov := &entity.Movement{
		ID:         uuid.New().String(),
		Date:       now,
		Type:       entity.MovementTypeIngreso,
		Quantity:   in.Quantity,
		StockID:    stock.ID,
		StorageID:  in.StorageID,
		ProductID:  in.ProductID,
		UserID:     in.ActorID,
		BusinessID: in.BusinessID,
		CreatedAt:  now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return &MovementResult{Stock: stock, Product: product, Movement: mov}, nil
}

// EgressInTx ejecuta un egreso con los repositorios del caller (misma
// transacción): exige fila de stock existente y Enabled >= Quantity, resta
// de Amount/Enabled y del TotalStock del producto (la reserva se acota en
// cero en AdjustStockTotals) y registra el movimiento Egreso. Un egreso a
// cero deja la fila con Amount = 0, no la borra.
func (l *Ledger) EgressInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
	now time.Time,
) (*MovementResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	stock, err := stockRepo.GetForUpdate(in.ProductID, in.StorageID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, &domain.NotFoundError{
			Entity: "stock",
			Key:    fmt.Sprintf("producto=%s, ubicación=%s", in.ProductID, in.StorageID),
		}
	}
	if stock.Enabled < in.Quantity {
		return nil, &domain.InsufficientStockError{Available: stock.Enabled, Requested: in.Quantity}
	}
	stock.Amount -= in.Quantity
	stock.Enabled -= in.Quantity
	stock.RecalcIsFull()
	stock.UpdatedAt = now
	if err := stockRepo.Save(stock); err != nil {
		return nil, err
	}

	product, err := productRepo.AdjustStockTotals(in.ProductID, -in.Quantity)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", Key: in.ProductID}
	}

	mov := &entity.Movement{
		ID:         uuid.New().String(),
		Date:       now,
		Type:       entity.MovementTypeEgreso,
		Quantity:   in.Quantity,
		StockID:    stock.ID,
		StorageID:  in.StorageID,
		ProductID:  in.ProductID,
		UserID:     in.ActorID,
		BusinessID: in.BusinessID,
		CreatedAt:  now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return &MovementResult{Stock: stock, Product: product, Movement: mov}, nil
}

// transferInTx resta de la fila origen (bloqueada) y suma en la fila destino
// del mismo producto. No toca TotalStock: una transferencia no cambia la
// cantidad total del producto.
func (l *Ledger) transferInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	in TransferInput,
) (*TransferResult, error) {
	origin, err := stockRepo.GetByIDForUpdate(in.FromStockID)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return nil, &domain.NotFoundError{Entity: "stock", Key: in.FromStockID}
	}
	if origin.StorageID == in.ToStorageID {
		return nil, domain.ErrSameStorage
	}
	if origin.Amount < in.Quantity {
		return nil, &domain.InsufficientStockError{Available: origin.Amount, Requested: in.Quantity}
	}

	now := in.Date
	if now.IsZero() {
		now = time.Now()
	}

	dest, err := stockRepo.GetForUpdate(origin.ProductID, in.ToStorageID)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		dest = &entity.Stock{
			ID:        uuid.New().String(),
			ProductID: origin.ProductID,
			StorageID: in.ToStorageID,
			CreatedAt: now,
		}
	}

	origin.Amount -= in.Quantity
	if origin.Enabled > origin.Amount {
		origin.Enabled = origin.Amount
	}
	origin.RecalcIsFull()
	origin.UpdatedAt = now
	dest.Amount += in.Quantity
	dest.Enabled += in.Quantity
	dest.RecalcIsFull()
	dest.UpdatedAt = now

	if err := stockRepo.Save(origin); err != nil {
		return nil, err
	}
	if err := stockRepo.Save(dest); err != nil {
		return nil, err
	}

	outMov := &entity.Movement{
		ID:         uuid.New().String(),
		Date:       now,
		Type:       entity.MovementTypeTransferencia,
		Quantity:   in.Quantity,
		StockID:    origin.ID,
		StorageID:  origin.StorageID,
		ProductID:  origin.ProductID,
		UserID:     in.ActorID,
		BusinessID: in.BusinessID,
		CreatedAt:  now,
	}
	if err := movRepo.Create(outMov); err != nil {
		return nil, err
	}
	inMov := &entity.Movement{
		ID:         uuid.New().String(),
		Date:       now,
		Type:       entity.MovementTypeTransferencia,
		Quantity:   in.Quantity,
		StockID:    dest.ID,
		StorageID:  in.ToStorageID,
		ProductID:  origin.ProductID,
		UserID:     in.ActorID,
		BusinessID: in.BusinessID,
		CreatedAt:  now,
	}
	if err := movRepo.Create(inMov); err != nil {
		return nil, err
	}
	return &TransferResult{
		Stocks:    []*entity.Stock{origin, dest},
		Movements: []*entity.Movement{outMov, inMov},
	}, nil
}

// ApplyLineInTx resuelve y aplica una línea de reconciliación dentro de la
// transacción del caller: producto por (businessId, ean, sku), ubicación por
// la cadena "rag/site/posición" validando el rango de posición, y despacho a
// ingreso o egreso según el tipo de la orden.
func (l *Ledger) ApplyLineInTx(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	storageRepo repository.StorageRepository,
	businessID, orderType, actorID string,
	line LineItem,
	now time.Time,
) (*MovementResult, error) {
	product, err := productRepo.GetByBusinessEANSKU(businessID, line.EAN, line.SKU)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{
			Entity: "producto",
			Key:    fmt.Sprintf("ean=%s, sku=%s", line.EAN, line.SKU),
		}
	}

	loc, err := location.Parse(line.Location)
	if err != nil {
		return nil, err
	}
	storage, err := storageRepo.GetByRagSite(loc.Rag, loc.Site)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, &domain.NotFoundError{
			Entity: "ubicación",
			Key:    fmt.Sprintf("rag=%s, site=%s", loc.Rag, loc.Site),
		}
	}
	if loc.Position > storage.Positions {
		return nil, &domain.PositionOutOfRangeError{Position: loc.Position, Max: storage.Positions}
	}

	in := MovementInput{
		ProductID:  product.ID,
		StorageID:  storage.ID,
		Quantity:   line.Quantity,
		ActorID:    actorID,
		BusinessID: businessID,
	}
	switch orderType {
	case entity.MovementOrderTypeEntrada:
		return l.IngressInTx(movRepo, stockRepo, productRepo, in, now)
	case entity.MovementOrderTypeSalida:
		return l.EgressInTx(movRepo, stockRepo, productRepo, in, now)
	default:
		return nil, fmt.Errorf("%w: tipo de orden %q", domain.ErrInvalidInput, orderType)
	}
}
