package movementorder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfila/stock-api/internal/application/movementorder"
	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/application/testutil"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/location"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: un business, dos productos, una ubicación R1/A1 con 10 posiciones.
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID     = "biz-1"
	prodAID   = "prod-a"
	prodBID   = "prod-b"
	storageID = "storage-1"
	actorID   = "admin-1"
)

type fixture struct {
	uc     *movementorder.UseCase
	ledger *stock.Ledger
	store  *testutil.MemStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewMemStore()
	s.Businesses[bizID] = &entity.Business{ID: bizID, Name: "Acme"}
	s.Products[prodAID] = &entity.Product{
		ID: prodAID, BusinessID: bizID, EAN: "1111", SKU: "SKU-A",
		Name: "Producto A", Status: entity.ProductStatusEmptyStock,
	}
	s.Products[prodBID] = &entity.Product{
		ID: prodBID, BusinessID: bizID, EAN: "2222", SKU: "SKU-B",
		Name: "Producto B", Status: entity.ProductStatusEmptyStock,
	}
	s.Storages[storageID] = &entity.Storage{ID: storageID, Rag: "R1", Site: "A1", Positions: 10}

	runner := testutil.NewFakeTxRunner(s)
	ledger := stock.NewLedger(runner, &testutil.MemStorageRepo{S: s})
	uc := movementorder.NewUseCase(runner, ledger, &testutil.MemMovementOrderRepo{S: s}, &testutil.MemBusinessRepo{S: s})
	return &fixture{uc: uc, ledger: ledger, store: s}
}

// approvedOrder deja sembrada una orden en estado Aprobado.
func (f *fixture) approvedOrder(t *testing.T, orderType string) *entity.MovementOrder {
	t.Helper()
	now := time.Now()
	order := &entity.MovementOrder{
		ID:         "order-1",
		BusinessID: bizID,
		Date:       now,
		Type:       orderType,
		State:      entity.MovementOrderStateAprobado,
		SheetFile:  "uploads/planilla.xlsx",
		Remittance: "uploads/remito.pdf",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.store.Orders[order.ID] = order
	return order
}

// stockAmount devuelve el Amount de la fila (producto, ubicación), 0 si no hay.
func (f *fixture) stockAmount(productID string) int {
	for _, st := range f.store.Stocks {
		if st.ProductID == productID && st.StorageID == storageID {
			return st.Amount
		}
	}
	return 0
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_EntradaQuedaPendiente(t *testing.T) {
	f := newFixture(t)

	order, err := f.uc.CreateOrder(context.Background(), movementorder.CreateOrderInput{
		BusinessID: bizID,
		Type:       entity.MovementOrderTypeEntrada,
		SheetFile:  "uploads/planilla.xlsx",
		Remittance: "uploads/remito.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementOrderStatePendiente, order.State)
	assert.NotEmpty(t, order.ID)
	assert.Nil(t, order.ReceptionDate)
}

func TestCreateOrder_EntradaSinRemitoFalla(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), movementorder.CreateOrderInput{
		BusinessID: bizID,
		Type:       entity.MovementOrderTypeEntrada,
		SheetFile:  "uploads/planilla.xlsx",
	})
	assert.ErrorIs(t, err, domain.ErrMissingParameter)
}

func TestCreateOrder_SalidaSinRemitoEsValida(t *testing.T) {
	f := newFixture(t)

	order, err := f.uc.CreateOrder(context.Background(), movementorder.CreateOrderInput{
		BusinessID: bizID,
		Type:       entity.MovementOrderTypeSalida,
		SheetFile:  "uploads/planilla.xlsx",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementOrderStatePendiente, order.State)
}

func TestCreateOrder_TipoInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), movementorder.CreateOrderInput{
		BusinessID: bizID,
		Type:       "TRANSFERENCIA",
		SheetFile:  "uploads/planilla.xlsx",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApproveOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestApproveOrder_FijaReceptionDate(t *testing.T) {
	f := newFixture(t)
	order, err := f.uc.CreateOrder(context.Background(), movementorder.CreateOrderInput{
		BusinessID: bizID,
		Type:       entity.MovementOrderTypeSalida,
		SheetFile:  "uploads/planilla.xlsx",
	})
	require.NoError(t, err)

	approved, err := f.uc.ApproveOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementOrderStateAprobado, approved.State)
	require.NotNil(t, approved.ReceptionDate)
}

func TestApproveOrder_SoloDesdePendiente(t *testing.T) {
	f := newFixture(t)
	order := f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	_, err := f.uc.ApproveOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// CompleteOrder — el motor de reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteOrder_EntradaAplicaTodasLasLineas(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	res, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID: "order-1",
		Lines: []stock.LineItem{
			{EAN: "1111", SKU: "SKU-A", Quantity: 10, Location: "R1/A1/3"},
			{EAN: "2222", SKU: "SKU-B", Quantity: 5, Location: "R1/A1/7"},
			{EAN: "1111", SKU: "SKU-A", Quantity: 2, Location: "R1/A1/3"},
		},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.SuccessCount)
	assert.Equal(t, entity.MovementOrderStateCompletado, res.State)
	assert.Equal(t, entity.MovementOrderStateCompletado, f.store.Orders["order-1"].State)

	// Líneas repetidas sobre el mismo par acumulan de forma secuencial.
	assert.Equal(t, 12, f.stockAmount(prodAID))
	assert.Equal(t, 5, f.stockAmount(prodBID))
	assert.Equal(t, 12, f.store.Products[prodAID].TotalStock)
	assert.Equal(t, 5, f.store.Products[prodBID].TotalStock)
	assert.Len(t, f.store.Movements, 3, "un movimiento de auditoría por línea")
}

func TestCompleteOrder_LineaInvalidaRevierteElBatchCompleto(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	_, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID: "order-1",
		Lines: []stock.LineItem{
			{EAN: "1111", SKU: "SKU-A", Quantity: 10, Location: "R1/A1/3"},
			{EAN: "9999", SKU: "NO-EXISTE", Quantity: 5, Location: "R1/A1/7"},
		},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "línea 2", "el error debe identificar la línea ofensiva")

	// Nada del batch debe haber impactado: ni la línea 1.
	assert.Equal(t, 0, f.stockAmount(prodAID))
	assert.Equal(t, 0, f.store.Products[prodAID].TotalStock)
	assert.Empty(t, f.store.Movements)
	assert.Equal(t, entity.MovementOrderStateAprobado, f.store.Orders["order-1"].State,
		"la orden debe quedar Aprobado, reintentable")
}

func TestCompleteOrder_PosicionFueraDeRangoRevierte(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	_, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID: "order-1",
		Lines: []stock.LineItem{
			{EAN: "1111", SKU: "SKU-A", Quantity: 4, Location: "R1/A1/11"},
		},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	require.Error(t, err)

	var outOfRange *domain.PositionOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	assert.Equal(t, 11, outOfRange.Position)
	assert.Equal(t, 10, outOfRange.Max)
	assert.Equal(t, entity.MovementOrderStateAprobado, f.store.Orders["order-1"].State)
}

func TestCompleteOrder_UbicacionMalFormadaRevierte(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	_, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID: "order-1",
		Lines: []stock.LineItem{
			{EAN: "1111", SKU: "SKU-A", Quantity: 4, Location: "R1-A1-3"},
		},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	require.Error(t, err)

	var fe *location.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "R1-A1-3", fe.Raw)
}

func TestCompleteOrder_SalidaConStockInsuficienteRevierte(t *testing.T) {
	f := newFixture(t)
	// Sembrar 3 unidades y pedir 5 en la salida.
	_, err := f.ledger.Ingress(context.Background(), stock.MovementInput{
		ProductID: prodAID, StorageID: storageID, Quantity: 3,
		ActorID: actorID, BusinessID: bizID,
	})
	require.NoError(t, err)
	f.approvedOrder(t, entity.MovementOrderTypeSalida)

	_, err = f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID: "order-1",
		Lines: []stock.LineItem{
			{EAN: "1111", SKU: "SKU-A", Quantity: 5, Location: "R1/A1/3"},
		},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 3, f.stockAmount(prodAID), "el stock sembrado queda intacto")
	assert.Equal(t, entity.MovementOrderStateAprobado, f.store.Orders["order-1"].State)
}

// "Parcial" es una etiqueta terminal que asevera el caller; el batch que la
// acompaña se aplica entero igual que con "Completado".
func TestCompleteOrder_ParcialEsEtiquetaNoCommitParcial(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	res, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID: "order-1",
		Lines: []stock.LineItem{
			{EAN: "1111", SKU: "SKU-A", Quantity: 8, Location: "R1/A1/1"},
		},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateParcial,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementOrderStateParcial, res.State)
	assert.Equal(t, entity.MovementOrderStateParcial, f.store.Orders["order-1"].State)
	assert.Equal(t, 8, f.stockAmount(prodAID), "todas las líneas impactan aunque el estado sea Parcial")
}

func TestCompleteOrder_EstadoFinalNoTerminalRechazado(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	for _, state := range []string{
		entity.MovementOrderStatePendiente,
		entity.MovementOrderStateAprobado,
		entity.MovementOrderStateEnRevision,
		"cualquier-cosa",
	} {
		_, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
			OrderID:     "order-1",
			Lines:       []stock.LineItem{{EAN: "1111", SKU: "SKU-A", Quantity: 1, Location: "R1/A1/1"}},
			ActorID:     actorID,
			TargetState: state,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "targetState %q debe rechazarse", state)
	}
}

func TestCompleteOrder_ParametrosFaltantes(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	line := stock.LineItem{EAN: "1111", SKU: "SKU-A", Quantity: 1, Location: "R1/A1/1"}
	cases := []struct {
		name string
		in   movementorder.CompleteOrderInput
	}{
		{"sin orderId", movementorder.CompleteOrderInput{Lines: []stock.LineItem{line}, ActorID: actorID, TargetState: entity.MovementOrderStateCompletado}},
		{"sin líneas", movementorder.CompleteOrderInput{OrderID: "order-1", ActorID: actorID, TargetState: entity.MovementOrderStateCompletado}},
		{"sin actor", movementorder.CompleteOrderInput{OrderID: "order-1", Lines: []stock.LineItem{line}, TargetState: entity.MovementOrderStateCompletado}},
		{"sin targetState", movementorder.CompleteOrderInput{OrderID: "order-1", Lines: []stock.LineItem{line}, ActorID: actorID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CompleteOrder(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrMissingParameter)
		})
	}
}

func TestCompleteOrder_SoloDesdeAprobado(t *testing.T) {
	f := newFixture(t)
	order := f.approvedOrder(t, entity.MovementOrderTypeEntrada)
	order.State = entity.MovementOrderStateCompletado

	_, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID:     order.ID,
		Lines:       []stock.LineItem{{EAN: "1111", SKU: "SKU-A", Quantity: 1, Location: "R1/A1/1"}},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"una orden terminal no admite una segunda reconciliación")
}

// racingTxRunner delega en el FakeTxRunner pero ejecuta between() una única
// vez, justo antes del primer cuerpo transaccional: simula otra completación
// que se cuela entre el chequeo de estado del caller y su transacción.
type racingTxRunner struct {
	inner   *testutil.FakeTxRunner
	between func()
	fired   bool
}

func (r *racingTxRunner) RunReconciliation(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	storageRepo repository.StorageRepository,
	orderRepo repository.MovementOrderRepository,
) error) error {
	if !r.fired {
		r.fired = true
		r.between()
	}
	return r.inner.RunReconciliation(ctx, fn)
}

// Dos completaciones de la misma orden: ambas pasan el chequeo de estado
// previo, pero la re-verificación bajo lock dentro de la transacción garantiza
// que el batch impacta una sola vez.
func TestCompleteOrder_CompletacionConcurrenteAplicaUnaSolaVez(t *testing.T) {
	s := testutil.NewMemStore()
	s.Businesses[bizID] = &entity.Business{ID: bizID, Name: "Acme"}
	s.Products[prodAID] = &entity.Product{
		ID: prodAID, BusinessID: bizID, EAN: "1111", SKU: "SKU-A",
		Name: "Producto A", Status: entity.ProductStatusEmptyStock,
	}
	s.Storages[storageID] = &entity.Storage{ID: storageID, Rag: "R1", Site: "A1", Positions: 10}
	now := time.Now()
	s.Orders["order-1"] = &entity.MovementOrder{
		ID: "order-1", BusinessID: bizID, Date: now,
		Type:      entity.MovementOrderTypeEntrada,
		State:     entity.MovementOrderStateAprobado,
		SheetFile: "uploads/planilla.xlsx", Remittance: "uploads/remito.pdf",
		CreatedAt: now, UpdatedAt: now,
	}

	inner := testutil.NewFakeTxRunner(s)
	ledger := stock.NewLedger(inner, &testutil.MemStorageRepo{S: s})
	racing := &racingTxRunner{inner: inner}
	uc := movementorder.NewUseCase(racing, ledger, &testutil.MemMovementOrderRepo{S: s}, &testutil.MemBusinessRepo{S: s})

	in := movementorder.CompleteOrderInput{
		OrderID:     "order-1",
		Lines:       []stock.LineItem{{EAN: "1111", SKU: "SKU-A", Quantity: 10, Location: "R1/A1/3"}},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	}

	var secondErr error
	racing.between = func() {
		_, secondErr = uc.CompleteOrder(context.Background(), in)
	}

	_, firstErr := uc.CompleteOrder(context.Background(), in)

	require.NoError(t, secondErr, "la completación que llega primero a la transacción gana")
	assert.ErrorIs(t, firstErr, domain.ErrInvalidState)
	assert.Contains(t, firstErr.Error(), entity.MovementOrderStateCompletado)

	// El batch impactó exactamente una vez.
	assert.Equal(t, 10, s.Products[prodAID].TotalStock)
	assert.Len(t, s.Movements, 1)
	assert.Equal(t, entity.MovementOrderStateCompletado, s.Orders["order-1"].State)
}

func TestCompleteOrder_OrdenInexistente(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID:     "no-existe",
		Lines:       []stock.LineItem{{EAN: "1111", SKU: "SKU-A", Quantity: 1, Location: "R1/A1/1"}},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteOrder_NoTocaStock(t *testing.T) {
	f := newFixture(t)
	f.approvedOrder(t, entity.MovementOrderTypeEntrada)

	res, err := f.uc.CompleteOrder(context.Background(), movementorder.CompleteOrderInput{
		OrderID:     "order-1",
		Lines:       []stock.LineItem{{EAN: "1111", SKU: "SKU-A", Quantity: 6, Location: "R1/A1/1"}},
		ActorID:     actorID,
		TargetState: entity.MovementOrderStateCompletado,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.SuccessCount)

	require.NoError(t, f.uc.DeleteOrder(context.Background(), "order-1"))
	assert.NotContains(t, f.store.Orders, "order-1")
	assert.Equal(t, 6, f.stockAmount(prodAID), "borrar la orden no revierte su impacto en stock")
}
