package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/application/testutil"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: un business con un producto y dos ubicaciones.
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID      = "biz-1"
	productID  = "prod-1"
	storageAID = "storage-a"
	storageBID = "storage-b"
	actorID    = "user-1"
)

func newLedgerFixture(t *testing.T) (*stock.Ledger, *testutil.MemStore) {
	t.Helper()
	s := testutil.NewMemStore()
	s.Businesses[bizID] = &entity.Business{ID: bizID, Name: "Acme"}
	s.Products[productID] = &entity.Product{
		ID:         productID,
		BusinessID: bizID,
		EAN:        "7791234567890",
		SKU:        "SKU-1",
		Name:       "Caja de tornillos",
		Status:     entity.ProductStatusEmptyStock,
	}
	s.Storages[storageAID] = &entity.Storage{ID: storageAID, Rag: "R1", Site: "A1", Positions: 10}
	s.Storages[storageBID] = &entity.Storage{ID: storageBID, Rag: "R1", Site: "B1", Positions: 10}

	ledger := stock.NewLedger(testutil.NewFakeTxRunner(s), &testutil.MemStorageRepo{S: s})
	return ledger, s
}

func ingress(t *testing.T, ledger *stock.Ledger, qty int) *stock.MovementResult {
	t.Helper()
	res, err := ledger.Ingress(context.Background(), stock.MovementInput{
		ProductID:  productID,
		StorageID:  storageAID,
		Quantity:   qty,
		ActorID:    actorID,
		BusinessID: bizID,
	})
	require.NoError(t, err)
	return res
}

// totalAmount suma Stock.Amount del producto en todas las ubicaciones.
func totalAmount(s *testutil.MemStore) int {
	total := 0
	for _, st := range s.Stocks {
		if st.ProductID == productID {
			total += st.Amount
		}
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Ingress
// ──────────────────────────────────────────────────────────────────────────────

func TestIngress_PrimerIngresoCreaFila(t *testing.T) {
	ledger, s := newLedgerFixture(t)

	res := ingress(t, ledger, 10)

	assert.Equal(t, 10, res.Stock.Amount)
	assert.Equal(t, 10, res.Stock.Enabled)
	assert.True(t, res.Stock.IsFull)
	assert.Equal(t, 10, res.Product.TotalStock)
	assert.Equal(t, entity.ProductStatusPublished, res.Product.Status,
		"el producto debe salir de EmptyStock al primer ingreso")
	assert.Equal(t, entity.MovementTypeIngreso, res.Movement.Type)
	assert.Equal(t, 10, res.Movement.Quantity)
	assert.Len(t, s.Movements, 1)
}

func TestIngress_IngresoRepetidoAcumula(t *testing.T) {
	ledger, s := newLedgerFixture(t)

	first := ingress(t, ledger, 10)
	second := ingress(t, ledger, 5)

	assert.Equal(t, first.Stock.ID, second.Stock.ID,
		"el segundo ingreso debe reutilizar la fila (producto, ubicación)")
	assert.Equal(t, 15, second.Stock.Amount)
	assert.Equal(t, 15, second.Product.TotalStock)
	assert.Len(t, s.Movements, 2)
}

func TestIngress_CantidadInvalida(t *testing.T) {
	ledger, _ := newLedgerFixture(t)

	_, err := ledger.Ingress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 0,
		ActorID: actorID, BusinessID: bizID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestIngress_UbicacionInexistente(t *testing.T) {
	ledger, _ := newLedgerFixture(t)

	_, err := ledger.Ingress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: "no-existe", Quantity: 3,
		ActorID: actorID, BusinessID: bizID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Egress
// ──────────────────────────────────────────────────────────────────────────────

func TestEgress_DescuentaYRegistraMovimiento(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	ingress(t, ledger, 10)

	res, err := ledger.Egress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 4,
		ActorID: actorID, BusinessID: bizID,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Stock.Amount)
	assert.Equal(t, 6, res.Stock.Enabled)
	assert.Equal(t, 6, res.Product.TotalStock)
	assert.Equal(t, entity.MovementTypeEgreso, res.Movement.Type)
	assert.Equal(t, 4, res.Movement.Quantity,
		"la cantidad del movimiento se guarda positiva; el tipo lleva la dirección")
	assert.Len(t, s.Movements, 2)
}

func TestEgress_StockInsuficiente(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	ingress(t, ledger, 3)

	_, err := ledger.Egress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 5,
		ActorID: actorID, BusinessID: bizID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)

	// El estado no debe haber cambiado: la transacción se revierte.
	assert.Equal(t, 3, totalAmount(s))
	assert.Equal(t, 3, s.Products[productID].TotalStock)
	assert.Len(t, s.Movements, 1, "el egreso fallido no debe registrar movimiento")
}

func TestEgress_SinFilaDeStock(t *testing.T) {
	ledger, _ := newLedgerFixture(t)

	_, err := ledger.Egress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 1,
		ActorID: actorID, BusinessID: bizID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEgress_ACeroDejaLaFilaYMarcaEmptyStock(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	res := ingress(t, ledger, 7)
	stockID := res.Stock.ID

	out, err := ledger.Egress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 7,
		ActorID: actorID, BusinessID: bizID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.Stock.Amount)
	assert.False(t, out.Stock.IsFull)
	require.Contains(t, s.Stocks, stockID, "la fila en cero se conserva, no se borra")
	assert.Equal(t, 0, s.Stocks[stockID].Amount)
	assert.Equal(t, entity.ProductStatusEmptyStock, out.Product.Status)
}

// Hidden lo maneja el operador: los movimientos de stock nunca lo cambian,
// ni al vaciarse el total ni al recuperarse.
func TestLedger_ProductoHiddenNoCambiaDeStatus(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	ingress(t, ledger, 7)
	s.Products[productID].Status = entity.ProductStatusHidden

	out, err := ledger.Egress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 7,
		ActorID: actorID, BusinessID: bizID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Product.TotalStock)
	assert.Equal(t, entity.ProductStatusHidden, out.Product.Status,
		"vaciar el stock no marca EmptyStock sobre un producto oculto")

	res := ingress(t, ledger, 3)
	assert.Equal(t, entity.ProductStatusHidden, res.Product.Status,
		"recuperar stock tampoco publica un producto oculto")
}

func TestEgress_AcotaReservaEnCero(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	ingress(t, ledger, 10)
	s.Products[productID].ReservedStock = 2

	out, err := ledger.Egress(context.Background(), stock.MovementInput{
		ProductID: productID, StorageID: storageAID, Quantity: 5,
		ActorID: actorID, BusinessID: bizID,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Product.ReservedStock,
		"la reserva se reduce con el egreso pero nunca queda negativa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveEntreUbicaciones(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	res := ingress(t, ledger, 10)

	out, err := ledger.Transfer(context.Background(), stock.TransferInput{
		Date:        time.Now(),
		Quantity:    4,
		FromStockID: res.Stock.ID,
		ToStorageID: storageBID,
		ActorID:     actorID,
		BusinessID:  bizID,
	})
	require.NoError(t, err)
	require.Len(t, out.Stocks, 2)
	require.Len(t, out.Movements, 2)

	origin, dest := out.Stocks[0], out.Stocks[1]
	assert.Equal(t, 6, origin.Amount)
	assert.Equal(t, 4, dest.Amount)
	assert.Equal(t, storageBID, dest.StorageID)

	// Conservación: una transferencia no cambia el total del producto.
	assert.Equal(t, 10, totalAmount(s))
	assert.Equal(t, 10, s.Products[productID].TotalStock)

	for _, m := range out.Movements {
		assert.Equal(t, entity.MovementTypeTransferencia, m.Type)
		assert.Equal(t, 4, m.Quantity)
	}
}

func TestTransfer_MismaUbicacion(t *testing.T) {
	ledger, _ := newLedgerFixture(t)
	res := ingress(t, ledger, 10)

	_, err := ledger.Transfer(context.Background(), stock.TransferInput{
		Quantity:    2,
		FromStockID: res.Stock.ID,
		ToStorageID: storageAID,
		ActorID:     actorID,
		BusinessID:  bizID,
	})
	assert.ErrorIs(t, err, domain.ErrSameStorage)
}

func TestTransfer_CantidadMayorAlOrigen(t *testing.T) {
	ledger, s := newLedgerFixture(t)
	res := ingress(t, ledger, 3)

	_, err := ledger.Transfer(context.Background(), stock.TransferInput{
		Quantity:    5,
		FromStockID: res.Stock.ID,
		ToStorageID: storageBID,
		ActorID:     actorID,
		BusinessID:  bizID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, totalAmount(s), "la transferencia fallida no debe mover nada")
}
