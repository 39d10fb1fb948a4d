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

func newQueryFixture(t *testing.T) (*stock.Ledger, *stock.Query, *testutil.MemStore) {
	t.Helper()
	ledger, s := newLedgerFixture(t)
	query := stock.NewQuery(&testutil.MemStockRepo{S: s}, &testutil.MemMovementRepo{S: s}, &testutil.MemProductRepo{S: s})
	return ledger, query, s
}

func TestStocksByProduct_DevuelveFilasDelProducto(t *testing.T) {
	ledger, query, _ := newQueryFixture(t)
	res := ingress(t, ledger, 10)
	_, err := ledger.Transfer(context.Background(), stock.TransferInput{
		Quantity:    4,
		FromStockID: res.Stock.ID,
		ToStorageID: storageBID,
		ActorID:     actorID,
		BusinessID:  bizID,
	})
	require.NoError(t, err)

	stocks, err := query.StocksByProduct(context.Background(), bizID, productID)
	require.NoError(t, err)
	assert.Len(t, stocks, 2, "una fila por ubicación con existencia")
}

func TestStocksByProduct_OtroBusinessProhibido(t *testing.T) {
	ledger, query, _ := newQueryFixture(t)
	ingress(t, ledger, 3)

	_, err := query.StocksByProduct(context.Background(), "otro-business", productID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStocksByProduct_ProductoInexistente(t *testing.T) {
	_, query, _ := newQueryFixture(t)

	_, err := query.StocksByProduct(context.Background(), bizID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementsByBusiness_FiltraPorRangoDeFechas(t *testing.T) {
	ledger, query, s := newQueryFixture(t)
	ingress(t, ledger, 5)
	require.Len(t, s.Movements, 1)

	// Mover artificialmente la fecha del movimiento sembrado hacia el pasado.
	past := time.Now().Add(-48 * time.Hour)
	s.Movements[0].Date = past

	from := time.Now().Add(-1 * time.Hour)
	movements, err := query.MovementsByBusiness(context.Background(), bizID, &from, nil, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, movements, "el movimiento de hace dos días queda fuera del rango")

	wideFrom := time.Now().Add(-72 * time.Hour)
	movements, err = query.MovementsByBusiness(context.Background(), bizID, &wideFrom, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	assert.Equal(t, entity.MovementTypeIngreso, movements[0].Type)
}
