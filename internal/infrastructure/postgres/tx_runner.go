package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fulfila/stock-api/internal/application/movementorder"
	"github.com/fulfila/stock-api/internal/application/stock"
	"github.com/fulfila/stock-api/internal/domain/repository"
	"github.com/fulfila/stock-api/pkg/logger"
)

// Ensure TxRunner implements stock.TxRunner and movementorder.ReconciliationTxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ movementorder.ReconciliationTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log *logger.Logger) *TxRunner {
	return &TxRunner{pool: pool, log: log}
}

// rollback intenta revertir. Sobre una transacción ya finalizada (commit
// hecho o fallido) pgx devuelve ErrTxClosed: ese caso se ignora para no
// enmascarar la causa original; cualquier otro fallo de rollback solo se
// loguea, el caller siempre recibe el error primario.
func (r *TxRunner) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.log.Warn().Err(err).Msg("rollback de transacción falló")
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(movRepo, stockRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReconciliation inicia la transacción única de un batch de
// reconciliación, con los repos de stock más ubicaciones y órdenes.
func (r *TxRunner) RunReconciliation(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	storageRepo repository.StorageRepository,
	orderRepo repository.MovementOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer r.rollback(ctx, tx)

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockRepository(tx)
	productRepo := NewProductRepository(tx)
	storageRepo := NewStorageRepository(tx)
	orderRepo := NewMovementOrderRepository(tx)

	if err := fn(movRepo, stockRepo, productRepo, storageRepo, orderRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
