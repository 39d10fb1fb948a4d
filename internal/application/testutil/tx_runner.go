package testutil

import (
	"context"

	"github.com/fulfila/stock-api/internal/domain/repository"
)

// FakeTxRunner simula la transacción sobre un MemStore: toma un snapshot
// antes del callback y, si este falla, repone el estado completo. Implementa
// stock.TxRunner y movementorder.ReconciliationTxRunner.
type FakeTxRunner struct {
	S *MemStore
}

// NewFakeTxRunner construye el runner sobre el store compartido.
func NewFakeTxRunner(s *MemStore) *FakeTxRunner {
	return &FakeTxRunner{S: s}
}

// Run ejecuta fn con los repos del ledger; revierte el store si fn falla.
func (r *FakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	snap := r.S.snapshot()
	err := fn(
		&MemMovementRepo{S: r.S},
		&MemStockRepo{S: r.S},
		&MemProductRepo{S: r.S},
	)
	if err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}

// RunReconciliation ejecuta fn con los cinco repos del motor de
// reconciliación; revierte el store si fn falla.
func (r *FakeTxRunner) RunReconciliation(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	storageRepo repository.StorageRepository,
	orderRepo repository.MovementOrderRepository,
) error) error {
	snap := r.S.snapshot()
	err := fn(
		&MemMovementRepo{S: r.S},
		&MemStockRepo{S: r.S},
		&MemProductRepo{S: r.S},
		&MemStorageRepo{S: r.S},
		&MemMovementOrderRepo{S: r.S},
	)
	if err != nil {
		r.S.restore(snap)
		return err
	}
	return nil
}
