package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, product_id, storage_id, amount, enabled, is_full, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). Los getters devuelven (nil, nil) cuando no hay fila: el ledger
// decide si crear o fallar.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	err := row.Scan(
		&s.ID, &s.ProductID, &s.StorageID, &s.Amount, &s.Enabled,
		&s.IsFull, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock: %w", err)
	}
	return &s, nil
}

// Get obtiene la fila de stock de un producto en una ubicación.
func (r *StockRepo) Get(productID, storageID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE product_id = $1 AND storage_id = $2`
	return scanStock(r.q.QueryRow(context.Background(), query, productID, storageID))
}

// GetForUpdate obtiene la fila y la bloquea para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(productID, storageID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE product_id = $1 AND storage_id = $2 FOR UPDATE`
	return scanStock(r.q.QueryRow(context.Background(), query, productID, storageID))
}

// GetByID obtiene una fila de stock por ID.
func (r *StockRepo) GetByID(id string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`
	return scanStock(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene la fila por ID y la bloquea para update.
func (r *StockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1 FOR UPDATE`
	return scanStock(r.q.QueryRow(context.Background(), query, id))
}

// Save inserta o actualiza la fila por (producto, ubicación).
func (r *StockRepo) Save(stock *entity.Stock) error {
	query := `
		INSERT INTO stocks (id, product_id, storage_id, amount, enabled, is_full, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id, storage_id)
		DO UPDATE SET amount = EXCLUDED.amount, enabled = EXCLUDED.enabled,
		              is_full = EXCLUDED.is_full, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		stock.ID, stock.ProductID, stock.StorageID, stock.Amount,
		stock.Enabled, stock.IsFull, stock.CreatedAt, stock.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	return nil
}

// ListByProduct lista las filas de stock de un producto en todas las
// ubicaciones.
func (r *StockRepo) ListByProduct(productID string) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE product_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(
			&s.ID, &s.ProductID, &s.StorageID, &s.Amount, &s.Enabled,
			&s.IsFull, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
