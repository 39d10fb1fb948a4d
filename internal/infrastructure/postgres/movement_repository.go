package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, date, type, quantity, stock_id, storage_id, product_id, user_id, business_id, created_at`

// MovementRepo implementación del log de auditoría sobre PostgreSQL (usable
// con pool o tx). Solo inserta y lee: los movimientos nunca se actualizan
// ni se borran.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, date, type, quantity, stock_id, storage_id, product_id, user_id, business_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.Date, movement.Type, movement.Quantity,
		nullable(movement.StockID), nullable(movement.StorageID), nullable(movement.ProductID),
		nullable(movement.UserID), nullable(movement.BusinessID), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByProduct historial de un producto en un rango de fechas.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(`product_id = $1`, productID, from, to, limit, offset)
}

// ListByStorage historial de una ubicación en un rango de fechas.
func (r *MovementRepo) ListByStorage(storageID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(`storage_id = $1`, storageID, from, to, limit, offset)
}

// ListByBusiness historial de un business en un rango de fechas.
func (r *MovementRepo) ListByBusiness(businessID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(`business_id = $1`, businessID, from, to, limit, offset)
}

func (r *MovementRepo) list(where, key string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + where
	args := []any{key}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var stockID, storageID, productID, userID, businessID *string
		if err := rows.Scan(
			&m.ID, &m.Date, &m.Type, &m.Quantity,
			&stockID, &storageID, &productID, &userID, &businessID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.StockID = deref(stockID)
		m.StorageID = deref(storageID)
		m.ProductID = deref(productID)
		m.UserID = deref(userID)
		m.BusinessID = deref(businessID)
		list = append(list, &m)
	}
	return list, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
