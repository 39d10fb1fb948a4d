package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

var _ repository.MovementOrderRepository = (*MovementOrderRepo)(nil)

const movementOrderColumns = `id, business_id, date, reception_date, type, state, sheet_file, remittance, created_at, updated_at`

// MovementOrderRepo implementación del puerto MovementOrderRepository sobre
// PostgreSQL (usable con pool o tx).
type MovementOrderRepo struct {
	q Querier
}

// NewMovementOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementOrderRepository(q Querier) *MovementOrderRepo {
	return &MovementOrderRepo{q: q}
}

func scanMovementOrder(row pgx.Row) (*entity.MovementOrder, error) {
	var o entity.MovementOrder
	err := row.Scan(
		&o.ID, &o.BusinessID, &o.Date, &o.ReceptionDate, &o.Type, &o.State,
		&o.SheetFile, &o.Remittance, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movement order: %w", err)
	}
	return &o, nil
}

// Create persiste una orden nueva.
func (r *MovementOrderRepo) Create(order *entity.MovementOrder) error {
	query := `
		INSERT INTO movement_orders (id, business_id, date, reception_date, type, state, sheet_file, remittance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.BusinessID, order.Date, order.ReceptionDate, order.Type,
		order.State, order.SheetFile, order.Remittance, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *MovementOrderRepo) GetByID(id string) (*entity.MovementOrder, error) {
	query := `SELECT ` + movementOrderColumns + ` FROM movement_orders WHERE id = $1`
	return scanMovementOrder(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene una orden bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *MovementOrderRepo) GetByIDForUpdate(id string) (*entity.MovementOrder, error) {
	query := `SELECT ` + movementOrderColumns + ` FROM movement_orders WHERE id = $1 FOR UPDATE`
	return scanMovementOrder(r.q.QueryRow(context.Background(), query, id))
}

// Update actualiza una orden existente.
func (r *MovementOrderRepo) Update(order *entity.MovementOrder) error {
	query := `
		UPDATE movement_orders
		SET reception_date = $2, state = $3, sheet_file = $4, remittance = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.ReceptionDate, order.State, order.SheetFile,
		order.Remittance, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement order: %w", err)
	}
	return nil
}

// UpdateState cambia solo el estado (participa en la transacción de
// reconciliación).
func (r *MovementOrderRepo) UpdateState(id, state string) error {
	query := `UPDATE movement_orders SET state = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, state)
	if err != nil {
		return fmt.Errorf("update movement order state: %w", err)
	}
	return nil
}

// ListByBusiness lista órdenes por business con paginación.
func (r *MovementOrderRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.MovementOrder, error) {
	query := `SELECT ` + movementOrderColumns + ` FROM movement_orders WHERE business_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.listOrders(query, businessID, limit, offset)
}

// ListByState lista órdenes por estado (vista admin).
func (r *MovementOrderRepo) ListByState(state string, limit, offset int) ([]*entity.MovementOrder, error) {
	query := `SELECT ` + movementOrderColumns + ` FROM movement_orders WHERE state = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.listOrders(query, state, limit, offset)
}

func (r *MovementOrderRepo) listOrders(query, key string, limit, offset int) ([]*entity.MovementOrder, error) {
	rows, err := r.q.Query(context.Background(), query, key, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movement orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementOrder
	for rows.Next() {
		var o entity.MovementOrder
		if err := rows.Scan(
			&o.ID, &o.BusinessID, &o.Date, &o.ReceptionDate, &o.Type, &o.State,
			&o.SheetFile, &o.Remittance, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Delete borra una orden (acción explícita de admin).
func (r *MovementOrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movement_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement order: %w", err)
	}
	return nil
}
