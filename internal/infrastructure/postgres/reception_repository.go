package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

var _ repository.ReceptionRepository = (*ReceptionRepo)(nil)

const receptionColumns = `id, business_id, date, reception_date, state, sheet_file, remittance, created_at, updated_at`

// ReceptionRepo implementación del puerto ReceptionRepository sobre PostgreSQL.
type ReceptionRepo struct {
	q Querier
}

// NewReceptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceptionRepository(q Querier) *ReceptionRepo {
	return &ReceptionRepo{q: q}
}

// Create persiste una recepción nueva.
func (r *ReceptionRepo) Create(reception *entity.Reception) error {
	query := `
		INSERT INTO receptions (id, business_id, date, reception_date, state, sheet_file, remittance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		reception.ID, reception.BusinessID, reception.Date, reception.ReceptionDate,
		reception.State, reception.SheetFile, reception.Remittance,
		reception.CreatedAt, reception.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reception: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *ReceptionRepo) GetByID(id string) (*entity.Reception, error) {
	query := `SELECT ` + receptionColumns + ` FROM receptions WHERE id = $1`
	var rec entity.Reception
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.BusinessID, &rec.Date, &rec.ReceptionDate, &rec.State,
		&rec.SheetFile, &rec.Remittance, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reception: %w", err)
	}
	return &rec, nil
}

// Update actualiza una recepción existente.
func (r *ReceptionRepo) Update(reception *entity.Reception) error {
	query := `
		UPDATE receptions
		SET reception_date = $2, state = $3, sheet_file = $4, remittance = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		reception.ID, reception.ReceptionDate, reception.State,
		reception.SheetFile, reception.Remittance, reception.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reception: %w", err)
	}
	return nil
}

// ListByBusiness lista recepciones por business con paginación.
func (r *ReceptionRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Reception, error) {
	query := `SELECT ` + receptionColumns + ` FROM receptions WHERE business_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list receptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reception
	for rows.Next() {
		var rec entity.Reception
		if err := rows.Scan(
			&rec.ID, &rec.BusinessID, &rec.Date, &rec.ReceptionDate, &rec.State,
			&rec.SheetFile, &rec.Remittance, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reception: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
