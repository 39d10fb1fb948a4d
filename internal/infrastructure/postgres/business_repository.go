package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste un business nuevo.
func (r *BusinessRepo) Create(business *entity.Business) error {
	query := `
		INSERT INTO businesses (id, name, tax_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		business.ID, business.Name, business.TaxID, business.Email,
		business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un business por ID.
func (r *BusinessRepo) GetByID(id string) (*entity.Business, error) {
	query := `SELECT id, name, tax_id, email, created_at, updated_at FROM businesses WHERE id = $1`
	var b entity.Business
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.TaxID, &b.Email, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// List lista businesses con paginación.
func (r *BusinessRepo) List(limit, offset int) ([]*entity.Business, error) {
	query := `SELECT id, name, tax_id, email, created_at, updated_at FROM businesses ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Business
	for rows.Next() {
		var b entity.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.TaxID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
