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

var _ repository.StorageRepository = (*StorageRepo)(nil)

const storageColumns = `id, rag, site, positions, current_capacity, total_capacity, disabled, created_at, updated_at`

// StorageRepo implementación del puerto StorageRepository sobre PostgreSQL
// (usable con pool o tx).
type StorageRepo struct {
	q Querier
}

// NewStorageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStorageRepository(q Querier) *StorageRepo {
	return &StorageRepo{q: q}
}

func scanStorage(row pgx.Row) (*entity.Storage, error) {
	var s entity.Storage
	err := row.Scan(
		&s.ID, &s.Rag, &s.Site, &s.Positions, &s.CurrentCapacity,
		&s.TotalCapacity, &s.Disabled, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan storage: %w", err)
	}
	return &s, nil
}

// Create persiste una nueva ubicación; (rag, site) es clave única.
func (r *StorageRepo) Create(storage *entity.Storage) error {
	query := `
		INSERT INTO storages (id, rag, site, positions, current_capacity, total_capacity, disabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		storage.ID, storage.Rag, storage.Site, storage.Positions,
		storage.CurrentCapacity, storage.TotalCapacity, storage.Disabled,
		storage.CreatedAt, storage.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert storage: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *StorageRepo) GetByID(id string) (*entity.Storage, error) {
	query := `SELECT ` + storageColumns + ` FROM storages WHERE id = $1`
	return scanStorage(r.q.QueryRow(context.Background(), query, id))
}

// GetByRagSite resuelve por la clave única (rag, site).
func (r *StorageRepo) GetByRagSite(rag, site string) (*entity.Storage, error) {
	query := `SELECT ` + storageColumns + ` FROM storages WHERE rag = $1 AND site = $2`
	return scanStorage(r.q.QueryRow(context.Background(), query, rag, site))
}

// Update actualiza una ubicación existente.
func (r *StorageRepo) Update(storage *entity.Storage) error {
	query := `
		UPDATE storages
		SET positions = $2, current_capacity = $3, total_capacity = $4, disabled = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		storage.ID, storage.Positions, storage.CurrentCapacity,
		storage.TotalCapacity, storage.Disabled, storage.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}
	return nil
}

// List lista ubicaciones con paginación.
func (r *StorageRepo) List(limit, offset int) ([]*entity.Storage, error) {
	query := `SELECT ` + storageColumns + ` FROM storages ORDER BY rag, site LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list storages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Storage
	for rows.Next() {
		var s entity.Storage
		if err := rows.Scan(
			&s.ID, &s.Rag, &s.Site, &s.Positions, &s.CurrentCapacity,
			&s.TotalCapacity, &s.Disabled, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan storage: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
