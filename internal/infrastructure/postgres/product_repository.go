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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, business_id, ean, sku, name, price, volume_type, weight, total_stock, reserved_stock, status, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.BusinessID, &p.EAN, &p.SKU, &p.Name, &p.Price, &p.VolumeType,
		&p.Weight, &p.TotalStock, &p.ReservedStock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// Create persiste un nuevo producto. TotalStock y ReservedStock inician en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, business_id, ean, sku, name, price, volume_type, weight, total_stock, reserved_stock, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.BusinessID, product.EAN, product.SKU, product.Name,
		product.Price, product.VolumeType, product.Weight,
		product.TotalStock, product.ReservedStock, product.Status,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.q.QueryRow(context.Background(), query, id))
}

// GetByBusinessEANSKU resuelve por la clave única (businessId, ean, sku).
func (r *ProductRepo) GetByBusinessEANSKU(businessID, ean, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1 AND ean = $2 AND sku = $3`
	return scanProduct(r.q.QueryRow(context.Background(), query, businessID, ean, sku))
}

// Update actualiza los datos comerciales del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, price = $3, volume_type = $4, weight = $5, status = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Price, product.VolumeType,
		product.Weight, product.Status, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// AdjustStockTotals suma delta a total_stock de forma atómica. Con delta
// negativo reduce reserved_stock acotado en cero (la reserva nunca queda
// negativa). El status sigue al total resultante: 0 -> EmptyStock; si
// recupera stock y estaba EmptyStock vuelve a Published (Hidden no se toca).
func (r *ProductRepo) AdjustStockTotals(productID string, delta int) (*entity.Product, error) {
	query := `
		UPDATE products
		SET total_stock = total_stock + $2,
		    reserved_stock = CASE WHEN $2 < 0 THEN GREATEST(reserved_stock + $2, 0) ELSE reserved_stock END,
		    status = CASE WHEN status = 'Hidden' THEN status
		                  WHEN total_stock + $2 <= 0 THEN 'EmptyStock'
		                  WHEN status = 'EmptyStock' THEN 'Published'
		                  ELSE status END,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	return scanProduct(r.q.QueryRow(context.Background(), query, productID, delta))
}

// ListByBusiness lista productos por business con paginación.
func (r *ProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.BusinessID, &p.EAN, &p.SKU, &p.Name, &p.Price, &p.VolumeType,
			&p.Weight, &p.TotalStock, &p.ReservedStock, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
