package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo adaptador de solo lectura hacia el catálogo de productos.
// Este núcleo nunca escribe en la tabla products.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador del catálogo.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto del catálogo.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, name, active, purchase_price, expiration_date
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Active, &p.PurchasePrice, &p.ExpirationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Search busca productos activos por nombre (para agregar a un inventario).
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, active, purchase_price, expiration_date
		FROM products
		WHERE active AND name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Active, &p.PurchasePrice, &p.ExpirationDate); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
