package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación del puerto InventoryRepository sobre
// PostgreSQL. Acepta pool o tx (Querier).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de persistencia para inventarios.
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, name, product_id, quantity, stock_min, stock_max, updated_at`

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := row.Scan(&inv.ID, &inv.Name, &inv.ProductID, &inv.Quantity, &inv.StockMin, &inv.StockMax, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan inventory: %w", err)
	}
	return &inv, nil
}

// Create persiste un inventario nuevo. Un choque con el índice único de nombre
// por producto se reporta como violación de unicidad de nombre.
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventories (id, name, product_id, quantity, stock_min, stock_max, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Name, inv.ProductID, inv.Quantity, inv.StockMin, inv.StockMax, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewInvariantViolation(domain.RuleDuplicateName,
				"ya existe un inventario con este nombre para el producto asociado")
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// GetByID obtiene un inventario por ID.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventories WHERE id = $1`
	return scanInventory(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene el inventario bloqueando la fila (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventories WHERE id = $1 FOR UPDATE`
	return scanInventory(r.q.QueryRow(ctx, query, id))
}

// Update actualiza nombre, alcance de producto y umbrales.
func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventories
		SET name = $2, product_id = $3, stock_min = $4, stock_max = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.Name, inv.ProductID, inv.StockMin, inv.StockMax, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewInvariantViolation(domain.RuleDuplicateName,
				"ya existe un inventario con este nombre para el producto asociado")
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina físicamente el inventario.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.DependencyConflictError{Dependency: domain.DependencyStockRecords, Count: 1}
		}
		return fmt.Errorf("delete inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista todos los inventarios ordenados por nombre.
func (r *InventoryRepo) List(ctx context.Context) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventories ORDER BY name`
	return r.queryList(ctx, query)
}

// ListPaginated filtra por término en el nombre, ordena por nombre (con el ID
// como desempate estable) y devuelve también el total sin paginar.
func (r *InventoryRepo) ListPaginated(ctx context.Context, searchTerm string, sortAscending bool, limit, offset int) ([]*entity.Inventory, int, error) {
	where := ``
	args := []any{}
	if searchTerm != "" {
		where = `WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, searchTerm)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM inventories ` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventories: %w", err)
	}

	order := `ORDER BY name ASC, id ASC`
	if !sortAscending {
		order = `ORDER BY name DESC, id DESC`
	}
	query := fmt.Sprintf(`SELECT %s FROM inventories %s %s LIMIT $%d OFFSET $%d`,
		inventoryColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	list, err := r.queryList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByProduct lista los inventarios cuyo alcance es el producto, por nombre.
func (r *InventoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventories WHERE product_id = $1 ORDER BY name`
	return r.queryList(ctx, query, productID)
}

// ListByBranch lista los inventarios asociados a una sucursal del registro externo.
func (r *InventoryRepo) ListByBranch(ctx context.Context, branchID string) ([]*entity.Inventory, error) {
	query := `
		SELECT i.id, i.name, i.product_id, i.quantity, i.stock_min, i.stock_max, i.updated_at
		FROM inventories i
		JOIN branches b ON b.inventory_id = i.id
		WHERE b.id = $1
		ORDER BY i.name`
	return r.queryList(ctx, query, branchID)
}

// ExistsForProduct verifica la unicidad de nombre (case-insensitive) dentro
// del alcance del producto, excluyendo excludeID en renames.
func (r *InventoryRepo) ExistsForProduct(ctx context.Context, productID *string, name string, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM inventories
			WHERE product_id IS NOT DISTINCT FROM $1
			  AND LOWER(name) = LOWER(TRIM($2))
			  AND ($3 = '' OR id <> $3)
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, productID, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists inventory name: %w", err)
	}
	return exists, nil
}

// SetQuantity sobreescribe el agregado del inventario directamente (SetStock
// sin desglose por líneas).
func (r *InventoryRepo) SetQuantity(ctx context.Context, id string, quantity int64, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE inventories SET quantity = $2, updated_at = $3 WHERE id = $1`,
		id, quantity, at,
	)
	if err != nil {
		return fmt.Errorf("set inventory quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecomputeAggregate recalcula el agregado como la suma de las líneas del
// inventario (fuente de verdad) y devuelve el nuevo total. Misma transacción
// que la mutación que lo dispara.
func (r *InventoryRepo) RecomputeAggregate(ctx context.Context, id string, at time.Time) (int64, error) {
	query := `
		UPDATE inventories
		SET quantity = (
			SELECT COALESCE(SUM(quantity), 0)
			FROM inventory_stock
			WHERE inventory_id = $1
		), updated_at = $2
		WHERE id = $1
		RETURNING quantity`
	var total int64
	err := r.q.QueryRow(ctx, query, id, at).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("recompute inventory aggregate: %w", err)
	}
	return total, nil
}

func (r *InventoryRepo) queryList(ctx context.Context, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.ProductID, &inv.Quantity, &inv.StockMin, &inv.StockMax, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
