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

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL
// (tabla inventory_stock, clave compuesta inventario-producto). Usable con
// pool o tx (Querier).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador de líneas de stock.
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `inventory_id, product_id, quantity, stock_min, stock_max, updated_at`

func scanStockRecord(row pgx.Row) (*entity.StockRecord, error) {
	var rec entity.StockRecord
	err := row.Scan(&rec.InventoryID, &rec.ProductID, &rec.Quantity, &rec.StockMin, &rec.StockMax, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan stock record: %w", err)
	}
	return &rec, nil
}

// GetForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
// Serializa transferencias concurrentes sobre el mismo par.
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, inventoryID, productID string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + `
		FROM inventory_stock WHERE inventory_id = $1 AND product_id = $2
		FOR UPDATE`
	return scanStockRecord(r.q.QueryRow(ctx, query, inventoryID, productID))
}

// Upsert inserta o actualiza la línea (por inventario y producto).
func (r *StockRecordRepo) Upsert(ctx context.Context, rec *entity.StockRecord) error {
	query := `
		INSERT INTO inventory_stock (inventory_id, product_id, quantity, stock_min, stock_max, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (inventory_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity,
		              stock_min = EXCLUDED.stock_min,
		              stock_max = EXCLUDED.stock_max,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		rec.InventoryID, rec.ProductID, rec.Quantity, rec.StockMin, rec.StockMax, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// Delete elimina la línea completa.
func (r *StockRecordRepo) Delete(ctx context.Context, inventoryID, productID string) error {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM inventory_stock WHERE inventory_id = $1 AND product_id = $2`,
		inventoryID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByInventory lista las líneas de un inventario.
func (r *StockRecordRepo) ListByInventory(ctx context.Context, inventoryID string) ([]*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + `
		FROM inventory_stock WHERE inventory_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var rec entity.StockRecord
		if err := rows.Scan(&rec.InventoryID, &rec.ProductID, &rec.Quantity, &rec.StockMin, &rec.StockMax, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// CountByInventory cuenta las líneas de un inventario (gate de eliminación).
func (r *StockRecordRepo) CountByInventory(ctx context.Context, inventoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_stock WHERE inventory_id = $1`, inventoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stock records: %w", err)
	}
	return count, nil
}
