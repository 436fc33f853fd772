package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
)

var _ repository.StockReportRepository = (*StockReportRepo)(nil)

// StockReportRepo consultas de solo lectura sobre el estado del stock.
// Opera sobre el pool directamente: los reportes no requieren aislamiento
// transaccional y pueden leer instantáneas.
type StockReportRepo struct {
	pool *pgxpool.Pool
}

// NewStockReportRepository construye el adaptador de reportes.
func NewStockReportRepository(pool *pgxpool.Pool) *StockReportRepo {
	return &StockReportRepo{pool: pool}
}

// LowStockInventories inventarios con cantidad <= stock mínimo, orden por
// cantidad ascendente y nombre como desempate estable.
func (r *StockReportRepo) LowStockInventories(ctx context.Context) ([]*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories
		WHERE stock_min IS NOT NULL AND quantity <= stock_min
		ORDER BY quantity ASC, name ASC`
	return r.queryInventories(ctx, "low stock", query)
}

// OutOfStockInventories inventarios con cantidad en cero, orden por nombre.
func (r *StockReportRepo) OutOfStockInventories(ctx context.Context) ([]*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories
		WHERE quantity = 0
		ORDER BY name ASC`
	return r.queryInventories(ctx, "out of stock", query)
}

// HighStockInventories inventarios con cantidad >= stock máximo.
func (r *StockReportRepo) HighStockInventories(ctx context.Context) ([]*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories
		WHERE stock_max IS NOT NULL AND quantity >= stock_max
		ORDER BY quantity ASC, name ASC`
	return r.queryInventories(ctx, "high stock", query)
}

// LowStockRecords líneas bajo su mínimo propio, enriquecidas con nombres del
// inventario y del producto. inventoryID vacío = todas.
func (r *StockReportRepo) LowStockRecords(ctx context.Context, inventoryID string) ([]repository.LowStockRecordRow, error) {
	query := `
		SELECT s.inventory_id, i.name, s.product_id, p.name, s.quantity, s.stock_min, s.stock_max
		FROM inventory_stock s
		JOIN inventories i ON i.id = s.inventory_id
		JOIN products    p ON p.id = s.product_id
		WHERE s.stock_min IS NOT NULL
		  AND s.quantity <= s.stock_min
		  AND ($1 = '' OR s.inventory_id = $1)
		ORDER BY s.quantity ASC, p.name ASC`
	rows, err := r.pool.Query(ctx, query, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("report.LowStockRecords: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockRecordRow
	for rows.Next() {
		var row repository.LowStockRecordRow
		if err := rows.Scan(&row.InventoryID, &row.InventoryName, &row.ProductID, &row.ProductName,
			&row.Quantity, &row.StockMin, &row.StockMax); err != nil {
			return nil, fmt.Errorf("scan low stock record: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ExpiringSoon líneas con cantidad > 0 cuyo producto vence en o antes del
// límite, orden por fecha de vencimiento y nombre.
func (r *StockReportRepo) ExpiringSoon(ctx context.Context, until time.Time) ([]repository.ExpiringRow, error) {
	query := `
		SELECT s.inventory_id, i.name, s.product_id, p.name, s.quantity, p.expiration_date
		FROM inventory_stock s
		JOIN inventories i ON i.id = s.inventory_id
		JOIN products    p ON p.id = s.product_id
		WHERE p.expiration_date IS NOT NULL
		  AND p.expiration_date <= $1
		  AND s.quantity > 0
		ORDER BY p.expiration_date ASC, p.name ASC`
	rows, err := r.pool.Query(ctx, query, until)
	if err != nil {
		return nil, fmt.Errorf("report.ExpiringSoon: %w", err)
	}
	defer rows.Close()
	var out []repository.ExpiringRow
	for rows.Next() {
		var row repository.ExpiringRow
		if err := rows.Scan(&row.InventoryID, &row.InventoryName, &row.ProductID, &row.ProductName,
			&row.Quantity, &row.ExpirationDate); err != nil {
			return nil, fmt.Errorf("scan expiring row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// TopMoved los top K inventarios por cantidad actual descendente. Aproximación
// mientras no exista un libro de movimientos.
func (r *StockReportRepo) TopMoved(ctx context.Context, top int) ([]*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventories
		WHERE quantity > 0
		ORDER BY quantity DESC
		LIMIT $1`
	return r.queryInventories(ctx, "top moved", query, top)
}

// InventoryStats conteos por estado de stock y valor monetario
// Σ(cantidad × precio de compra) sobre líneas con precio conocido.
func (r *StockReportRepo) InventoryStats(ctx context.Context, inventoryID string) (*repository.InventoryStats, error) {
	// Verifica existencia primero: un inventario sin líneas tiene estadísticas
	// en cero, no un not-found.
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventories WHERE id = $1)`, inventoryID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("report.InventoryStats exists: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	query := `
		SELECT
		    COUNT(*)                                                            AS total_line_items,
		    COALESCE(SUM(s.quantity), 0)                                        AS total_quantity,
		    COUNT(*) FILTER (WHERE s.stock_min IS NOT NULL
		                       AND s.quantity <= s.stock_min)                   AS below_minimum,
		    COUNT(*) FILTER (WHERE s.quantity = 0)                              AS at_zero,
		    COUNT(*) FILTER (WHERE s.stock_max IS NOT NULL
		                       AND s.quantity >= s.stock_max)                   AS above_maximum,
		    COALESCE(SUM(s.quantity * p.purchase_price)
		             FILTER (WHERE p.purchase_price IS NOT NULL), 0)            AS total_value
		FROM inventory_stock s
		JOIN products p ON p.id = s.product_id
		WHERE s.inventory_id = $1`
	stats := repository.InventoryStats{InventoryID: inventoryID}
	err := r.pool.QueryRow(ctx, query, inventoryID).Scan(
		&stats.TotalLineItems, &stats.TotalQuantity, &stats.BelowMinimum,
		&stats.AtZero, &stats.AboveMaximum, &stats.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("report.InventoryStats: %w", err)
	}
	return &stats, nil
}

// GlobalStats conteos agregados por estado sobre todos los inventarios.
func (r *StockReportRepo) GlobalStats(ctx context.Context) (*repository.GlobalStats, error) {
	query := `
		SELECT
		    COUNT(*)                                                            AS total_inventories,
		    COALESCE(SUM(quantity), 0)                                          AS total_stock,
		    COUNT(*) FILTER (WHERE stock_min IS NOT NULL
		                       AND quantity <= stock_min)                       AS low_stock,
		    COUNT(*) FILTER (WHERE quantity = 0)                                AS out_of_stock,
		    COUNT(*) FILTER (WHERE stock_max IS NOT NULL
		                       AND quantity >= stock_max)                       AS high_stock,
		    COUNT(*) FILTER (WHERE (stock_min IS NULL OR quantity > stock_min)
		                       AND (stock_max IS NULL OR quantity < stock_max)
		                       AND quantity > 0)                                AS normal_stock
		FROM inventories`
	var stats repository.GlobalStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalInventories, &stats.TotalStock, &stats.LowStock,
		&stats.OutOfStock, &stats.HighStock, &stats.NormalStock,
	)
	if err != nil {
		return nil, fmt.Errorf("report.GlobalStats: %w", err)
	}
	return &stats, nil
}

func (r *StockReportRepo) queryInventories(ctx context.Context, label, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.%s: %w", label, err)
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
