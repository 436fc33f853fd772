package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmavita/inventario-api/internal/domain/entity"
)

// LowStockRecordRow línea inventario-producto bajo su umbral mínimo,
// enriquecida con datos del catálogo para el reporte.
type LowStockRecordRow struct {
	InventoryID   string
	InventoryName string
	ProductID     string
	ProductName   string
	Quantity      int64
	StockMin      *int64
	StockMax      *int64
}

// ExpiringRow línea con producto próximo a vencer y stock disponible.
type ExpiringRow struct {
	InventoryID    string
	InventoryName  string
	ProductID      string
	ProductName    string
	Quantity       int64
	ExpirationDate time.Time
}

// InventoryStats estadísticas de un inventario: conteos por estado de stock y
// valor monetario Σ(cantidad × precio de compra) sobre líneas con precio conocido.
type InventoryStats struct {
	InventoryID    string
	TotalLineItems int
	TotalQuantity  int64
	BelowMinimum   int
	AtZero         int
	AboveMaximum   int
	TotalValue     decimal.Decimal
}

// GlobalStats estadísticas agregadas sobre todos los inventarios.
type GlobalStats struct {
	TotalInventories int
	TotalStock       int64
	LowStock         int
	OutOfStock       int
	HighStock        int
	NormalStock      int
}

// StockReportRepository define el puerto de consultas de solo lectura sobre el
// estado del stock. Nunca muta; puede leer instantáneas sin aislamiento
// transaccional.
type StockReportRepository interface {
	// LowStockInventories: cantidad <= stock mínimo, orden cantidad asc y
	// nombre como desempate estable.
	LowStockInventories(ctx context.Context) ([]*entity.Inventory, error)
	// OutOfStockInventories: cantidad en cero, orden por nombre.
	OutOfStockInventories(ctx context.Context) ([]*entity.Inventory, error)
	// HighStockInventories: cantidad >= stock máximo, orden cantidad asc y nombre.
	HighStockInventories(ctx context.Context) ([]*entity.Inventory, error)

	// LowStockRecords: líneas bajo su mínimo propio, global o acotado a un
	// inventario (inventoryID vacío = global).
	LowStockRecords(ctx context.Context, inventoryID string) ([]LowStockRecordRow, error)

	// ExpiringSoon: líneas con cantidad > 0 cuyo producto vence dentro de la
	// ventana, orden por fecha de vencimiento y nombre.
	ExpiringSoon(ctx context.Context, until time.Time) ([]ExpiringRow, error)

	// TopMoved: los top K inventarios por cantidad actual, descendente.
	// Aproximación a falta de un libro de movimientos.
	TopMoved(ctx context.Context, top int) ([]*entity.Inventory, error)

	InventoryStats(ctx context.Context, inventoryID string) (*InventoryStats, error)
	GlobalStats(ctx context.Context) (*GlobalStats, error)
}
