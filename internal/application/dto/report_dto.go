package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockRecordDTO línea bajo umbral mínimo (reporte).
type LowStockRecordDTO struct {
	InventoryID   string `json:"inventory_id"`
	InventoryName string `json:"inventory_name"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	Quantity      int64  `json:"quantity"`
	StockMin      *int64 `json:"stock_min,omitempty"`
	StockMax      *int64 `json:"stock_max,omitempty"`
}

// ExpiringItemDTO línea con producto próximo a vencer.
type ExpiringItemDTO struct {
	InventoryID    string    `json:"inventory_id"`
	InventoryName  string    `json:"inventory_name"`
	ProductID      string    `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Quantity       int64     `json:"quantity"`
	ExpirationDate time.Time `json:"expiration_date"`
	DaysLeft       int       `json:"days_left"`
}

// InventoryStatsDTO estadísticas de un inventario.
type InventoryStatsDTO struct {
	InventoryID    string          `json:"inventory_id"`
	TotalLineItems int             `json:"total_line_items"`
	TotalQuantity  int64           `json:"total_quantity"`
	BelowMinimum   int             `json:"below_minimum"`
	AtZero         int             `json:"at_zero"`
	AboveMaximum   int             `json:"above_maximum"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

// GlobalStatsDTO estadísticas agregadas de todos los inventarios.
type GlobalStatsDTO struct {
	TotalInventories int   `json:"total_inventories"`
	TotalStock       int64 `json:"total_stock"`
	LowStock         int   `json:"low_stock"`
	OutOfStock       int   `json:"out_of_stock"`
	HighStock        int   `json:"high_stock"`
	NormalStock      int   `json:"normal_stock"`
}
