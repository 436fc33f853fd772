package dto

import "time"

// AddProductRequest body para POST /api/inventories/:id/products.
type AddProductRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	StockMin  *int64 `json:"stock_min,omitempty"`
	StockMax  *int64 `json:"stock_max,omitempty"`
}

// SetQuantityRequest body para PUT /api/inventories/:id/products/:productId/quantity.
type SetQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// AdjustStockRequest body para POST /api/inventories/:id/adjust.
// Delta positivo suma, negativo resta; Reason queda en el log estructurado.
type AdjustStockRequest struct {
	Delta  int64  `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

// SetStockRequest body para POST /api/inventories/:id/stock.
type SetStockRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	FromInventoryID string `json:"from_inventory_id"`
	ToInventoryID   string `json:"to_inventory_id"`
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
}

// StockRecordResponse representación HTTP de una línea inventario-producto.
type StockRecordResponse struct {
	InventoryID string    `json:"inventory_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	StockMin    *int64    `json:"stock_min,omitempty"`
	StockMax    *int64    `json:"stock_max,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
