package dto

import "time"

// CreateInventoryRequest body para POST /api/inventories.
type CreateInventoryRequest struct {
	Name      string  `json:"name"`
	ProductID *string `json:"product_id,omitempty"` // alcance de unicidad del nombre
	StockMin  *int64  `json:"stock_min,omitempty"`
	StockMax  *int64  `json:"stock_max,omitempty"`
}

// UpdateInventoryRequest body para PUT /api/inventories/:id. Campos nil no se tocan.
type UpdateInventoryRequest struct {
	Name      *string `json:"name,omitempty"`
	ProductID *string `json:"product_id,omitempty"`
	StockMin  *int64  `json:"stock_min,omitempty"`
	StockMax  *int64  `json:"stock_max,omitempty"`
}

// InventoryResponse representación HTTP de un inventario.
type InventoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ProductID *string   `json:"product_id,omitempty"`
	Quantity  int64     `json:"quantity"`
	StockMin  *int64    `json:"stock_min,omitempty"`
	StockMax  *int64    `json:"stock_max,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InventoryListResponse listado paginado de inventarios.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
