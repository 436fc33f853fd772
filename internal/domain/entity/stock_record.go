package entity

import "time"

// StockRecord es la línea que une un producto con un inventario (tabla
// intermedia inventario-producto). Clave compuesta (InventoryID, ProductID):
// a lo sumo un registro por par. Quantity nunca es negativa.
type StockRecord struct {
	InventoryID string
	ProductID   string
	Quantity    int64
	StockMin    *int64 // umbrales propios de la línea, independientes del inventario
	StockMax    *int64
	UpdatedAt   time.Time
}

// HasThresholds indica si la línea tiene ambos umbrales configurados.
func (s *StockRecord) HasThresholds() bool {
	return s.StockMin != nil && s.StockMax != nil
}
