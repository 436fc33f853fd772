package entity

import "time"

// Inventory representa un contenedor de stock con nombre (bodega, estantería,
// inventario de sucursal). Quantity es el agregado derivado de sus registros de
// stock; la fuente de verdad es la suma de StockRecord.Quantity.
//
// ProductID es el alcance opcional del nombre: el nombre debe ser único
// (case-insensitive) entre los inventarios asociados al mismo producto. Las
// cantidades por producto viven siempre en StockRecord, nunca aquí.
type Inventory struct {
	ID        string
	Name      string
	ProductID *string // alcance de unicidad del nombre; nil = alcance global
	Quantity  int64   // agregado derivado, recalculado tras cada mutación
	StockMin  *int64  // umbral opcional; si ambos existen, StockMin < StockMax
	StockMax  *int64
	UpdatedAt time.Time
}

// HasThresholds indica si el inventario tiene ambos umbrales configurados.
func (i *Inventory) HasThresholds() bool {
	return i.StockMin != nil && i.StockMax != nil
}
