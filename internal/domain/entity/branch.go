package entity

// Branch representa una sucursal del registro externo. El motor de stock solo
// la consulta para verificar dependencias antes de eliminar un inventario.
type Branch struct {
	ID          string
	Name        string
	InventoryID *string // inventario asociado a la sucursal, si tiene
}
