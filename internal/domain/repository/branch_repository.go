package repository

import "context"

// BranchRepository define el puerto de solo lectura hacia el registro externo
// de sucursales. Solo se usa para verificar dependencias de eliminación.
type BranchRepository interface {
	// CountByInventory devuelve cuántas sucursales referencian el inventario.
	CountByInventory(ctx context.Context, inventoryID string) (int, error)
}
