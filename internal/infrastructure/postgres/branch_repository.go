package postgres

import (
	"context"
	"fmt"

	"github.com/farmavita/inventario-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo adaptador de solo lectura hacia el registro de sucursales.
// Solo se consulta para el gate de eliminación de inventarios.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador de sucursales.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

// CountByInventory cuenta las sucursales que referencian el inventario.
func (r *BranchRepo) CountByInventory(ctx context.Context, inventoryID string) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM branches WHERE inventory_id = $1`, inventoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count branches by inventory: %w", err)
	}
	return count, nil
}
