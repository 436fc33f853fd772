package repository

import (
	"context"
	"time"

	"github.com/farmavita/inventario-api/internal/domain/entity"
)

// InventoryRepository define el puerto de persistencia para Inventory (DIP).
// Los lookups puntuales devuelven domain.ErrNotFound cuando el registro no
// existe: nunca un nil con error nil.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila del inventario dentro de la transacción
	// actual (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error)
	Update(ctx context.Context, inv *entity.Inventory) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context) ([]*entity.Inventory, error)
	// ListPaginated filtra por término de búsqueda sobre el nombre y ordena por
	// nombre (asc/desc) con el ID como desempate estable. Devuelve también el
	// total sin paginar.
	ListPaginated(ctx context.Context, searchTerm string, sortAscending bool, limit, offset int) ([]*entity.Inventory, int, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Inventory, error)
	ListByBranch(ctx context.Context, branchID string) ([]*entity.Inventory, error)

	// ExistsForProduct verifica si ya hay un inventario con ese nombre
	// (case-insensitive) en el alcance del producto, excluyendo excludeID
	// cuando se trata de un rename.
	ExistsForProduct(ctx context.Context, productID *string, name string, excludeID string) (bool, error)

	// SetQuantity sobreescribe el agregado del inventario directamente
	// (SetStock a nivel de inventario, sin desglose por líneas).
	SetQuantity(ctx context.Context, id string, quantity int64, at time.Time) error

	// RecomputeAggregate recalcula Quantity como la suma de sus registros de
	// stock y actualiza UpdatedAt; devuelve el nuevo agregado. Debe ejecutarse
	// dentro de la misma transacción que la mutación que lo dispara.
	RecomputeAggregate(ctx context.Context, id string, at time.Time) (int64, error)
}
