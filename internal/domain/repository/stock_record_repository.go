package repository

import (
	"context"

	"github.com/farmavita/inventario-api/internal/domain/entity"
)

// StockRecordRepository define el puerto de persistencia para las líneas
// inventario-producto. Clave compuesta (inventoryID, productID). Los lookups
// puntuales devuelven domain.ErrNotFound cuando la línea no existe.
type StockRecordRepository interface {
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transferencias concurrentes sobre el mismo par inventario-producto.
	GetForUpdate(ctx context.Context, inventoryID, productID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, rec *entity.StockRecord) error
	Delete(ctx context.Context, inventoryID, productID string) error

	ListByInventory(ctx context.Context, inventoryID string) ([]*entity.StockRecord, error)
	CountByInventory(ctx context.Context, inventoryID string) (int, error)
}
