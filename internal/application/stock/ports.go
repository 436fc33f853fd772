package stock

import (
	"context"

	"github.com/farmavita/inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// o todos los pasos leer-validar-escribir se aplican, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		recRepo repository.StockRecordRepository,
	) error) error
}
