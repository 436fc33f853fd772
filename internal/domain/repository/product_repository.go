package repository

import (
	"context"

	"github.com/farmavita/inventario-api/internal/domain/entity"
)

// ProductRepository define el puerto de solo lectura hacia el catálogo externo
// de productos. Este núcleo nunca lo muta.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Search busca productos activos por nombre (para agregar a un inventario).
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
}
