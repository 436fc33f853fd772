package stock

import (
	"context"
	"errors"
	"time"

	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
	domstock "github.com/farmavita/inventario-api/internal/domain/stock"
	"github.com/farmavita/inventario-api/pkg/logger"
)

// Engine es el motor de mutaciones de stock. Cada operación se ejecuta dentro
// de una transacción (TxRunner) con bloqueo de fila (SELECT FOR UPDATE) y
// Commit/Rollback: nunca queda estado parcial visible. El agregado del
// inventario se recalcula en la misma transacción que la mutación que lo toca.
//
// El motor nunca reintenta una mutación: un reintento silencioso de una
// operación no idempotente arriesga doble aplicación; reintentar es del caller.
type Engine struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewEngine construye el motor de stock.
func NewEngine(txRunner TxRunner, productRepo repository.ProductRepository, log *logger.Logger) *Engine {
	return &Engine{txRunner: txRunner, productRepo: productRepo, log: log}
}

// AddProduct crea la línea inventario-producto o incrementa su cantidad.
// qty debe ser > 0. Umbrales opcionales: se aplican a la línea (validando
// min < max) tanto al crear como al actualizar.
func (e *Engine) AddProduct(ctx context.Context, inventoryID, productID string, qty int64, stockMin, stockMax *int64) error {
	if inventoryID == "" || productID == "" || qty <= 0 {
		return domain.ErrInvalidInput
	}
	if err := domstock.ValidateThresholds(stockMin, stockMax); err != nil {
		return err
	}
	// El catálogo de productos es de solo lectura: basta verificar existencia
	// antes de abrir la transacción.
	if _, err := e.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}

	now := time.Now()
	err := e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, recRepo repository.StockRecordRepository) error {
		if _, err := invRepo.GetForUpdate(ctx, inventoryID); err != nil {
			return err
		}
		rec, err := recRepo.GetForUpdate(ctx, inventoryID, productID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			rec = &entity.StockRecord{
				InventoryID: inventoryID,
				ProductID:   productID,
				Quantity:    qty,
				StockMin:    stockMin,
				StockMax:    stockMax,
				UpdatedAt:   now,
			}
		case err != nil:
			return err
		default:
			rec.Quantity += qty
			if stockMin != nil {
				rec.StockMin = stockMin
			}
			if stockMax != nil {
				rec.StockMax = stockMax
			}
			if err := domstock.ValidateThresholds(rec.StockMin, rec.StockMax); err != nil {
				return err
			}
			rec.UpdatedAt = now
		}
		if err := recRepo.Upsert(ctx, rec); err != nil {
			return err
		}
		_, err = invRepo.RecomputeAggregate(ctx, inventoryID, now)
		return err
	})
	if err != nil {
		return err
	}
	e.log.Info().
		Str("inventory_id", inventoryID).
		Str("product_id", productID).
		Int64("qty", qty).
		Msg("producto agregado al inventario")
	return nil
}

// RemoveProduct elimina la línea inventario-producto completa (no parcial) y
// recalcula el agregado. Falla con ErrNotFound si la línea no existe.
func (e *Engine) RemoveProduct(ctx context.Context, inventoryID, productID string) error {
	if inventoryID == "" || productID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	err := e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, recRepo repository.StockRecordRepository) error {
		if _, err := recRepo.GetForUpdate(ctx, inventoryID, productID); err != nil {
			return err
		}
		if err := recRepo.Delete(ctx, inventoryID, productID); err != nil {
			return err
		}
		_, err := invRepo.RecomputeAggregate(ctx, inventoryID, now)
		return err
	})
	if err != nil {
		return err
	}
	e.log.Info().
		Str("inventory_id", inventoryID).
		Str("product_id", productID).
		Msg("producto retirado del inventario")
	return nil
}

// SetQuantity sobreescribe la cantidad de la línea sin condiciones y recalcula
// el agregado. Falla si newQty < 0 o si la línea no existe.
func (e *Engine) SetQuantity(ctx context.Context, inventoryID, productID string, newQty int64) error {
	if inventoryID == "" || productID == "" {
		return domain.ErrInvalidInput
	}
	if err := domstock.ValidateQuantity(newQty); err != nil {
		return err
	}
	now := time.Now()
	return e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, recRepo repository.StockRecordRepository) error {
		rec, err := recRepo.GetForUpdate(ctx, inventoryID, productID)
		if err != nil {
			return err
		}
		rec.Quantity = newQty
		rec.UpdatedAt = now
		if err := recRepo.Upsert(ctx, rec); err != nil {
			return err
		}
		_, err = invRepo.RecomputeAggregate(ctx, inventoryID, now)
		return err
	})
}

// AdjustStock suma o resta sobre la cantidad propia del inventario (sin
// desglose por líneas). Rechaza el ajuste completo si el resultado sería
// negativo; nunca recorta a cero.
func (e *Engine) AdjustStock(ctx context.Context, inventoryID string, delta int64, reason string) error {
	if inventoryID == "" {
		return domain.ErrInvalidInput
	}
	var newQty int64
	err := e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.StockRecordRepository) error {
		inv, err := invRepo.GetForUpdate(ctx, inventoryID)
		if err != nil {
			return err
		}
		newQty = inv.Quantity + delta
		if err := domstock.ValidateQuantity(newQty); err != nil {
			return err
		}
		return invRepo.SetQuantity(ctx, inventoryID, newQty, time.Now())
	})
	if err != nil {
		return err
	}
	e.log.Info().
		Str("inventory_id", inventoryID).
		Int64("delta", delta).
		Int64("new_qty", newQty).
		Str("reason", reason).
		Msg("ajuste de stock realizado")
	return nil
}

// SetStock establece la cantidad propia del inventario directamente (se usa
// cuando el inventario no tiene desglose por líneas).
func (e *Engine) SetStock(ctx context.Context, inventoryID string, newQty int64, reason string) error {
	if inventoryID == "" {
		return domain.ErrInvalidInput
	}
	if err := domstock.ValidateQuantity(newQty); err != nil {
		return err
	}
	var prevQty int64
	err := e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.StockRecordRepository) error {
		inv, err := invRepo.GetForUpdate(ctx, inventoryID)
		if err != nil {
			return err
		}
		prevQty = inv.Quantity
		return invRepo.SetQuantity(ctx, inventoryID, newQty, time.Now())
	})
	if err != nil {
		return err
	}
	e.log.Info().
		Str("inventory_id", inventoryID).
		Int64("prev_qty", prevQty).
		Int64("new_qty", newQty).
		Str("reason", reason).
		Msg("stock establecido")
	return nil
}

// Transfer mueve qty unidades de un producto entre dos inventarios en una sola
// transacción. Si la línea origen queda en cero se elimina (no persiste una
// línea vacía tras una transferencia). Si la línea destino no existe se crea
// heredando los umbrales de la línea origen. Ambos agregados se recalculan en
// la misma transacción. Cualquier fallo deja ambos inventarios intactos.
func (e *Engine) Transfer(ctx context.Context, fromInventoryID, toInventoryID, productID string, qty int64) error {
	if fromInventoryID == "" || toInventoryID == "" || productID == "" {
		return domain.ErrInvalidInput
	}
	if fromInventoryID == toInventoryID || qty <= 0 {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	err := e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, recRepo repository.StockRecordRepository) error {
		// Candado de fila sobre el inventario destino: la creación de la
		// línea destino se serializa aquí. Sin este bloqueo, dos
		// transferencias hacia un destino sin línea pueden observar ambas
		// la ausencia y la segunda sobreescribir la línea de la primera.
		if _, err := invRepo.GetForUpdate(ctx, toInventoryID); err != nil {
			return err
		}

		// Bloquea la línea origen; la ausencia cuenta como stock insuficiente.
		src, err := recRepo.GetForUpdate(ctx, fromInventoryID, productID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInsufficientStock
		}
		if err != nil {
			return err
		}
		if src.Quantity < qty {
			return domain.ErrInsufficientStock
		}

		// Umbrales del origen antes de mutar: se heredan si hay que crear destino.
		srcMin, srcMax := src.StockMin, src.StockMax

		src.Quantity -= qty
		src.UpdatedAt = now
		if src.Quantity == 0 {
			if err := recRepo.Delete(ctx, fromInventoryID, productID); err != nil {
				return err
			}
		} else if err := recRepo.Upsert(ctx, src); err != nil {
			return err
		}

		dst, err := recRepo.GetForUpdate(ctx, toInventoryID, productID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			dst = &entity.StockRecord{
				InventoryID: toInventoryID,
				ProductID:   productID,
				Quantity:    qty,
				StockMin:    srcMin,
				StockMax:    srcMax,
				UpdatedAt:   now,
			}
		case err != nil:
			return err
		default:
			dst.Quantity += qty
			dst.UpdatedAt = now
		}
		if err := recRepo.Upsert(ctx, dst); err != nil {
			return err
		}

		if _, err := invRepo.RecomputeAggregate(ctx, fromInventoryID, now); err != nil {
			return err
		}
		_, err = invRepo.RecomputeAggregate(ctx, toInventoryID, now)
		return err
	})
	if err != nil {
		return err
	}
	e.log.Info().
		Str("from_inventory_id", fromInventoryID).
		Str("to_inventory_id", toInventoryID).
		Str("product_id", productID).
		Int64("qty", qty).
		Msg("transferencia de stock completada")
	return nil
}

// RecomputeAggregate reconcilia el agregado de un inventario con la suma real
// de sus líneas. Idempotente y sin otros efectos; devuelve el nuevo agregado.
func (e *Engine) RecomputeAggregate(ctx context.Context, inventoryID string) (int64, error) {
	if inventoryID == "" {
		return 0, domain.ErrInvalidInput
	}
	var total int64
	err := e.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, _ repository.StockRecordRepository) error {
		if _, err := invRepo.GetForUpdate(ctx, inventoryID); err != nil {
			return err
		}
		var err error
		total, err = invRepo.RecomputeAggregate(ctx, inventoryID, time.Now())
		return err
	})
	return total, err
}
