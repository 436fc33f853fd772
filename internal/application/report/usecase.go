package report

import (
	"context"
	"time"

	"github.com/farmavita/inventario-api/internal/application/dto"
	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
	"github.com/farmavita/inventario-api/pkg/cache"
)

// DefaultExpiryWindowDays ventana por defecto para "próximos a vencer".
const DefaultExpiryWindowDays = 30

// DefaultTopMoved tamaño por defecto del ranking de inventarios con más stock.
const DefaultTopMoved = 10

// UseCase capa de consultas y reportes de stock. Solo lectura: consume el
// store y el catálogo, nunca muta. Las lecturas pueden reflejar instantáneas
// sin aislamiento transaccional.
type UseCase struct {
	reportRepo  repository.StockReportRepository
	productRepo repository.ProductRepository

	// Caché de búsquedas sobre el catálogo (datos de referencia, expiración
	// 30 min). Invalidable explícitamente; el reloj se inyecta en tests.
	searchCache *cache.Cache[string, []*entity.Product]
	now         func() time.Time
}

// NewUseCase construye la capa de reportes. now puede ser nil (time.Now).
func NewUseCase(
	reportRepo repository.StockReportRepository,
	productRepo repository.ProductRepository,
	now func() time.Time,
) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{
		reportRepo:  reportRepo,
		productRepo: productRepo,
		searchCache: cache.New[string, []*entity.Product](30*time.Minute, now),
		now:         now,
	}
}

// LowStock inventarios con cantidad <= stock mínimo, orden cantidad asc y
// nombre como desempate.
func (uc *UseCase) LowStock(ctx context.Context) ([]dto.InventoryResponse, error) {
	list, err := uc.reportRepo.LowStockInventories(ctx)
	if err != nil {
		return nil, err
	}
	return toInventoryDTOs(list), nil
}

// OutOfStock inventarios con cantidad cero, orden por nombre.
func (uc *UseCase) OutOfStock(ctx context.Context) ([]dto.InventoryResponse, error) {
	list, err := uc.reportRepo.OutOfStockInventories(ctx)
	if err != nil {
		return nil, err
	}
	return toInventoryDTOs(list), nil
}

// HighStock inventarios con cantidad >= stock máximo, orden cantidad asc y nombre.
func (uc *UseCase) HighStock(ctx context.Context) ([]dto.InventoryResponse, error) {
	list, err := uc.reportRepo.HighStockInventories(ctx)
	if err != nil {
		return nil, err
	}
	return toInventoryDTOs(list), nil
}

// LowStockRecords líneas bajo su mínimo propio; inventoryID vacío = global.
func (uc *UseCase) LowStockRecords(ctx context.Context, inventoryID string) ([]dto.LowStockRecordDTO, error) {
	rows, err := uc.reportRepo.LowStockRecords(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockRecordDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockRecordDTO{
			InventoryID:   r.InventoryID,
			InventoryName: r.InventoryName,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			Quantity:      r.Quantity,
			StockMin:      r.StockMin,
			StockMax:      r.StockMax,
		})
	}
	return out, nil
}

// ExpiringSoon líneas con stock cuyo producto vence dentro de days días
// (days <= 0 usa la ventana por defecto de 30).
func (uc *UseCase) ExpiringSoon(ctx context.Context, days int) ([]dto.ExpiringItemDTO, error) {
	if days <= 0 {
		days = DefaultExpiryWindowDays
	}
	now := uc.now()
	until := now.AddDate(0, 0, days)
	rows, err := uc.reportRepo.ExpiringSoon(ctx, until)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringItemDTO, 0, len(rows))
	for _, r := range rows {
		daysLeft := int(r.ExpirationDate.Sub(now).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}
		out = append(out, dto.ExpiringItemDTO{
			InventoryID:    r.InventoryID,
			InventoryName:  r.InventoryName,
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			Quantity:       r.Quantity,
			ExpirationDate: r.ExpirationDate,
			DaysLeft:       daysLeft,
		})
	}
	return out, nil
}

// TopMoved los top inventarios por cantidad actual, descendente. Aproximación
// mientras no exista un libro de movimientos.
func (uc *UseCase) TopMoved(ctx context.Context, top int) ([]dto.InventoryResponse, error) {
	if top <= 0 {
		top = DefaultTopMoved
	}
	list, err := uc.reportRepo.TopMoved(ctx, top)
	if err != nil {
		return nil, err
	}
	return toInventoryDTOs(list), nil
}

// InventoryStats estadísticas de un inventario, incluido el valor monetario
// de las líneas con precio de compra conocido.
func (uc *UseCase) InventoryStats(ctx context.Context, inventoryID string) (*dto.InventoryStatsDTO, error) {
	if inventoryID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.reportRepo.InventoryStats(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryStatsDTO{
		InventoryID:    s.InventoryID,
		TotalLineItems: s.TotalLineItems,
		TotalQuantity:  s.TotalQuantity,
		BelowMinimum:   s.BelowMinimum,
		AtZero:         s.AtZero,
		AboveMaximum:   s.AboveMaximum,
		TotalValue:     s.TotalValue,
	}, nil
}

// GlobalStats estadísticas agregadas de todos los inventarios.
func (uc *UseCase) GlobalStats(ctx context.Context) (*dto.GlobalStatsDTO, error) {
	s, err := uc.reportRepo.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.GlobalStatsDTO{
		TotalInventories: s.TotalInventories,
		TotalStock:       s.TotalStock,
		LowStock:         s.LowStock,
		OutOfStock:       s.OutOfStock,
		HighStock:        s.HighStock,
		NormalStock:      s.NormalStock,
	}, nil
}

// SearchAvailableProducts busca productos activos en el catálogo. Pasa por el
// caché de referencia (TTL 30 min) para no golpear el catálogo en cada tecla.
func (uc *UseCase) SearchAvailableProducts(ctx context.Context, term string) ([]*entity.Product, error) {
	if cached, ok := uc.searchCache.Get(term); ok {
		return cached, nil
	}
	products, err := uc.productRepo.Search(ctx, term, 50)
	if err != nil {
		return nil, err
	}
	uc.searchCache.Set(term, products)
	return products, nil
}

// InvalidateCatalogCache descarta el caché de búsquedas del catálogo.
func (uc *UseCase) InvalidateCatalogCache() {
	uc.searchCache.Invalidate()
}

func toInventoryDTOs(list []*entity.Inventory) []dto.InventoryResponse {
	out := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.InventoryResponse{
			ID:        inv.ID,
			Name:      inv.Name,
			ProductID: inv.ProductID,
			Quantity:  inv.Quantity,
			StockMin:  inv.StockMin,
			StockMax:  inv.StockMax,
			UpdatedAt: inv.UpdatedAt,
		})
	}
	return out
}
