package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farmavita/inventario-api/internal/application/dto"
	"github.com/farmavita/inventario-api/internal/application/stock"
	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
	domstock "github.com/farmavita/inventario-api/internal/domain/stock"
)

// InventoryUseCase casos de uso CRUD para inventarios: alta y edición con
// unicidad de nombre por producto (case-insensitive), y eliminación física
// condicionada a cero líneas de stock y cero sucursales asociadas.
type InventoryUseCase struct {
	txRunner   stock.TxRunner
	invRepo    repository.InventoryRepository
	recRepo    repository.StockRecordRepository
	branchRepo repository.BranchRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	txRunner stock.TxRunner,
	invRepo repository.InventoryRepository,
	recRepo repository.StockRecordRepository,
	branchRepo repository.BranchRepository,
) *InventoryUseCase {
	return &InventoryUseCase{
		txRunner:   txRunner,
		invRepo:    invRepo,
		recRepo:    recRepo,
		branchRepo: branchRepo,
	}
}

// Create crea un inventario nuevo. El agregado inicia en cero: solo las
// mutaciones del motor de stock lo mueven.
func (uc *InventoryUseCase) Create(ctx context.Context, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	// El nombre se persiste normalizado (sin espacios en los extremos) para
	// que la regla de unicidad no pueda evadirse con relleno de espacios.
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := domstock.ValidateThresholds(in.StockMin, in.StockMax); err != nil {
		return nil, err
	}
	exists, err := uc.invRepo.ExistsForProduct(ctx, in.ProductID, name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewInvariantViolation(domain.RuleDuplicateName,
			"ya existe un inventario con este nombre para el producto asociado")
	}

	inv := &entity.Inventory{
		ID:        uuid.New().String(),
		Name:      name,
		ProductID: in.ProductID,
		Quantity:  0,
		StockMin:  in.StockMin,
		StockMax:  in.StockMax,
		UpdatedAt: time.Now(),
	}
	if err := uc.invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return toInventoryResponse(inv), nil
}

// GetByID obtiene un inventario por ID.
func (uc *InventoryUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryResponse, error) {
	inv, err := uc.invRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(inv), nil
}

// Update modifica nombre, alcance de producto o umbrales. La unicidad de
// nombre se reevalúa excluyendo el propio ID.
func (uc *InventoryUseCase) Update(ctx context.Context, id string, in dto.UpdateInventoryRequest) (*dto.InventoryResponse, error) {
	inv, err := uc.invRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		inv.Name = strings.TrimSpace(*in.Name)
		if inv.Name == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.ProductID != nil {
		inv.ProductID = in.ProductID
	}
	if in.StockMin != nil {
		inv.StockMin = in.StockMin
	}
	if in.StockMax != nil {
		inv.StockMax = in.StockMax
	}
	if err := domstock.ValidateThresholds(inv.StockMin, inv.StockMax); err != nil {
		return nil, err
	}
	exists, err := uc.invRepo.ExistsForProduct(ctx, inv.ProductID, inv.Name, inv.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewInvariantViolation(domain.RuleDuplicateName,
			"ya existe un inventario con este nombre para el producto asociado")
	}
	inv.UpdatedAt = time.Now()
	if err := uc.invRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInventoryResponse(inv), nil
}

// Delete elimina físicamente el inventario. Solo procede con cero líneas de
// stock y cero sucursales que lo referencien; cada condición bloqueante se
// reporta por separado. No hay borrado suave para inventarios.
func (uc *InventoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, recRepo repository.StockRecordRepository) error {
		if _, err := invRepo.GetForUpdate(ctx, id); err != nil {
			return err
		}
		records, err := recRepo.CountByInventory(ctx, id)
		if err != nil {
			return err
		}
		if records > 0 {
			return &domain.DependencyConflictError{Dependency: domain.DependencyStockRecords, Count: records}
		}
		// El registro de sucursales es externo a la transacción: el conteo
		// se toma con el candado de fila ya adquirido, la mejor ventana
		// disponible sin un candado propio sobre ese registro.
		branches, err := uc.branchRepo.CountByInventory(ctx, id)
		if err != nil {
			return err
		}
		if branches > 0 {
			return &domain.DependencyConflictError{Dependency: domain.DependencyBranches, Count: branches}
		}
		return invRepo.Delete(ctx, id)
	})
}

// List lista todos los inventarios ordenados por nombre.
func (uc *InventoryUseCase) List(ctx context.Context) ([]dto.InventoryResponse, error) {
	list, err := uc.invRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toInventoryResponses(list), nil
}

// ListPaginated lista con búsqueda por nombre, orden asc/desc y paginación.
func (uc *InventoryUseCase) ListPaginated(ctx context.Context, searchTerm string, sortAscending bool, page dto.PageRequest) (*dto.InventoryListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.invRepo.ListPaginated(ctx, searchTerm, sortAscending, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryListResponse{
		Items: toInventoryResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListByProduct lista los inventarios cuyo alcance es el producto dado.
func (uc *InventoryUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.InventoryResponse, error) {
	list, err := uc.invRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toInventoryResponses(list), nil
}

// ListByBranch lista los inventarios asociados a una sucursal.
func (uc *InventoryUseCase) ListByBranch(ctx context.Context, branchID string) ([]dto.InventoryResponse, error) {
	list, err := uc.invRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return toInventoryResponses(list), nil
}

// ListRecords lista las líneas de stock de un inventario.
func (uc *InventoryUseCase) ListRecords(ctx context.Context, inventoryID string) ([]dto.StockRecordResponse, error) {
	if _, err := uc.invRepo.GetByID(ctx, inventoryID); err != nil {
		return nil, err
	}
	recs, err := uc.recRepo.ListByInventory(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.StockRecordResponse{
			InventoryID: r.InventoryID,
			ProductID:   r.ProductID,
			Quantity:    r.Quantity,
			StockMin:    r.StockMin,
			StockMax:    r.StockMax,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func toInventoryResponse(inv *entity.Inventory) *dto.InventoryResponse {
	if inv == nil {
		return nil
	}
	return &dto.InventoryResponse{
		ID:        inv.ID,
		Name:      inv.Name,
		ProductID: inv.ProductID,
		Quantity:  inv.Quantity,
		StockMin:  inv.StockMin,
		StockMax:  inv.StockMax,
		UpdatedAt: inv.UpdatedAt,
	}
}

func toInventoryResponses(list []*entity.Inventory) []dto.InventoryResponse {
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInventoryResponse(inv))
	}
	return items
}
