package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmavita/inventario-api/internal/application/stock"
	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
	"github.com/farmavita/inventario-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// memStore estado compartido por los repos fake. Los repos devuelven y guardan
// copias, igual que un scan de base de datos, para que el snapshot del TxRunner
// no comparta memoria con lo que muta el motor.
type memStore struct {
	inventories map[string]*entity.Inventory
	records     map[string]*entity.StockRecord
}

func newMemStore() *memStore {
	return &memStore{
		inventories: make(map[string]*entity.Inventory),
		records:     make(map[string]*entity.StockRecord),
	}
}

func recKey(inventoryID, productID string) string { return inventoryID + "/" + productID }

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, v := range s.inventories {
		c := *v
		snap.inventories[k] = &c
	}
	for k, v := range s.records {
		c := *v
		snap.records[k] = &c
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.inventories = snap.inventories
	s.records = snap.records
}

type fakeInventoryRepo struct{ store *memStore }

func (r *fakeInventoryRepo) Create(_ context.Context, inv *entity.Inventory) error {
	c := *inv
	r.store.inventories[inv.ID] = &c
	return nil
}

func (r *fakeInventoryRepo) GetByID(_ context.Context, id string) (*entity.Inventory, error) {
	inv, ok := r.store.inventories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *inv
	return &c, nil
}

func (r *fakeInventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeInventoryRepo) Update(_ context.Context, inv *entity.Inventory) error {
	if _, ok := r.store.inventories[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *inv
	r.store.inventories[inv.ID] = &c
	return nil
}

func (r *fakeInventoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.inventories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.inventories, id)
	return nil
}

func (r *fakeInventoryRepo) List(context.Context) ([]*entity.Inventory, error) { return nil, nil }

func (r *fakeInventoryRepo) ListPaginated(context.Context, string, bool, int, int) ([]*entity.Inventory, int, error) {
	return nil, 0, nil
}

func (r *fakeInventoryRepo) ListByProduct(context.Context, string) ([]*entity.Inventory, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) ListByBranch(context.Context, string) ([]*entity.Inventory, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) ExistsForProduct(context.Context, *string, string, string) (bool, error) {
	return false, nil
}

func (r *fakeInventoryRepo) SetQuantity(_ context.Context, id string, quantity int64, at time.Time) error {
	inv, ok := r.store.inventories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c := *inv
	c.Quantity = quantity
	c.UpdatedAt = at
	r.store.inventories[id] = &c
	return nil
}

func (r *fakeInventoryRepo) RecomputeAggregate(_ context.Context, id string, at time.Time) (int64, error) {
	inv, ok := r.store.inventories[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	var total int64
	for _, rec := range r.store.records {
		if rec.InventoryID == id {
			total += rec.Quantity
		}
	}
	c := *inv
	c.Quantity = total
	c.UpdatedAt = at
	r.store.inventories[id] = &c
	return total, nil
}

type fakeStockRecordRepo struct{ store *memStore }

func (r *fakeStockRecordRepo) GetForUpdate(_ context.Context, inventoryID, productID string) (*entity.StockRecord, error) {
	rec, ok := r.store.records[recKey(inventoryID, productID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *rec
	return &c, nil
}

func (r *fakeStockRecordRepo) Upsert(_ context.Context, rec *entity.StockRecord) error {
	c := *rec
	r.store.records[recKey(rec.InventoryID, rec.ProductID)] = &c
	return nil
}

func (r *fakeStockRecordRepo) Delete(_ context.Context, inventoryID, productID string) error {
	key := recKey(inventoryID, productID)
	if _, ok := r.store.records[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.records, key)
	return nil
}

func (r *fakeStockRecordRepo) ListByInventory(_ context.Context, inventoryID string) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	for _, rec := range r.store.records {
		if rec.InventoryID == inventoryID {
			c := *rec
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeStockRecordRepo) CountByInventory(_ context.Context, inventoryID string) (int, error) {
	n := 0
	for _, rec := range r.store.records {
		if rec.InventoryID == inventoryID {
			n++
		}
	}
	return n, nil
}

// fakeTxRunner simula Commit/Rollback: toma un snapshot antes de ejecutar el
// callback y lo restaura si falla. Así los tests verifican que ningún fallo
// deja estado parcial.
type fakeTxRunner struct{ store *memStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.InventoryRepository, repository.StockRecordRepository) error) error {
	snap := t.store.snapshot()
	err := fn(&fakeInventoryRepo{store: t.store}, &fakeStockRecordRepo{store: t.store})
	if err != nil {
		t.store.restore(snap)
	}
	return err
}

type fakeProductRepo struct{ products map[string]*entity.Product }

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) Search(context.Context, string, int) ([]*entity.Product, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	invCentral = "inv-central"
	invNorte   = "inv-norte"
	prodParac  = "prod-paracetamol"
	prodIbup   = "prod-ibuprofeno"
)

func ptr(v int64) *int64 { return &v }

// newFixture motor + store con dos inventarios y el catálogo de productos.
func newFixture(t *testing.T) (*stock.Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	store.inventories[invCentral] = &entity.Inventory{ID: invCentral, Name: "Bodega Central"}
	store.inventories[invNorte] = &entity.Inventory{ID: invNorte, Name: "Sucursal Norte"}

	products := &fakeProductRepo{products: map[string]*entity.Product{
		prodParac: {ID: prodParac, Name: "Paracetamol 500mg", Active: true},
		prodIbup:  {ID: prodIbup, Name: "Ibuprofeno 400mg", Active: true},
	}}

	engine := stock.NewEngine(&fakeTxRunner{store: store}, products, logger.Nop())
	return engine, store
}

func totalStock(store *memStore) int64 {
	var total int64
	for _, rec := range store.records {
		total += rec.Quantity
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// AddProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_CreaLineaYRecalculaAgregado(t *testing.T) {
	engine, store := newFixture(t)

	err := engine.AddProduct(context.Background(), invCentral, prodParac, 30, ptr(5), ptr(100))
	require.NoError(t, err)

	rec := store.records[recKey(invCentral, prodParac)]
	require.NotNil(t, rec, "la línea debe haberse creado")
	assert.Equal(t, int64(30), rec.Quantity)
	assert.Equal(t, int64(5), *rec.StockMin)
	assert.Equal(t, int64(100), *rec.StockMax)
	assert.Equal(t, int64(30), store.inventories[invCentral].Quantity,
		"el agregado debe recalcularse en la misma operación")
}

func TestAddProduct_LineaExistenteIncrementa(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))
	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 12, nil, nil))

	assert.Equal(t, int64(42), store.records[recKey(invCentral, prodParac)].Quantity)
	assert.Equal(t, int64(42), store.inventories[invCentral].Quantity)
}

func TestAddProduct_CantidadNoPositiva_Rechazada(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.AddProduct(context.Background(), invCentral, prodParac, 0, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = engine.AddProduct(context.Background(), invCentral, prodParac, -5, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddProduct_UmbralesInvalidos_Rechazados(t *testing.T) {
	engine, store := newFixture(t)

	// min == max también viola min < max
	err := engine.AddProduct(context.Background(), invCentral, prodParac, 10, ptr(50), ptr(50))
	require.Error(t, err)

	var inv *domain.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, domain.RuleThresholdOrder, inv.Rule)
	assert.Empty(t, store.records, "nada debe persistirse cuando el umbral es inválido")
}

func TestAddProduct_ProductoInexistente_NotFound(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.AddProduct(context.Background(), invCentral, "prod-fantasma", 10, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddProduct_InventarioInexistente_NotFound(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.AddProduct(context.Background(), "inv-fantasma", prodParac, 10, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveProduct / SetQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveProduct_EliminaLineaYRecalcula(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))
	require.NoError(t, engine.AddProduct(ctx, invCentral, prodIbup, 12, nil, nil))

	require.NoError(t, engine.RemoveProduct(ctx, invCentral, prodParac))

	_, existe := store.records[recKey(invCentral, prodParac)]
	assert.False(t, existe)
	assert.Equal(t, int64(12), store.inventories[invCentral].Quantity,
		"el agregado debe reflejar solo las líneas restantes")
}

func TestRemoveProduct_LineaInexistente_NotFound(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.RemoveProduct(context.Background(), invCentral, prodParac)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetQuantity_SobreescribeYRecalcula(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))
	require.NoError(t, engine.SetQuantity(ctx, invCentral, prodParac, 7))

	assert.Equal(t, int64(7), store.records[recKey(invCentral, prodParac)].Quantity)
	assert.Equal(t, int64(7), store.inventories[invCentral].Quantity)
}

func TestSetQuantity_NegativaRechazada(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.SetQuantity(context.Background(), invCentral, prodParac, -1)
	var inv *domain.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, domain.RuleNegativeQty, inv.Rule)
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock / SetStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustStock_SumaYResta(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AdjustStock(ctx, invCentral, 50, "carga inicial"))
	assert.Equal(t, int64(50), store.inventories[invCentral].Quantity)

	require.NoError(t, engine.AdjustStock(ctx, invCentral, -20, "venta mostrador"))
	assert.Equal(t, int64(30), store.inventories[invCentral].Quantity)
}

func TestAdjustStock_ResultadoNegativo_RechazaAjusteCompleto(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AdjustStock(ctx, invCentral, 10, "carga inicial"))

	// No debe recortar a cero: se rechaza el ajuste entero.
	err := engine.AdjustStock(ctx, invCentral, -25, "venta imposible")
	var inv *domain.InvariantViolationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, domain.RuleNegativeQty, inv.Rule)
	assert.Equal(t, int64(10), store.inventories[invCentral].Quantity,
		"un ajuste rechazado no debe tocar la cantidad")
}

func TestSetStock_EstableceCantidadAbsoluta(t *testing.T) {
	engine, store := newFixture(t)

	require.NoError(t, engine.SetStock(context.Background(), invCentral, 75, "conteo físico"))
	assert.Equal(t, int64(75), store.inventories[invCentral].Quantity)

	err := engine.SetStock(context.Background(), invCentral, -1, "imposible")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ParcialConservaElTotal(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, ptr(5), ptr(100)))
	antes := totalStock(store)

	require.NoError(t, engine.Transfer(ctx, invCentral, invNorte, prodParac, 12))

	assert.Equal(t, int64(18), store.records[recKey(invCentral, prodParac)].Quantity)
	dst := store.records[recKey(invNorte, prodParac)]
	require.NotNil(t, dst, "la línea destino debe crearse")
	assert.Equal(t, int64(12), dst.Quantity)
	assert.Equal(t, antes, totalStock(store), "la transferencia no crea ni destruye unidades")

	assert.Equal(t, int64(18), store.inventories[invCentral].Quantity)
	assert.Equal(t, int64(12), store.inventories[invNorte].Quantity)
}

func TestTransfer_DestinoNuevoHeredaUmbrales(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, ptr(5), ptr(100)))
	require.NoError(t, engine.Transfer(ctx, invCentral, invNorte, prodParac, 10))

	dst := store.records[recKey(invNorte, prodParac)]
	require.NotNil(t, dst)
	require.NotNil(t, dst.StockMin)
	require.NotNil(t, dst.StockMax)
	assert.Equal(t, int64(5), *dst.StockMin)
	assert.Equal(t, int64(100), *dst.StockMax)
}

func TestTransfer_TotalEliminaLineaOrigen(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))
	require.NoError(t, engine.Transfer(ctx, invCentral, invNorte, prodParac, 30))

	_, existe := store.records[recKey(invCentral, prodParac)]
	assert.False(t, existe, "una línea en cero tras transferir no debe persistir")
	assert.Equal(t, int64(0), store.inventories[invCentral].Quantity)
	assert.Equal(t, int64(30), store.inventories[invNorte].Quantity)
}

func TestTransfer_DestinoExistenteAcumula(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))
	require.NoError(t, engine.AddProduct(ctx, invNorte, prodParac, 8, ptr(2), nil))

	require.NoError(t, engine.Transfer(ctx, invCentral, invNorte, prodParac, 10))

	dst := store.records[recKey(invNorte, prodParac)]
	assert.Equal(t, int64(18), dst.Quantity)
	require.NotNil(t, dst.StockMin, "los umbrales propios del destino se conservan")
	assert.Equal(t, int64(2), *dst.StockMin)
}

func TestTransfer_StockInsuficiente_SinEfectos(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 5, nil, nil))

	err := engine.Transfer(ctx, invCentral, invNorte, prodParac, 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), store.records[recKey(invCentral, prodParac)].Quantity,
		"el origen debe quedar intacto")
	_, existe := store.records[recKey(invNorte, prodParac)]
	assert.False(t, existe, "el destino no debe recibir nada")
}

func TestTransfer_OrigenAusente_StockInsuficiente(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.Transfer(context.Background(), invCentral, invNorte, prodParac, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"un origen sin línea equivale a stock cero")
}

func TestTransfer_MismoInventario_Rechazada(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.Transfer(context.Background(), invCentral, invCentral, prodParac, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_DestinoInexistente_RollbackDelOrigen(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))

	err := engine.Transfer(ctx, invCentral, "inv-fantasma", prodParac, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, int64(30), store.records[recKey(invCentral, prodParac)].Quantity,
		"el fallo debe revertir cualquier mutación parcial")
	assert.Equal(t, int64(30), store.inventories[invCentral].Quantity)
}

func TestTransfer_CantidadNoPositiva_Rechazada(t *testing.T) {
	engine, _ := newFixture(t)

	err := engine.Transfer(context.Background(), invCentral, invNorte, prodParac, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// lockHookInventoryRepo intercepta GetForUpdate para simular una transacción
// rival que gana el candado de fila del inventario y confirma primero.
type lockHookInventoryRepo struct {
	fakeInventoryRepo
	onLock func(id string)
}

func (r *lockHookInventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	if r.onLock != nil {
		r.onLock(id)
	}
	return r.fakeInventoryRepo.GetForUpdate(ctx, id)
}

type lockHookTxRunner struct {
	store  *memStore
	onLock func(id string)
}

func (t *lockHookTxRunner) Run(_ context.Context, fn func(repository.InventoryRepository, repository.StockRecordRepository) error) error {
	snap := t.store.snapshot()
	invRepo := &lockHookInventoryRepo{fakeInventoryRepo{store: t.store}, t.onLock}
	err := fn(invRepo, &fakeStockRecordRepo{store: t.store})
	if err != nil {
		t.store.restore(snap)
	}
	return err
}

func TestTransfer_DestinosConcurrentesSinLinea_ConservanElTotal(t *testing.T) {
	// Dos transferencias simultáneas hacia un inventario que no tiene línea
	// para el producto. La rival adquiere primero el candado de fila del
	// destino y confirma mientras la otra espera; al continuar, la segunda
	// debe encontrar la línea ya creada y acumular sobre ella, nunca
	// sobreescribirla con una cantidad absoluta.
	const invSur = "inv-sur"
	ctx := context.Background()

	store := newMemStore()
	store.inventories[invCentral] = &entity.Inventory{ID: invCentral, Name: "Bodega Central"}
	store.inventories[invNorte] = &entity.Inventory{ID: invNorte, Name: "Sucursal Norte"}
	store.inventories[invSur] = &entity.Inventory{ID: invSur, Name: "Sucursal Sur"}
	store.records[recKey(invCentral, prodParac)] = &entity.StockRecord{
		InventoryID: invCentral, ProductID: prodParac, Quantity: 5,
	}
	store.records[recKey(invSur, prodParac)] = &entity.StockRecord{
		InventoryID: invSur, ProductID: prodParac, Quantity: 10,
	}
	store.inventories[invCentral].Quantity = 5
	store.inventories[invSur].Quantity = 10

	products := &fakeProductRepo{products: map[string]*entity.Product{
		prodParac: {ID: prodParac, Name: "Paracetamol 500mg", Active: true},
	}}
	rival := stock.NewEngine(&fakeTxRunner{store: store}, products, logger.Nop())

	rivalDone := false
	runner := &lockHookTxRunner{store: store, onLock: func(id string) {
		if id != invNorte || rivalDone {
			return
		}
		rivalDone = true
		require.NoError(t, rival.Transfer(ctx, invSur, invNorte, prodParac, 5))
	}}
	engine := stock.NewEngine(runner, products, logger.Nop())

	antes := totalStock(store)
	require.NoError(t, engine.Transfer(ctx, invCentral, invNorte, prodParac, 5))
	require.True(t, rivalDone, "la transferencia rival debe ejecutarse durante la ventana del candado")

	dst := store.records[recKey(invNorte, prodParac)]
	require.NotNil(t, dst)
	assert.Equal(t, int64(10), dst.Quantity,
		"las transferencias concurrentes no deben crear ni destruir unidades")
	assert.Equal(t, antes, totalStock(store))
	assert.Equal(t, int64(10), store.inventories[invNorte].Quantity)
	assert.Equal(t, int64(5), store.inventories[invSur].Quantity)
	assert.Equal(t, int64(0), store.inventories[invCentral].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// RecomputeAggregate
// ──────────────────────────────────────────────────────────────────────────────

func TestRecomputeAggregate_ReconciliaDeriva(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))
	require.NoError(t, engine.AddProduct(ctx, invCentral, prodIbup, 12, nil, nil))

	// Simula deriva del agregado (escritura externa defectuosa).
	store.inventories[invCentral].Quantity = 999

	total, err := engine.RecomputeAggregate(ctx, invCentral)
	require.NoError(t, err)
	assert.Equal(t, int64(42), total)
	assert.Equal(t, int64(42), store.inventories[invCentral].Quantity)
}

func TestRecomputeAggregate_Idempotente(t *testing.T) {
	engine, store := newFixture(t)
	ctx := context.Background()

	require.NoError(t, engine.AddProduct(ctx, invCentral, prodParac, 30, nil, nil))

	for i := 0; i < 3; i++ {
		total, err := engine.RecomputeAggregate(ctx, invCentral)
		require.NoError(t, err)
		assert.Equal(t, int64(30), total)
	}
	assert.Equal(t, int64(30), store.inventories[invCentral].Quantity)
}
