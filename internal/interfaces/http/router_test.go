package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmavita/inventario-api/internal/application/report"
	"github.com/farmavita/inventario-api/internal/domain"
	"github.com/farmavita/inventario-api/internal/domain/entity"
	"github.com/farmavita/inventario-api/internal/domain/repository"
	apphttp "github.com/farmavita/inventario-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para montar el router completo
// ──────────────────────────────────────────────────────────────────────────────

type emptyReportRepo struct{}

func (emptyReportRepo) LowStockInventories(context.Context) ([]*entity.Inventory, error) {
	return nil, nil
}

func (emptyReportRepo) OutOfStockInventories(context.Context) ([]*entity.Inventory, error) {
	return nil, nil
}

func (emptyReportRepo) HighStockInventories(context.Context) ([]*entity.Inventory, error) {
	return nil, nil
}

func (emptyReportRepo) LowStockRecords(context.Context, string) ([]repository.LowStockRecordRow, error) {
	return nil, nil
}

func (emptyReportRepo) ExpiringSoon(context.Context, time.Time) ([]repository.ExpiringRow, error) {
	return nil, nil
}

func (emptyReportRepo) TopMoved(context.Context, int) ([]*entity.Inventory, error) {
	return nil, nil
}

func (emptyReportRepo) InventoryStats(context.Context, string) (*repository.InventoryStats, error) {
	return nil, domain.ErrNotFound
}

func (emptyReportRepo) GlobalStats(context.Context) (*repository.GlobalStats, error) {
	return &repository.GlobalStats{}, nil
}

type emptyProductRepo struct{}

func (emptyProductRepo) GetByID(context.Context, string) (*entity.Product, error) {
	return nil, domain.ErrNotFound
}

func (emptyProductRepo) Search(context.Context, string, int) ([]*entity.Product, error) {
	return nil, nil
}

func buildRouterApp() *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ReportUC:  report.NewUseCase(emptyReportRepo{}, emptyProductRepo{}, nil),
		JWTSecret: testJWTSecret,
	})
	return app
}

func routerRequest(t *testing.T, app *fiber.App, method, target, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por ruta
// ──────────────────────────────────────────────────────────────────────────────

// Las rutas que mutan inventarios o stock exigen rol de escritura; un vendedor
// autenticado debe recibir 403 sin llegar al handler.
func TestRouter_MutacionesExigenRolDeEscritura(t *testing.T) {
	app := buildRouterApp()
	vendedor := tokenForRole(t, "vendedor")

	mutaciones := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/inventories/"},
		{http.MethodPut, "/api/inventories/inv-1"},
		{http.MethodDelete, "/api/inventories/inv-1"},
		{http.MethodPost, "/api/inventories/inv-1/products"},
		{http.MethodDelete, "/api/inventories/inv-1/products/prod-1"},
		{http.MethodPut, "/api/inventories/inv-1/products/prod-1/quantity"},
		{http.MethodPost, "/api/inventories/inv-1/adjust"},
		{http.MethodPost, "/api/inventories/inv-1/stock"},
		{http.MethodPost, "/api/inventories/inv-1/recompute"},
		{http.MethodPost, "/api/stock/transfers"},
	}
	for _, m := range mutaciones {
		resp := routerRequest(t, app, m.method, m.target, vendedor)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode,
			"%s %s debe rechazar al rol vendedor", m.method, m.target)
	}
}

// Los reportes quedan abiertos a cualquier usuario autenticado.
func TestRouter_ReportesAbiertosAUsuarioAutenticado(t *testing.T) {
	app := buildRouterApp()

	resp := routerRequest(t, app, http.MethodGet, "/api/reports/low-stock", tokenForRole(t, "vendedor"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = routerRequest(t, app, http.MethodGet, "/api/reports/stats", tokenForRole(t, "farmaceutico"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Sin token no se pasa del middleware de autenticación, mutación o no.
func TestRouter_SinTokenTodoRechazado(t *testing.T) {
	app := buildRouterApp()

	resp := routerRequest(t, app, http.MethodPost, "/api/inventories/", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = routerRequest(t, app, http.MethodGet, "/api/reports/low-stock", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
