package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmavita/inventario-api/internal/application/report"
	"github.com/farmavita/inventario-api/internal/application/stock"
	"github.com/farmavita/inventario-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InventoryUC *usecase.InventoryUseCase
	StockEngine *stock.Engine
	ReportUC    *report.UseCase
	ReportPDFUC *report.PDFUseCase
	JWTSecret   string
}

// Roles con permiso de escritura sobre inventarios y stock. Las lecturas y
// reportes quedan abiertos a cualquier usuario autenticado.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
)

// Router registra las rutas de la API. Toda la API requiere Bearer Token;
// los tokens se emiten fuera de este servicio. Las mutaciones exigen además
// rol de escritura.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(RoleAdmin, RoleFarmaceutico)

	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	stockHandler := NewStockHandler(deps.StockEngine)
	reportHandler := NewReportHandler(deps.ReportUC, deps.ReportPDFUC)

	// Inventarios (CRUD)
	inventories := api.Group("/inventories")
	inventories.Post("/", canWrite, inventoryHandler.Create)
	inventories.Get("/", inventoryHandler.List)
	inventories.Get("/:id", inventoryHandler.GetByID)
	inventories.Put("/:id", canWrite, inventoryHandler.Update)
	inventories.Delete("/:id", canWrite, inventoryHandler.Delete)

	// Líneas producto-inventario y mutaciones de stock
	inventories.Get("/:id/products", inventoryHandler.ListRecords)
	inventories.Post("/:id/products", canWrite, stockHandler.AddProduct)
	inventories.Delete("/:id/products/:productId", canWrite, stockHandler.RemoveProduct)
	inventories.Put("/:id/products/:productId/quantity", canWrite, stockHandler.SetQuantity)
	inventories.Post("/:id/adjust", canWrite, stockHandler.Adjust)
	inventories.Post("/:id/stock", canWrite, stockHandler.SetStock)
	inventories.Post("/:id/recompute", canWrite, stockHandler.Recompute)
	inventories.Get("/:id/stats", reportHandler.InventoryStats)

	// Transferencias entre inventarios
	api.Post("/stock/transfers", canWrite, stockHandler.Transfer)

	// Vistas por producto y por sucursal
	api.Get("/products/search", reportHandler.SearchProducts)
	api.Get("/products/:productId/inventories", inventoryHandler.ListByProduct)
	api.Get("/branches/:branchId/inventories", inventoryHandler.ListByBranch)

	// Reportes
	reports := api.Group("/reports")
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/low-stock/records", reportHandler.LowStockRecords)
	reports.Get("/low-stock/pdf", reportHandler.LowStockPDF)
	reports.Get("/out-of-stock", reportHandler.OutOfStock)
	reports.Get("/high-stock", reportHandler.HighStock)
	reports.Get("/expiring", reportHandler.ExpiringSoon)
	reports.Get("/top-moved", reportHandler.TopMoved)
	reports.Get("/stats", reportHandler.GlobalStats)
}
