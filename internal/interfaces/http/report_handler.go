package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmavita/inventario-api/internal/application/dto"
	"github.com/farmavita/inventario-api/internal/application/report"
	"github.com/farmavita/inventario-api/internal/domain/entity"
)

// ReportHandler maneja las consultas y reportes de stock (protegido).
type ReportHandler struct {
	uc    *report.UseCase
	pdfUC *report.PDFUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase, pdfUC *report.PDFUseCase) *ReportHandler {
	return &ReportHandler{uc: uc, pdfUC: pdfUC}
}

// LowStock godoc
// @Summary      Inventarios con stock bajo mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Inventarios agotados
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/reports/out-of-stock [get]
func (h *ReportHandler) OutOfStock(c *fiber.Ctx) error {
	out, err := h.uc.OutOfStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// HighStock godoc
// @Summary      Inventarios sobre stock máximo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/reports/high-stock [get]
func (h *ReportHandler) HighStock(c *fiber.Ctx) error {
	out, err := h.uc.HighStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStockRecords godoc
// @Summary      Líneas producto-inventario bajo su mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        inventory_id  query  string  false  "Filtrar por inventario. Vacío = todas."
// @Success      200  {array}  dto.LowStockRecordDTO
// @Router       /api/reports/low-stock/records [get]
func (h *ReportHandler) LowStockRecords(c *fiber.Ctx) error {
	out, err := h.uc.LowStockRecords(c.Context(), c.Query("inventory_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStockPDF godoc
// @Summary      Reporte PDF de líneas bajo mínimo
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        inventory_id  query  string  false  "Filtrar por inventario. Vacío = todas."
// @Success      200  {file}  binary
// @Router       /api/reports/low-stock/pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdfUC.LowStockPDF(c.Context(), c.Query("inventory_id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-bajo-minimo.pdf"`)
	return c.Send(pdfBytes)
}

// ExpiringSoon godoc
// @Summary      Líneas con producto próximo a vencer
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"  default(30)
// @Success      200  {array}  dto.ExpiringItemDTO
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) ExpiringSoon(c *fiber.Ctx) error {
	days := c.QueryInt("days", report.DefaultExpiryWindowDays)
	out, err := h.uc.ExpiringSoon(c.Context(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopMoved godoc
// @Summary      Inventarios con mayor stock actual
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        top  query  int  false  "Tamaño del ranking"  default(10)
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/reports/top-moved [get]
func (h *ReportHandler) TopMoved(c *fiber.Ctx) error {
	top := c.QueryInt("top", report.DefaultTopMoved)
	out, err := h.uc.TopMoved(c.Context(), top)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// InventoryStats godoc
// @Summary      Estadísticas de un inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  dto.InventoryStatsDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/stats [get]
func (h *ReportHandler) InventoryStats(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.InventoryStats(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GlobalStats godoc
// @Summary      Estadísticas globales de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GlobalStatsDTO
// @Router       /api/reports/stats [get]
func (h *ReportHandler) GlobalStats(c *fiber.Ctx) error {
	out, err := h.uc.GlobalStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SearchProducts godoc
// @Summary      Buscar productos activos del catálogo
// @Description  Resultados cacheados 30 minutos por término de búsqueda.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Término de búsqueda (nombre parcial)"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products/search [get]
func (h *ReportHandler) SearchProducts(c *fiber.Ctx) error {
	products, err := h.uc.SearchAvailableProducts(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductDTOs(products))
}

func toProductDTOs(products []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductResponse{
			ID:             p.ID,
			Name:           p.Name,
			Active:         p.Active,
			PurchasePrice:  p.PurchasePrice,
			ExpirationDate: p.ExpirationDate,
		})
	}
	return out
}
