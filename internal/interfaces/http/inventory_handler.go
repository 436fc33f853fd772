package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmavita/inventario-api/internal/application/dto"
	"github.com/farmavita/inventario-api/internal/application/usecase"
)

// InventoryHandler maneja las peticiones HTTP de inventarios (protegido).
type InventoryHandler struct {
	uc *usecase.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear inventario
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "Datos del inventario"
// @Success      201   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventories [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener inventario por ID
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar inventario
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del inventario"
// @Param        body  body  dto.UpdateInventoryRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar inventario
// @Description  Falla con 409 si el inventario tiene productos o sucursales asociadas.
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar inventarios (paginado)
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Filtro por nombre (parcial, sin mayúsculas)"
// @Param        sort    query  string  false  "asc | desc"  default(asc)
// @Param        limit   query  int     false  "Límite"      default(20)
// @Param        offset  query  int     false  "Offset"      default(0)
// @Success      200     {object}  dto.InventoryListResponse
// @Router       /api/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	search := c.Query("search")
	sortAscending := c.Query("sort", "asc") != "desc"

	out, err := h.uc.ListPaginated(c.Context(), search, sortAscending, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Listar inventarios por producto asociado
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/products/{productId}/inventories [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	out, err := h.uc.ListByProduct(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByBranch godoc
// @Summary      Listar inventarios por sucursal
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        branchId  path  string  true  "ID de la sucursal"
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/branches/{branchId}/inventories [get]
func (h *InventoryHandler) ListByBranch(c *fiber.Ctx) error {
	branchID := c.Params("branchId")
	if branchID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "branchId es requerido"})
	}
	out, err := h.uc.ListByBranch(c.Context(), branchID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListRecords godoc
// @Summary      Listar líneas producto-cantidad de un inventario
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/products [get]
func (h *InventoryHandler) ListRecords(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ListRecords(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
