package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmavita/inventario-api/internal/application/dto"
	"github.com/farmavita/inventario-api/internal/application/stock"
)

// StockHandler maneja las mutaciones de stock (protegido).
type StockHandler struct {
	engine *stock.Engine
}

// NewStockHandler construye el handler.
func NewStockHandler(engine *stock.Engine) *StockHandler {
	return &StockHandler{engine: engine}
}

// AddProduct godoc
// @Summary      Agregar producto a un inventario
// @Description  Crea la línea si no existe; si ya existe suma la cantidad.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del inventario"
// @Param        body  body  dto.AddProductRequest  true  "product_id, quantity, umbrales opcionales"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/products [post]
func (h *StockHandler) AddProduct(c *fiber.Ctx) error {
	inventoryID := c.Params("id")
	var in dto.AddProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if inventoryID == "" || in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "inventory id y product_id son requeridos"})
	}
	err := h.engine.AddProduct(c.Context(), inventoryID, in.ProductID, in.Quantity, in.StockMin, in.StockMax)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "producto agregado"})
}

// RemoveProduct godoc
// @Summary      Quitar producto de un inventario
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del inventario"
// @Param        productId  path  string  true  "ID del producto"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/products/{productId} [delete]
func (h *StockHandler) RemoveProduct(c *fiber.Ctx) error {
	inventoryID := c.Params("id")
	productID := c.Params("productId")
	if inventoryID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id y productId son requeridos"})
	}
	if err := h.engine.RemoveProduct(c.Context(), inventoryID, productID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetQuantity godoc
// @Summary      Fijar la cantidad de una línea producto-inventario
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                  true  "ID del inventario"
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.SetQuantityRequest  true  "Cantidad absoluta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/products/{productId}/quantity [put]
func (h *StockHandler) SetQuantity(c *fiber.Ctx) error {
	inventoryID := c.Params("id")
	productID := c.Params("productId")
	if inventoryID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id y productId son requeridos"})
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.SetQuantity(c.Context(), inventoryID, productID, in.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cantidad actualizada"})
}

// Adjust godoc
// @Summary      Ajustar el stock agregado de un inventario
// @Description  Delta positivo suma, negativo resta. Rechaza resultados negativos.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del inventario"
// @Param        body  body  dto.AdjustStockRequest  true  "delta y motivo"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	inventoryID := c.Params("id")
	if inventoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.AdjustStock(c.Context(), inventoryID, in.Delta, in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}

// SetStock godoc
// @Summary      Fijar el stock agregado de un inventario
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del inventario"
// @Param        body  body  dto.SetStockRequest  true  "cantidad absoluta y motivo"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/stock [post]
func (h *StockHandler) SetStock(c *fiber.Ctx) error {
	inventoryID := c.Params("id")
	if inventoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.engine.SetStock(c.Context(), inventoryID, in.Quantity, in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "stock actualizado"})
}

// Transfer godoc
// @Summary      Transferir stock de un producto entre inventarios
// @Description  Operación atómica: descuenta del origen y acredita en el destino
//
//	en la misma transacción. Falla con 409 si el origen no alcanza.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "origen, destino, producto y cantidad"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.FromInventoryID == "" || in.ToInventoryID == "" || in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from_inventory_id, to_inventory_id y product_id son requeridos"})
	}
	err := h.engine.Transfer(c.Context(), in.FromInventoryID, in.ToInventoryID, in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "transferencia completada"})
}

// Recompute godoc
// @Summary      Reconciliar el agregado de un inventario
// @Description  Recalcula la cantidad agregada como la suma de sus líneas.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  map[string]int64
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/recompute [post]
func (h *StockHandler) Recompute(c *fiber.Ctx) error {
	inventoryID := c.Params("id")
	if inventoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	qty, err := h.engine.RecomputeAggregate(c.Context(), inventoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"quantity": qty})
}
