package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/farmavita/inventario-api/internal/application/dto"
	"github.com/farmavita/inventario-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Todo error que
// no pertenezca a la taxonomía de dominio se reporta como 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvariant):
		var inv *domain.InvariantViolationError
		if errors.As(err, &inv) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVARIANT", Message: inv.Error()})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVARIANT", Message: "violación de invariante"})
	case errors.Is(err, domain.ErrDependency):
		var dep *domain.DependencyConflictError
		if errors.As(err, &dep) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DEPENDENCY_CONFLICT", Message: dep.Error()})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DEPENDENCY_CONFLICT", Message: "conflicto de dependencias"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
