// Package stock contiene las validaciones puras del motor de inventario
// (servicios de dominio): orden de umbrales, no-negatividad y la clave de
// comparación para unicidad de nombres. Sin efectos secundarios ni I/O.
package stock

import (
	"strings"

	"github.com/farmavita/inventario-api/internal/domain"
)

// ValidateThresholds verifica que, si ambos umbrales están definidos,
// el mínimo sea estrictamente menor que el máximo.
func ValidateThresholds(min, max *int64) error {
	if min != nil && max != nil && *min >= *max {
		return domain.NewInvariantViolation(domain.RuleThresholdOrder,
			"el stock mínimo debe ser menor que el stock máximo")
	}
	return nil
}

// ValidateQuantity verifica que una cantidad resultante no sea negativa.
// Nunca se recorta a cero: la operación debe fallar completa.
func ValidateQuantity(qty int64) error {
	if qty < 0 {
		return domain.NewInvariantViolation(domain.RuleNegativeQty,
			"la cantidad resultante no puede ser negativa")
	}
	return nil
}

// NameKey normaliza un nombre de inventario para la comparación de unicidad
// (case-insensitive, sin espacios en los extremos).
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName indica si dos nombres de inventario colisionan bajo la regla de unicidad.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}
