package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvariant         = errors.New("violación de invariante")
	ErrDependency        = errors.New("conflicto de dependencias")
)

// Reglas de invariante que puede reportar el validador.
const (
	RuleThresholdOrder = "threshold_order" // stock mínimo >= stock máximo
	RuleNegativeQty    = "negative_qty"    // la cantidad resultante sería negativa
	RuleDuplicateName  = "duplicate_name"  // nombre de inventario repetido para el producto
)

// InvariantViolationError identifica la regla de invariante que falló.
// Envuelve ErrInvariant para poder usar errors.Is en los callers.
type InvariantViolationError struct {
	Rule   string
	Detail string
}

func (e *InvariantViolationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("violación de invariante: %s", e.Rule)
	}
	return fmt.Sprintf("violación de invariante %s: %s", e.Rule, e.Detail)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariant }

// NewInvariantViolation construye el error con la regla y un detalle opcional.
func NewInvariantViolation(rule, detail string) error {
	return &InvariantViolationError{Rule: rule, Detail: detail}
}

// Dependencias que bloquean la eliminación de un inventario.
const (
	DependencyStockRecords = "stock_records" // el inventario aún tiene productos
	DependencyBranches     = "branches"      // el inventario está asociado a sucursales
)

// DependencyConflictError reporta qué dependencia bloquea la eliminación
// y cuántas referencias existen. Envuelve ErrDependency.
type DependencyConflictError struct {
	Dependency string
	Count      int
}

func (e *DependencyConflictError) Error() string {
	return fmt.Sprintf("no se puede eliminar: %d referencia(s) en %s", e.Count, e.Dependency)
}

func (e *DependencyConflictError) Unwrap() error { return ErrDependency }
