package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es el catálogo externo de productos consumido por el motor de stock.
// Solo lectura desde este núcleo: el catálogo lo administra otro componente.
type Product struct {
	ID             string
	Name           string
	Active         bool
	PurchasePrice  *decimal.Decimal // precio de compra; puede no estar definido
	ExpirationDate *time.Time       // fecha de vencimiento; nil si no aplica
}
