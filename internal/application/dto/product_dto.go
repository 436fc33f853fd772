package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse representación HTTP de un producto del catálogo (solo lectura).
type ProductResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Active         bool             `json:"active"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
}
