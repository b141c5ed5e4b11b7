package ingredient

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a pizza topping that can be added to or removed from a
// configurable product.
type Ingredient struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Image *string         `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}
