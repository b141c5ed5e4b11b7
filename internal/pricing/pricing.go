package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is the purchasable SKU of a product as seen by the pricing code.
type Variant struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"name"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
}

// Selection is one ingredient add/remove instruction.
type Selection struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Quantity     int       `json:"quantity"`
}

// Catalog is the read-only lookup the resolver runs against. Implementations
// report absence through the bool; they never error. The cart path depends on
// this soft contract — order placement does its own hard lookups instead.
type Catalog interface {
	GetVariant(id uuid.UUID) (Variant, bool)
	GetIngredientPrice(id uuid.UUID) (decimal.Decimal, bool)
}

// Resolve computes the total price of a variant with ingredient
// customizations. A missing variant contributes zero, as does any added
// ingredient the catalog does not know. An ingredient listed as removed never
// contributes, even when it also appears in added (remove wins).
func Resolve(catalog Catalog, variantID uuid.UUID, added, removed []Selection) decimal.Decimal {
	total := decimal.Zero
	if variant, ok := catalog.GetVariant(variantID); ok {
		total = variant.Price
	}

	removedIDs := make(map[uuid.UUID]struct{}, len(removed))
	for _, sel := range removed {
		removedIDs[sel.IngredientID] = struct{}{}
	}

	for _, sel := range added {
		if _, gone := removedIDs[sel.IngredientID]; gone {
			continue
		}
		price, ok := catalog.GetIngredientPrice(sel.IngredientID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(sel.Quantity))))
	}

	return total
}
