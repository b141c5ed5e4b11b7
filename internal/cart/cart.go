package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
	"github.com/nkarpachev/pizza-shop-backend/internal/product"
)

// Kind discriminates the cart-line union: plain catalog items and
// customizable pizzas.
type Kind string

const (
	KindSimple Kind = "simple"
	KindPizza  Kind = "pizza"
)

var (
	ErrNotFound        = errors.New("cart line not found")
	ErrConflict        = errors.New("cart line already exists")
	ErrUnknownItemType = errors.New("unknown cart item type")
	ErrInvalidItem     = errors.New("invalid cart item")
	ErrInvalidQuantity = errors.New("quantity must be positive for a new cart line")
)

// IngredientSelection is one add/remove instruction on a pizza line. Name and
// Price are display fields filled in when the cart is read back.
type IngredientSelection struct {
	IngredientID uuid.UUID        `json:"ingredient_id"`
	Quantity     int              `json:"quantity"`
	Name         string           `json:"name,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
}

// Line is a persisted cart entry. Price is computed once when the line is
// first created and is not recomputed on quantity merges.
type Line struct {
	ID               uuid.UUID             `json:"id"`
	UserID           uuid.UUID             `json:"-"`
	Kind             Kind                  `json:"type"`
	ProductVariantID uuid.UUID             `json:"product_variant_id"`
	Quantity         int                   `json:"quantity"`
	Price            decimal.Decimal       `json:"price"`
	Dough            *product.Dough        `json:"dough,omitempty"`
	Added            []IngredientSelection `json:"added_ingredients,omitempty"`
	Removed          []IngredientSelection `json:"removed_ingredients,omitempty"`
	Name             string                `json:"name,omitempty"`
	Variant          *pricing.Variant      `json:"variant,omitempty"`
	AddedAt          string                `json:"added_at,omitempty"`
	SignatureHash    string                `json:"-"`
}

// ItemRequest is the discriminated cart submission: {"type":"simple",...} or
// {"type":"pizza",...}.
type ItemRequest struct {
	Type               Kind                  `json:"type"`
	ProductVariantID   uuid.UUID             `json:"product_variant_id"`
	Quantity           int                   `json:"quantity"`
	Dough              *product.Dough        `json:"dough,omitempty"`
	AddedIngredients   []IngredientSelection `json:"added_ingredients"`
	RemovedIngredients []IngredientSelection `json:"removed_ingredients"`
}

// Validate rejects malformed submissions before any storage is touched.
func (r ItemRequest) Validate() error {
	switch r.Type {
	case KindSimple:
		if r.Dough != nil || len(r.AddedIngredients) > 0 || len(r.RemovedIngredients) > 0 {
			return ErrInvalidItem
		}
	case KindPizza:
		if r.Dough == nil {
			return ErrInvalidItem
		}
	default:
		return ErrUnknownItemType
	}
	if r.ProductVariantID == uuid.Nil {
		return ErrInvalidItem
	}
	for _, sel := range append(r.AddedIngredients, r.RemovedIngredients...) {
		if sel.IngredientID == uuid.Nil || sel.Quantity < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

func toPricingSelections(selections []IngredientSelection) []pricing.Selection {
	out := make([]pricing.Selection, 0, len(selections))
	for _, sel := range selections {
		out = append(out, pricing.Selection{IngredientID: sel.IngredientID, Quantity: sel.Quantity})
	}
	return out
}
