package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/cart"
	"github.com/nkarpachev/pizza-shop-backend/internal/product"
)

// Status is the order lifecycle state. The update operation accepts any
// in-range status without checking transition legality.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
)

func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

type PaymentMethod int

const (
	PaymentCash PaymentMethod = iota
	PaymentElectronic
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentElectronic
}

var (
	ErrNotFound        = errors.New("order not found")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrStoreRequired   = errors.New("store_id is required for pickup")
	ErrAddressRequired = errors.New("address is required for delivery")
	ErrStoreNotFound   = errors.New("store not found")
	ErrVariantNotFound = errors.New("product variant not found")
	ErrInvalidItem     = errors.New("invalid order item")
	ErrInvalidStatus   = errors.New("unknown order status")
	ErrInvalidPayment  = errors.New("unknown payment method")
)

// Address is the delivery destination captured with the order.
type Address struct {
	Street    string  `json:"street"`
	House     string  `json:"house"`
	Apartment *string `json:"apartment,omitempty"`
	Comment   *string `json:"comment,omitempty"`
}

// ItemIngredient is an ingredient selection copied onto an order line.
// IngredientName is filled on reads for display; it is not part of the
// snapshot taken at placement.
type ItemIngredient struct {
	IngredientID   uuid.UUID `json:"ingredient_id"`
	Quantity       int       `json:"quantity"`
	IsRemoved      bool      `json:"is_removed"`
	IngredientName string    `json:"ingredient_name,omitempty"`
}

// Item is an immutable order line. Price, product name and variant size are
// snapshots taken at placement and survive later catalog edits.
type Item struct {
	ID               uuid.UUID        `json:"id"`
	OrderID          uuid.UUID        `json:"-"`
	ProductVariantID uuid.UUID        `json:"product_variant_id"`
	Quantity         int              `json:"quantity"`
	PricePerItem     decimal.Decimal  `json:"price_per_item"`
	ProductName      string           `json:"product_name"`
	VariantSize      string           `json:"variant_size"`
	Kind             cart.Kind        `json:"type"`
	Dough            *product.Dough   `json:"dough,omitempty"`
	Added            []ItemIngredient `json:"added_ingredients"`
	Removed          []ItemIngredient `json:"removed_ingredients"`
}

type Order struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	IsPickup      bool            `json:"is_pickup"`
	StoreID       *uuid.UUID      `json:"store_id,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Address       *Address        `json:"address,omitempty"`
	Items         []Item          `json:"items"`
}

// ItemRequest is one line of an order submission, shaped like a cart line.
type ItemRequest struct {
	ProductVariantID   uuid.UUID        `json:"product_variant_id"`
	Quantity           int              `json:"quantity"`
	Type               cart.Kind        `json:"type"`
	Dough              *product.Dough   `json:"dough,omitempty"`
	AddedIngredients   []ItemIngredient `json:"added_ingredients"`
	RemovedIngredients []ItemIngredient `json:"removed_ingredients"`
}

// CreateRequest is an order submission.
type CreateRequest struct {
	IsPickup      bool          `json:"is_pickup"`
	StoreID       *uuid.UUID    `json:"store_id,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Address       *Address      `json:"address,omitempty"`
	Items         []ItemRequest `json:"items"`
}
