package category

import "github.com/google/uuid"

// Type mirrors the product configuration kinds a category can hold.
type Type int

const (
	TypeGroup Type = iota
	TypePizza
	TypeConstructor
)

// Category is a store-scoped menu section. Position is unique within a store
// and drives display order.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	StoreID     uuid.UUID `json:"store_id"`
	Type        Type      `json:"type"`
	Position    int       `json:"position"`
	IsAvailable bool      `json:"is_available"`
}
