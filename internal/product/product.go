package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type distinguishes how a product is configured by the client.
type Type int

const (
	TypeGroup Type = iota
	TypeConstructor
	TypePizza
)

// Dough is the pizza base style. It participates in cart-line matching:
// the same pizza on thick and thin dough is two distinct cart lines.
type Dough int

const (
	DoughThick Dough = iota
	DoughThin
)

type Variant struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Size          string          `json:"size"`
	Price         decimal.Decimal `json:"price"`
	Weight        *float64        `json:"weight,omitempty"`
	Calories      *float64        `json:"calories,omitempty"`
	Proteins      *float64        `json:"proteins,omitempty"`
	Fats          *float64        `json:"fats,omitempty"`
	Carbohydrates *float64        `json:"carbohydrates,omitempty"`
	Image         *string         `json:"image,omitempty"`
	IsAvailable   bool            `json:"is_available"`
}

type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id"`
	Position    int       `json:"position"`
	Type        Type      `json:"type"`
	Dough       *Dough    `json:"dough,omitempty"`
	IsAvailable bool      `json:"is_available"`
	Variants    []Variant `json:"variants"`
}
