package store

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is a physical pizzeria a pickup order can be collected from.
// Delivery zones and map coordinates are handled elsewhere; the backend only
// keeps the scalar facts needed for ordering.
type Store struct {
	ID                uuid.UUID       `json:"id"`
	Address           string          `json:"address"`
	StartWorkingHours string          `json:"start_working_hours"`
	EndWorkingHours   string          `json:"end_working_hours"`
	StartDeliveryTime string          `json:"start_delivery_time"`
	EndDeliveryTime   string          `json:"end_delivery_time"`
	PhoneNumber       string          `json:"phone_number"`
	MinOrderPrice     decimal.Decimal `json:"min_order_price"`
	CityID            uuid.UUID       `json:"city_id"`
	CreatedAt         string          `json:"created_at,omitempty"`
}
