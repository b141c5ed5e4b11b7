package city

import "github.com/google/uuid"

// City groups the stores a customer can order from.
type City struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
