package pricing

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaticCatalog is a map-backed Catalog used for tests and local scenarios.
type StaticCatalog struct {
	mu          sync.RWMutex
	variants    map[uuid.UUID]Variant
	ingredients map[uuid.UUID]decimal.Decimal
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		variants:    make(map[uuid.UUID]Variant),
		ingredients: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (c *StaticCatalog) AddVariant(v Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variants[v.ID] = v
}

func (c *StaticCatalog) AddIngredient(id uuid.UUID, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingredients[id] = price
}

func (c *StaticCatalog) GetVariant(id uuid.UUID) (Variant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variants[id]
	return v, ok
}

func (c *StaticCatalog) GetIngredientPrice(id uuid.UUID) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.ingredients[id]
	return p, ok
}
