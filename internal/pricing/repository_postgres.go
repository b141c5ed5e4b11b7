package pricing

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostgresCatalog implements Catalog against the product_variants, products
// and ingredients tables.
type PostgresCatalog struct {
	db *sql.DB
}

const (
	getVariantQuery = `
		SELECT pv.id, pv.product_id, p.name, pv.size, pv.price
		FROM product_variants pv
		JOIN products p ON p.id = pv.product_id
		WHERE pv.id = $1
	`
	getIngredientPriceQuery = `SELECT price FROM ingredients WHERE id = $1`
)

func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) GetVariant(id uuid.UUID) (Variant, bool) {
	var v Variant
	err := c.db.QueryRow(getVariantQuery, id).Scan(&v.ID, &v.ProductID, &v.ProductName, &v.Size, &v.Price)
	if err != nil {
		// absent and unreadable rows are both treated as absent (fail-soft)
		return Variant{}, false
	}
	return v, true
}

func (c *PostgresCatalog) GetIngredientPrice(id uuid.UUID) (decimal.Decimal, bool) {
	var price decimal.Decimal
	if err := c.db.QueryRow(getIngredientPriceQuery, id).Scan(&price); err != nil {
		return decimal.Zero, false
	}
	return price, true
}
