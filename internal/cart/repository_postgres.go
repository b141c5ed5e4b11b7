package cart

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
	"github.com/nkarpachev/pizza-shop-backend/internal/product"
)

const (
	listByUserQuery = `
		SELECT ci.id, ci.user_id, ci.item_type, ci.product_variant_id,
		       ci.quantity, ci.price, ci.dough, ci.signature_hash, ci.added_at,
		       p.name, pv.size, pv.price
		FROM cart_items ci
		JOIN product_variants pv ON pv.id = ci.product_variant_id
		JOIN products p ON p.id = pv.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.added_at`

	findMatchQuery = `
		SELECT id, user_id, item_type, product_variant_id,
		       quantity, price, dough, signature_hash, added_at
		FROM cart_items
		WHERE user_id = $1 AND product_variant_id = $2 AND signature_hash = $3`

	getLineQuery = `
		SELECT id, user_id, item_type, product_variant_id,
		       quantity, price, dough, signature_hash, added_at
		FROM cart_items
		WHERE id = $1`

	insertLineQuery = `
		INSERT INTO cart_items (id, user_id, item_type, product_variant_id,
		                        quantity, price, dough, signature_hash, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	insertLineIngredientQuery = `
		INSERT INTO cart_item_ingredients (cart_item_id, ingredient_id, quantity, is_removed)
		VALUES ($1, $2, $3, $4)`

	updateQuantityQuery = `
		UPDATE cart_items SET quantity = $2 WHERE id = $1`

	deleteLineQuery = `
		DELETE FROM cart_items WHERE id = $1`

	clearByUserQuery = `
		DELETE FROM cart_items WHERE user_id = $1`

	listLineIngredientsQuery = `
		SELECT cii.ingredient_id, cii.quantity, cii.is_removed, i.name, i.price
		FROM cart_item_ingredients cii
		JOIN ingredients i ON i.id = cii.ingredient_id
		WHERE cii.cart_item_id = $1
		ORDER BY i.name`
)

const uniqueViolationCode = "23505"

// PostgresRepository persists cart lines in cart_items and their ingredient
// selections in cart_item_ingredients. A unique index on
// (user_id, product_variant_id, signature_hash) makes identical submissions
// collide instead of duplicating lines.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(userID uuid.UUID) ([]Line, error) {
	rows, err := r.db.Query(listByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var (
			line         Line
			dough        sql.NullInt64
			addedAt      time.Time
			variantSize  string
			variantPrice decimal.Decimal
		)
		if err := rows.Scan(&line.ID, &line.UserID, &line.Kind, &line.ProductVariantID,
			&line.Quantity, &line.Price, &dough, &line.SignatureHash, &addedAt,
			&line.Name, &variantSize, &variantPrice); err != nil {
			return nil, err
		}
		if dough.Valid {
			d := product.Dough(dough.Int64)
			line.Dough = &d
		}
		line.AddedAt = addedAt.UTC().Format(time.RFC3339)
		line.Variant = &pricing.Variant{
			ID:          line.ProductVariantID,
			ProductName: line.Name,
			Size:        variantSize,
			Price:       variantPrice,
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lines {
		if err := r.attachIngredients(&lines[i]); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func (r *PostgresRepository) FindMatch(userID, variantID uuid.UUID, signatureHash string) (Line, error) {
	line, err := r.scanLine(r.db.QueryRow(findMatchQuery, userID, variantID, signatureHash))
	if err != nil {
		return Line{}, err
	}
	if err := r.attachIngredients(&line); err != nil {
		return Line{}, err
	}
	return line, nil
}

func (r *PostgresRepository) Create(line Line) (Line, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Line{}, err
	}
	defer tx.Rollback()

	var dough any
	if line.Dough != nil {
		dough = int(*line.Dough)
	}
	addedAt, err := time.Parse(time.RFC3339, line.AddedAt)
	if err != nil {
		addedAt = time.Now().UTC()
	}
	if _, err := tx.Exec(insertLineQuery, line.ID, line.UserID, line.Kind,
		line.ProductVariantID, line.Quantity, line.Price, dough,
		line.SignatureHash, addedAt); err != nil {
		if isUniqueViolation(err) {
			return Line{}, ErrConflict
		}
		return Line{}, err
	}

	for _, sel := range line.Added {
		if _, err := tx.Exec(insertLineIngredientQuery, line.ID, sel.IngredientID, sel.Quantity, false); err != nil {
			return Line{}, err
		}
	}
	for _, sel := range line.Removed {
		if _, err := tx.Exec(insertLineIngredientQuery, line.ID, sel.IngredientID, sel.Quantity, true); err != nil {
			return Line{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return Line{}, ErrConflict
		}
		return Line{}, err
	}
	return line, nil
}

func (r *PostgresRepository) UpdateQuantity(lineID uuid.UUID, quantity int) (Line, error) {
	result, err := r.db.Exec(updateQuantityQuery, lineID, quantity)
	if err != nil {
		return Line{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Line{}, err
	}
	if affected == 0 {
		return Line{}, ErrNotFound
	}

	line, err := r.scanLine(r.db.QueryRow(getLineQuery, lineID))
	if err != nil {
		return Line{}, err
	}
	if err := r.attachIngredients(&line); err != nil {
		return Line{}, err
	}
	return line, nil
}

func (r *PostgresRepository) Delete(lineID uuid.UUID) error {
	result, err := r.db.Exec(deleteLineQuery, lineID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(userID uuid.UUID) error {
	_, err := r.db.Exec(clearByUserQuery, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanLine(row rowScanner) (Line, error) {
	var (
		line    Line
		dough   sql.NullInt64
		addedAt time.Time
	)
	err := row.Scan(&line.ID, &line.UserID, &line.Kind, &line.ProductVariantID,
		&line.Quantity, &line.Price, &dough, &line.SignatureHash, &addedAt)
	if err == sql.ErrNoRows {
		return Line{}, ErrNotFound
	}
	if err != nil {
		return Line{}, err
	}
	if dough.Valid {
		d := product.Dough(dough.Int64)
		line.Dough = &d
	}
	line.AddedAt = addedAt.UTC().Format(time.RFC3339)
	return line, nil
}

func (r *PostgresRepository) attachIngredients(line *Line) error {
	rows, err := r.db.Query(listLineIngredientsQuery, line.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	line.Added = nil
	line.Removed = nil
	for rows.Next() {
		var (
			sel       IngredientSelection
			isRemoved bool
			price     decimal.Decimal
		)
		if err := rows.Scan(&sel.IngredientID, &sel.Quantity, &isRemoved, &sel.Name, &price); err != nil {
			return err
		}
		sel.Price = &price
		if isRemoved {
			line.Removed = append(line.Removed, sel)
		} else {
			line.Added = append(line.Added, sel)
		}
	}
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
