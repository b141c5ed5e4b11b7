package product

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT id, name, description, category_id, position, type, dough, is_available
		FROM products
		ORDER BY position, id
	`
	listProductsByCategoryQuery = `
		SELECT id, name, description, category_id, position, type, dough, is_available
		FROM products
		WHERE category_id = $1
		ORDER BY position, id
	`
	getProductQuery = `
		SELECT id, name, description, category_id, position, type, dough, is_available
		FROM products
		WHERE id = $1
	`
	listVariantsQuery = `
		SELECT id, product_id, size, price, weight, calories, proteins, fats, carbohydrates, image, is_available
		FROM product_variants
		WHERE product_id = ANY($1::uuid[])
		ORDER BY price
	`
	insertProductQuery = `
		INSERT INTO products (id, name, description, category_id, position, type, dough, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	insertVariantQuery = `
		INSERT INTO product_variants (id, product_id, size, price, weight, calories, proteins, fats, carbohydrates, image, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	updateProductQuery = `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, position = $5, type = $6, dough = $7, is_available = $8
		WHERE id = $1
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Product, error) {
	return r.queryProducts(listProductsQuery)
}

func (r *PostgresRepository) ListByCategory(categoryID uuid.UUID) ([]Product, error) {
	return r.queryProducts(listProductsByCategoryQuery, categoryID)
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Product, error) {
	row := r.db.QueryRow(getProductQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	if err := r.attachVariants([]*Product{&p}); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return Product{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(insertProductQuery,
		p.ID, p.Name, p.Description, p.CategoryID, p.Position, p.Type, doughValue(p.Dough), p.IsAvailable); err != nil {
		return Product{}, err
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.ProductID = p.ID
		if _, err := tx.Exec(insertVariantQuery,
			v.ID, v.ProductID, v.Size, v.Price, v.Weight, v.Calories, v.Proteins, v.Fats, v.Carbohydrates, v.Image, v.IsAvailable); err != nil {
			return Product{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id uuid.UUID, p Product) (Product, error) {
	res, err := r.db.Exec(updateProductQuery,
		id, p.Name, p.Description, p.CategoryID, p.Position, p.Type, doughValue(p.Dough), p.IsAvailable)
	if err != nil {
		return Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) queryProducts(query string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Product, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.attachVariants(refs); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRepository) attachVariants(products []*Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	byID := make(map[uuid.UUID]*Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID.String())
		byID[p.ID] = p
		p.Variants = make([]Variant, 0)
	}

	rows, err := r.db.Query(listVariantsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Price, &v.Weight, &v.Calories, &v.Proteins, &v.Fats, &v.Carbohydrates, &v.Image, &v.IsAvailable); err != nil {
			return err
		}
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p     Product
		dough sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.Position, &p.Type, &dough, &p.IsAvailable); err != nil {
		return Product{}, err
	}
	if dough.Valid {
		d := Dough(dough.Int64)
		p.Dough = &d
	}
	return p, nil
}

func doughValue(d *Dough) any {
	if d == nil {
		return nil
	}
	return int(*d)
}
