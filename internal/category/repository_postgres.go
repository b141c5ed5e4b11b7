package category

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("category not found")

// Repository provides access to category rows.
type Repository interface {
	ListByStore(storeID uuid.UUID) ([]Category, error)
	Create(cat Category) (Category, error)
	Update(id uuid.UUID, cat Category) (Category, error)
	Delete(id uuid.UUID) error
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesByStoreQuery = `
		SELECT id, name, store_id, type, position, is_available
		FROM categories
		WHERE store_id = $1
		ORDER BY position
	`
	insertCategoryQuery = `
		INSERT INTO categories (id, name, store_id, type, position, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	updateCategoryQuery = `
		UPDATE categories
		SET name = $2, store_id = $3, type = $4, position = $5, is_available = $6
		WHERE id = $1
	`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByStore(storeID uuid.UUID) ([]Category, error) {
	rows, err := r.db.Query(listCategoriesByStoreQuery, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.StoreID, &cat.Type, &cat.Position, &cat.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(cat Category) (Category, error) {
	if cat.ID == uuid.Nil {
		cat.ID = uuid.New()
	}
	if _, err := r.db.Exec(insertCategoryQuery, cat.ID, cat.Name, cat.StoreID, cat.Type, cat.Position, cat.IsAvailable); err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (r *PostgresRepository) Update(id uuid.UUID, cat Category) (Category, error) {
	res, err := r.db.Exec(updateCategoryQuery, id, cat.Name, cat.StoreID, cat.Type, cat.Position, cat.IsAvailable)
	if err != nil {
		return Category{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Category{}, ErrNotFound
	}
	cat.ID = id
	return cat, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(deleteCategoryQuery, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
