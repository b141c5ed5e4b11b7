package ingredient

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("ingredient not found")

// Repository provides access to ingredient rows.
type Repository interface {
	List() ([]Ingredient, error)
	GetByID(id uuid.UUID) (Ingredient, error)
	Create(ing Ingredient) (Ingredient, error)
	Update(id uuid.UUID, ing Ingredient) (Ingredient, error)
	Delete(id uuid.UUID) error
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	listIngredientsQuery  = `SELECT id, name, image, price FROM ingredients ORDER BY name`
	getIngredientQuery    = `SELECT id, name, image, price FROM ingredients WHERE id = $1`
	insertIngredientQuery = `INSERT INTO ingredients (id, name, image, price) VALUES ($1, $2, $3, $4)`
	updateIngredientQuery = `UPDATE ingredients SET name = $2, image = $3, price = $4 WHERE id = $1`
	deleteIngredientQuery = `DELETE FROM ingredients WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Ingredient, error) {
	rows, err := r.db.Query(listIngredientsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Ingredient, 0)
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Image, &ing.Price); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Ingredient, error) {
	var ing Ingredient
	err := r.db.QueryRow(getIngredientQuery, id).Scan(&ing.ID, &ing.Name, &ing.Image, &ing.Price)
	if err == sql.ErrNoRows {
		return Ingredient{}, ErrNotFound
	}
	return ing, err
}

func (r *PostgresRepository) Create(ing Ingredient) (Ingredient, error) {
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	if _, err := r.db.Exec(insertIngredientQuery, ing.ID, ing.Name, ing.Image, ing.Price); err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}

func (r *PostgresRepository) Update(id uuid.UUID, ing Ingredient) (Ingredient, error) {
	res, err := r.db.Exec(updateIngredientQuery, id, ing.Name, ing.Image, ing.Price)
	if err != nil {
		return Ingredient{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Ingredient{}, ErrNotFound
	}
	ing.ID = id
	return ing, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(deleteIngredientQuery, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
