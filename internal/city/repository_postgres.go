package city

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("city not found")

// Repository provides access to city rows.
type Repository interface {
	List() ([]City, error)
	GetByID(id uuid.UUID) (City, error)
	Create(c City) (City, error)
	Delete(id uuid.UUID) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]City, error) {
	rows, err := r.db.Query(`SELECT id, name FROM cities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]City, 0)
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (City, error) {
	var c City
	err := r.db.QueryRow(`SELECT id, name FROM cities WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return City{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) Create(c City) (City, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, err := r.db.Exec(`INSERT INTO cities (id, name) VALUES ($1, $2)`, c.ID, c.Name); err != nil {
		return City{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
