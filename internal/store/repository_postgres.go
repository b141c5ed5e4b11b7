package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("store not found")

// Repository provides access to store rows.
type Repository interface {
	List() ([]Store, error)
	ListByCity(cityID uuid.UUID) ([]Store, error)
	GetByID(id uuid.UUID) (Store, error)
	Create(st Store) (Store, error)
	Update(id uuid.UUID, st Store) (Store, error)
	Delete(id uuid.UUID) error
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	storeColumns = `id, address, start_working_hours, end_working_hours, start_delivery_time, end_delivery_time, phone_number, min_order_price, city_id, created_at`

	listStoresQuery       = `SELECT ` + storeColumns + ` FROM stores ORDER BY address`
	listStoresByCityQuery = `SELECT ` + storeColumns + ` FROM stores WHERE city_id = $1 ORDER BY address`
	getStoreQuery         = `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	insertStoreQuery      = `
		INSERT INTO stores (id, address, start_working_hours, end_working_hours, start_delivery_time, end_delivery_time, phone_number, min_order_price, city_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	updateStoreQuery = `
		UPDATE stores
		SET address = $2, start_working_hours = $3, end_working_hours = $4, start_delivery_time = $5, end_delivery_time = $6, phone_number = $7, min_order_price = $8, city_id = $9
		WHERE id = $1
	`
	deleteStoreQuery = `DELETE FROM stores WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Store, error) {
	return r.queryStores(listStoresQuery)
}

func (r *PostgresRepository) ListByCity(cityID uuid.UUID) ([]Store, error) {
	return r.queryStores(listStoresByCityQuery, cityID)
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Store, error) {
	st, err := scanStore(r.db.QueryRow(getStoreQuery, id))
	if err == sql.ErrNoRows {
		return Store{}, ErrNotFound
	}
	return st, err
}

func (r *PostgresRepository) Create(st Store) (Store, error) {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.CreatedAt == "" {
		st.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := r.db.Exec(insertStoreQuery,
		st.ID, st.Address, st.StartWorkingHours, st.EndWorkingHours, st.StartDeliveryTime, st.EndDeliveryTime,
		st.PhoneNumber, st.MinOrderPrice, st.CityID, st.CreatedAt)
	if err != nil {
		return Store{}, err
	}
	return st, nil
}

func (r *PostgresRepository) Update(id uuid.UUID, st Store) (Store, error) {
	res, err := r.db.Exec(updateStoreQuery,
		id, st.Address, st.StartWorkingHours, st.EndWorkingHours, st.StartDeliveryTime, st.EndDeliveryTime,
		st.PhoneNumber, st.MinOrderPrice, st.CityID)
	if err != nil {
		return Store{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Store{}, ErrNotFound
	}
	st.ID = id
	return st, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(deleteStoreQuery, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) queryStores(query string, args ...any) ([]Store, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Store, 0)
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStore(row rowScanner) (Store, error) {
	var st Store
	err := row.Scan(&st.ID, &st.Address, &st.StartWorkingHours, &st.EndWorkingHours,
		&st.StartDeliveryTime, &st.EndDeliveryTime, &st.PhoneNumber, &st.MinOrderPrice, &st.CityID, &st.CreatedAt)
	return st, err
}
