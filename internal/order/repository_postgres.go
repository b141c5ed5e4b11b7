package order

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nkarpachev/pizza-shop-backend/internal/product"
)

const (
	orderColumns = `id, user_id, total_price, is_pickup, store_id, payment_method, status, created_at`

	getOrderQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1`

	listByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	listByStoreQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE store_id = $1
		ORDER BY created_at DESC`

	listByStoreVisibleQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (store_id = $1 OR is_pickup = FALSE)
		ORDER BY created_at DESC`

	listByStoreIncludeQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (store_id = $1 OR is_pickup = FALSE) AND status = ANY($2)
		ORDER BY created_at DESC`

	listByStoreExcludeQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE (store_id = $1 OR is_pickup = FALSE) AND NOT (status = ANY($2))
		ORDER BY created_at DESC`

	insertOrderQuery = `
		INSERT INTO orders (id, user_id, total_price, is_pickup, store_id, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertAddressQuery = `
		INSERT INTO order_addresses (id, order_id, street, house, apartment, comment)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertItemQuery = `
		INSERT INTO order_items (id, order_id, product_variant_id, quantity, price_per_item,
		                         product_name, variant_size, item_type, dough)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	insertItemIngredientQuery = `
		INSERT INTO order_item_ingredients (id, order_item_id, ingredient_id, quantity, is_removed)
		VALUES ($1, $2, $3, $4, $5)`

	updateStatusQuery = `
		UPDATE orders SET status = $2 WHERE id = $1`

	getAddressQuery = `
		SELECT street, house, apartment, comment
		FROM order_addresses
		WHERE order_id = $1`

	listItemsQuery = `
		SELECT id, order_id, product_variant_id, quantity, price_per_item,
		       product_name, variant_size, item_type, dough
		FROM order_items
		WHERE order_id = $1`

	listItemIngredientsQuery = `
		SELECT oii.ingredient_id, oii.quantity, oii.is_removed, i.name
		FROM order_item_ingredients oii
		JOIN ingredients i ON i.id = oii.ingredient_id
		WHERE oii.order_item_id = $1
		ORDER BY i.name`
)

// PostgresRepository persists orders across the orders, order_addresses,
// order_items and order_item_ingredients tables. Create commits all rows in
// one transaction; a partially written order is never observable.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(o Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	var storeID any
	if o.StoreID != nil {
		storeID = *o.StoreID
	}
	if _, err := tx.Exec(insertOrderQuery, o.ID, o.UserID, o.TotalPrice, o.IsPickup,
		storeID, int(o.PaymentMethod), int(o.Status), o.CreatedAt); err != nil {
		return Order{}, err
	}

	if o.Address != nil {
		if _, err := tx.Exec(insertAddressQuery, uuid.New(), o.ID,
			o.Address.Street, o.Address.House, o.Address.Apartment, o.Address.Comment); err != nil {
			return Order{}, err
		}
	}

	for _, item := range o.Items {
		var dough any
		if item.Dough != nil {
			dough = int(*item.Dough)
		}
		if _, err := tx.Exec(insertItemQuery, item.ID, o.ID, item.ProductVariantID,
			item.Quantity, item.PricePerItem, item.ProductName, item.VariantSize,
			item.Kind, dough); err != nil {
			return Order{}, err
		}
		for _, sel := range append(append([]ItemIngredient{}, item.Added...), item.Removed...) {
			if _, err := tx.Exec(insertItemIngredientQuery, uuid.New(), item.ID,
				sel.IngredientID, sel.Quantity, sel.IsRemoved); err != nil {
				return Order{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Order, error) {
	o, err := r.scanOrder(r.db.QueryRow(getOrderQuery, id))
	if err != nil {
		return Order{}, err
	}
	if err := r.hydrate(&o); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(userID uuid.UUID) ([]Order, error) {
	return r.list(listByUserQuery, userID)
}

func (r *PostgresRepository) ListByStore(storeID uuid.UUID) ([]Order, error) {
	return r.list(listByStoreQuery, storeID)
}

func (r *PostgresRepository) ListByStoreFiltered(storeID uuid.UUID, include, exclude []Status) ([]Order, error) {
	switch {
	case len(include) > 0:
		return r.list(listByStoreIncludeQuery, storeID, pq.Array(statusInts(include)))
	case len(exclude) > 0:
		return r.list(listByStoreExcludeQuery, storeID, pq.Array(statusInts(exclude)))
	default:
		return r.list(listByStoreVisibleQuery, storeID)
	}
}

func (r *PostgresRepository) UpdateStatus(id uuid.UUID, status Status) (Order, error) {
	result, err := r.db.Exec(updateStatusQuery, id, int(status))
	if err != nil {
		return Order{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) list(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.hydrate(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOrder(row rowScanner) (Order, error) {
	var (
		o         Order
		storeID   uuid.NullUUID
		createdAt time.Time
	)
	err := row.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.IsPickup, &storeID,
		&o.PaymentMethod, &o.Status, &createdAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if storeID.Valid {
		id := storeID.UUID
		o.StoreID = &id
	}
	o.CreatedAt = createdAt.UTC()
	return o, nil
}

func (r *PostgresRepository) hydrate(o *Order) error {
	var addr Address
	err := r.db.QueryRow(getAddressQuery, o.ID).Scan(&addr.Street, &addr.House, &addr.Apartment, &addr.Comment)
	switch err {
	case nil:
		o.Address = &addr
	case sql.ErrNoRows:
		// pickup orders carry no address
	default:
		return err
	}

	rows, err := r.db.Query(listItemsQuery, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var (
			item  Item
			dough sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductVariantID,
			&item.Quantity, &item.PricePerItem, &item.ProductName,
			&item.VariantSize, &item.Kind, &dough); err != nil {
			return err
		}
		if dough.Valid {
			d := product.Dough(dough.Int64)
			item.Dough = &d
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range o.Items {
		if err := r.attachIngredients(&o.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) attachIngredients(item *Item) error {
	rows, err := r.db.Query(listItemIngredientsQuery, item.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	item.Added = nil
	item.Removed = nil
	for rows.Next() {
		var sel ItemIngredient
		if err := rows.Scan(&sel.IngredientID, &sel.Quantity, &sel.IsRemoved, &sel.IngredientName); err != nil {
			return err
		}
		if sel.IsRemoved {
			item.Removed = append(item.Removed, sel)
		} else {
			item.Added = append(item.Added, sel)
		}
	}
	return rows.Err()
}

func statusInts(statuses []Status) []int64 {
	out := make([]int64, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, int64(s))
	}
	return out
}
