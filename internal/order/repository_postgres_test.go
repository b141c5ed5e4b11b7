package order

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/cart"
)

func sampleOrder() Order {
	o := Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		TotalPrice:    decimal.NewFromInt(1600),
		IsPickup:      false,
		PaymentMethod: PaymentCash,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
		Address:       &Address{Street: "Lenina", House: "12"},
	}
	o.Items = []Item{{
		ID:               uuid.New(),
		OrderID:          o.ID,
		ProductVariantID: uuid.New(),
		Quantity:         2,
		PricePerItem:     decimal.NewFromInt(800),
		ProductName:      "Four Cheese",
		VariantSize:      "35cm",
		Kind:             cart.KindPizza,
		Added:            []ItemIngredient{{IngredientID: uuid.New(), Quantity: 1}},
	}}
	return o
}

func TestPostgresCreate_CommitsAllRowsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_addresses").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_item_ingredients").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := repo.Create(o); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_RollsBackOnLineFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_addresses").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if _, err := repo.Create(o); err == nil {
		t.Fatalf("expected error when a line insert fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(id, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.UpdateStatus(id, StatusCompleted); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
