package cart

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func TestPostgresCreate_MapsUniqueViolationToConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	line := Line{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Kind:             KindSimple,
		ProductVariantID: uuid.New(),
		Quantity:         1,
		Price:            decimal.NewFromInt(300),
		AddedAt:          time.Now().UTC().Format(time.RFC3339),
		SignatureHash:    "abc",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cart_items").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	if _, err := repo.Create(line); err != ErrConflict {
		t.Fatalf("expected ErrConflict for duplicate key, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresFindMatch_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	userID, variantID := uuid.New(), uuid.New()
	mock.ExpectQuery("FROM cart_items").
		WithArgs(userID, variantID, "deadbeef").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.FindMatch(userID, variantID, "deadbeef"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_PersistsIngredientSelections(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	added, removed := uuid.New(), uuid.New()
	line := Line{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Kind:             KindPizza,
		ProductVariantID: uuid.New(),
		Quantity:         2,
		Price:            decimal.NewFromInt(700),
		Added:            []IngredientSelection{{IngredientID: added, Quantity: 2}},
		Removed:          []IngredientSelection{{IngredientID: removed}},
		AddedAt:          time.Now().UTC().Format(time.RFC3339),
		SignatureHash:    "ffff",
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cart_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cart_item_ingredients").
		WithArgs(line.ID, added, 2, false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cart_item_ingredients").
		WithArgs(line.ID, removed, 0, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := repo.Create(line); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
