package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestResolve_RemovedIngredientCancelsAdded(t *testing.T) {
	catalog := NewStaticCatalog()
	variantID := uuid.New()
	ingredientA := uuid.New()
	catalog.AddVariant(Variant{ID: variantID, Price: decimal.NewFromInt(500)})
	catalog.AddIngredient(ingredientA, decimal.NewFromInt(100))

	price := Resolve(catalog, variantID,
		[]Selection{{IngredientID: ingredientA, Quantity: 2}},
		[]Selection{{IngredientID: ingredientA, Quantity: 1}},
	)

	if !price.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500 with ingredient fully cancelled, got %s", price)
	}
}

func TestResolve_AddedIngredientsMultiplyByQuantity(t *testing.T) {
	catalog := NewStaticCatalog()
	variantID := uuid.New()
	cheese := uuid.New()
	bacon := uuid.New()
	catalog.AddVariant(Variant{ID: variantID, Price: decimal.NewFromInt(450)})
	catalog.AddIngredient(cheese, decimal.NewFromInt(79))
	catalog.AddIngredient(bacon, decimal.NewFromInt(120))

	price := Resolve(catalog, variantID, []Selection{
		{IngredientID: cheese, Quantity: 2},
		{IngredientID: bacon, Quantity: 1},
	}, nil)

	want := decimal.NewFromInt(450 + 79*2 + 120)
	if !price.Equal(want) {
		t.Fatalf("expected %s, got %s", want, price)
	}
}

func TestResolve_MonotonicInAddedQuantity(t *testing.T) {
	catalog := NewStaticCatalog()
	variantID := uuid.New()
	cheese := uuid.New()
	catalog.AddVariant(Variant{ID: variantID, Price: decimal.NewFromInt(300)})
	catalog.AddIngredient(cheese, decimal.NewFromInt(50))

	prev := decimal.Zero
	for qty := 1; qty <= 5; qty++ {
		price := Resolve(catalog, variantID, []Selection{{IngredientID: cheese, Quantity: qty}}, nil)
		if price.LessThan(prev) {
			t.Fatalf("price decreased from %s to %s at qty %d", prev, price, qty)
		}
		prev = price
	}
}

func TestResolve_MissingVariantAndIngredientContributeZero(t *testing.T) {
	catalog := NewStaticCatalog()
	unknownVariant := uuid.New()
	unknownIngredient := uuid.New()

	price := Resolve(catalog, unknownVariant, []Selection{{IngredientID: unknownIngredient, Quantity: 3}}, nil)
	if !price.IsZero() {
		t.Fatalf("expected zero price for fully unknown input, got %s", price)
	}

	// a known ingredient on an unknown variant still prices the ingredient
	cheese := uuid.New()
	catalog.AddIngredient(cheese, decimal.NewFromInt(60))
	price = Resolve(catalog, unknownVariant, []Selection{{IngredientID: cheese, Quantity: 2}}, nil)
	if !price.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected 120, got %s", price)
	}
}
