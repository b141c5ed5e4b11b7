package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/cart"
	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
)

type staticStores struct {
	ids map[uuid.UUID]bool
}

func (s staticStores) Exists(id uuid.UUID) (bool, error) {
	return s.ids[id], nil
}

func newTestService(t *testing.T) (*Service, *InMemoryRepository, uuid.UUID, uuid.UUID) {
	t.Helper()
	catalog := pricing.NewStaticCatalog()
	variantID := uuid.New()
	catalog.AddVariant(pricing.Variant{
		ID:          variantID,
		ProductName: "Four Cheese",
		Size:        "35cm",
		Price:       decimal.NewFromInt(800),
	})
	storeID := uuid.New()
	repo := NewInMemoryRepository()
	service := NewService(repo, catalog, staticStores{ids: map[uuid.UUID]bool{storeID: true}})
	return service, repo, variantID, storeID
}

func deliveryRequest(variantID uuid.UUID, qty int) CreateRequest {
	return CreateRequest{
		IsPickup:      false,
		PaymentMethod: PaymentCash,
		Address:       &Address{Street: "Lenina", House: "12"},
		Items: []ItemRequest{{
			ProductVariantID: variantID,
			Quantity:         qty,
			Type:             cart.KindSimple,
		}},
	}
}

func TestPlace_SnapshotsLinesAndTotal(t *testing.T) {
	service, _, variantID, _ := newTestService(t)
	userID := uuid.New()

	placed, err := service.Place(userID, deliveryRequest(variantID, 3))
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if placed.Status != StatusPending {
		t.Fatalf("expected new order to be pending, got %v", placed.Status)
	}
	if len(placed.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(placed.Items))
	}
	line := placed.Items[0]
	if line.ProductName != "Four Cheese" || line.VariantSize != "35cm" {
		t.Fatalf("expected catalog snapshot on the line, got %+v", line)
	}
	if !line.PricePerItem.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected unit price 800, got %s", line.PricePerItem)
	}
	if !placed.TotalPrice.Equal(decimal.NewFromInt(2400)) {
		t.Fatalf("expected total 2400, got %s", placed.TotalPrice)
	}
}

func TestPlace_TotalSurvivesCatalogChanges(t *testing.T) {
	catalog := pricing.NewStaticCatalog()
	variantID := uuid.New()
	catalog.AddVariant(pricing.Variant{ID: variantID, ProductName: "Hawaiian", Size: "30cm", Price: decimal.NewFromInt(600)})
	repo := NewInMemoryRepository()
	service := NewService(repo, catalog, staticStores{})

	placed, err := service.Place(uuid.New(), deliveryRequest(variantID, 2))
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	catalog.AddVariant(pricing.Variant{ID: variantID, ProductName: "Hawaiian", Size: "30cm", Price: decimal.NewFromInt(999)})

	stored, err := repo.GetByID(placed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.TotalPrice.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected total 1200 to survive the price change, got %s", stored.TotalPrice)
	}
	if !stored.Items[0].PricePerItem.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected unit price snapshot 600, got %s", stored.Items[0].PricePerItem)
	}
}

func TestPlace_Validations(t *testing.T) {
	service, repo, variantID, storeID := newTestService(t)
	userID := uuid.New()

	cases := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"empty order", CreateRequest{IsPickup: true, StoreID: &storeID, PaymentMethod: PaymentCash}, ErrEmptyOrder},
		{"pickup without store", func() CreateRequest {
			r := deliveryRequest(variantID, 1)
			r.IsPickup = true
			r.Address = nil
			return r
		}(), ErrStoreRequired},
		{"delivery without address", func() CreateRequest {
			r := deliveryRequest(variantID, 1)
			r.Address = nil
			return r
		}(), ErrAddressRequired},
		{"unknown store", func() CreateRequest {
			r := deliveryRequest(variantID, 1)
			r.IsPickup = true
			missing := uuid.New()
			r.StoreID = &missing
			return r
		}(), ErrStoreNotFound},
		{"unknown variant", deliveryRequest(uuid.New(), 1), ErrVariantNotFound},
		{"non-positive quantity", deliveryRequest(variantID, 0), ErrInvalidItem},
		{"unknown payment method", func() CreateRequest {
			r := deliveryRequest(variantID, 1)
			r.PaymentMethod = PaymentMethod(9)
			return r
		}(), ErrInvalidPayment},
	}
	for _, tc := range cases {
		if _, err := service.Place(userID, tc.req); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// a rejected placement must not leave an order behind
	orders, _ := repo.ListByUser(userID)
	if len(orders) != 0 {
		t.Fatalf("expected no persisted orders after failed placements, got %d", len(orders))
	}
}

func TestSetStatus_PermissiveButInRange(t *testing.T) {
	service, _, variantID, _ := newTestService(t)

	placed, err := service.Place(uuid.New(), deliveryRequest(variantID, 1))
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// any in-range status is reachable from any other
	for _, st := range []Status{StatusCompleted, StatusPending, StatusCancelled, StatusInProgress} {
		updated, err := service.SetStatus(placed.ID, st)
		if err != nil {
			t.Fatalf("set status %v: %v", st, err)
		}
		if updated.Status != st {
			t.Fatalf("expected status %v, got %v", st, updated.Status)
		}
	}

	if _, err := service.SetStatus(placed.ID, Status(7)); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus for out-of-range status, got %v", err)
	}
	if _, err := service.SetStatus(uuid.New(), StatusCompleted); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown order, got %v", err)
	}
}

func TestListByStoreFiltered_SignedCodes(t *testing.T) {
	service, repo, variantID, storeID := newTestService(t)
	userID := uuid.New()

	// pickup order attached to the store
	pickup := CreateRequest{
		IsPickup:      true,
		StoreID:       &storeID,
		PaymentMethod: PaymentElectronic,
		Items:         []ItemRequest{{ProductVariantID: variantID, Quantity: 1, Type: cart.KindSimple}},
	}
	attached, err := service.Place(userID, pickup)
	if err != nil {
		t.Fatalf("place pickup: %v", err)
	}
	// delivery order, visible to every store
	delivery, err := service.Place(userID, deliveryRequest(variantID, 1))
	if err != nil {
		t.Fatalf("place delivery: %v", err)
	}
	// pickup order for a different store stays invisible
	otherStore := uuid.New()
	foreignID := uuid.New()
	repo.orders[foreignID] = Order{ID: foreignID, IsPickup: true, StoreID: &otherStore, Status: StatusPending}

	if _, err := service.SetStatus(attached.ID, StatusCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}

	// no codes: both visible orders
	all, err := service.ListByStoreFiltered(storeID, nil)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 visible orders, got %d", len(all))
	}

	// positive code includes only that status
	completed, err := service.ListByStoreFiltered(storeID, []int{int(StatusCompleted)})
	if err != nil {
		t.Fatalf("filter include: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != attached.ID {
		t.Fatalf("expected only the completed pickup order, got %+v", completed)
	}

	// negative code excludes that status
	notCompleted, err := service.ListByStoreFiltered(storeID, []int{-int(StatusCompleted)})
	if err != nil {
		t.Fatalf("filter exclude: %v", err)
	}
	if len(notCompleted) != 1 || notCompleted[0].ID != delivery.ID {
		t.Fatalf("expected only the pending delivery order, got %+v", notCompleted)
	}

	// out-of-range codes are ignored
	ignored, err := service.ListByStoreFiltered(storeID, []int{42})
	if err != nil {
		t.Fatalf("filter ignored: %v", err)
	}
	if len(ignored) != 2 {
		t.Fatalf("expected unknown codes to be ignored, got %d orders", len(ignored))
	}
}
