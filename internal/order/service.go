package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/cart"
	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
)

// StoreChecker reports whether a store exists. Satisfied by the store
// service.
type StoreChecker interface {
	Exists(id uuid.UUID) (bool, error)
}

// Service assembles orders. Unlike the cart path, catalog lookups here are
// hard failures: a missing variant or store aborts placement before any
// write.
type Service struct {
	repo    Repository
	catalog pricing.Catalog
	stores  StoreChecker
}

func NewService(repo Repository, catalog pricing.Catalog, stores StoreChecker) *Service {
	return &Service{repo: repo, catalog: catalog, stores: stores}
}

// Place validates a submission, snapshots every line against the current
// catalog and persists the order atomically. The total is the sum of
// unit price times quantity, computed once and never recomputed.
func (s *Service) Place(userID uuid.UUID, req CreateRequest) (Order, error) {
	if len(req.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	if !req.PaymentMethod.Valid() {
		return Order{}, ErrInvalidPayment
	}
	if req.IsPickup {
		if req.StoreID == nil {
			return Order{}, ErrStoreRequired
		}
		ok, err := s.stores.Exists(*req.StoreID)
		if err != nil {
			return Order{}, err
		}
		if !ok {
			return Order{}, ErrStoreNotFound
		}
	} else if req.Address == nil || req.Address.Street == "" || req.Address.House == "" {
		return Order{}, ErrAddressRequired
	}

	o := Order{
		ID:            uuid.New(),
		UserID:        userID,
		IsPickup:      req.IsPickup,
		StoreID:       req.StoreID,
		PaymentMethod: req.PaymentMethod,
		Status:        StatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if !req.IsPickup {
		o.Address = req.Address
	}

	total := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 || (item.Type != cart.KindSimple && item.Type != cart.KindPizza) {
			return Order{}, ErrInvalidItem
		}
		variant, ok := s.catalog.GetVariant(item.ProductVariantID)
		if !ok {
			return Order{}, ErrVariantNotFound
		}

		line := Item{
			ID:               uuid.New(),
			OrderID:          o.ID,
			ProductVariantID: variant.ID,
			Quantity:         item.Quantity,
			PricePerItem:     variant.Price,
			ProductName:      variant.ProductName,
			VariantSize:      variant.Size,
			Kind:             item.Type,
			Dough:            item.Dough,
		}
		for _, sel := range item.AddedIngredients {
			sel.IsRemoved = false
			line.Added = append(line.Added, sel)
		}
		for _, sel := range item.RemovedIngredients {
			sel.IsRemoved = true
			line.Removed = append(line.Removed, sel)
		}

		total = total.Add(variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		o.Items = append(o.Items, line)
	}
	o.TotalPrice = total

	return s.repo.Create(o)
}

// SetStatus moves an order to the given status. Any in-range status is
// accepted from any other; there is no transition-legality check.
func (s *Service) SetStatus(orderID uuid.UUID, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(orderID, status)
}

func (s *Service) ListByUser(userID uuid.UUID) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListByStore(storeID uuid.UUID) ([]Order, error) {
	return s.repo.ListByStore(storeID)
}

// ListByStoreFiltered lists a store's orders (delivery orders are visible to
// every store) filtered by signed status codes: a positive code includes
// that status, a negative code excludes it. Codes outside the known range
// are ignored.
func (s *Service) ListByStoreFiltered(storeID uuid.UUID, codes []int) ([]Order, error) {
	var include, exclude []Status
	for _, code := range codes {
		abs := code
		if abs < 0 {
			abs = -abs
		}
		st := Status(abs)
		if !st.Valid() {
			continue
		}
		if code >= 0 {
			include = append(include, st)
		} else {
			exclude = append(exclude, st)
		}
	}
	return s.repo.ListByStoreFiltered(storeID, include, exclude)
}
