package order

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Repository persists orders. Create writes the header, address, lines and
// ingredient copies as one atomic unit. Listings return newest orders first.
type Repository interface {
	Create(o Order) (Order, error)
	GetByID(id uuid.UUID) (Order, error)
	ListByUser(userID uuid.UUID) ([]Order, error)
	ListByStore(storeID uuid.UUID) ([]Order, error)
	ListByStoreFiltered(storeID uuid.UUID, include, exclude []Status) ([]Order, error)
	UpdateStatus(id uuid.UUID, status Status) (Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]Order
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[uuid.UUID]Order)}
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return o, nil
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *InMemoryRepository) ListByUser(userID uuid.UUID) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListByStore(storeID uuid.UUID) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if o.StoreID != nil && *o.StoreID == storeID {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListByStoreFiltered(storeID uuid.UUID, include, exclude []Status) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		attached := o.StoreID != nil && *o.StoreID == storeID
		if !attached && o.IsPickup {
			continue
		}
		if !statusAllowed(o.Status, include, exclude) {
			continue
		}
		out = append(out, o)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id uuid.UUID, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	o.Status = status
	r.orders[id] = o
	return o, nil
}

// statusAllowed applies the signed-status filter: a non-empty include list
// admits only its members; otherwise a non-empty exclude list rejects its
// members; empty lists admit everything.
func statusAllowed(s Status, include, exclude []Status) bool {
	if len(include) > 0 {
		for _, st := range include {
			if st == s {
				return true
			}
		}
		return false
	}
	for _, st := range exclude {
		if st == s {
			return false
		}
	}
	return true
}

func sortNewestFirst(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
