package product

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("product not found")

// Repository provides persistence for products and their variants.
type Repository interface {
	List() ([]Product, error)
	ListByCategory(categoryID uuid.UUID) ([]Product, error)
	GetByID(id uuid.UUID) (Product, error)
	Create(p Product) (Product, error)
	Update(id uuid.UUID, p Product) (Product, error)
	Delete(id uuid.UUID) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{products: make(map[uuid.UUID]Product, len(seed))}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) List() ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sortByPosition(out)
	return out, nil
}

func (r *InMemoryRepository) ListByCategory(categoryID uuid.UUID) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0)
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sortByPosition(out)
	return out, nil
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variants {
		if p.Variants[i].ID == uuid.Nil {
			p.Variants[i].ID = uuid.New()
		}
		p.Variants[i].ProductID = p.ID
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *InMemoryRepository) Update(id uuid.UUID, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return Product{}, ErrNotFound
	}
	p.ID = id
	r.products[id] = p
	return p, nil
}

func (r *InMemoryRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func sortByPosition(products []Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Position != products[j].Position {
			return products[i].Position < products[j].Position
		}
		return products[i].ID.String() < products[j].ID.String()
	})
}
