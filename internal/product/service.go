package product

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidProduct = errors.New("invalid product")

// Service provides business logic for the product catalog.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Product, error) {
	return s.repo.List()
}

func (s *Service) ListByCategory(categoryID uuid.UUID) ([]Product, error) {
	return s.repo.ListByCategory(categoryID)
}

func (s *Service) GetByID(id uuid.UUID) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id uuid.UUID, p Product) (Product, error) {
	if err := validate(p); err != nil {
		return Product{}, err
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}

func validate(p Product) error {
	if p.Name == "" || p.CategoryID == uuid.Nil {
		return ErrInvalidProduct
	}
	// pizzas carry a dough default; everything else must not
	if p.Type != TypePizza && p.Dough != nil {
		return ErrInvalidProduct
	}
	for _, v := range p.Variants {
		if v.Price.IsNegative() {
			return ErrInvalidProduct
		}
	}
	return nil
}
