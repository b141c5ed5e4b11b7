package category

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidCategory = errors.New("invalid category")

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) ListByStore(storeID uuid.UUID) ([]Category, error) {
	return s.repo.ListByStore(storeID)
}

func (s *Service) Create(cat Category) (Category, error) {
	if cat.Name == "" || cat.StoreID == uuid.Nil {
		return Category{}, ErrInvalidCategory
	}
	return s.repo.Create(cat)
}

func (s *Service) Update(id uuid.UUID, cat Category) (Category, error) {
	if cat.Name == "" || cat.StoreID == uuid.Nil {
		return Category{}, ErrInvalidCategory
	}
	return s.repo.Update(id, cat)
}

func (s *Service) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}
