package ingredient

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidIngredient = errors.New("invalid ingredient")

// Service provides business logic for ingredients.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Ingredient, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id uuid.UUID) (Ingredient, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(ing Ingredient) (Ingredient, error) {
	if ing.Name == "" || ing.Price.IsNegative() {
		return Ingredient{}, ErrInvalidIngredient
	}
	return s.repo.Create(ing)
}

func (s *Service) Update(id uuid.UUID, ing Ingredient) (Ingredient, error) {
	if ing.Name == "" || ing.Price.IsNegative() {
		return Ingredient{}, ErrInvalidIngredient
	}
	return s.repo.Update(id, ing)
}

func (s *Service) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}
