package city

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidCity = errors.New("invalid city")

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]City, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id uuid.UUID) (City, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(c City) (City, error) {
	if c.Name == "" {
		return City{}, ErrInvalidCity
	}
	return s.repo.Create(c)
}

func (s *Service) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}
