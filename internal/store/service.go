package store

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidStore = errors.New("invalid store")

type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Store, error) {
	return s.repo.List()
}

func (s *Service) ListByCity(cityID uuid.UUID) ([]Store, error) {
	return s.repo.ListByCity(cityID)
}

func (s *Service) GetByID(id uuid.UUID) (Store, error) {
	return s.repo.GetByID(id)
}

// Exists reports whether a store row is present. Order placement uses it as
// its hard pickup-validation lookup.
func (s *Service) Exists(id uuid.UUID) (bool, error) {
	_, err := s.repo.GetByID(id)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Create(st Store) (Store, error) {
	if st.Address == "" || st.PhoneNumber == "" || st.CityID == uuid.Nil {
		return Store{}, ErrInvalidStore
	}
	return s.repo.Create(st)
}

func (s *Service) Update(id uuid.UUID, st Store) (Store, error) {
	if st.Address == "" || st.PhoneNumber == "" || st.CityID == uuid.Nil {
		return Store{}, ErrInvalidStore
	}
	return s.repo.Update(id, st)
}

func (s *Service) Delete(id uuid.UUID) error {
	return s.repo.Delete(id)
}
