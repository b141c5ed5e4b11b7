package user

import (
	"time"

	"github.com/google/uuid"
)

// ServiceInterface is what other packages (order handlers, guards) depend on.
type ServiceInterface interface {
	GetByID(id uuid.UUID) (User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]User, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id uuid.UUID) (User, error) {
	return s.repo.GetByID(id)
}

// GetOrCreateByPhone returns the user for a verified phone number, creating
// the account on first login.
func (s *Service) GetOrCreateByPhone(phone string) (User, error) {
	existing, err := s.repo.GetByPhone(phone)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return User{}, err
	}
	return s.repo.Create(User{
		ID:          uuid.New(),
		PhoneNumber: phone,
		Role:        RoleUser,
		Scores:      0,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) Update(id uuid.UUID, u User) (User, error) {
	return s.repo.Update(id, u)
}
