package user

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

// Repository provides persistence for users.
type Repository interface {
	List() ([]User, error)
	GetByID(id uuid.UUID) (User, error)
	GetByPhone(phone string) (User, error)
	Create(u User) (User, error)
	Update(id uuid.UUID, u User) (User, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	r := &InMemoryRepository{users: make(map[uuid.UUID]User, len(seed))}
	for _, u := range seed {
		r.users[u.ID] = u
	}
	return r
}

func (r *InMemoryRepository) List() ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *InMemoryRepository) GetByPhone(phone string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *InMemoryRepository) Update(id uuid.UUID, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return User{}, ErrNotFound
	}
	u.ID = id
	r.users[id] = u
	return u, nil
}
