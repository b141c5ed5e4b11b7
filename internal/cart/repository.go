package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Repository provides persistence for cart lines. FindMatch and Create are
// keyed by (user, variant, signature hash); Create reports ErrConflict when
// another line already holds that key, which the service resolves by
// re-running the merge.
type Repository interface {
	ListByUser(userID uuid.UUID) ([]Line, error)
	FindMatch(userID, variantID uuid.UUID, signatureHash string) (Line, error)
	Create(line Line) (Line, error)
	UpdateQuantity(lineID uuid.UUID, quantity int) (Line, error)
	Delete(lineID uuid.UUID) error
	Clear(userID uuid.UUID) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	lines map[uuid.UUID]Line
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{lines: make(map[uuid.UUID]Line)}
}

func (r *InMemoryRepository) ListByUser(userID uuid.UUID) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Line, 0)
	for _, line := range r.lines {
		if line.UserID == userID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) FindMatch(userID, variantID uuid.UUID, signatureHash string) (Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, line := range r.lines {
		if line.UserID == userID && line.ProductVariantID == variantID && line.SignatureHash == signatureHash {
			return line, nil
		}
	}
	return Line{}, ErrNotFound
}

func (r *InMemoryRepository) Create(line Line) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.lines {
		if existing.UserID == line.UserID && existing.ProductVariantID == line.ProductVariantID && existing.SignatureHash == line.SignatureHash {
			return Line{}, ErrConflict
		}
	}
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	r.lines[line.ID] = line
	return line, nil
}

func (r *InMemoryRepository) UpdateQuantity(lineID uuid.UUID, quantity int) (Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, ok := r.lines[lineID]
	if !ok {
		return Line{}, ErrNotFound
	}
	line.Quantity = quantity
	r.lines[lineID] = line
	return line, nil
}

func (r *InMemoryRepository) Delete(lineID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lines[lineID]; !ok {
		return ErrNotFound
	}
	delete(r.lines, lineID)
	return nil
}

func (r *InMemoryRepository) Clear(userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, line := range r.lines {
		if line.UserID == userID {
			delete(r.lines, id)
		}
	}
	return nil
}
