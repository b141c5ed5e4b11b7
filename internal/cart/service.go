package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
)

// Service is the cart merge engine: it reconciles submissions against the
// persisted cart by structural equality and merges quantities.
type Service struct {
	repo    Repository
	catalog pricing.Catalog
}

func NewService(repo Repository, catalog pricing.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Upsert applies a cart submission for a user. A submission matching an
// existing line by signature adds its quantity to that line; reaching zero or
// below deletes the line, signalled by a nil result. A submission with no
// match creates a new line, pricing it once at insertion.
//
// Storage enforces uniqueness of (user, variant, signature); when a
// concurrent request wins the insert, the merge is re-run against the line it
// created.
func (s *Service) Upsert(userID uuid.UUID, req ItemRequest) (*Line, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sig := NewSignatureFromRequest(req)
	hash := sig.Hash()

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.repo.FindMatch(userID, req.ProductVariantID, hash)
		if err == nil {
			newQty := existing.Quantity + req.Quantity
			if newQty <= 0 {
				if err := s.repo.Delete(existing.ID); err != nil {
					return nil, err
				}
				return nil, nil
			}
			// price stays as fixed at first insertion
			updated, err := s.repo.UpdateQuantity(existing.ID, newQty)
			if err != nil {
				return nil, err
			}
			return &updated, nil
		}
		if err != ErrNotFound {
			return nil, err
		}

		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		added, removed := sig.CanonicalSelections()
		line := Line{
			ID:               uuid.New(),
			UserID:           userID,
			Kind:             req.Type,
			ProductVariantID: req.ProductVariantID,
			Quantity:         req.Quantity,
			Price:            s.price(req),
			Dough:            req.Dough,
			Added:            added,
			Removed:          removed,
			AddedAt:          time.Now().UTC().Format(time.RFC3339),
			SignatureHash:    hash,
		}
		created, err := s.repo.Create(line)
		if err == ErrConflict {
			// lost the race against an identical submission; merge into it
			continue
		}
		if err != nil {
			return nil, err
		}
		return &created, nil
	}

	return nil, ErrConflict
}

// GetCart returns all of a user's cart lines.
func (s *Service) GetCart(userID uuid.UUID) ([]Line, error) {
	return s.repo.ListByUser(userID)
}

// Clear empties a user's cart.
func (s *Service) Clear(userID uuid.UUID) error {
	return s.repo.Clear(userID)
}

// PreviewPrice computes the price a submission would be stored with, without
// touching the cart. Missing catalog rows price as zero.
func (s *Service) PreviewPrice(req ItemRequest) (decimal.Decimal, error) {
	if err := req.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.price(req), nil
}

func (s *Service) price(req ItemRequest) decimal.Decimal {
	return pricing.Resolve(s.catalog, req.ProductVariantID,
		toPricingSelections(req.AddedIngredients),
		toPricingSelections(req.RemovedIngredients))
}
