package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nkarpachev/pizza-shop-backend/internal/product"
)

// Signature is the canonical fingerprint of a configured cart item: its kind,
// dough choice, the set of removed ingredient ids and the set of
// (added ingredient id, quantity) pairs. Two submissions describe the same
// line exactly when their signatures are equal.
//
// The sets are stored in canonical form: an ingredient listed both as added
// and removed counts as removed only (same remove-wins rule the pricing
// resolver applies), so a request always carries the signature of the line it
// would create.
type Signature struct {
	kind    Kind
	dough   *product.Dough
	added   []addedEntry // sorted by ingredient id
	removed []string     // sorted ingredient ids
}

type addedEntry struct {
	ingredientID string
	quantity     int
}

// NewSignature canonicalizes a configuration into its fingerprint.
func NewSignature(kind Kind, dough *product.Dough, added, removed []IngredientSelection) Signature {
	addedIDs := make(map[string]struct{}, len(added))
	for _, sel := range added {
		addedIDs[sel.IngredientID.String()] = struct{}{}
	}
	removedIDs := make(map[string]struct{}, len(removed))
	for _, sel := range removed {
		removedIDs[sel.IngredientID.String()] = struct{}{}
	}

	sig := Signature{kind: kind, dough: dough}
	for _, sel := range added {
		id := sel.IngredientID.String()
		if _, gone := removedIDs[id]; gone {
			continue
		}
		sig.added = append(sig.added, addedEntry{ingredientID: id, quantity: sel.Quantity})
	}
	for id := range removedIDs {
		if _, also := addedIDs[id]; also {
			continue
		}
		sig.removed = append(sig.removed, id)
	}

	sort.Slice(sig.added, func(i, j int) bool { return sig.added[i].ingredientID < sig.added[j].ingredientID })
	sort.Strings(sig.removed)
	return sig
}

// NewSignatureFromRequest fingerprints an incoming submission.
func NewSignatureFromRequest(req ItemRequest) Signature {
	return NewSignature(req.Type, req.Dough, req.AddedIngredients, req.RemovedIngredients)
}

// NewSignatureFromLine fingerprints a persisted line.
func NewSignatureFromLine(line Line) Signature {
	return NewSignature(line.Kind, line.Dough, line.Added, line.Removed)
}

func (s Signature) Equal(other Signature) bool {
	return s.Hash() == other.Hash()
}

// Hash returns a stable hex digest of the canonical form, suitable for the
// storage-level uniqueness key on (user, variant, signature).
func (s Signature) Hash() string {
	var b strings.Builder
	b.WriteString(string(s.kind))
	b.WriteByte('|')
	if s.dough != nil {
		fmt.Fprintf(&b, "d%d", *s.dough)
	}
	b.WriteString("|r:")
	b.WriteString(strings.Join(s.removed, ","))
	b.WriteString("|a:")
	for i, entry := range s.added {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s:%d", entry.ingredientID, entry.quantity)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// CanonicalSelections returns the filtered add/remove sets the signature was
// built from, in the shape they are persisted: added entries keep their
// quantity, removed entries carry quantity zero.
func (s Signature) CanonicalSelections() (added, removed []IngredientSelection) {
	added = make([]IngredientSelection, 0, len(s.added))
	for _, entry := range s.added {
		added = append(added, IngredientSelection{
			IngredientID: mustParseUUID(entry.ingredientID),
			Quantity:     entry.quantity,
		})
	}
	removed = make([]IngredientSelection, 0, len(s.removed))
	for _, id := range s.removed {
		removed = append(removed, IngredientSelection{IngredientID: mustParseUUID(id)})
	}
	return added, removed
}

func mustParseUUID(s string) uuid.UUID {
	// signature entries are built from uuid.UUID values, so this cannot fail
	id, _ := uuid.Parse(s)
	return id
}
