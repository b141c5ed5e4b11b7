package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Tokens issues and validates the HS256 JWTs used for customer sessions.
// Revocation is delegated to a RevocationStore so logged-out tokens stop
// working before they expire.
type Tokens struct {
	secret []byte
	store  RevocationStore
}

func NewTokens(secret []byte, store RevocationStore) *Tokens {
	return &Tokens{secret: secret, store: store}
}

func (t *Tokens) Issue(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates the signature and expiry of a raw token and returns the
// user id it was issued for.
func (t *Tokens) Parse(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// Revoke blacklists a token for the remainder of its lifetime. An
// unparseable expiry falls back to the full lifetime so a revoked token can
// never outlive its blacklist entry.
func (t *Tokens) Revoke(ctx context.Context, raw string) error {
	ttl := tokenLifetime
	if token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{}); err == nil {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
					ttl = until
				}
			}
		}
	}
	return t.store.Revoke(ctx, raw, ttl)
}

func (t *Tokens) IsRevoked(ctx context.Context, raw string) (bool, error) {
	return t.store.IsRevoked(ctx, raw)
}
