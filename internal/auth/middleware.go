package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
)

// RevocationMiddleware rejects requests carrying a token that was revoked via
// logout. It runs after the JWT middleware, which leaves the parsed token in
// locals under "user".
func RevocationMiddleware(tokens *Tokens, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := c.Locals("user")
		if u == nil {
			return c.Next()
		}
		tok, ok := u.(*jwt.Token)
		if !ok || tok.Raw == "" {
			return c.Next()
		}
		revoked, err := tokens.IsRevoked(c.Context(), tok.Raw)
		if err != nil {
			log.Warn().Err(err).Msg("revocation check failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not verify token"})
		}
		if revoked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "token revoked"})
		}
		return c.Next()
	}
}
