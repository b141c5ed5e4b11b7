package user

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/nkarpachev/pizza-shop-backend/internal/sms"
)

// CodeVerifier is the part of the SMS service the login flow needs.
type CodeVerifier interface {
	RequestCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) error
}

// TokenManager issues session tokens and revokes them on logout.
type TokenManager interface {
	Issue(userID uuid.UUID) (string, error)
	Revoke(ctx context.Context, raw string) error
}

type Handler struct {
	service *Service
	codes   CodeVerifier
	tokens  TokenManager
}

type requestCodeRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type verifyCodeRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

type profileUpdateRequest struct {
	Email       *string `json:"email,omitempty"`
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func NewHandler(service *Service, codes CodeVerifier, tokens TokenManager) *Handler {
	return &Handler{service: service, codes: codes, tokens: tokens}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/auth/request-code", h.requestCode)
	app.Post("/api/v1/auth/verify-code", h.verifyCode)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/auth/logout", h.logout)
	app.Get("/api/v1/profile", h.getProfile)
	// both PUT and PATCH accept partial payloads
	app.Put("/api/v1/profile", h.updateProfile)
	app.Patch("/api/v1/profile", h.updateProfile)
	app.Get("/api/v1/users", RequireRole(h.service, RoleAdmin), h.listUsers)
}

func (h *Handler) requestCode(c *fiber.Ctx) error {
	payload := new(requestCodeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.PhoneNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "phone_number is required"})
	}
	if err := h.codes.RequestCode(c.Context(), payload.PhoneNumber); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not send code"})
	}
	return c.JSON(fiber.Map{"message": "code sent"})
}

func (h *Handler) verifyCode(c *fiber.Ctx) error {
	payload := new(verifyCodeRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.PhoneNumber == "" || payload.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "phone_number and code are required"})
	}

	if err := h.codes.VerifyCode(c.Context(), payload.PhoneNumber, payload.Code); err != nil {
		switch err {
		case sms.ErrCodeMismatch, sms.ErrCodeNotFound:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid code"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	usr, err := h.service.GetOrCreateByPhone(payload.PhoneNumber)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	token, err := h.tokens.Issue(usr.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"user":    usr,
		"token":   token,
	})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok.Raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.tokens.Revoke(c.Context(), tok.Raw); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not revoke token"})
	}
	return c.JSON(fiber.Map{"message": "token revoked"})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	usr, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}
	return c.JSON(usr)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	existing, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Email != nil {
		existing.Email = payload.Email
	}
	if payload.Name != nil {
		existing.Name = payload.Name
	}
	if payload.DateOfBirth != nil {
		existing.DateOfBirth = payload.DateOfBirth
	}
	if payload.ImageURL != nil {
		existing.ImageURL = payload.ImageURL
	}

	updated, err := h.service.Update(userID, existing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(users)
}

// GetUserIDFromCtx extracts the authenticated user's id from the JWT the
// middleware stored in locals.
func GetUserIDFromCtx(c *fiber.Ctx) (uuid.UUID, error) {
	u := c.Locals("user")
	if u == nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}

// RequireRole loads the authenticated user and rejects the request unless
// their role is one of the allowed set.
func RequireRole(service ServiceInterface, roles ...Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserIDFromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		usr, err := service.GetByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		for _, role := range roles {
			if usr.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "insufficient permissions"})
	}
}

// RequireStaff admits any role above plain customer.
func RequireStaff(service ServiceInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := GetUserIDFromCtx(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		usr, err := service.GetByID(userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		if !usr.Role.IsStaff() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "insufficient permissions"})
		}
		return c.Next()
	}
}
