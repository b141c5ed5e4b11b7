package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nkarpachev/pizza-shop-backend/internal/user"
)

// Handler exposes the cart over HTTP. All cart state is scoped to the
// authenticated user taken from the JWT.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes registers the endpoints that do not require a logged-in
// user. Price preview works for anonymous visitors building a pizza.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/cart/preview-price", h.previewPrice)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.upsertItem)
	app.Delete("/api/v1/cart", h.clear)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	lines, err := h.service.GetCart(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(lines)
}

func (h *Handler) upsertItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	payload := new(ItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	line, err := h.service.Upsert(userID, *payload)
	if err != nil {
		switch err {
		case ErrUnknownItemType, ErrInvalidItem, ErrInvalidQuantity:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "cart item changed concurrently, retry"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	if line == nil {
		return c.JSON(fiber.Map{"message": "item removed from cart"})
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

func (h *Handler) clear(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.Clear(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) previewPrice(c *fiber.Ctx) error {
	payload := new(ItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	price, err := h.service.PreviewPrice(*payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"price": price})
}
