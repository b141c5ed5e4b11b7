package order

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nkarpachev/pizza-shop-backend/internal/user"
)

// CartClearer empties a user's cart after an order is placed from it.
// Satisfied by the cart service.
type CartClearer interface {
	Clear(userID uuid.UUID) error
}

type Handler struct {
	service *Service
	cart    CartClearer
	log     zerolog.Logger
}

func NewHandler(s *Service, cart CartClearer, log zerolog.Logger) *Handler {
	return &Handler{service: s, cart: cart, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.place)
	app.Get("/api/v1/orders/me", h.listMine)
}

// RegisterStaffRoutes registers the store-side endpoints behind the provided
// guard middleware.
func (h *Handler) RegisterStaffRoutes(app *fiber.App, guard fiber.Handler) {
	app.Get("/api/v1/orders/store/:storeId", guard, h.listByStore)
	app.Get("/api/v1/orders/store/:storeId/filter", guard, h.listByStoreFiltered)
	app.Put("/api/v1/orders/status", guard, h.updateStatus)
}

func (h *Handler) place(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	payload := new(CreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	placed, err := h.service.Place(userID, *payload)
	if err != nil {
		switch err {
		case ErrEmptyOrder, ErrStoreRequired, ErrAddressRequired, ErrInvalidItem, ErrInvalidPayment:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case ErrStoreNotFound, ErrVariantNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	// the cart was consumed by the order; a failed clear leaves stale lines
	// but must not fail the placement
	if err := h.cart.Clear(userID); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart after order")
	}

	return c.Status(fiber.StatusCreated).JSON(placed)
}

func (h *Handler) listMine(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
	}
	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) listByStore(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("storeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid store id"})
	}
	orders, err := h.service.ListByStore(storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) listByStoreFiltered(c *fiber.Ctx) error {
	storeID, err := uuid.Parse(c.Params("storeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid store id"})
	}
	var query struct {
		Statuses []int `query:"status"`
	}
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	orders, err := h.service.ListByStoreFiltered(storeID, query.Statuses)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(struct {
		OrderID uuid.UUID `json:"order_id"`
		Status  Status    `json:"status"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.SetStatus(payload.OrderID, payload.Status)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrInvalidStatus:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}
