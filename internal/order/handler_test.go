package order

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type recordingCart struct {
	cleared []uuid.UUID
}

func (c *recordingCart) Clear(userID uuid.UUID) error {
	c.cleared = append(c.cleared, userID)
	return nil
}

func makeAppWithOrderHandler(oHandler *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if _, err := uuid.Parse(v); err == nil {
				claims := jwt.MapClaims{"user_id": v}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	oHandler.RegisterProtectedRoutes(app)
	// guard is a no-op here; role checks are covered by the user package
	oHandler.RegisterStaffRoutes(app, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func TestOrderRoutes_PlaceAndList(t *testing.T) {
	service, _, variantID, _ := newTestService(t)
	cart := &recordingCart{}
	handler := NewHandler(service, cart, zerolog.Nop())
	app := makeAppWithOrderHandler(handler)
	userID := uuid.New()

	// unauthorized placement is blocked
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated placement, got %d", res.StatusCode)
	}

	body := fmt.Sprintf(`{"is_pickup":false,"payment_method":0,"address":{"street":"Lenina","house":"12"},"items":[{"product_variant_id":"%s","quantity":2,"type":"simple"}]}`, variantID)
	req2 := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", userID.String())
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res2.Body)
		t.Fatalf("expected 201 for placement, got %d: %s", res2.StatusCode, string(b))
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"product_name":"Four Cheese"`) {
		t.Fatalf("expected line snapshot in response, got %s", string(b2))
	}

	// placement consumed the cart
	if len(cart.cleared) != 1 || cart.cleared[0] != userID {
		t.Fatalf("expected cart cleared for %s, got %v", userID, cart.cleared)
	}

	// the order shows up in the user's history
	req3 := httptest.NewRequest("GET", "/api/v1/orders/me", nil)
	req3.Header.Set("X-User-ID", userID.String())
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for listing, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), variantID.String()) {
		t.Fatalf("expected the placed order in the listing, got %s", string(b3))
	}
}

func TestOrderRoutes_PlacementFailureKeepsCart(t *testing.T) {
	service, _, _, _ := newTestService(t)
	cart := &recordingCart{}
	handler := NewHandler(service, cart, zerolog.Nop())
	app := makeAppWithOrderHandler(handler)

	// unknown variant fails hard with 404 and must not clear the cart
	body := fmt.Sprintf(`{"is_pickup":false,"payment_method":0,"address":{"street":"Lenina","house":"12"},"items":[{"product_variant_id":"%s","quantity":1,"type":"simple"}]}`, uuid.New())
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", uuid.New().String())
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown variant, got %d", res.StatusCode)
	}
	if len(cart.cleared) != 0 {
		t.Fatalf("expected cart untouched after failed placement")
	}
}

func TestOrderRoutes_StatusUpdate(t *testing.T) {
	service, _, variantID, _ := newTestService(t)
	handler := NewHandler(service, &recordingCart{}, zerolog.Nop())
	app := makeAppWithOrderHandler(handler)

	placed, err := service.Place(uuid.New(), deliveryRequest(variantID, 1))
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	body := fmt.Sprintf(`{"order_id":"%s","status":2}`, placed.ID)
	req := httptest.NewRequest("PUT", "/api/v1/orders/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for status update, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"status":2`) {
		t.Fatalf("expected updated status in response, got %s", string(b))
	}

	// unknown order
	body2 := fmt.Sprintf(`{"order_id":"%s","status":1}`, uuid.New())
	req2 := httptest.NewRequest("PUT", "/api/v1/orders/status", strings.NewReader(body2))
	req2.Header.Set("Content-Type", "application/json")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", res2.StatusCode)
	}
}

func TestOrderRoutes_StoreFilterQuery(t *testing.T) {
	service, _, variantID, storeID := newTestService(t)
	handler := NewHandler(service, &recordingCart{}, zerolog.Nop())
	app := makeAppWithOrderHandler(handler)

	pickup := CreateRequest{
		IsPickup:      true,
		StoreID:       &storeID,
		PaymentMethod: PaymentCash,
		Items:         []ItemRequest{{ProductVariantID: variantID, Quantity: 1, Type: "simple"}},
	}
	placed, err := service.Place(uuid.New(), pickup)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if _, err := service.SetStatus(placed.ID, StatusInProgress); err != nil {
		t.Fatalf("set status: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/orders/store/"+storeID.String()+"/filter?status=1", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for filtered listing, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), placed.ID.String()) {
		t.Fatalf("expected in-progress order in filter results, got %s", string(b))
	}

	// excluding its status hides it
	req2 := httptest.NewRequest("GET", "/api/v1/orders/store/"+storeID.String()+"/filter?status=-1", nil)
	res2, _ := app.Test(req2)
	b2, _ := io.ReadAll(res2.Body)
	if strings.Contains(string(b2), placed.ID.String()) {
		t.Fatalf("expected excluded order to be hidden, got %s", string(b2))
	}
}
