package cart

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nkarpachev/pizza-shop-backend/internal/pricing"
)

func makeAppWithCartHandler(cHandler *Handler) *fiber.App {
	app := fiber.New()
	cHandler.RegisterPublicRoutes(app)
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
	cHandler.RegisterProtectedRoutes(app)
	return app
}

func TestCartRoutes_Basic(t *testing.T) {
	catalog, variantID, ingredientID := newTestCatalog(t)
	service := NewService(NewInMemoryRepository(), catalog)
	handler := NewHandler(service)
	app := makeAppWithCartHandler(handler)
	userID := uuid.New().String()

	// unauthorized access should be blocked
	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	// add a customized pizza
	body := fmt.Sprintf(`{"type":"pizza","product_variant_id":"%s","quantity":2,"dough":1,"added_ingredients":[{"ingredient_id":"%s","quantity":1}]}`,
		variantID, ingredientID)
	req2 := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-User-ID", userID)
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 for new cart line, got %d", res2.StatusCode)
	}
	b2, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b2), `"quantity":2`) {
		t.Fatalf("response missing quantity: %s", string(b2))
	}

	// identical submission merges quantities
	body3 := fmt.Sprintf(`{"type":"pizza","product_variant_id":"%s","quantity":1,"dough":1,"added_ingredients":[{"ingredient_id":"%s","quantity":1}]}`,
		variantID, ingredientID)
	req3 := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body3))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", userID)
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 for merged line, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), `"quantity":3`) {
		t.Fatalf("expected merged quantity 3, got %s", string(b3))
	}

	// negative delta down to zero removes the line
	body4 := fmt.Sprintf(`{"type":"pizza","product_variant_id":"%s","quantity":-3,"dough":1,"added_ingredients":[{"ingredient_id":"%s","quantity":1}]}`,
		variantID, ingredientID)
	req4 := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body4))
	req4.Header.Set("Content-Type", "application/json")
	req4.Header.Set("X-User-ID", userID)
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for removal, got %d", res4.StatusCode)
	}
	b4, _ := io.ReadAll(res4.Body)
	if !strings.Contains(string(b4), "removed") {
		t.Fatalf("expected removal message, got %s", string(b4))
	}

	// cart is empty again
	req5 := httptest.NewRequest("GET", "/api/v1/cart", nil)
	req5.Header.Set("X-User-ID", userID)
	res5, _ := app.Test(req5)
	if res5.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for GET, got %d", res5.StatusCode)
	}
	b5, _ := io.ReadAll(res5.Body)
	if strings.Contains(string(b5), "product_variant_id") {
		t.Fatalf("expected empty cart, got %s", string(b5))
	}
}

func TestCartRoutes_Validation(t *testing.T) {
	catalog, variantID, _ := newTestCatalog(t)
	service := NewService(NewInMemoryRepository(), catalog)
	handler := NewHandler(service)
	app := makeAppWithCartHandler(handler)

	// pizza without dough is rejected
	body := fmt.Sprintf(`{"type":"pizza","product_variant_id":"%s","quantity":1}`, variantID)
	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", uuid.New().String())
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for pizza without dough, got %d", res.StatusCode)
	}
}

func TestCartRoutes_ClearCart(t *testing.T) {
	catalog, variantID, ingredientID := newTestCatalog(t)
	service := NewService(NewInMemoryRepository(), catalog)
	handler := NewHandler(service)
	app := makeAppWithCartHandler(handler)
	userID := uuid.New()

	if _, err := service.Upsert(userID, pizzaRequest(variantID, ingredientID, 1)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	req.Header.Set("X-User-ID", userID.String())
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear, got %d", res.StatusCode)
	}

	lines, _ := service.GetCart(userID)
	if len(lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %d lines", len(lines))
	}
}

func TestCartRoutes_PreviewPriceIsPublic(t *testing.T) {
	catalog := pricing.NewStaticCatalog()
	variantID := uuid.New()
	catalog.AddVariant(pricing.Variant{ID: variantID, ProductName: "Margherita", Size: "25cm", Price: decimal.NewFromInt(450)})
	service := NewService(NewInMemoryRepository(), catalog)
	handler := NewHandler(service)
	app := makeAppWithCartHandler(handler)

	body := fmt.Sprintf(`{"type":"pizza","product_variant_id":"%s","quantity":1,"dough":0}`, variantID)
	req := httptest.NewRequest("POST", "/api/v1/cart/preview-price", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for anonymous preview, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "450") {
		t.Fatalf("expected price 450 in response, got %s", string(b))
	}
}
