package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"
)

func TestPlaceOrder_Created(t *testing.T) {
	deps := newTestDeps(user(7))
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/order/", "order_items=1%3A2&order_items=3%3A1", "tok"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	want := []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 3, Quantity: 1}}
	if len(deps.orders.placed) != 2 || deps.orders.placed[0] != want[0] || deps.orders.placed[1] != want[1] {
		t.Fatalf("unexpected items %+v", deps.orders.placed)
	}
	if !strings.Contains(rec.Body.String(), `"status":"PENDING"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestPlaceOrder_Empty(t *testing.T) {
	deps := newTestDeps(user(7))
	deps.orders.err = domain.ErrEmptyOrder
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/order/", "", "tok"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"order_items"`) {
		t.Fatalf("expected order_items field error, got %s", rec.Body.String())
	}
}

func TestPlaceOrder_Malformed(t *testing.T) {
	deps := newTestDeps(user(7))
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/order/", "order_items=banana", "tok"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if deps.orders.calls != 0 {
		t.Fatal("service should not be called for malformed items")
	}
}

func TestPlaceOrder_QuantityOutOfRange(t *testing.T) {
	deps := newTestDeps(user(7))
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/order/", "order_items=1:3000000000", "tok"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"order_items"`) {
		t.Fatalf("expected order_items field error, got %s", rec.Body.String())
	}
	if deps.orders.calls != 0 {
		t.Fatal("service should not be called for an out of range quantity")
	}
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing product", err: domain.ErrProductNotFound, want: http.StatusNotFound},
		{name: "insufficient stock", err: domain.ErrInsufficientStock, want: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(user(7))
			deps.orders.err = tt.err
			router := deps.router(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, postForm("/order/", "order_items=1%3A2", "tok"))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestCheckoutCart(t *testing.T) {
	deps := newTestDeps(user(7))
	router := deps.router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postForm("/order/cart", "", "tok"))

	if rec.Code != http.StatusCreated || deps.orders.checkouts != 1 {
		t.Fatalf("unexpected response %d (checkouts=%d)", rec.Code, deps.orders.checkouts)
	}
}

func TestListOrders_PassesRole(t *testing.T) {
	deps := newTestDeps(admin(1))
	router := deps.router(t)

	req := httptest.NewRequest(http.MethodGet, "/order/list", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deps.orders.listRole != domain.RoleAdmin || deps.orders.listID != 1 {
		t.Fatalf("unexpected call role=%s id=%d", deps.orders.listRole, deps.orders.listID)
	}
	if rec.Body.String() != `{"orders":[]}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestListOrders_Unauthorized(t *testing.T) {
	router := newTestDeps(nil).router(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order/list", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
