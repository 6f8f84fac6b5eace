package httpserver

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func (d *testDeps) deps() Deps {
	return Deps{MemberSvc: d.members, ProductSvc: d.products, CartSvc: d.carts, OrderSvc: d.orders}
}

func TestNew_AppliesTimeouts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv, err := New(Config{
		Addr:         ":0",
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 4 * time.Second,
	}, nil, nil, newTestDeps(nil).deps())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	hs := srv.httpServer
	if hs.Addr != ":0" || hs.ReadTimeout != 3*time.Second || hs.WriteTimeout != 4*time.Second {
		t.Fatalf("unexpected server settings %+v", hs)
	}
	if hs.IdleTimeout != defaultIdleTimeout {
		t.Fatalf("expected default idle timeout, got %s", hs.IdleTimeout)
	}
}

func TestNew_RequiresDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	if _, err := New(Config{Addr: ":0"}, nil, nil, Deps{}); err == nil {
		t.Fatal("expected error for missing services")
	}
}
