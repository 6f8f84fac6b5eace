package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
	membersvc "storefront/internal/service/member"
)

type memberService interface {
	Signup(ctx context.Context, in membersvc.SignupInput) (*domain.Member, error)
	Login(ctx context.Context, email, password string) (*domain.Member, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Member, error)
	Logout(ctx context.Context, token string) error
	SessionTTLSeconds() int
}

type productService interface {
	List(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Carousel(ctx context.Context) ([]domain.Product, error)
}

type cartService interface {
	AddItem(ctx context.Context, memberID, productID int64, quantity int) (*domain.CartLine, error)
	ListItems(ctx context.Context, memberID int64) (domain.CartSummary, error)
}

type orderService interface {
	PlaceOrder(ctx context.Context, memberID int64, items []domain.OrderItem) (*domain.Order, error)
	CheckoutCart(ctx context.Context, memberID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, requesterID int64, role domain.Role) ([]domain.Order, error)
}

// Deps carries the services the routes call into.
type Deps struct {
	MemberSvc  memberService
	ProductSvc productService
	CartSvc    cartService
	OrderSvc   orderService
}

func (d Deps) validate() error {
	switch {
	case d.MemberSvc == nil:
		return errors.New("member service required")
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.OrderSvc == nil:
		return errors.New("order service required")
	}
	return nil
}

type api struct {
	deps   Deps
	logger *zap.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)
	registerFormTagNames()

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestLogger(logger),
		gin.CustomRecoveryWithWriter(io.Discard, recoverJSON(logger)),
		cors.New(corsConfig(corsOrigins)),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	a := &api{deps: deps, logger: logger}
	auth := requireMember(deps.MemberSvc, a)

	member := router.Group("/member")
	member.POST("/signup", a.signup)
	member.POST("/login", a.login)
	member.POST("/logout", auth, a.logout)

	product := router.Group("/product")
	product.GET("/list", a.listProducts)
	product.GET("/detail/:id", a.getProduct)
	product.GET("/carousel", a.carousel)

	cart := router.Group("/cart", auth)
	cart.POST("/insert", a.addCartItem)
	cart.GET("/list/:memberId", a.listCart)

	order := router.Group("/order", auth)
	order.POST("/", a.placeOrder)
	order.POST("/cart", a.checkoutCart)
	order.GET("/list", a.listOrders)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
