package httpserver

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	membersvc "storefront/internal/service/member"
)

type stubMemberService struct {
	member    *domain.Member
	signupErr error
	loginErr  error
	lookupErr error
	lastToken string
	loggedOut string
	lastInput membersvc.SignupInput
}

func (s *stubMemberService) Signup(_ context.Context, in membersvc.SignupInput) (*domain.Member, error) {
	s.lastInput = in
	return s.member, s.signupErr
}

func (s *stubMemberService) Login(_ context.Context, _, _ string) (*domain.Member, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.member, "session-token", nil
}

func (s *stubMemberService) LookupByToken(_ context.Context, token string) (*domain.Member, error) {
	s.lastToken = token
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.member == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.member, nil
}

func (s *stubMemberService) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func (s *stubMemberService) SessionTTLSeconds() int {
	return 172800
}

type stubProductService struct {
	page       *domain.ProductPage
	product    *domain.Product
	err        error
	lastFilter domain.ProductFilter
}

func (s *stubProductService) List(_ context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	s.lastFilter = f
	if s.err != nil {
		return nil, s.err
	}
	if s.page == nil {
		return &domain.ProductPage{Products: []domain.Product{}}, nil
	}
	return s.page, nil
}

func (s *stubProductService) Get(_ context.Context, _ int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.product == nil {
		return nil, domain.ErrProductNotFound
	}
	return s.product, nil
}

func (s *stubProductService) Carousel(_ context.Context) ([]domain.Product, error) {
	return []domain.Product{}, s.err
}

type stubCartService struct {
	line       *domain.CartLine
	summary    domain.CartSummary
	err        error
	lastMember int64
	lastQty    int
}

func (s *stubCartService) AddItem(_ context.Context, memberID, productID int64, quantity int) (*domain.CartLine, error) {
	s.lastMember = memberID
	s.lastQty = quantity
	if s.err != nil {
		return nil, s.err
	}
	if s.line != nil {
		return s.line, nil
	}
	return &domain.CartLine{ID: 1, ProductID: productID, Quantity: quantity}, nil
}

func (s *stubCartService) ListItems(_ context.Context, memberID int64) (domain.CartSummary, error) {
	s.lastMember = memberID
	return s.summary, s.err
}

type stubOrderService struct {
	err       error
	placed    []domain.OrderItem
	calls     int
	listRole  domain.Role
	listID    int64
	checkouts int
}

func (s *stubOrderService) PlaceOrder(_ context.Context, memberID int64, items []domain.OrderItem) (*domain.Order, error) {
	s.calls++
	s.placed = items
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: 1, MemberID: memberID, Status: domain.OrderPending}, nil
}

func (s *stubOrderService) CheckoutCart(_ context.Context, memberID int64) (*domain.Order, error) {
	s.checkouts++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: 2, MemberID: memberID, Status: domain.OrderPending}, nil
}

func (s *stubOrderService) ListOrders(_ context.Context, requesterID int64, role domain.Role) ([]domain.Order, error) {
	s.listID = requesterID
	s.listRole = role
	return nil, s.err
}

type testDeps struct {
	members  *stubMemberService
	products *stubProductService
	carts    *stubCartService
	orders   *stubOrderService
}

func newTestDeps(member *domain.Member) *testDeps {
	return &testDeps{
		members:  &stubMemberService{member: member},
		products: &stubProductService{},
		carts:    &stubCartService{},
		orders:   &stubOrderService{},
	}
}

func (d *testDeps) router(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(nil, nil, Deps{
		MemberSvc:  d.members,
		ProductSvc: d.products,
		CartSvc:    d.carts,
		OrderSvc:   d.orders,
	}, []string{"*"})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func user(id int64) *domain.Member {
	return &domain.Member{ID: id, Username: "user@example.com", Profile: domain.Profile{MemberID: id, Role: domain.RoleUser}}
}

func admin(id int64) *domain.Member {
	return &domain.Member{ID: id, Username: "admin@example.com", Profile: domain.Profile{MemberID: id, Role: domain.RoleAdmin}}
}
