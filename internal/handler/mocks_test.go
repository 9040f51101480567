package handler

import (
	"context"
	"net/http"
	"net/http/httptest"

	"urban-kart/internal/middleware"
	"urban-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, ident model.Identity) ([]model.CartItem, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartService) AddLine(ctx context.Context, ident model.Identity, req *model.AddLineRequest) ([]model.CartItem, error) {
	args := m.Called(ctx, ident, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartService) UpdateLineQuantity(ctx context.Context, ident model.Identity, lineID uuid.UUID, quantity int) ([]model.CartItem, error) {
	args := m.Called(ctx, ident, lineID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveLine(ctx context.Context, ident model.Identity, lineID uuid.UUID) ([]model.CartItem, error) {
	args := m.Called(ctx, ident, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockCartService) MergeGuestCart(ctx context.Context, ident model.Identity, guestLines []model.GuestLine) error {
	args := m.Called(ctx, ident, guestLines)
	return args.Error(0)
}

// MockCouponService is a mock implementation of service.CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Validate(ctx context.Context, code string, cartTotal float64) (*model.ValidateCouponResponse, error) {
	args := m.Called(ctx, code, cartTotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidateCouponResponse), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, ident model.Identity, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, ident, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

func (m *MockOrderService) ApplyPaymentResult(ctx context.Context, outcome model.PaymentOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockOrderService) ListOrders(ctx context.Context, ident model.Identity) ([]model.OrderSummary, error) {
	args := m.Called(ctx, ident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderSummary), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, ident model.Identity, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, ident, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderByRef(ctx context.Context, ident model.Identity, ref string) (*model.Order, error) {
	args := m.Called(ctx, ident, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// serve runs a request through the identity middleware and the given handler,
// the way the router composes them.
func serve(handlerFunc http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	middleware.Identity(zerolog.Nop())(handlerFunc).ServeHTTP(rec, req)
	return rec
}

// asUser marks the request as coming from an authenticated shopper.
func asUser(req *http.Request, userID string) *http.Request {
	req.Header.Set("X-User-Id", userID)
	req.Header.Set("X-User-Role", model.RoleUser)
	return req
}
