package service

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"urban-kart/internal/model"
	"urban-kart/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName:     "Asha Rao",
		AddressLine1: "14 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		PostalCode:   "560001",
		Country:      "IN",
		Mobile:       "9876543210",
	}
}

func testCartItems() []model.CartItem {
	return []model.CartItem{
		{
			ID: uuid.New(),
			Product: model.Product{
				ID:    "P001",
				Name:  "Linen Shirt",
				Slug:  "linen-shirt",
				Image: "linen-shirt.jpg",
				Price: 1200.00,
			},
			Color:    "white",
			Size:     "M",
			Quantity: 1,
		},
		{
			ID: uuid.New(),
			Product: model.Product{
				ID:    "P002",
				Name:  "Denim Jeans",
				Slug:  "denim-jeans",
				Image: "denim-jeans.jpg",
				Price: 400.00,
			},
			Color:    "blue",
			Size:     "32",
			Quantity: 2,
		},
	}
}

func newOrderServiceForTest(
	orderRepo *MockOrderRepository,
	cartRepo *MockCartRepository,
	productRepo *MockProductRepository,
	couponRepo *MockCouponRepository,
	provider *MockProvider,
) OrderService {
	return NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, provider, zerolog.Nop())
}

func TestNewOrderRef_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{6}-\d{4}$`)
	for i := 0; i < 20; i++ {
		ref := newOrderRef()
		assert.Regexp(t, pattern, ref)
	}
}

func TestOrderService_Checkout_Success(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}
	items := testCartItems()
	tx := &fakeTx{}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return(items, nil)
	productRepo.On("GetVariant", ctx, "P001", "white", "M").
		Return(&model.Variant{Color: "white", Size: "M", Stock: 5}, nil)
	productRepo.On("GetVariant", ctx, "P002", "blue", "32").
		Return(&model.Variant{Color: "blue", Size: "32", Stock: 3}, nil)
	provider.On("Name").Return("sandbox")
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("CreateOrder", ctx, tx, mock.MatchedBy(func(o *model.Order) bool {
		return o.UserID == "user-1" &&
			o.OrderStatus == model.OrderStatusPlaced &&
			o.PaymentInfo.PaymentStatus == model.PaymentStatusPending &&
			o.PaymentInfo.Amount == 2000.00 &&
			len(o.Items) == 2
	})).Return(nil)
	orderRepo.On("CreateOrderItems", ctx, tx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	provider.On("Initiate", ctx, mock.MatchedBy(func(req payment.InitiationRequest) bool {
		return req.UserID == "user-1" &&
			req.AmountMinor == 200000 &&
			req.Mobile == "9876543210"
	})).Return("https://pay.example.com/redirect", nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, couponRepo, provider)

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{ShippingAddress: validAddress()})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.OrderID)
	assert.NotEmpty(t, resp.OrderRef)
	assert.Equal(t, "https://pay.example.com/redirect", resp.RedirectURL)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)

	orderRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestOrderService_Checkout_WithCoupon(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}
	items := testCartItems()
	tx := &fakeTx{}
	code := "save10"

	coupon := &model.Coupon{
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: 10,
		MinPurchase:   500,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return(items, nil)
	productRepo.On("GetVariant", ctx, "P001", "white", "M").
		Return(&model.Variant{Color: "white", Size: "M", Stock: 5}, nil)
	productRepo.On("GetVariant", ctx, "P002", "blue", "32").
		Return(&model.Variant{Color: "blue", Size: "32", Stock: 3}, nil)
	couponRepo.On("GetByCode", ctx, "SAVE10").Return(coupon, nil)
	provider.On("Name").Return("sandbox")
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("CreateOrder", ctx, tx, mock.MatchedBy(func(o *model.Order) bool {
		// 2000 subtotal, 10% off
		return o.PaymentInfo.Amount == 1800.00 &&
			o.CouponCode != nil && *o.CouponCode == "SAVE10"
	})).Return(nil)
	orderRepo.On("CreateOrderItems", ctx, tx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	provider.On("Initiate", ctx, mock.MatchedBy(func(req payment.InitiationRequest) bool {
		return req.AmountMinor == 180000
	})).Return("https://pay.example.com/redirect", nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, couponRepo, provider)

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{
		ShippingAddress: validAddress(),
		CouponCode:      &code,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.RedirectURL)
	couponRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return([]model.CartItem{}, nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, couponRepo, provider)

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{ShippingAddress: validAddress()})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, model.ErrEmptyCart, err)
	orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_Checkout_InvalidAddress(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}

	service := newOrderServiceForTest(
		new(MockOrderRepository), new(MockCartRepository),
		new(MockProductRepository), new(MockCouponRepository), new(MockProvider))

	addr := validAddress()
	addr.PostalCode = ""

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{ShippingAddress: addr})

	require.Error(t, err)
	assert.Nil(t, resp)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
}

func TestOrderService_Checkout_OutOfStock_NothingPersisted(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}
	items := testCartItems()

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return(items, nil)
	productRepo.On("GetVariant", ctx, "P001", "white", "M").
		Return(&model.Variant{Color: "white", Size: "M", Stock: 0}, nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, couponRepo, provider)

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{ShippingAddress: validAddress()})

	require.Error(t, err)
	assert.Nil(t, resp)

	var oos *model.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "P001", oos.ProductID)
	assert.Equal(t, 1, oos.Requested)
	assert.Equal(t, 0, oos.Available)

	orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
	provider.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
}

func TestOrderService_Checkout_ExpiredCoupon(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}
	items := testCartItems()
	code := "OLD"

	coupon := &model.Coupon{
		Code:          "OLD",
		DiscountType:  model.DiscountTypeFixed,
		DiscountValue: 100,
		ExpiresAt:     time.Now().Add(-time.Hour),
		IsActive:      true,
	}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return(items, nil)
	productRepo.On("GetVariant", ctx, "P001", "white", "M").
		Return(&model.Variant{Color: "white", Size: "M", Stock: 5}, nil)
	productRepo.On("GetVariant", ctx, "P002", "blue", "32").
		Return(&model.Variant{Color: "blue", Size: "32", Stock: 3}, nil)
	couponRepo.On("GetByCode", ctx, "OLD").Return(coupon, nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, couponRepo, provider)

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{
		ShippingAddress: validAddress(),
		CouponCode:      &code,
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, model.ErrCouponExpired, err)
	orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_Checkout_InitiationFailure_DeletesOrder(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}
	items := testCartItems()
	tx := &fakeTx{}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return(items, nil)
	productRepo.On("GetVariant", ctx, "P001", "white", "M").
		Return(&model.Variant{Color: "white", Size: "M", Stock: 5}, nil)
	productRepo.On("GetVariant", ctx, "P002", "blue", "32").
		Return(&model.Variant{Color: "blue", Size: "32", Stock: 3}, nil)
	provider.On("Name").Return("phonepe")
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("CreateOrder", ctx, tx, mock.AnythingOfType("*model.Order")).Return(nil)
	orderRepo.On("CreateOrderItems", ctx, tx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	provider.On("Initiate", ctx, mock.AnythingOfType("payment.InitiationRequest")).
		Return("", model.ErrPaymentInitiationFailed)
	orderRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, couponRepo, provider)

	resp, err := service.Checkout(ctx, ident, &model.CheckoutRequest{ShippingAddress: validAddress()})

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, model.ErrPaymentInitiationFailed, err)
	orderRepo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
}

func TestOrderService_Checkout_InitiationFailure_NoSpuriousRollback(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}
	items := testCartItems()
	tx := &fakeTx{}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	couponRepo := new(MockCouponRepository)
	provider := new(MockProvider)

	cartRepo.On("GetItems", ctx, "user-1").Return(items, nil)
	productRepo.On("GetVariant", ctx, "P001", "white", "M").
		Return(&model.Variant{Color: "white", Size: "M", Stock: 5}, nil)
	productRepo.On("GetVariant", ctx, "P002", "blue", "32").
		Return(&model.Variant{Color: "blue", Size: "32", Stock: 3}, nil)
	provider.On("Name").Return("phonepe")
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("CreateOrder", ctx, tx, mock.AnythingOfType("*model.Order")).Return(nil)
	orderRepo.On("CreateOrderItems", ctx, tx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	provider.On("Initiate", ctx, mock.AnythingOfType("payment.InitiationRequest")).
		Return("", model.ErrPaymentInitiationFailed)
	orderRepo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	// The order transaction commits before initiation; a failure after the
	// commit must not be treated as a rollback failure.
	var logs bytes.Buffer
	service := NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, provider, zerolog.New(&logs))

	_, err := service.Checkout(ctx, ident, &model.CheckoutRequest{ShippingAddress: validAddress()})

	require.Error(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
	assert.NotContains(t, logs.String(), "failed to rollback transaction")
}

func pendingOrder(userID string) *model.Order {
	return &model.Order{
		ID:       uuid.New(),
		UserID:   userID,
		OrderRef: "ORD-123456-1234",
		Items: []model.OrderItem{
			{ID: uuid.New(), ProductID: "P001", Name: "Linen Shirt", Color: "white", Size: "M", Price: 1200, Quantity: 1},
			{ID: uuid.New(), ProductID: "P002", Name: "Denim Jeans", Color: "blue", Size: "32", Price: 400, Quantity: 2},
		},
		PaymentInfo: model.PaymentInfo{
			Provider:      "phonepe",
			PaymentStatus: model.PaymentStatusPending,
			Amount:        2000,
		},
		OrderStatus: model.OrderStatusPlaced,
	}
}

func TestOrderService_ApplyPaymentResult_Success(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")
	tx := &fakeTx{}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("MarkPaymentCompleted", ctx, tx, order.ID, "T123").Return(true, nil)
	productRepo.On("DecrementStock", ctx, tx, "P001", "white", "M", 1).Return(nil)
	productRepo.On("DecrementStock", ctx, tx, "P002", "blue", "32", 2).Return(nil)
	cartRepo.On("ClearCart", ctx, tx, "user-1").Return(nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, new(MockCouponRepository), new(MockProvider))

	err := service.ApplyPaymentResult(ctx, model.PaymentOutcome{
		OrderID:       order.ID,
		Success:       true,
		TransactionID: "T123",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestOrderService_ApplyPaymentResult_Failure(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")
	tx := &fakeTx{}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("MarkPaymentFailed", ctx, tx, order.ID).Return(true, nil)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, new(MockCouponRepository), new(MockProvider))

	err := service.ApplyPaymentResult(ctx, model.PaymentOutcome{OrderID: order.ID, Success: false})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.commits)
	// Failed payments touch neither stock nor the cart.
	productRepo.AssertNotCalled(t, "DecrementStock",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ApplyPaymentResult_DuplicateIsNoOp(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")
	tx := &fakeTx{}

	completed := *order
	completed.PaymentInfo.PaymentStatus = model.PaymentStatusCompleted
	completed.OrderStatus = model.OrderStatusProcessing

	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	cartRepo := new(MockCartRepository)

	// First read still shows pending; the conditional update then loses to a
	// concurrent callback and the re-read shows the same terminal outcome.
	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("MarkPaymentCompleted", ctx, tx, order.ID, "T123").Return(false, nil)
	orderRepo.On("GetByID", ctx, order.ID).Return(&completed, nil).Once()

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, new(MockCouponRepository), new(MockProvider))

	err := service.ApplyPaymentResult(ctx, model.PaymentOutcome{
		OrderID:       order.ID,
		Success:       true,
		TransactionID: "T123",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, tx.commits)
	assert.GreaterOrEqual(t, tx.rollbacks, 1)
	productRepo.AssertNotCalled(t, "DecrementStock",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ApplyPaymentResult_StaleOutcome(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")
	tx := &fakeTx{}

	completed := *order
	completed.PaymentInfo.PaymentStatus = model.PaymentStatusCompleted
	completed.OrderStatus = model.OrderStatusProcessing

	orderRepo := new(MockOrderRepository)

	// A failure signal arriving after the order completed is stale, not a
	// duplicate.
	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil).Once()
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("MarkPaymentFailed", ctx, tx, order.ID).Return(false, nil)
	orderRepo.On("GetByID", ctx, order.ID).Return(&completed, nil).Once()

	service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
		new(MockCouponRepository), new(MockProvider))

	err := service.ApplyPaymentResult(ctx, model.PaymentOutcome{OrderID: order.ID, Success: false})

	require.Error(t, err)
	assert.Equal(t, model.ErrStaleCallback, err)
	assert.Equal(t, 0, tx.commits)
}

func TestOrderService_ApplyPaymentResult_UnknownOrder(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("GetByID", ctx, orderID).Return(nil, nil)

	service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
		new(MockCouponRepository), new(MockProvider))

	err := service.ApplyPaymentResult(ctx, model.PaymentOutcome{OrderID: orderID, Success: true})

	require.Error(t, err)
	assert.Equal(t, model.ErrOrderNotFound, err)
	orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_ApplyPaymentResult_StockExhausted_RollsBack(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")
	tx := &fakeTx{}

	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)

	orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)
	orderRepo.On("BeginTx", ctx).Return(tx, nil)
	orderRepo.On("MarkPaymentCompleted", ctx, tx, order.ID, "T123").Return(true, nil)
	productRepo.On("DecrementStock", ctx, tx, "P001", "white", "M", 1).
		Return(model.ErrInsufficientStock)

	service := newOrderServiceForTest(orderRepo, cartRepo, productRepo, new(MockCouponRepository), new(MockProvider))

	err := service.ApplyPaymentResult(ctx, model.PaymentOutcome{
		OrderID:       order.ID,
		Success:       true,
		TransactionID: "T123",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrInsufficientStock, err)
	// The status transition must not survive the failed decrement.
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
	cartRepo.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")

	tests := []struct {
		name        string
		ident       model.Identity
		expectError error
	}{
		{
			name:  "Owner can read",
			ident: model.Identity{UserID: "user-1", Role: model.RoleUser},
		},
		{
			name:        "Other user is rejected",
			ident:       model.Identity{UserID: "user-2", Role: model.RoleUser},
			expectError: model.ErrForbidden,
		},
		{
			name:  "Admin can read any order",
			ident: model.Identity{UserID: "admin-1", Role: model.RoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := new(MockOrderRepository)
			orderRepo.On("GetByID", ctx, order.ID).Return(order, nil)

			service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
				new(MockCouponRepository), new(MockProvider))

			got, err := service.GetOrder(ctx, tt.ident, order.ID)

			if tt.expectError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectError, err)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, order, got)
			}
		})
	}
}

func TestOrderService_GetOrderByRef(t *testing.T) {
	ctx := context.Background()
	order := pendingOrder("user-1")

	t.Run("Owner reads by reference", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByRef", ctx, order.OrderRef).Return(order, nil)

		service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
			new(MockCouponRepository), new(MockProvider))

		got, err := service.GetOrderByRef(ctx, model.Identity{UserID: "user-1", Role: model.RoleUser}, order.OrderRef)

		require.NoError(t, err)
		assert.Equal(t, order, got)
	})

	t.Run("Other user is rejected", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByRef", ctx, order.OrderRef).Return(order, nil)

		service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
			new(MockCouponRepository), new(MockProvider))

		got, err := service.GetOrderByRef(ctx, model.Identity{UserID: "user-2", Role: model.RoleUser}, order.OrderRef)

		require.Error(t, err)
		assert.Equal(t, model.ErrForbidden, err)
		assert.Nil(t, got)
	})

	t.Run("Unknown reference", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("GetByRef", ctx, "ORD-000000-0000").Return(nil, nil)

		service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
			new(MockCouponRepository), new(MockProvider))

		got, err := service.GetOrderByRef(ctx, model.Identity{UserID: "user-1", Role: model.RoleUser}, "ORD-000000-0000")

		require.Error(t, err)
		assert.Equal(t, model.ErrOrderNotFound, err)
		assert.Nil(t, got)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	ident := model.Identity{UserID: "user-1", Role: model.RoleUser}

	t.Run("Empty history returns empty slice", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("ListByUser", ctx, "user-1").Return(nil, nil)

		service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
			new(MockCouponRepository), new(MockProvider))

		orders, err := service.ListOrders(ctx, ident)
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("Repository error", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		orderRepo.On("ListByUser", ctx, "user-1").Return(nil, errors.New("database error"))

		service := newOrderServiceForTest(orderRepo, new(MockCartRepository), new(MockProductRepository),
			new(MockCouponRepository), new(MockProvider))

		orders, err := service.ListOrders(ctx, ident)
		require.Error(t, err)
		assert.Nil(t, orders)
	})
}
