package model

import (
	"time"

	"github.com/google/uuid"
)

// Order status values. An order is created as placed and moves to processing
// when payment succeeds, or to cancelled when payment fails. shipped and
// delivered are administrative follow-ons.
const (
	OrderStatusPlaced     = "placed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment status values for Order.PaymentInfo.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Order is the immutable record of a purchase. Items and amount are frozen
// at creation time and never recomputed; they are the legal record of what
// was charged.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          string          `json:"-" db:"user_id"`
	OrderRef        string          `json:"orderId" db:"order_ref"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CouponCode      *string         `json:"couponCode,omitempty" db:"coupon_code"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`
	OrderStatus     string          `json:"orderStatus" db:"order_status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a frozen copy of product data at purchase time. ProductID is
// a weak reference: deleting the product must not corrupt historical orders.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Image     string    `json:"image" db:"image"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Color     string    `json:"color" db:"color"`
	Size      string    `json:"size" db:"size"`
}

// ShippingAddress is captured verbatim into the order at checkout.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Mobile       string `json:"mobile"`
}

// PaymentInfo tracks the payment leg of an order. Amount is the authoritative
// total computed server-side at checkout.
type PaymentInfo struct {
	Provider      string  `json:"provider" db:"provider"`
	TransactionID *string `json:"transactionId,omitempty" db:"transaction_id"`
	PaymentStatus string  `json:"paymentStatus" db:"payment_status"`
	Amount        float64 `json:"amount" db:"amount"`
}

// CheckoutRequest is the payload for initiating checkout.
type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	CouponCode      *string         `json:"couponCode,omitempty"`
}

// CheckoutResponse carries the provider-agnostic checkout handle: the URL
// the client should redirect the shopper to.
type CheckoutResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderRef    string    `json:"orderRef"`
	RedirectURL string    `json:"url"`
}

// PaymentOutcome is a verified payment result applied to an order.
type PaymentOutcome struct {
	OrderID       uuid.UUID
	Success       bool
	TransactionID string
}

// OrderSummary is the trimmed listing shape for a user's order history.
type OrderSummary struct {
	ID            uuid.UUID `json:"id"`
	OrderRef      string    `json:"orderId"`
	Amount        float64   `json:"amount"`
	PaymentStatus string    `json:"paymentStatus"`
	OrderStatus   string    `json:"orderStatus"`
	ItemCount     int       `json:"itemCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate checks the required shipping fields.
func (a *ShippingAddress) Validate() error {
	switch {
	case a.FullName == "":
		return NewDomainError(ErrCodeValidation, "Shipping address requires a full name")
	case a.AddressLine1 == "":
		return NewDomainError(ErrCodeValidation, "Shipping address requires an address line")
	case a.City == "":
		return NewDomainError(ErrCodeValidation, "Shipping address requires a city")
	case a.State == "":
		return NewDomainError(ErrCodeValidation, "Shipping address requires a state")
	case a.PostalCode == "":
		return NewDomainError(ErrCodeValidation, "Shipping address requires a postal code")
	case a.Mobile == "":
		return NewDomainError(ErrCodeValidation, "Shipping address requires a mobile number")
	}
	return nil
}
