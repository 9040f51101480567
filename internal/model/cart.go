package model

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one cart entry identifying a product, variant and quantity.
// A user's cart holds at most one line per (product, colour, size).
type CartLine struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Color     string    `json:"color" db:"color"`
	Size      string    `json:"size" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a cart line joined with live product data for display.
// Lines whose product has been deleted are dropped before this is built.
type CartItem struct {
	ID       uuid.UUID `json:"id"`
	Product  Product   `json:"product"`
	Color    string    `json:"color"`
	Size     string    `json:"size"`
	Quantity int       `json:"quantity"`
}

// AddLineRequest is the payload for adding a line to the cart.
type AddLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// UpdateLineRequest is the payload for changing a line's quantity.
// A quantity of zero or less removes the line.
type UpdateLineRequest struct {
	LineID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// RemoveLineRequest is the payload for removing a line from the cart.
type RemoveLineRequest struct {
	LineID uuid.UUID `json:"itemId"`
}

// GuestLine is one entry of a pre-authentication local cart submitted for
// merging. Entries missing a product, colour or size are skipped, not fatal.
type GuestLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// MergeRequest is the payload for merging a guest cart into the server cart.
type MergeRequest struct {
	LocalCart []GuestLine `json:"localCart"`
}
