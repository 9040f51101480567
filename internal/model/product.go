package model

import "time"

// Product represents a catalogue product with its sellable variants.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Image       string    `json:"image" db:"image"`
	Category    string    `json:"category" db:"category"`
	Brand       string    `json:"brand,omitempty" db:"brand"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	Variants    []Variant `json:"variants,omitempty"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Variant is a specific colour+size combination of a product, each with
// independent stock. Stock is only ever mutated by the conditional decrement
// that runs during payment confirmation.
type Variant struct {
	Color string `json:"color" db:"color"`
	Size  string `json:"size" db:"size"`
	Stock int    `json:"stock" db:"stock"`
}
