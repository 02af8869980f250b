package models

import "time"

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

// Categories offered by the storefront. The admin form only exposes
// Perfume and Oils; the cart prices several detailed ones as oils.
const (
	CategoryPerfume      = "Perfume"
	CategoryOils         = "Oils"
	CategoryFloralWater  = "Floral Water"
	CategoryEssentialOil = "Essential Oil"
	CategoryFlavoredOils = "Flavored Oils"
	CategoryBodyPerfume  = "Body Perfume"
	CategoryFragranceOil = "Fragrance Oil"
	CategoryArabicAttar  = "Arabic Attar"
)

// PlaceholderImage is used when a product is created without an image.
const PlaceholderImage = "https://placehold.co/600x600.png"

type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Price       float64    `json:"price"`
	Image       string     `json:"image"`
	Gender      Gender     `json:"gender"`
	Notes       []string   `json:"notes"`
	Description string     `json:"description"`
	Ingredients []string   `json:"ingredients"`
	Category    string     `json:"category"`
	Size        string     `json:"size,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
	NewArrival  bool       `json:"newArrival,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}
