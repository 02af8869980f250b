package validation

import (
	"math"
	"strconv"
	"strings"

	"lorve_back_end/internal/models"
)

// ProductForm is the raw admin product form. Price stays a string until
// validated so a bad number is reported like any other field.
type ProductForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Brand       string `json:"brand" form:"brand" validate:"required"`
	Price       string `json:"price" form:"price"`
	Gender      string `json:"gender" form:"gender" validate:"oneof=Men Women Unisex"`
	Category    string `json:"category" form:"category" validate:"required"`
	Size        string `json:"size" form:"size"`
	Notes       string `json:"notes" form:"notes" validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	Ingredients string `json:"ingredients" form:"ingredients" validate:"required"`
}

var productMessages = map[string]string{
	"name":        "Name is required",
	"brand":       "Brand is required",
	"gender":      "Invalid enum value. Expected 'Men' | 'Women' | 'Unisex'",
	"category":    "Invalid category",
	"notes":       "Notes are required",
	"description": "Description is required",
	"ingredients": "Ingredients are required",
}

var productCategories = map[string]bool{
	models.CategoryPerfume:      true,
	models.CategoryOils:         true,
	models.CategoryFloralWater:  true,
	models.CategoryEssentialOil: true,
	models.CategoryFlavoredOils: true,
	models.CategoryBodyPerfume:  true,
	models.CategoryFragranceOil: true,
	models.CategoryArabicAttar:  true,
}

// MaxPrice bounds product prices so cart totals stay within int64 cents.
const MaxPrice = 1_000_000

// Product validates the form and returns the product fields it describes.
// ID, image and timestamps are left for the caller.
func (f ProductForm) Product() (models.Product, FieldErrors) {
	f.trim()
	fe := check(f, productMessages)

	price, err := strconv.ParseFloat(f.Price, 64)
	switch {
	case err != nil, math.IsNaN(price), math.IsInf(price, 0):
		fe.Add("price", "Expected number")
	case price < 0:
		fe.Add("price", "Price must be a positive number")
	case price > MaxPrice:
		fe.Add("price", "Price is too large")
	}

	if _, seen := fe["category"]; !seen && !productCategories[f.Category] {
		fe.Add("category", productMessages["category"])
	}
	if f.Category == models.CategoryPerfume && f.Size == "" {
		fe.Add("size", "Size is required for perfumes (e.g., 50ml).")
	}

	if !fe.Empty() {
		return models.Product{}, fe
	}

	return models.Product{
		Name:        f.Name,
		Brand:       f.Brand,
		Price:       price,
		Gender:      models.Gender(f.Gender),
		Category:    f.Category,
		Size:        f.Size,
		Notes:       SplitList(f.Notes),
		Description: f.Description,
		Ingredients: SplitList(f.Ingredients),
	}, nil
}

func (f *ProductForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Price = strings.TrimSpace(f.Price)
	f.Size = strings.TrimSpace(f.Size)
	f.Category = strings.TrimSpace(f.Category)
}

// SplitList turns "Jasmine, Tuberose ,Sandalwood" into trimmed entries,
// skipping empty ones.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
