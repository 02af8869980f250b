package cart

import (
	"lorve_back_end/internal/models"

	"github.com/shopspring/decimal"
)

var oilCategories = map[string]struct{}{
	models.CategoryOils:         {},
	models.CategoryEssentialOil: {},
	models.CategoryFlavoredOils: {},
	models.CategoryFragranceOil: {},
	models.CategoryArabicAttar:  {},
}

var hundred = decimal.NewFromInt(100)

// IsOil reports whether products of the category are sold by the millilitre
// with a price quoted per 100ml.
func IsOil(category string) bool {
	_, ok := oilCategories[category]
	return ok
}

// LineTotal prices one cart line.
func LineTotal(item models.CartItem) decimal.Decimal {
	price := decimal.NewFromFloat(item.Price)
	qty := decimal.NewFromInt(int64(item.Quantity))
	if IsOil(item.Category) {
		return price.Div(hundred).Mul(qty)
	}
	return price.Mul(qty)
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(LineTotal(item))
	}
	return total
}

// Amount rounds a decimal to cents for JSON responses.
func Amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Cents converts an amount to the smallest currency unit.
func Cents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}
