// Package cart holds the shopping cart model: quantity reconciliation by
// product id and the per-unit / per-100ml pricing rules.
package cart

import (
	"errors"
	"fmt"

	"lorve_back_end/internal/models"
)

// MaxQuantity bounds a single line: units for perfumes, millilitres for oils.
const MaxQuantity = 10000

var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrQuantityTooLarge = fmt.Errorf("%w: at most %d per item", ErrInvalidQuantity, MaxQuantity)
	ErrItemNotFound     = errors.New("item not found in cart")
)

type Cart struct {
	Items []models.CartItem `json:"items"`
}

func New(items ...models.CartItem) *Cart {
	return &Cart{Items: items}
}

func (c *Cart) find(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add puts qty units of p in the cart. A product already present gets its
// quantity incremented and its snapshot refreshed instead of a second line.
// A line never exceeds MaxQuantity; the cart is unchanged on error.
func (c *Cart) Add(p models.Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > MaxQuantity {
		return ErrQuantityTooLarge
	}
	if i := c.find(p.ID); i >= 0 {
		if c.Items[i].Quantity > MaxQuantity-qty {
			return ErrQuantityTooLarge
		}
		c.Items[i].Product = p
		c.Items[i].Quantity += qty
		return nil
	}
	c.Items = append(c.Items, models.CartItem{Product: p, Quantity: qty})
	return nil
}

// Remove drops the line for id. Unknown ids are ignored.
func (c *Cart) Remove(id string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(id string, qty int) error {
	i := c.find(id)
	if i < 0 {
		return ErrItemNotFound
	}
	if qty <= 0 {
		c.Remove(id)
		return nil
	}
	if qty > MaxQuantity {
		return ErrQuantityTooLarge
	}
	c.Items[i].Quantity = qty
	return nil
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Merge folds every line of other into c using Add semantics. Summed
// quantities are capped at MaxQuantity.
func (c *Cart) Merge(other *Cart) {
	if other == nil {
		return
	}
	for _, item := range other.Items {
		if item.Quantity <= 0 {
			continue
		}
		qty := min(item.Quantity, MaxQuantity)
		if i := c.find(item.ID); i >= 0 {
			qty = min(qty, MaxQuantity-c.Items[i].Quantity)
		}
		if qty > 0 {
			_ = c.Add(item.Product, qty)
		}
	}
}

// Count is the number of distinct lines, not units.
func (c *Cart) Count() int {
	return len(c.Items)
}

func (c *Cart) Units() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
