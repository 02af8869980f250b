package models

// CartItem is a product snapshot plus the quantity held in the cart.
// For oil categories the quantity is expressed in millilitres.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}
