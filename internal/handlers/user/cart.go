package user

import (
	"errors"
	"fmt"
	"net/http"

	"lorve_back_end/internal/cart"
	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/handlers"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// cartView is the JSON shape of a cart in responses and websocket frames.
func cartView(ct *cart.Cart) gin.H {
	items := ct.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return gin.H{
		"items": items,
		"count": ct.Count(),
		"units": ct.Units(),
		"total": cart.Amount(ct.Total()),
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	ct, err := h.Carts.Load(c.Request.Context(), middleware.CartKey(c))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(ct))
}

// AddToCart adds a product, merging with an existing line. Quantity
// defaults to 1.
func (h *Handler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	qty := 1
	if input.Quantity != nil {
		qty = *input.Quantity
	}

	ctx := c.Request.Context()
	p, err := h.Products.Product(ctx, input.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	h.mutateCart(c, func(ct *cart.Cart) error { return ct.Add(p, qty) })
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	var input struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	id := c.Param("id")
	h.mutateCart(c, func(ct *cart.Cart) error { return ct.UpdateQuantity(id, *input.Quantity) })
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	id := c.Param("id")
	h.mutateCart(c, func(ct *cart.Cart) error {
		ct.Remove(id)
		return nil
	})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Carts.Delete(c.Request.Context(), middleware.CartKey(c)); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(cart.New()))
}

// mutateCart loads the session cart, applies fn and saves the result.
func (h *Handler) mutateCart(c *gin.Context, fn func(*cart.Cart) error) {
	ctx := c.Request.Context()
	key := middleware.CartKey(c)
	ct, err := h.Carts.Load(ctx, key)
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	switch err := fn(ct); {
	case errors.Is(err, cart.ErrQuantityTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Quantity cannot exceed %d", cart.MaxQuantity)})
		return
	case errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
		return
	case err != nil:
		handlers.Fail(c, err)
		return
	}

	if err := h.Carts.Save(ctx, key, ct); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(ct))
}
