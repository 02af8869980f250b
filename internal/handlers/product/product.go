package product

import (
	"context"
	"errors"
	"log"
	"net/http"

	"lorve_back_end/internal/catalog"
	"lorve_back_end/internal/middleware"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/validation"

	"github.com/gin-gonic/gin"
)

type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id string) (models.Product, error)
	Browse(ctx context.Context, q catalog.Query) ([]models.Product, error)
	Search(ctx context.Context, term string) ([]models.Product, error)
	Create(ctx context.Context, form validation.ProductForm, img *catalog.Image) (models.Product, error)
	Update(ctx context.Context, id string, form validation.ProductForm, existingImage string, img *catalog.Image) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ViewRecorder keeps the shopper's recently viewed product names.
type ViewRecorder interface {
	RecordView(ctx context.Context, key, name string) error
}

type Handler struct {
	catalog Catalog
	views   ViewRecorder
}

func NewHandler(c Catalog, views ViewRecorder) *Handler {
	return &Handler{catalog: c, views: views}
}

// ListProducts serves the storefront grid. Without query parameters it
// returns the whole catalog in stored order.
func (h *Handler) ListProducts(c *gin.Context) {
	if len(c.Request.URL.Query()) == 0 {
		h.subset(c, func(p []models.Product) []models.Product { return p })
		return
	}

	q := catalog.DefaultQuery()
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + err.Error()})
		return
	}

	products, err := h.catalog.Browse(c.Request.Context(), q)
	if err != nil {
		log.Printf("❌ List products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) FeaturedProducts(c *gin.Context) {
	h.subset(c, catalog.Featured)
}

func (h *Handler) NewArrivals(c *gin.Context) {
	h.subset(c, catalog.NewArrivals)
}

func (h *Handler) subset(c *gin.Context, pick func([]models.Product) []models.Product) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		log.Printf("❌ Load products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load products"})
		return
	}
	c.JSON(http.StatusOK, pick(products))
}

// GetProduct returns one product and records it in the viewing history
// of the current cart session.
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Get product %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load product"})
		return
	}

	if key := middleware.CartKey(c); key != "" {
		if err := h.views.RecordView(c.Request.Context(), key, p.Name); err != nil {
			log.Printf("⚠️ Record view: %v", err)
		}
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) SearchProducts(c *gin.Context) {
	results, err := h.catalog.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("❌ Search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": c.Query("q"), "results": results, "count": len(results)})
}
