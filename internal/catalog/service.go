// Package catalog serves the product listing and the admin product
// mutations. Every mutation invalidates the cached listing and keeps the
// search index in step.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"lorve_back_end/internal/database"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/validation"

	"github.com/google/uuid"
)

const (
	MsgPermissionDenied = "Permission denied. Ensure your account has admin rights."
	MsgIDRequired       = "Product ID is required."
	msgAddFailed        = "Failed to add product to the database."
	msgUpdateFailed     = "Failed to update product in the database."
	msgDeleteFailed     = "Failed to delete product from the database."
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool)
	SetProducts(ctx context.Context, products []models.Product)
	InvalidateProducts(ctx context.Context)
}

// Index is the full-text search backend. Search returns matching ids.
type Index interface {
	Index(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]string, error)
}

type ImageStore interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Image is an uploaded product picture.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Service struct {
	repo   Repository
	cache  Cache
	index  Index
	images ImageStore
	now    func() time.Time
}

// NewService wires the catalog. index and images may be nil.
func NewService(repo Repository, cache Cache, index Index, images ImageStore) *Service {
	return &Service{repo: repo, cache: cache, index: index, images: images, now: time.Now}
}

// Products returns the full catalog, served from cache when possible.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	if products, ok := s.cache.GetProducts(ctx); ok {
		return products, nil
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	s.cache.SetProducts(ctx, products)
	return products, nil
}

func (s *Service) Product(ctx context.Context, id string) (models.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

func (s *Service) Browse(ctx context.Context, q Query) ([]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, q), nil
}

// Search queries the index and falls back to a name scan of the catalog
// when the index is missing, failing or returns nothing.
func (s *Service) Search(ctx context.Context, term string) ([]models.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return products, nil
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, term)
		if err != nil {
			log.Printf("⚠️ Search index query failed, scanning catalog: %v", err)
		} else if len(ids) > 0 {
			return byIDs(products, ids), nil
		}
	}
	return MatchName(products, term), nil
}

func byIDs(products []models.Product, ids []string) []models.Product {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Create validates the form, uploads the optional image and stores the
// product. Failures are returned as validation.FieldErrors.
func (s *Service) Create(ctx context.Context, form validation.ProductForm, img *Image) (models.Product, error) {
	p, fe := form.Product()
	if fe != nil {
		return models.Product{}, fe
	}

	p.Image = models.PlaceholderImage
	if img != nil && img.Size > 0 {
		url, err := s.upload(ctx, img)
		if err != nil {
			return models.Product{}, err
		}
		p.Image = url
	}

	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	if err := s.repo.Create(ctx, p); err != nil {
		log.Printf("❌ Add product %q: %v", p.Name, err)
		return models.Product{}, storeError(err, msgAddFailed)
	}

	s.afterWrite(ctx, p)
	log.Printf("✅ Product created: %s (%s)", p.Name, p.ID)
	return p, nil
}

// Update replaces the product fields. Without a new image the existing
// URL sent by the form is kept.
func (s *Service) Update(ctx context.Context, id string, form validation.ProductForm, existingImage string, img *Image) (models.Product, error) {
	if id == "" {
		return models.Product{}, validation.Global(MsgIDRequired)
	}
	p, fe := form.Product()
	if fe != nil {
		return models.Product{}, fe
	}

	p.Image = existingImage
	if img != nil && img.Size > 0 {
		url, err := s.upload(ctx, img)
		if err != nil {
			return models.Product{}, err
		}
		p.Image = url
	}

	now := s.now()
	p.ID = id
	p.UpdatedAt = &now

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.Product{}, ErrNotFound
		}
		log.Printf("❌ Update product %s: %v", id, err)
		return models.Product{}, storeError(err, msgUpdateFailed)
	}

	s.afterWrite(ctx, p)
	log.Printf("✅ Product updated: %s (%s)", p.Name, p.ID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return validation.Global(MsgIDRequired)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Printf("❌ Delete product %s: %v", id, err)
		return storeError(err, msgDeleteFailed)
	}

	s.cache.InvalidateProducts(ctx)
	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			log.Printf("⚠️ Search index removal failed for %s: %v", id, err)
		}
	}
	log.Printf("🗑️ Product deleted: %s", id)
	return nil
}

func (s *Service) upload(ctx context.Context, img *Image) (string, error) {
	if s.images == nil {
		return "", validation.Global("Image upload failed due to a server error.")
	}
	url, err := s.images.Upload(ctx, *img)
	if err != nil {
		log.Printf("❌ Image upload: %v", err)
		return "", validation.Global(fmt.Sprintf("Upload Error: %v", err))
	}
	return url, nil
}

func (s *Service) afterWrite(ctx context.Context, p models.Product) {
	s.cache.InvalidateProducts(ctx)
	if s.index != nil {
		if err := s.index.Index(ctx, p); err != nil {
			log.Printf("⚠️ Search indexing failed for %s: %v", p.Name, err)
		}
	}
}

func storeError(err error, fallback string) error {
	if errors.Is(err, database.ErrPermissionDenied) {
		return validation.Global(MsgPermissionDenied)
	}
	return validation.Global(fallback)
}
