package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"lorve_back_end/internal/models"
)

//go:embed seed.json
var seedJSON []byte

// SeedProducts returns the launch catalog with its featured and new
// arrival flags.
func SeedProducts() ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(seedJSON, &products); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}
	return products, nil
}

// Seed stores the launch catalog when the products table is empty and
// returns how many products were written.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	products, err := SeedProducts()
	if err != nil {
		return 0, err
	}
	now := s.now()
	for i := range products {
		products[i].CreatedAt = &now
		products[i].UpdatedAt = &now
		if err := s.repo.Create(ctx, products[i]); err != nil {
			return i, fmt.Errorf("seed product %s: %w", products[i].ID, err)
		}
	}
	s.cache.InvalidateProducts(ctx)
	log.Printf("🌱 Seeded %d products", len(products))
	return len(products), nil
}
