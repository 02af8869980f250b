package database

import (
	"context"
	"time"

	"lorve_back_end/internal/models"

	"github.com/gocql/gocql"
)

const productColumns = `product_id, name, brand, price, image, gender, notes, description,
	ingredients, category, size, featured, new_arrival, created_at, updated_at`

type ProductRepository struct {
	session *gocql.Session
}

func NewProductRepository(session *gocql.Session) *ProductRepository {
	return &ProductRepository{session: session}
}

type productRow struct {
	p                    models.Product
	gender               string
	createdAt, updatedAt time.Time
}

func (r *productRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.Name, &r.p.Brand, &r.p.Price, &r.p.Image, &r.gender, &r.p.Notes,
		&r.p.Description, &r.p.Ingredients, &r.p.Category, &r.p.Size, &r.p.Featured,
		&r.p.NewArrival, &r.createdAt, &r.updatedAt,
	}
}

func (r *productRow) product() models.Product {
	p := r.p
	p.Gender = models.Gender(r.gender)
	if !r.createdAt.IsZero() {
		t := r.createdAt
		p.CreatedAt = &t
	}
	if !r.updatedAt.IsZero() {
		t := r.updatedAt
		p.UpdatedAt = &t
	}
	return p
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	iter := r.session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	products := []models.Product{}
	var row productRow
	for iter.Scan(row.dest()...) {
		products = append(products, row.product())
		row = productRow{}
	}
	if err := iter.Close(); err != nil {
		return nil, translate(err)
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id string) (models.Product, error) {
	var row productRow
	err := r.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).Scan(row.dest()...)
	if err != nil {
		return models.Product{}, translate(err)
	}
	return row.product(), nil
}

func (r *ProductRepository) Create(ctx context.Context, p models.Product) error {
	err := r.session.Query(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Brand, p.Price, p.Image, string(p.Gender), p.Notes, p.Description,
		p.Ingredients, p.Category, p.Size, p.Featured, p.NewArrival, p.CreatedAt, p.UpdatedAt,
	).WithContext(ctx).Exec()
	return translate(err)
}

// Update rewrites the editable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, p models.Product) error {
	applied, err := r.session.Query(`UPDATE products SET name = ?, brand = ?, price = ?, image = ?,
		gender = ?, notes = ?, description = ?, ingredients = ?, category = ?, size = ?, updated_at = ?
		WHERE product_id = ? IF EXISTS`,
		p.Name, p.Brand, p.Price, p.Image, string(p.Gender), p.Notes, p.Description,
		p.Ingredients, p.Category, p.Size, p.UpdatedAt, p.ID,
	).WithContext(ctx).MapScanCAS(map[string]any{})
	if err != nil {
		return translate(err)
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	err := r.session.Query(`DELETE FROM products WHERE product_id = ?`, id).WithContext(ctx).Exec()
	return translate(err)
}
