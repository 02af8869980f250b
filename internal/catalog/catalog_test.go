package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lorve_back_end/internal/database"
	"lorve_back_end/internal/models"
	"lorve_back_end/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeRepo struct {
	products map[string]models.Product
	order    []string
	err      error
	listHits int
}

func newFakeRepo(products ...models.Product) *fakeRepo {
	r := &fakeRepo{products: map[string]models.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *fakeRepo) List(context.Context) ([]models.Product, error) {
	r.listHits++
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Product{}
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return models.Product{}, database.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) Create(_ context.Context, p models.Product) error {
	if r.err != nil {
		return r.err
	}
	r.products[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p models.Product) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.products[p.ID]; !ok {
		return database.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.products, id)
	return nil
}

type memCache struct {
	products    []models.Product
	cached      bool
	invalidated int
}

func (c *memCache) GetProducts(context.Context) ([]models.Product, bool) { return c.products, c.cached }
func (c *memCache) SetProducts(_ context.Context, p []models.Product) {
	c.products, c.cached = p, true
}
func (c *memCache) InvalidateProducts(context.Context) {
	c.products, c.cached = nil, false
	c.invalidated++
}

type fakeIndex struct {
	indexed map[string]models.Product
	ids     []string
	err     error
}

func (i *fakeIndex) Index(_ context.Context, p models.Product) error {
	i.indexed[p.ID] = p
	return nil
}

func (i *fakeIndex) Remove(_ context.Context, id string) error {
	delete(i.indexed, id)
	return nil
}

func (i *fakeIndex) Search(context.Context, string) ([]string, error) { return i.ids, i.err }

type fakeImages struct {
	url string
	err error
}

func (f fakeImages) Upload(context.Context, Image) (string, error) { return f.url, f.err }

// --- fixtures ---

func sampleCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Rose Noir", Price: 120, Category: models.CategoryPerfume, Gender: models.GenderWomen, Featured: true},
		{ID: "2", Name: "amber attar", Price: 45, Category: models.CategoryArabicAttar, Gender: models.GenderUnisex, NewArrival: true},
		{ID: "3", Name: "Cedar Oil", Price: 30, Category: models.CategoryEssentialOil, Gender: models.GenderMen},
		{ID: "4", Name: "Blue Vetiver", Price: 300, Category: models.CategoryBodyPerfume, Gender: models.GenderMen},
		{ID: "5", Name: "Gold Oud", Price: 450, Category: models.CategoryPerfume, Gender: models.GenderMen},
	}
}

func ids(products []models.Product) string {
	var out []string
	for _, p := range products {
		out = append(out, p.ID)
	}
	return strings.Join(out, ",")
}

func productForm() validation.ProductForm {
	return validation.ProductForm{
		Name: "Velvet Iris", Brand: "LORVÉ", Price: "89", Gender: "Women",
		Category: models.CategoryPerfume, Size: "100ml", Notes: "Iris, Musk",
		Description: "Powdery.", Ingredients: "Parfum",
	}
}

// --- filters ---

func TestFilter(t *testing.T) {
	products := append(sampleCatalog(),
		models.Product{ID: "6", Name: "Musk Oil", Price: 60, Category: models.CategoryOils, Gender: models.GenderUnisex})

	q := DefaultQuery()
	assert.Equal(t, "1,2,3,4,6", ids(Filter(products, q)), "price range is inclusive of 300")

	q.Category = FilterOils
	assert.Equal(t, "6", ids(Filter(products, q)), "only the Oils category")

	q.Category = FilterPerfume
	assert.Equal(t, "1,2,3,4", ids(Filter(products, q)), "attars and essential oils are not Oils")

	q = DefaultQuery()
	q.Gender = "Men"
	q.MaxPrice = 1000
	q.Sort = SortPriceDesc
	assert.Equal(t, "5,4,3", ids(Filter(products, q)))

	assert.Equal(t, "1,2,3,4,5,6", ids(products), "input untouched")
}

func TestSort(t *testing.T) {
	products := sampleCatalog()

	Sort(products, SortNameAsc)
	assert.Equal(t, "2,4,3,5,1", ids(products))

	Sort(products, SortNameDesc)
	assert.Equal(t, "1,5,3,4,2", ids(products))

	Sort(products, SortPriceAsc)
	assert.Equal(t, "3,2,1,4,5", ids(products))

	Sort(products, SortFeatured)
	assert.Equal(t, "3,2,1,4,5", ids(products))
}

func TestFeaturedAndNewArrivals(t *testing.T) {
	products := sampleCatalog()
	assert.Equal(t, "1", ids(Featured(products)))
	assert.Equal(t, "2", ids(NewArrivals(products)))
}

func TestFindByName(t *testing.T) {
	got := FindByName(sampleCatalog(), []string{" Amber Attar", "Unknown", "ROSE NOIR", "rose noir"})
	assert.Equal(t, "2,1", ids(got))
}

// --- service ---

func TestProducts_CachesListing(t *testing.T) {
	repo := newFakeRepo(sampleCatalog()...)
	cache := &memCache{}
	svc := NewService(repo, cache, nil, nil)

	_, err := svc.Products(context.Background())
	require.NoError(t, err)
	_, err = svc.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listHits)
}

func TestProduct_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &memCache{}, nil, nil)
	_, err := svc.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	index := &fakeIndex{indexed: map[string]models.Product{}, ids: []string{"3", "ghost", "1"}}
	svc := NewService(newFakeRepo(sampleCatalog()...), &memCache{}, index, nil)

	got, err := svc.Search(ctx, "wood")
	require.NoError(t, err)
	assert.Equal(t, "3,1", ids(got))

	index.err = errors.New("index down")
	got, err = svc.Search(ctx, "OUD")
	require.NoError(t, err)
	assert.Equal(t, "5", ids(got))

	got, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := &memCache{cached: true}
	index := &fakeIndex{indexed: map[string]models.Product{}}
	svc := NewService(repo, cache, index, fakeImages{url: "https://cdn/lorve-products/iris.png"})
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	p, err := svc.Create(ctx, productForm(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PlaceholderImage, p.Image)
	assert.Equal(t, fixed, *p.CreatedAt)
	assert.Equal(t, []string{"Iris", "Musk"}, p.Notes)
	assert.Contains(t, repo.products, p.ID)
	assert.Contains(t, index.indexed, p.ID)
	assert.Equal(t, 1, cache.invalidated)

	p, err = svc.Create(ctx, productForm(), &Image{Filename: "iris.png", Size: 10})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/lorve-products/iris.png", p.Image)
}

func TestCreate_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(newFakeRepo(), &memCache{}, nil, fakeImages{err: errors.New("bucket missing")})
	_, err := svc.Create(ctx, productForm(), &Image{Size: 10})
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Upload Error: bucket missing"}, fe[validation.GlobalField])

	form := productForm()
	form.Name = ""
	_, err = svc.Create(ctx, form, nil)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "name")

	repo := newFakeRepo()
	repo.err = database.ErrPermissionDenied
	svc = NewService(repo, &memCache{}, nil, nil)
	_, err = svc.Create(ctx, productForm(), nil)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{MsgPermissionDenied}, fe[validation.GlobalField])

	repo.err = errors.New("timeout")
	_, err = svc.Create(ctx, productForm(), nil)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Failed to add product to the database."}, fe[validation.GlobalField])
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(sampleCatalog()...)
	svc := NewService(repo, &memCache{}, nil, nil)

	p, err := svc.Update(ctx, "1", productForm(), "https://cdn/old.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/old.png", p.Image)
	assert.Equal(t, "Velvet Iris", repo.products["1"].Name)

	_, err = svc.Update(ctx, "nope", productForm(), "", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "", productForm(), "", nil)
	var fe validation.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{MsgIDRequired}, fe[validation.GlobalField])
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(sampleCatalog()...)
	index := &fakeIndex{indexed: map[string]models.Product{"2": {ID: "2"}}}
	svc := NewService(repo, &memCache{}, index, nil)

	require.NoError(t, svc.Delete(ctx, "2"))
	assert.NotContains(t, repo.products, "2")
	assert.NotContains(t, index.indexed, "2")

	var fe validation.FieldErrors
	require.ErrorAs(t, svc.Delete(ctx, ""), &fe)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	cache := &memCache{}
	svc := NewService(repo, cache, nil, nil)

	n, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, 1, cache.invalidated)

	all, err := svc.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3,4", ids(Featured(all)))
	assert.Equal(t, "1,3,5,7", ids(NewArrivals(all)))
	assert.Equal(t, "Elysian Bloom", all[0].Name)
	assert.NotNil(t, all[0].CreatedAt)

	n, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a populated catalog is left alone")
	assert.Len(t, repo.products, 8)
}

func TestSeed_KeepsExistingCatalog(t *testing.T) {
	repo := newFakeRepo(sampleCatalog()...)
	n, err := NewService(repo, &memCache{}, nil, nil).Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, repo.products, 5)

	repo = newFakeRepo()
	repo.err = errors.New("scylla down")
	_, err = NewService(repo, &memCache{}, nil, nil).Seed(context.Background())
	assert.Error(t, err)
}
