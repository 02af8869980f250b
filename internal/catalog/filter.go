package catalog

import (
	"sort"
	"strings"

	"lorve_back_end/internal/models"
)

// Category filter values of the storefront grid. Oils matches only the
// "Oils" category; oil pricing for attars and essential oils is a cart
// concern.
const (
	FilterAll     = "All"
	FilterPerfume = "Perfume"
	FilterOils    = "Oils"
)

// Sort orders. SortFeatured keeps the stored order.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
)

const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 300
)

// Query describes a browse request. Callers start from DefaultQuery.
type Query struct {
	Category string  `form:"category,default=All"`
	Gender   string  `form:"gender,default=All"`
	MinPrice float64 `form:"minPrice,default=0"`
	MaxPrice float64 `form:"maxPrice,default=300"`
	Sort     string  `form:"sort,default=featured"`
}

// DefaultQuery mirrors the grid's initial state.
func DefaultQuery() Query {
	return Query{
		Category: FilterAll,
		Gender:   FilterAll,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
		Sort:     SortFeatured,
	}
}

func (q Query) matches(p models.Product) bool {
	switch q.Category {
	case "", FilterAll:
	case FilterOils:
		if p.Category != models.CategoryOils {
			return false
		}
	case FilterPerfume:
		if p.Category == models.CategoryOils {
			return false
		}
	default:
		if p.Category != q.Category {
			return false
		}
	}

	if q.Gender != "" && q.Gender != FilterAll && string(p.Gender) != q.Gender {
		return false
	}
	return p.Price >= q.MinPrice && p.Price <= q.MaxPrice
}

// Filter returns the products matching q, ordered by q.Sort.
// The input slice is not modified.
func Filter(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.matches(p) {
			out = append(out, p)
		}
	}
	Sort(out, q.Sort)
	return out
}

func Sort(products []models.Product, order string) {
	var less func(a, b models.Product) bool
	switch order {
	case SortPriceAsc:
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b models.Product) bool { return a.Price > b.Price }
	case SortNameAsc:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortNameDesc:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}

func Featured(products []models.Product) []models.Product {
	return pick(products, func(p models.Product) bool { return p.Featured })
}

func NewArrivals(products []models.Product) []models.Product {
	return pick(products, func(p models.Product) bool { return p.NewArrival })
}

// MatchName is the case-insensitive substring search used when the
// search index is unavailable.
func MatchName(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	return pick(products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term)
	})
}

// FindByName resolves names to catalog products, ignoring case and
// names that match nothing. Order follows names.
func FindByName(products []models.Product, names []string) []models.Product {
	byName := make(map[string]models.Product, len(products))
	for _, p := range products {
		byName[strings.ToLower(p.Name)] = p
	}

	out := []models.Product{}
	seen := map[string]bool{}
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if p, ok := byName[key]; ok && !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

func pick(products []models.Product, keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
