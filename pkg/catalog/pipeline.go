package catalog

import (
	"sort"
	"strings"

	"github.com/example/tmstore/pkg/models"
)

// Sort keys accepted by the product listing.
const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortNewest     = "newest"
	SortBestSeller = "bestseller"
)

// Criteria describes one product listing request. Zero values mean
// "no constraint". Category is matched against the category slug only;
// callers holding a category ID must resolve it to a slug first.
type Criteria struct {
	Category     string
	Gender       models.Gender
	Sizes        []string
	MinPrice     *int64
	MaxPrice     *int64
	IsNew        bool
	IsBestSeller bool
	IsFeatured   bool
	Search       string
	Sort         string
}

// Apply filters and sorts products according to c, returning a new slice.
// The input slice is never mutated and relative order of equal elements is
// preserved throughout.
func Apply(products []models.Product, c Criteria) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, c) {
			out = append(out, p)
		}
	}
	sortProducts(out, c.Sort)
	return out
}

func matches(p models.Product, c Criteria) bool {
	if c.Category != "" {
		if p.Category == nil || p.Category.Slug != c.Category {
			return false
		}
	}
	if c.Gender != "" && p.Gender != c.Gender {
		return false
	}
	if len(c.Sizes) > 0 && !intersects(p.Sizes, c.Sizes) {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.IsNew && !p.IsNew {
		return false
	}
	if c.IsBestSeller && !p.IsBestSeller {
		return false
	}
	if c.IsFeatured && !p.IsFeatured {
		return false
	}
	if c.Search != "" && !matchesSearch(p, c.Search) {
		return false
	}
	return true
}

// intersects reports whether at least one requested size is carried by the
// product. Containment of the whole requested set is not required.
func intersects(have []string, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func matchesSearch(p models.Product, term string) bool {
	term = strings.ToLower(term)
	fields := []string{p.Name, p.NameID, p.Description}
	if p.Category != nil {
		fields = append(fields, p.Category.Name, p.Category.Slug)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func sortProducts(products []models.Product, key string) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortNewest:
		// Stable partition, not a timestamp sort: flagged products first,
		// original order kept within each group.
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsNew && !products[j].IsNew
		})
	case SortBestSeller:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].IsBestSeller && !products[j].IsBestSeller
		})
	}
}
