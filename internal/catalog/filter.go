// Package catalog holds the product list view logic: search and facet
// filtering, display helpers and a cached, retried fetch from the backend.
package catalog

import (
	"slices"
	"strings"

	"storefront/internal/domain"

	"github.com/samber/lo"
)

const (
	DefaultBrand    = "Amazon"
	DefaultCategory = "General"
)

// marketplace labels are sales channels, not brands
var marketplaces = []string{"amazon", "imported", "shopee"}

// Brand is the first label that is not a marketplace tag
func Brand(p domain.Product) string {
	brand, ok := lo.Find(p.Labels, func(label string) bool {
		return !lo.Contains(marketplaces, strings.ToLower(label))
	})
	if !ok {
		return DefaultBrand
	}
	return brand
}

// Category is the second label
func Category(p domain.Product) string {
	if len(p.Labels) > 1 {
		return p.Labels[1]
	}
	return DefaultCategory
}

// Filter narrows the product list. Empty fields match everything.
type Filter struct {
	Query    string `json:"q,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
}

// Apply keeps catalog order
func (f Filter) Apply(products []domain.Product) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	return lo.Filter(products, func(p domain.Product, _ int) bool {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			return false
		}
		if f.Brand != "" && !strings.EqualFold(Brand(p), f.Brand) {
			return false
		}
		if f.Category != "" && !strings.EqualFold(Category(p), f.Category) {
			return false
		}
		return true
	})
}

// Facets lists the brands and categories present in a product list
type Facets struct {
	Brands     []string `json:"brands"`
	Categories []string `json:"categories"`
}

func FacetsOf(products []domain.Product) Facets {
	return Facets{
		Brands:     sortedUnique(lo.Map(products, func(p domain.Product, _ int) string { return Brand(p) })),
		Categories: sortedUnique(lo.Map(products, func(p domain.Product, _ int) string { return Category(p) })),
	}
}

func sortedUnique(values []string) []string {
	out := lo.Uniq(values)
	slices.Sort(out)
	return out
}
