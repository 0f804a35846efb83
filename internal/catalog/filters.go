package catalog

import "strings"

// Filters narrows a result set to products matching structured criteria.
// Nil pointer fields mean "no constraint".
type Filters struct {
	// Categories restricts to products in any of the listed categories.
	Categories []string `json:"categories,omitempty" yaml:"categories"`

	// PriceMin and PriceMax bound the product price (inclusive).
	PriceMin *float64 `json:"price_min,omitempty" yaml:"price_min"`
	PriceMax *float64 `json:"price_max,omitempty" yaml:"price_max"`

	// InStock restricts to products with matching stock status.
	InStock *bool `json:"in_stock,omitempty" yaml:"in_stock"`

	// Featured restricts to products with matching featured flag.
	Featured *bool `json:"featured,omitempty" yaml:"featured"`
}

// Empty reports whether no constraint is set.
func (f Filters) Empty() bool {
	return len(f.Categories) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil &&
		f.InStock == nil && f.Featured == nil
}

// Matches reports whether the product satisfies every set constraint.
// Category comparison is case-insensitive.
func (f Filters) Matches(p *Product) bool {
	if p == nil {
		return false
	}

	if len(f.Categories) > 0 {
		found := false
	outer:
		for _, want := range f.Categories {
			for _, have := range p.Categories {
				if strings.EqualFold(want, have) {
					found = true
					break outer
				}
			}
		}
		if !found {
			return false
		}
	}

	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}

	return true
}
