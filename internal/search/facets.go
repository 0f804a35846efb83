package search

import (
	"fmt"
	"sort"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

// priceBuckets are the fixed price ranges used for the price facet.
// Labels are ordered cheapest first; bucket membership is upper-exclusive
// except the last.
var priceBuckets = []struct {
	label string
	max   float64
}{
	{"Under $10", 10},
	{"$10 - $25", 25},
	{"$25 - $50", 50},
	{"$50 - $100", 100},
	{"$100+", -1},
}

// computeFacets aggregates counts over the full pre-pagination result
// set. Pure aggregation, no external calls.
func computeFacets(results []*Result, byID map[int64]*catalog.Product) *Facets {
	categories := make(map[string]int)
	buckets := make(map[string]int)
	brands := make(map[string]int)
	ratings := make(map[string]int)

	for _, r := range results {
		for _, cat := range r.Categories {
			categories[cat]++
		}
		buckets[priceBucketLabel(r.Price)]++

		p, ok := byID[r.ProductID]
		if !ok {
			continue
		}
		if p.Brand != "" {
			brands[p.Brand]++
		}
		ratings[ratingLabel(p.AverageRating)]++
	}

	return &Facets{
		Categories:   sortedFacetValues(categories),
		PriceBuckets: sortedFacetValues(buckets),
		Brands:       sortedFacetValues(brands),
		Ratings:      sortedFacetValues(ratings),
	}
}

func priceBucketLabel(price float64) string {
	for _, b := range priceBuckets {
		if b.max < 0 || price < b.max {
			return b.label
		}
	}
	return priceBuckets[len(priceBuckets)-1].label
}

// ratingLabel floors the average rating to a whole-star label.
func ratingLabel(rating float64) string {
	stars := int(rating)
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return fmt.Sprintf("%d stars", stars)
}

// sortedFacetValues orders by count descending, label ascending on ties.
func sortedFacetValues(counts map[string]int) []FacetValue {
	values := make([]FacetValue, 0, len(counts))
	for label, count := range counts {
		values = append(values, FacetValue{Label: label, Count: count})
	}

	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Label < values[j].Label
	})

	return values
}
