package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

func TestComputeFacets(t *testing.T) {
	byID := map[int64]*catalog.Product{
		1: {ID: 1, Brand: "VerdantCart", AverageRating: 4.8},
		2: {ID: 2, Brand: "FarmBasics", AverageRating: 3.0},
		3: {ID: 3, Brand: "VerdantCart", AverageRating: 4.2},
	}
	results := []*Result{
		{ProductID: 1, Price: 8.50, Categories: []string{"Spices"}},
		{ProductID: 2, Price: 12.00, Categories: []string{"Rice"}},
		{ProductID: 3, Price: 15.00, Categories: []string{"Beverages", "Spices"}},
	}

	facets := computeFacets(results, byID)

	require.NotEmpty(t, facets.Categories)
	assert.Equal(t, FacetValue{Label: "Spices", Count: 2}, facets.Categories[0])

	assert.Contains(t, facets.PriceBuckets, FacetValue{Label: "Under $10", Count: 1})
	assert.Contains(t, facets.PriceBuckets, FacetValue{Label: "$10 - $25", Count: 2})

	assert.Equal(t, FacetValue{Label: "VerdantCart", Count: 2}, facets.Brands[0])

	assert.Contains(t, facets.Ratings, FacetValue{Label: "4 stars", Count: 2})
	assert.Contains(t, facets.Ratings, FacetValue{Label: "3 stars", Count: 1})
}

func TestComputeFacetsTieBreakByLabel(t *testing.T) {
	byID := map[int64]*catalog.Product{
		1: {ID: 1},
		2: {ID: 2},
	}
	results := []*Result{
		{ProductID: 1, Categories: []string{"Rice"}},
		{ProductID: 2, Categories: []string{"Honey"}},
	}

	facets := computeFacets(results, byID)
	require.Len(t, facets.Categories, 2)
	assert.Equal(t, "Honey", facets.Categories[0].Label, "equal counts ordered by label")
	assert.Equal(t, "Rice", facets.Categories[1].Label)
}

func TestComputeFacetsEmpty(t *testing.T) {
	facets := computeFacets(nil, nil)
	assert.Empty(t, facets.Categories)
	assert.Empty(t, facets.PriceBuckets)
	assert.Empty(t, facets.Brands)
	assert.Empty(t, facets.Ratings)
}

func TestPriceBucketLabel(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{0, "Under $10"},
		{9.99, "Under $10"},
		{10, "$10 - $25"},
		{24.99, "$10 - $25"},
		{25, "$25 - $50"},
		{50, "$50 - $100"},
		{99.99, "$50 - $100"},
		{100, "$100+"},
		{2500, "$100+"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, priceBucketLabel(tt.price), "price %v", tt.price)
	}
}
