package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureProducts() []*Product {
	return []*Product{
		{
			ID:            1,
			Name:          "Organic Turmeric Powder",
			Slug:          "organic-turmeric-powder",
			Description:   "Golden turmeric powder",
			Brand:         "Verdant Farms",
			Price:         8.50,
			Categories:    []string{"Spices", "Ayurveda"},
			Tags:          []string{"organic"},
			Attributes:    map[string]string{"origin": "Kerala"},
			Benefits:      []string{"immunity"},
			AverageRating: 4.8,
			ReviewCount:   214,
			InStock:       true,
			Featured:      true,
			UpdatedAt:     time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         2,
			Name:       "Brown Basmati Rice",
			Slug:       "brown-basmati-rice",
			Brand:      "Verdant Farms",
			Price:      12.00,
			Categories: []string{"Grains"},
			InStock:    true,
		},
		{
			ID:         3,
			Name:       "Ceylon Cinnamon Sticks",
			Slug:       "ceylon-cinnamon-sticks",
			Brand:      "Spice Route Co",
			Price:      11.00,
			Categories: []string{"Spices"},
			InStock:    false,
		},
	}
}

func TestSQLiteSourceRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	src, err := NewSQLiteSource(path)
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.SaveProducts(ctx, fixtureProducts()))

	all, err := src.GetAllProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Ordered by ID ascending.
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)

	got := all[0]
	assert.Equal(t, "Organic Turmeric Powder", got.Name)
	assert.Equal(t, []string{"Spices", "Ayurveda"}, got.Categories)
	assert.Equal(t, map[string]string{"origin": "Kerala"}, got.Attributes)
	assert.Equal(t, []string{"immunity"}, got.Benefits)
	assert.InDelta(t, 8.50, got.Price, 1e-9)
	assert.Equal(t, 214, got.ReviewCount)
	assert.True(t, got.InStock)
	assert.True(t, got.Featured)
	assert.Equal(t, 2026, got.UpdatedAt.Year())
}

func TestSQLiteSourcePagination(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	src, err := NewSQLiteSource(path)
	require.NoError(t, err)
	defer src.Close()

	var products []*Product
	for i := int64(1); i <= 25; i++ {
		products = append(products, &Product{
			ID:   i,
			Name: "Product",
			Slug: "product",
		})
	}
	require.NoError(t, src.SaveProducts(ctx, products))

	// Page size smaller than the catalog forces multiple fetches.
	all, err := src.GetAllProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 25)
	for i, p := range all {
		assert.Equal(t, int64(i+1), p.ID)
	}
}

func TestSQLiteSourceGetProduct(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	src, err := NewSQLiteSource(path)
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.SaveProducts(ctx, fixtureProducts()))

	p, err := src.GetProduct(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Brown Basmati Rice", p.Name)

	missing, err := src.GetProduct(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteSourceUpsertReplaces(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	src, err := NewSQLiteSource(path)
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.SaveProducts(ctx, fixtureProducts()))

	updated := fixtureProducts()[0]
	updated.Price = 9.99
	require.NoError(t, src.SaveProducts(ctx, []*Product{updated}))

	p, err := src.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 9.99, p.Price, 1e-9)

	all, err := src.GetAllProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "upsert must not duplicate rows")
}

func TestSQLiteSourceClosed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	src, err := NewSQLiteSource(path)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close(), "double close is safe")

	_, err = src.GetAllProducts(ctx, 0)
	assert.Error(t, err)
	_, err = src.GetProduct(ctx, 1)
	assert.Error(t, err)
	assert.Error(t, src.SaveProducts(ctx, fixtureProducts()))
}

func TestMemorySourceOrdering(t *testing.T) {
	ctx := context.Background()

	src := NewMemorySource(fixtureProducts()[2], fixtureProducts()[0], fixtureProducts()[1])
	defer src.Close()

	all, err := src.GetAllProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)
}

func TestMemorySourceErr(t *testing.T) {
	ctx := context.Background()

	src := NewMemorySource(fixtureProducts()...)
	src.Err = assert.AnError

	_, err := src.GetAllProducts(ctx, 0)
	assert.ErrorIs(t, err, assert.AnError)
	_, err = src.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFiltersMatches(t *testing.T) {
	price := func(v float64) *float64 { return &v }
	b := func(v bool) *bool { return &v }
	p := fixtureProducts()[0]

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty matches all", Filters{}, true},
		{"category case-insensitive", Filters{Categories: []string{"spices"}}, true},
		{"category miss", Filters{Categories: []string{"Oils"}}, false},
		{"price range inclusive", Filters{PriceMin: price(8.50), PriceMax: price(8.50)}, true},
		{"price below min", Filters{PriceMin: price(10)}, false},
		{"price above max", Filters{PriceMax: price(5)}, false},
		{"in stock", Filters{InStock: b(true)}, true},
		{"featured", Filters{Featured: b(true)}, true},
		{"not featured", Filters{Featured: b(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Matches(p))
		})
	}
}
