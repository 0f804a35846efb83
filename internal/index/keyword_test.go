package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func testProducts() []*catalog.Product {
	return []*catalog.Product{
		{
			ID:         1,
			Name:       "Organic Turmeric Powder",
			Price:      8.50,
			Categories: []string{"Spices"},
			InStock:    true,
		},
		{
			ID:         2,
			Name:       "Brown Basmati Rice",
			Price:      12.00,
			Categories: []string{"Rice"},
			InStock:    true,
			Featured:   true,
		},
		{
			ID:         3,
			Name:       "Turmeric Latte Mix",
			Price:      15.00,
			Categories: []string{"Beverages"},
			InStock:    false,
		},
	}
}

func testSearchTexts() []string {
	return []string{
		"organic turmeric powder | golden spice with curcumin | spices",
		"brown basmati rice | whole grain aromatic rice | rice",
		"turmeric latte mix | golden milk blend with turmeric and spices | beverages",
	}
}

func newTestKeywordIndex(t *testing.T) *KeywordIndex {
	t.Helper()

	idx, err := NewKeywordIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.Index(context.Background(), testProducts(), testSearchTexts()))
	return idx
}

func TestKeywordSearchRanksBestMatchFirst(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "turmeric", catalog.Filters{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// Both turmeric products hit, rice does not
	ids := make(map[int64]bool)
	for _, r := range results {
		ids[r.ProductID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[3])
	assert.False(t, ids[2])
}

func TestKeywordSearchScoresNormalized(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "turmeric spice", catalog.Filters{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.InDelta(t, 1.0, results[0].Score, 0.0001, "best hit normalizes to 1")
	for _, r := range results {
		assert.LessOrEqual(t, r.Score, 1.0)
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestKeywordSearchMatchedTerms(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "turmeric powder", catalog.Filters{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	var top *KeywordResult
	for _, r := range results {
		if r.ProductID == 1 {
			top = r
		}
	}
	require.NotNil(t, top)
	assert.Contains(t, top.MatchedTerms, "turmer", "terms are stemmed by the English analyzer")
}

func TestKeywordSearchCategoryFilter(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "turmeric",
		catalog.Filters{Categories: []string{"Spices"}}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ProductID)
}

func TestKeywordSearchPriceFilter(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "turmeric",
		catalog.Filters{PriceMax: floatPtr(10.0)}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ProductID)
}

func TestKeywordSearchStockFilter(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "turmeric",
		catalog.Filters{InStock: boolPtr(true)}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ProductID)
}

func TestKeywordSearchEmptyQuery(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "   ", catalog.Filters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKeywordSearchNoMatches(t *testing.T) {
	idx := newTestKeywordIndex(t)

	results, err := idx.Search(context.Background(), "bicycle helmet", catalog.Filters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKeywordIndexDocCount(t *testing.T) {
	idx := newTestKeywordIndex(t)
	assert.Equal(t, 3, idx.DocCount())
}

func TestKeywordIndexClosed(t *testing.T) {
	idx, err := NewKeywordIndex()
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	_, err = idx.Search(context.Background(), "turmeric", catalog.Filters{}, 10)
	assert.Error(t, err)
	assert.Zero(t, idx.DocCount())
}
