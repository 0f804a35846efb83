package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantcart/hybridsearch/internal/graph"
)

func TestExpandSynonyms(t *testing.T) {
	exp := NewExpander(nil, nil).Expand(context.Background(), "organic rice")

	assert.Equal(t, "organic rice", exp.Original)
	assert.Equal(t, []string{"natural", "pure", "bio", "ecological"}, exp.Synonyms)
	assert.Empty(t, exp.ExpandedTerms)
}

func TestExpandNoSynonymMatch(t *testing.T) {
	exp := NewExpander(nil, nil).Expand(context.Background(), "turmeric")

	assert.Empty(t, exp.Synonyms)
	assert.Equal(t, "turmeric", exp.Query())
}

func TestExpandGraphRelatedCategories(t *testing.T) {
	store := graph.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertRelations(ctx, 1, &graph.ProductRelations{
		Categories: []string{"spices", "wellness", "ayurveda"},
	}))

	exp := NewExpander(store, nil).Expand(ctx, "spices")

	assert.Equal(t, []string{"ayurveda", "wellness"}, exp.ExpandedTerms)
}

func TestExpandGraphFailureIsolated(t *testing.T) {
	store := graph.NewMemoryStore()
	store.Err = errors.New("redis down")

	exp := NewExpander(store, nil).Expand(context.Background(), "organic spices")

	assert.Empty(t, exp.ExpandedTerms, "graph failure yields empty expansion, not an error")
	assert.NotEmpty(t, exp.Synonyms, "synonym table still contributes")
}

func TestExpansionQueryConcatenation(t *testing.T) {
	exp := &Expansion{
		Original:      "organic rice",
		ExpandedTerms: []string{"grains"},
		Synonyms:      []string{"natural", "pure"},
	}

	assert.Equal(t, "organic rice grains natural pure", exp.Query())
}

func TestSynonymsForDeduplicates(t *testing.T) {
	syns := synonymsFor("organic organic healthy")

	counts := make(map[string]int)
	for _, s := range syns {
		counts[s]++
	}
	for s, n := range counts {
		assert.Equal(t, 1, n, "synonym %q duplicated", s)
	}
	assert.Contains(t, syns, "natural")
	assert.Contains(t, syns, "nutritious")
}
