package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/index"
)

func fusionCatalog() map[int64]*catalog.Product {
	return map[int64]*catalog.Product{
		1: {ID: 1, Name: "Turmeric", Slug: "turmeric", Price: 8, Categories: []string{"Spices"}},
		2: {ID: 2, Name: "Rice", Slug: "rice", Price: 12, Categories: []string{"Rice"}},
		3: {ID: 3, Name: "Honey", Slug: "honey", Price: 22, Categories: []string{"Honey"}},
	}
}

func TestFuseMergesBranchesByProduct(t *testing.T) {
	semantic := []*index.VectorResult{
		{ProductID: 1, Score: 0.9},
		{ProductID: 2, Score: 0.5},
	}
	keyword := []*index.KeywordResult{
		{ProductID: 1, Score: 1.0, MatchedTerms: []string{"turmeric"}},
		{ProductID: 3, Score: 0.4, MatchedTerms: []string{"honey"}},
	}

	fused := fuse(semantic, keyword, fusionCatalog())
	require.Len(t, fused, 3)

	both := fused[1]
	assert.Equal(t, MatchHybrid, both.MatchType)
	assert.Equal(t, 0.9, both.SemanticScore)
	assert.Equal(t, 1.0, both.KeywordScore)
	assert.Equal(t, []string{"turmeric"}, both.MatchedTerms)
	assert.Equal(t, "Turmeric", both.Name)

	semOnly := fused[2]
	assert.Equal(t, MatchSemantic, semOnly.MatchType)
	assert.Zero(t, semOnly.KeywordScore)

	kwOnly := fused[3]
	assert.Equal(t, MatchKeyword, kwOnly.MatchType)
	assert.Zero(t, kwOnly.SemanticScore)
}

func TestFuseDropsUnknownProducts(t *testing.T) {
	semantic := []*index.VectorResult{{ProductID: 404, Score: 0.9}}
	keyword := []*index.KeywordResult{{ProductID: 405, Score: 0.9}}

	fused := fuse(semantic, keyword, fusionCatalog())
	assert.Empty(t, fused)
}

func TestFinalizeWeightedScore(t *testing.T) {
	fused := map[int64]*Result{
		1: {ProductID: 1, SemanticScore: 0.8, KeywordScore: 0.5, GraphScore: 0.4, PopularityScore: 0.9},
	}

	results := finalize(fused, Weights{Semantic: 0.4, Keyword: 0.2, Graph: 0.2, Popularity: 0.2})
	require.Len(t, results, 1)

	want := 0.4*0.8 + 0.2*0.5 + 0.2*0.4 + 0.2*0.9
	assert.InDelta(t, want, results[0].FinalScore, 0.0001)
}

func TestFinalizeSortsByScoreThenID(t *testing.T) {
	fused := map[int64]*Result{
		5: {ProductID: 5, SemanticScore: 0.5},
		2: {ProductID: 2, SemanticScore: 0.5},
		9: {ProductID: 9, SemanticScore: 0.9},
	}

	results := finalize(fused, Weights{Semantic: 1})
	require.Len(t, results, 3)

	assert.Equal(t, int64(9), results[0].ProductID)
	assert.Equal(t, int64(2), results[1].ProductID, "equal scores break ties by ID ascending")
	assert.Equal(t, int64(5), results[2].ProductID)
}

func TestPaginate(t *testing.T) {
	results := []*Result{
		{ProductID: 1}, {ProductID: 2}, {ProductID: 3}, {ProductID: 4}, {ProductID: 5},
	}

	page := paginate(results, 1, 2)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ProductID)
	assert.Equal(t, int64(3), page[1].ProductID)

	assert.Len(t, paginate(results, 4, 10), 1)
	assert.Empty(t, paginate(results, 10, 10))
	assert.Empty(t, paginate(nil, 0, 10))
}
