package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/graph"
)

func TestGraphScoreFullMatch(t *testing.T) {
	rel := &graph.ProductRelations{
		Categories: []string{"spices"},
		Benefits:   []string{"immunity"},
		Importance: 1.0,
	}

	score := graphScore([]string{"spices", "immunity"}, rel)
	assert.InDelta(t, 1.0, score, 0.0001, "full term match with full importance")
}

func TestGraphScorePartialMatch(t *testing.T) {
	rel := &graph.ProductRelations{
		Categories: []string{"spices"},
		Importance: 0.5,
	}

	score := graphScore([]string{"spices", "unrelated"}, rel)
	assert.InDelta(t, 0.7*0.5+0.3*0.5, score, 0.0001)
}

func TestGraphScoreSubstringMatch(t *testing.T) {
	rel := &graph.ProductRelations{Categories: []string{"dry fruits"}}

	score := graphScore([]string{"fruit"}, rel)
	assert.InDelta(t, 0.7, score, 0.0001, "query term substring-matches the category label")
}

func TestApplyGraphScoresBoundedFanOut(t *testing.T) {
	store := graph.NewMemoryStore()
	ctx := context.Background()

	results := make(map[int64]*Result)
	for i := int64(1); i <= 50; i++ {
		require.NoError(t, store.UpsertRelations(ctx, i, &graph.ProductRelations{
			Categories: []string{"spices"},
			Importance: 1.0,
		}))
		results[i] = &Result{ProductID: i}
	}

	scorer, err := NewScorer(store, 4, nil)
	require.NoError(t, err)
	defer scorer.Release()

	scorer.ApplyGraphScores(ctx, results, "spices")

	for id, r := range results {
		assert.InDelta(t, 1.0, r.GraphScore, 0.0001, "product %d", id)
	}
}

func TestApplyGraphScoresNilStore(t *testing.T) {
	scorer, err := NewScorer(nil, 0, nil)
	require.NoError(t, err)
	defer scorer.Release()

	results := map[int64]*Result{1: {ProductID: 1}}
	scorer.ApplyGraphScores(context.Background(), results, "spices")
	assert.Zero(t, results[1].GraphScore)
}

func TestPopularityScore(t *testing.T) {
	top := popularityScore(&catalog.Product{AverageRating: 5, ReviewCount: 999, Featured: true})
	assert.InDelta(t, 1.0, top, 0.01)

	nobody := popularityScore(&catalog.Product{})
	assert.Zero(t, nobody)

	midRating := popularityScore(&catalog.Product{AverageRating: 2.5})
	assert.InDelta(t, 0.25, midRating, 0.0001)
}

func TestPopularityScoreReviewSaturation(t *testing.T) {
	huge := popularityScore(&catalog.Product{ReviewCount: 1000000})
	assert.InDelta(t, 0.3, huge, 0.0001, "review component saturates at its weight")
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			"semantic",
			&Result{SemanticScore: 0.8},
			"High semantic relevance",
		},
		{
			"keyword",
			&Result{KeywordScore: 0.6, MatchedTerms: []string{"turmeric", "powder"}},
			"Matched keywords: turmeric, powder",
		},
		{
			"graph",
			&Result{GraphScore: 0.7},
			"Strong graph connections",
		},
		{
			"popularity",
			&Result{PopularityScore: 0.9},
			"Popular product",
		},
		{
			"combined",
			&Result{SemanticScore: 0.8, PopularityScore: 0.9},
			"High semantic relevance; Popular product",
		},
		{
			"below thresholds",
			&Result{SemanticScore: 0.5, KeywordScore: 0.3},
			"Relevant match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, explain(tt.result))
		})
	}
}
