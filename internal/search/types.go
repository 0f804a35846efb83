// Package search implements the hybrid search pipeline: query expansion,
// parallel semantic and keyword retrieval, graph and popularity scoring,
// fusion into a single ranked list, facet aggregation, and TTL result
// caching.
package search

import (
	"fmt"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

// Mode selects which retrieval branches run.
type Mode string

const (
	// ModeHybrid runs semantic and keyword retrieval concurrently.
	ModeHybrid Mode = "hybrid"
	// ModeSemanticOnly runs only the embedding branch.
	ModeSemanticOnly Mode = "semantic_only"
	// ModeKeywordOnly runs only the keyword branch.
	ModeKeywordOnly Mode = "keyword_only"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	switch m {
	case ModeHybrid, ModeSemanticOnly, ModeKeywordOnly:
		return true
	}
	return false
}

// MatchType labels which branches produced a result.
type MatchType string

const (
	MatchSemantic MatchType = "semantic"
	MatchKeyword  MatchType = "keyword"
	MatchHybrid   MatchType = "hybrid"
)

// Score thresholds. Branch hits below the minimums are dropped before
// fusion; explanation thresholds gate the diagnostic strings.
const (
	MinSemanticScore = 0.3
	MinKeywordScore  = 0.1

	explainSemanticThreshold   = 0.7
	explainKeywordThreshold    = 0.5
	explainGraphThreshold      = 0.6
	explainPopularityThreshold = 0.8
)

// Pagination defaults.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Weights are the fusion weights for the four component scores. Each must
// be in [0, 1]; they conventionally sum to 1 but are not required to.
type Weights struct {
	Semantic   float64 `json:"semantic" yaml:"semantic"`
	Keyword    float64 `json:"keyword" yaml:"keyword"`
	Graph      float64 `json:"graph" yaml:"graph"`
	Popularity float64 `json:"popularity" yaml:"popularity"`
}

// Default weight presets. The graph preset applies when graph boosting is
// requested; both are tunable via configuration.
var (
	DefaultHybridWeights = Weights{Semantic: 0.6, Keyword: 0.4}
	DefaultGraphWeights  = Weights{Semantic: 0.4, Keyword: 0.2, Graph: 0.2, Popularity: 0.2}
)

// Validate checks that each weight is in [0, 1].
func (w Weights) Validate() error {
	for _, pair := range []struct {
		name  string
		value float64
	}{
		{"semantic", w.Semantic},
		{"keyword", w.Keyword},
		{"graph", w.Graph},
		{"popularity", w.Popularity},
	} {
		if pair.value < 0 || pair.value > 1 {
			return fmt.Errorf("weight %s out of range [0, 1]: %v", pair.name, pair.value)
		}
	}
	return nil
}

// Options is the immutable per-call search configuration. Together with
// the query text it fully determines the cache key.
type Options struct {
	// Mode selects the retrieval branches. Empty means hybrid.
	Mode Mode `json:"mode,omitempty"`

	// Filters narrows candidates by structured criteria.
	Filters catalog.Filters `json:"filters,omitempty"`

	// Offset and Limit paginate the fused result list. Pagination is
	// applied only after the full sort.
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	// Weights overrides the fusion weights. Nil selects the preset for
	// the mode and graph-boost flag.
	Weights *Weights `json:"weights,omitempty"`

	// GraphBoost enables graph relevance and popularity scoring with the
	// graph weight preset.
	GraphBoost bool `json:"graph_boost,omitempty"`

	// ExpandQuery enables synonym and graph-derived query expansion.
	ExpandQuery bool `json:"expand_query,omitempty"`

	// IncludeFacets adds facet counts over the pre-pagination result set.
	IncludeFacets bool `json:"include_facets,omitempty"`
}

// Result is one entry in the final ranked answer.
type Result struct {
	ProductID  int64    `json:"product_id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Price      float64  `json:"price"`
	Categories []string `json:"categories"`

	SemanticScore   float64 `json:"semantic_score"`
	KeywordScore    float64 `json:"keyword_score"`
	GraphScore      float64 `json:"graph_score"`
	PopularityScore float64 `json:"popularity_score"`
	FinalScore      float64 `json:"final_score"`

	MatchType    MatchType `json:"match_type"`
	MatchedTerms []string  `json:"matched_terms,omitempty"`
	Explanation  string    `json:"explanation"`
}

// FacetValue is one label with its count.
type FacetValue struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets aggregates counts over the fused, pre-pagination result set.
type Facets struct {
	Categories   []FacetValue `json:"categories"`
	PriceBuckets []FacetValue `json:"price_buckets"`
	Brands       []FacetValue `json:"brands"`
	Ratings      []FacetValue `json:"ratings"`
}

// Expansion describes how a query was widened before retrieval.
type Expansion struct {
	Original      string   `json:"original"`
	ExpandedTerms []string `json:"expanded_terms"`
	Synonyms      []string `json:"synonyms"`
}

// Query returns the expanded query string used for retrieval.
func (e *Expansion) Query() string {
	parts := []string{e.Original}
	parts = append(parts, e.ExpandedTerms...)
	parts = append(parts, e.Synonyms...)
	return joinNonEmpty(parts)
}

// Response is the full search answer.
type Response struct {
	Results         []*Result  `json:"results"`
	Facets          *Facets    `json:"facets,omitempty"`
	TotalCount      int        `json:"total_count"`
	ExecutionTimeMs int64      `json:"execution_time_ms"`
	QueryExpansion  *Expansion `json:"query_expansion,omitempty"`
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
