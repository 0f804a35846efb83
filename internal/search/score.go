package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/graph"
	"github.com/verdantcart/hybridsearch/internal/telemetry"
)

// DefaultGraphConcurrency bounds the per-candidate relationship lookups
// fanned out during graph scoring.
const DefaultGraphConcurrency = 8

// Graph score composition: how strongly query terms match the product's
// relationship labels versus how central the product is in the catalog.
const (
	graphMatchWeight      = 0.7
	graphImportanceWeight = 0.3
)

// Scorer computes the graph and popularity components of a result.
type Scorer struct {
	store  graph.RelationshipStore
	pool   *ants.Pool
	logger *slog.Logger
}

// NewScorer creates a scorer with a bounded worker pool for graph
// lookups. concurrency <= 0 uses DefaultGraphConcurrency.
func NewScorer(store graph.RelationshipStore, concurrency int, logger *slog.Logger) (*Scorer, error) {
	if concurrency <= 0 {
		concurrency = DefaultGraphConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph score pool: %w", err)
	}

	return &Scorer{store: store, pool: pool, logger: logger}, nil
}

// Release frees the worker pool. The scorer must not be used after.
func (s *Scorer) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// ApplyGraphScores fans out one relationship lookup per candidate with
// bounded concurrency and fills in each result's graph score. Lookup
// failures leave that candidate's score at zero; they never fail the
// search.
func (s *Scorer) ApplyGraphScores(ctx context.Context, results map[int64]*Result, query string) {
	if s.store == nil || len(results) == 0 {
		return
	}

	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, r := range results {
		r := r
		wg.Add(1)

		err := s.pool.Submit(func() {
			defer wg.Done()

			rel, lookupErr := s.store.GetRelations(ctx, r.ProductID)
			if lookupErr != nil {
				s.logger.Debug("graph lookup failed for candidate",
					slog.Int64("product_id", r.ProductID),
					slog.String("error", lookupErr.Error()))
				telemetry.RecordBranchFailure("graph")
				return
			}
			if rel == nil {
				return
			}

			r.GraphScore = graphScore(queryTerms, rel)
		})
		if err != nil {
			// Pool is released or overloaded; leave the score at zero.
			wg.Done()
		}
	}

	wg.Wait()
}

// graphScore combines the fraction of query terms matching the product's
// relationship labels with the product's importance.
func graphScore(queryTerms []string, rel *graph.ProductRelations) float64 {
	labels := make([]string, 0, len(rel.Categories)+len(rel.Benefits)+1)
	labels = append(labels, rel.Categories...)
	labels = append(labels, rel.Benefits...)
	if rel.Brand != "" {
		labels = append(labels, rel.Brand)
	}

	matched := 0
	for _, term := range queryTerms {
		for _, label := range labels {
			if strings.Contains(label, term) {
				matched++
				break
			}
		}
	}

	matchFraction := float64(matched) / float64(len(queryTerms))
	return graphMatchWeight*matchFraction + graphImportanceWeight*rel.Importance
}

// popularityScore derives a [0, 1] score from static product metadata:
// rating, review volume (log-scaled, saturating near 1000 reviews), and
// the featured flag.
func popularityScore(p *catalog.Product) float64 {
	rating := p.AverageRating / 5.0
	reviews := math.Log10(float64(p.ReviewCount)+1) / 3.0
	if reviews > 1 {
		reviews = 1
	}

	featured := 0.0
	if p.Featured {
		featured = 1.0
	}

	return 0.5*rating + 0.3*reviews + 0.2*featured
}

// applyPopularityScores fills in popularity from snapshot products.
func applyPopularityScores(results map[int64]*Result, byID map[int64]*catalog.Product) {
	for id, r := range results {
		if p, ok := byID[id]; ok {
			r.PopularityScore = popularityScore(p)
		}
	}
}

// explain builds the deterministic diagnostic string for a result. It is
// never used in ranking.
func explain(r *Result) string {
	var parts []string

	if r.SemanticScore > explainSemanticThreshold {
		parts = append(parts, "High semantic relevance")
	}
	if r.KeywordScore > explainKeywordThreshold && len(r.MatchedTerms) > 0 {
		parts = append(parts, "Matched keywords: "+strings.Join(r.MatchedTerms, ", "))
	}
	if r.GraphScore > explainGraphThreshold {
		parts = append(parts, "Strong graph connections")
	}
	if r.PopularityScore > explainPopularityThreshold {
		parts = append(parts, "Popular product")
	}

	if len(parts) == 0 {
		return "Relevant match"
	}
	return strings.Join(parts, "; ")
}
