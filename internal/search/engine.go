package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verdantcart/hybridsearch/internal/embed"
	apperrors "github.com/verdantcart/hybridsearch/internal/errors"
	"github.com/verdantcart/hybridsearch/internal/graph"
	"github.com/verdantcart/hybridsearch/internal/index"
	"github.com/verdantcart/hybridsearch/internal/telemetry"
)

// DefaultBranchTimeout bounds each retrieval branch. A branch exceeding
// its timeout fails alone; the other branch keeps its full budget.
const DefaultBranchTimeout = 3 * time.Second

// candidateDepthFactor sizes the candidate pool fetched from each branch
// relative to the page limit, leaving room for re-ranking to reorder
// candidates. The pool depth must not depend on the offset: every page of
// a query ranks over the same candidate pool, so consecutive pages never
// overlap. Offsets past the pool return empty pages.
const candidateDepthFactor = 2

// Engine runs the full hybrid search pipeline. All mutable state lives in
// the injected snapshot cache and result cache, so a fresh Engine per test
// is fully isolated.
type Engine struct {
	snapshots   *index.Cache
	embedder    embed.Embedder
	graphStore  graph.RelationshipStore
	expander    *Expander
	scorer      *Scorer
	resultCache *ResultCache

	hybridWeights Weights
	graphWeights  Weights
	branchTimeout time.Duration
	logger        *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithGraphStore attaches a relationship store for query expansion and
// graph scoring. Without one, expansion uses only the synonym table and
// graph scores stay zero.
func WithGraphStore(store graph.RelationshipStore) EngineOption {
	return func(e *Engine) {
		e.graphStore = store
	}
}

// WithResultCache replaces the default result cache.
func WithResultCache(cache *ResultCache) EngineOption {
	return func(e *Engine) {
		e.resultCache = cache
	}
}

// WithWeightPresets overrides the default weight presets.
func WithWeightPresets(hybrid, graphBoost Weights) EngineOption {
	return func(e *Engine) {
		e.hybridWeights = hybrid
		e.graphWeights = graphBoost
	}
}

// WithBranchTimeout sets the per-branch retrieval timeout.
func WithBranchTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.branchTimeout = d
	}
}

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a search engine over the given snapshot cache and
// embedder.
func NewEngine(snapshots *index.Cache, embedder embed.Embedder, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		snapshots:     snapshots,
		embedder:      embedder,
		hybridWeights: DefaultHybridWeights,
		graphWeights:  DefaultGraphWeights,
		branchTimeout: DefaultBranchTimeout,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.resultCache == nil {
		e.resultCache = NewResultCache(DefaultResultCacheSize, DefaultResultCacheTTL)
	}

	e.expander = NewExpander(e.graphStore, e.logger)

	scorer, err := NewScorer(e.graphStore, DefaultGraphConcurrency, e.logger)
	if err != nil {
		return nil, err
	}
	e.scorer = scorer

	return e, nil
}

// Close releases the engine's worker pool.
func (e *Engine) Close() error {
	if e.scorer != nil {
		e.scorer.Release()
	}
	return nil
}

// Search runs the pipeline for one query. Branch failures degrade to
// empty contributions; the only error surfaced to the caller is an
// embedding failure in semantic-only mode. Invalid options also error.
func (e *Engine) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	start := time.Now()
	opts = e.applyDefaults(opts)

	if !opts.Mode.Valid() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidMode, "unknown search mode: "+string(opts.Mode), nil)
	}
	if opts.Weights != nil {
		if err := opts.Weights.Validate(); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidQuery, err)
		}
		if opts.Weights.Graph > 0 && !opts.GraphBoost {
			return nil, apperrors.New(apperrors.ErrCodeInvalidQuery,
				"a nonzero graph weight requires graph_boost", nil)
		}
	}
	if opts.Offset < 0 || opts.Limit < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidPage, "offset and limit must be non-negative", nil)
	}

	cacheKey := e.resultCache.Key(query, opts)
	if cached, ok := e.resultCache.Get(cacheKey); ok {
		telemetry.RecordCacheResult(true)
		telemetry.ObserveSearch(string(opts.Mode), "cached", time.Since(start))
		return cached, nil
	}
	telemetry.RecordCacheResult(false)

	resp, err := e.search(ctx, query, opts, start)
	if err != nil {
		telemetry.ObserveSearch(string(opts.Mode), "error", time.Since(start))
		return nil, err
	}

	e.resultCache.Put(cacheKey, resp)
	telemetry.ObserveSearch(string(opts.Mode), "ok", time.Since(start))
	return resp, nil
}

func (e *Engine) search(ctx context.Context, query string, opts Options, start time.Time) (*Response, error) {
	snapshot, err := e.snapshots.Get(ctx)
	if err != nil {
		// Degraded to "no results": callers cannot distinguish backend
		// failure from an empty match set, by contract. Operators see it
		// in the logs.
		e.logger.Error("snapshot unavailable, returning empty results",
			slog.String("query", query),
			slog.String("error", err.Error()))
		return e.emptyResponse(opts, nil, start), nil
	}

	expansion := &Expansion{Original: query, ExpandedTerms: []string{}, Synonyms: []string{}}
	if opts.ExpandQuery {
		expansion = e.expander.Expand(ctx, query)
	}
	retrievalQuery := expansion.Query()

	semantic, keyword, err := e.retrieve(ctx, snapshot, retrievalQuery, opts)
	if err != nil {
		return nil, err
	}

	fused := fuse(semantic, keyword, snapshot.ByID)

	weights := e.hybridWeights
	if opts.GraphBoost {
		weights = e.graphWeights
	}
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	if opts.GraphBoost {
		e.scorer.ApplyGraphScores(ctx, fused, query)
	}
	// Popularity is local arithmetic over snapshot metadata; compute it
	// whenever the effective weights give it a say in the ranking.
	if weights.Popularity > 0 {
		applyPopularityScores(fused, snapshot.ByID)
	}

	sorted := finalize(fused, weights)

	resp := &Response{
		Results:    paginate(sorted, opts.Offset, opts.Limit),
		TotalCount: len(sorted),
	}
	if opts.IncludeFacets {
		resp.Facets = computeFacets(sorted, snapshot.ByID)
	}
	if opts.ExpandQuery {
		resp.QueryExpansion = expansion
	}
	resp.ExecutionTimeMs = time.Since(start).Milliseconds()

	return resp, nil
}

// retrieve runs the enabled branches concurrently and joins them before
// fusion. Per-branch errors are captured outside the errgroup so one
// branch's failure never cancels the other.
func (e *Engine) retrieve(ctx context.Context, snapshot *index.Snapshot, query string, opts Options) ([]*index.VectorResult, []*index.KeywordResult, error) {
	fetchK := candidateDepthFactor * opts.Limit

	var (
		semantic []*index.VectorResult
		keyword  []*index.KeywordResult

		embedErr    error
		semanticErr error
		keywordErr  error
	)

	g, gctx := errgroup.WithContext(ctx)

	if opts.Mode == ModeHybrid || opts.Mode == ModeSemanticOnly {
		g.Go(func() error {
			branchCtx, cancel := context.WithTimeout(gctx, e.branchTimeout)
			defer cancel()

			embedding, err := e.embedder.Embed(branchCtx, query)
			if err != nil {
				embedErr = err
				return nil
			}

			hits, err := snapshot.Vector.Search(branchCtx, embedding, opts.Filters, fetchK)
			if err != nil {
				semanticErr = err
				return nil
			}

			semantic = filterSemanticHits(hits)
			return nil
		})
	}

	if opts.Mode == ModeHybrid || opts.Mode == ModeKeywordOnly {
		g.Go(func() error {
			branchCtx, cancel := context.WithTimeout(gctx, e.branchTimeout)
			defer cancel()

			hits, err := snapshot.Keyword.Search(branchCtx, query, opts.Filters, fetchK)
			if err != nil {
				keywordErr = err
				return nil
			}

			keyword = filterKeywordHits(hits)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if embedErr != nil {
		if opts.Mode == ModeSemanticOnly {
			// No fallback branch exists; this is the one total failure
			// surfaced as an error.
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeEmbeddingFailed, embedErr)
		}
		e.logger.Warn("embedding failed, degrading to keyword-only",
			slog.String("error", embedErr.Error()))
		telemetry.RecordBranchFailure("semantic")
	}
	if semanticErr != nil {
		e.logger.Warn("semantic branch failed",
			slog.String("error", semanticErr.Error()))
		telemetry.RecordBranchFailure("semantic")
	}
	if keywordErr != nil {
		e.logger.Warn("keyword branch failed",
			slog.String("error", keywordErr.Error()))
		telemetry.RecordBranchFailure("keyword")
	}

	return semantic, keyword, nil
}

// IndexCatalog forces a snapshot rebuild, reseeds relationship edges when
// a graph store is attached, and purges the result cache.
func (e *Engine) IndexCatalog(ctx context.Context) (index.Stats, error) {
	snapshot, err := e.snapshots.Refresh(ctx)
	if err != nil {
		return index.Stats{}, apperrors.Wrap(apperrors.ErrCodeIndexBuildFailed, err)
	}

	if e.graphStore != nil {
		if err := graph.SeedFromCatalog(ctx, e.graphStore, snapshot.Products); err != nil {
			// The indexes are already live; a failed graph seed degrades
			// graph scoring, it does not fail the rebuild.
			e.logger.Warn("graph seed failed after snapshot rebuild",
				slog.String("error", err.Error()))
			telemetry.RecordBranchFailure("graph")
		}
	}

	e.resultCache.Purge()
	telemetry.SnapshotProducts.Set(float64(len(snapshot.Products)))

	return snapshot.Stats(), nil
}

func (e *Engine) applyDefaults(opts Options) Options {
	if opts.Mode == "" {
		opts.Mode = ModeHybrid
	}
	if opts.Limit == 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	return opts
}

func (e *Engine) emptyResponse(opts Options, expansion *Expansion, start time.Time) *Response {
	resp := &Response{
		Results:         []*Result{},
		TotalCount:      0,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
	if opts.IncludeFacets {
		resp.Facets = &Facets{
			Categories:   []FacetValue{},
			PriceBuckets: []FacetValue{},
			Brands:       []FacetValue{},
			Ratings:      []FacetValue{},
		}
	}
	if expansion != nil {
		resp.QueryExpansion = expansion
	}
	return resp
}

// filterSemanticHits drops hits below the minimum similarity threshold.
func filterSemanticHits(hits []*index.VectorResult) []*index.VectorResult {
	out := hits[:0]
	for _, h := range hits {
		if h.Score >= MinSemanticScore {
			out = append(out, h)
		}
	}
	return out
}

// filterKeywordHits drops hits below the minimum normalized score.
func filterKeywordHits(hits []*index.KeywordResult) []*index.KeywordResult {
	out := hits[:0]
	for _, h := range hits {
		if h.Score >= MinKeywordScore {
			out = append(out, h)
		}
	}
	return out
}
