package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/embed"
	"github.com/verdantcart/hybridsearch/internal/enrich"
	"github.com/verdantcart/hybridsearch/internal/telemetry"
)

// Snapshot is one immutable build of the search indexes over a catalog
// fetch. Readers holding a snapshot keep using it even while a newer one
// is being built.
type Snapshot struct {
	Products  []*catalog.Product
	ByID      map[int64]*catalog.Product
	Keyword   *KeywordIndex
	Vector    *VectorIndex
	BuiltAt   time.Time
	BuildTime time.Duration
}

// Stats returns snapshot statistics.
func (s *Snapshot) Stats() Stats {
	return Stats{
		ProductCount: len(s.Products),
		BuiltAt:      s.BuiltAt,
		BuildTime:    s.BuildTime,
	}
}

// Close releases both indexes.
func (s *Snapshot) Close() error {
	var firstErr error
	if s.Keyword != nil {
		if err := s.Keyword.Close(); err != nil {
			firstErr = err
		}
	}
	if s.Vector != nil {
		if err := s.Vector.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithRebuildTTL sets the snapshot freshness window.
func WithRebuildTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPageSize sets the catalog fetch page size.
func WithPageSize(n int) CacheOption {
	return func(c *Cache) {
		c.pageSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// Cache owns the current snapshot and rebuilds it when stale. The first
// access builds synchronously; later accesses past the TTL trigger a
// rebuild while concurrent readers are served the stale snapshot. A failed
// rebuild also serves the stale snapshot rather than erroring the request.
type Cache struct {
	source   catalog.Source
	embedder embed.Embedder
	ttl      time.Duration
	pageSize int
	logger   *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot

	buildMu sync.Mutex

	refreshOnce sync.Once
	stopRefresh chan struct{}
}

// NewCache creates a snapshot cache over the given catalog source and
// embedder. Default TTL is DefaultRebuildTTL.
func NewCache(source catalog.Source, embedder embed.Embedder, opts ...CacheOption) *Cache {
	c := &Cache{
		source:      source,
		embedder:    embedder,
		ttl:         DefaultRebuildTTL,
		pageSize:    catalog.DefaultPageSize,
		logger:      slog.Default(),
		stopRefresh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns a fresh snapshot, rebuilding if the current one is stale or
// absent.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && time.Since(snap.BuiltAt) < c.ttl {
		return snap, nil
	}

	if snap != nil {
		// Stale but usable. Only one caller rebuilds; the rest are
		// served the stale snapshot.
		if !c.buildMu.TryLock() {
			return snap, nil
		}
	} else {
		c.buildMu.Lock()
	}
	defer c.buildMu.Unlock()

	// Another builder may have finished while we waited for the lock.
	c.mu.RLock()
	snap = c.snap
	c.mu.RUnlock()
	if snap != nil && time.Since(snap.BuiltAt) < c.ttl {
		return snap, nil
	}

	fresh, err := c.build(ctx)
	if err != nil {
		if snap != nil {
			c.logger.Warn("snapshot rebuild failed, serving stale",
				slog.String("error", err.Error()),
				slog.Time("built_at", snap.BuiltAt))
			return snap, nil
		}
		return nil, err
	}

	c.swap(fresh)
	return fresh, nil
}

// Refresh forces a rebuild regardless of freshness.
func (c *Cache) Refresh(ctx context.Context) (*Snapshot, error) {
	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	fresh, err := c.build(ctx)
	if err != nil {
		return nil, err
	}

	c.swap(fresh)
	return fresh, nil
}

// Current returns the snapshot without triggering a rebuild, or nil if
// none has been built yet.
func (c *Cache) Current() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// swap installs the fresh snapshot. The old one is not closed here because
// in-flight readers may still hold it; the garbage collector reclaims it.
func (c *Cache) swap(fresh *Snapshot) {
	c.mu.Lock()
	c.snap = fresh
	c.mu.Unlock()
}

// StartRefresher launches a background goroutine that rebuilds the
// snapshot on the given interval. Stop terminates it.
func (c *Cache) StartRefresher(ctx context.Context, interval time.Duration) {
	c.refreshOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-c.stopRefresh:
					return
				case <-ticker.C:
					if _, err := c.Refresh(ctx); err != nil {
						c.logger.Warn("background snapshot refresh failed",
							slog.String("error", err.Error()))
					}
				}
			}
		}()
	})
}

// Stop terminates the background refresher if running.
func (c *Cache) Stop() {
	select {
	case <-c.stopRefresh:
	default:
		close(c.stopRefresh)
	}
}

// build fetches the catalog and constructs both indexes. An empty catalog
// yields an empty but valid snapshot.
func (c *Cache) build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	products, err := c.source.GetAllProducts(ctx, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	searchTexts := make([]string, len(products))
	byID := make(map[int64]*catalog.Product, len(products))
	for i, p := range products {
		searchTexts[i] = enrich.EnrichText(p.Name, p.Description, p.Categories, p.Attributes, p.Tags, p.Benefits)
		byID[p.ID] = p
	}

	keywordIdx, err := NewKeywordIndex()
	if err != nil {
		return nil, err
	}

	if err := keywordIdx.Index(ctx, products, searchTexts); err != nil {
		_ = keywordIdx.Close()
		return nil, err
	}

	vectorIdx := NewVectorIndex(c.embedder.Dimensions())
	if err := c.embedProducts(ctx, vectorIdx, products, searchTexts); err != nil {
		_ = keywordIdx.Close()
		_ = vectorIdx.Close()
		return nil, err
	}

	elapsed := time.Since(start)
	snap := &Snapshot{
		Products:  products,
		ByID:      byID,
		Keyword:   keywordIdx,
		Vector:    vectorIdx,
		BuiltAt:   time.Now(),
		BuildTime: elapsed,
	}

	telemetry.SnapshotBuildDuration.Observe(elapsed.Seconds())
	c.logger.Info("snapshot built",
		slog.Int("products", len(products)),
		slog.Duration("elapsed", elapsed))

	return snap, nil
}

// embedProducts embeds search texts in batches and loads them into the
// vector index. Texts longer than the chunk limit are chunked and their
// chunk vectors averaged.
func (c *Cache) embedProducts(ctx context.Context, vectorIdx *VectorIndex, products []*catalog.Product, searchTexts []string) error {
	for offset := 0; offset < len(products); offset += embed.DefaultBatchSize {
		end := offset + embed.DefaultBatchSize
		if end > len(products) {
			end = len(products)
		}

		batch := products[offset:end]
		vectors := make([][]float32, len(batch))
		for i, text := range searchTexts[offset:end] {
			vec, err := c.embedText(ctx, text)
			if err != nil {
				return fmt.Errorf("embedding product %d failed: %w", batch[i].ID, err)
			}
			vectors[i] = vec
		}

		if err := vectorIdx.Add(ctx, batch, vectors); err != nil {
			return err
		}
	}

	return nil
}

// embedText embeds one search text, averaging chunk vectors for long text.
func (c *Cache) embedText(ctx context.Context, text string) ([]float32, error) {
	chunks := enrich.ChunkText(text, enrich.DefaultMaxChunkSize)
	if len(chunks) == 0 {
		// Empty search text embeds as the zero vector.
		return make([]float32, c.embedder.Dimensions()), nil
	}
	if len(chunks) == 1 {
		return c.embedder.Embed(ctx, chunks[0])
	}

	vectors, err := c.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, err
	}

	averaged := make([]float32, c.embedder.Dimensions())
	for _, vec := range vectors {
		for i, val := range vec {
			averaged[i] += val
		}
	}
	n := float32(len(vectors))
	for i := range averaged {
		averaged[i] /= n
	}

	return averaged, nil
}
