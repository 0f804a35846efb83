package embed

import (
	"context"

	"github.com/verdantcart/hybridsearch/internal/errors"
)

// RetryEmbedder wraps an Embedder with exponential backoff retries.
// Transient provider failures (timeouts, rate limits) are retried; the
// last error surfaces once the budget is exhausted.
type RetryEmbedder struct {
	inner Embedder
	cfg   errors.RetryConfig
}

var _ Embedder = (*RetryEmbedder)(nil)

// NewRetryEmbedder wraps the given embedder with retry logic.
func NewRetryEmbedder(inner Embedder, cfg errors.RetryConfig) *RetryEmbedder {
	return &RetryEmbedder{inner: inner, cfg: cfg}
}

// Embed generates an embedding, retrying on failure.
func (r *RetryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return errors.RetryWithResult(ctx, r.cfg, func() ([]float32, error) {
		return r.inner.Embed(ctx, text)
	})
}

// EmbedBatch generates embeddings for multiple texts, retrying the whole
// batch on failure. Providers return all-or-nothing for a batch, so
// partial results never need stitching.
func (r *RetryEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return errors.RetryWithResult(ctx, r.cfg, func() ([][]float32, error) {
		return r.inner.EmbedBatch(ctx, texts)
	})
}

// Dimensions returns the wrapped embedder's dimension.
func (r *RetryEmbedder) Dimensions() int {
	return r.inner.Dimensions()
}

// ModelName returns the wrapped embedder's model identifier.
func (r *RetryEmbedder) ModelName() string {
	return r.inner.ModelName()
}

// Available checks the wrapped embedder without retrying.
func (r *RetryEmbedder) Available(ctx context.Context) bool {
	return r.inner.Available(ctx)
}

// Close closes the wrapped embedder.
func (r *RetryEmbedder) Close() error {
	return r.inner.Close()
}
