package graph

import (
	"context"

	apperrors "github.com/verdantcart/hybridsearch/internal/errors"
)

// BreakerStore wraps a RelationshipStore with a circuit breaker so a down
// backend fails fast instead of stacking up timeouts on the search path.
// Open-circuit reads return empty results; the search branches already
// degrade on missing graph signals. Writes surface ErrCircuitOpen because
// a silently dropped upsert would leave the graph inconsistent.
type BreakerStore struct {
	inner   RelationshipStore
	breaker *apperrors.CircuitBreaker
}

var _ RelationshipStore = (*BreakerStore)(nil)

// NewBreakerStore wraps the store with the given circuit breaker.
func NewBreakerStore(inner RelationshipStore, breaker *apperrors.CircuitBreaker) *BreakerStore {
	return &BreakerStore{inner: inner, breaker: breaker}
}

// State exposes the breaker state for health reporting.
func (s *BreakerStore) State() apperrors.State {
	return s.breaker.State()
}

func (s *BreakerStore) UpsertRelations(ctx context.Context, productID int64, rel *ProductRelations) error {
	return s.breaker.Execute(func() error {
		return s.inner.UpsertRelations(ctx, productID, rel)
	})
}

func (s *BreakerStore) GetRelations(ctx context.Context, productID int64) (*ProductRelations, error) {
	return apperrors.CircuitExecuteWithResult(s.breaker,
		func() (*ProductRelations, error) {
			return s.inner.GetRelations(ctx, productID)
		},
		func() (*ProductRelations, error) {
			return nil, nil
		})
}

func (s *BreakerStore) RelatedCategories(ctx context.Context, category string, limit int) ([]string, error) {
	return apperrors.CircuitExecuteWithResult(s.breaker,
		func() ([]string, error) {
			return s.inner.RelatedCategories(ctx, category, limit)
		},
		func() ([]string, error) {
			return nil, nil
		})
}

func (s *BreakerStore) Categories(ctx context.Context) ([]string, error) {
	return apperrors.CircuitExecuteWithResult(s.breaker,
		func() ([]string, error) {
			return s.inner.Categories(ctx)
		},
		func() ([]string, error) {
			return nil, nil
		})
}

// Ping bypasses the breaker so health checks report the backend's actual
// reachability even while the circuit is open.
func (s *BreakerStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *BreakerStore) Close() error {
	return s.inner.Close()
}
