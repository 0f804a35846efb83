package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory RelationshipStore. It backs tests and
// deployments without Redis configured.
type MemoryStore struct {
	mu        sync.RWMutex
	relations map[int64]*ProductRelations
	related   map[string]map[string]struct{}
	all       map[string]struct{}

	// Err, when set, is returned by every call. Lets tests simulate a
	// down relationship store.
	Err error
}

var _ RelationshipStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory relationship store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		relations: make(map[int64]*ProductRelations),
		related:   make(map[string]map[string]struct{}),
		all:       make(map[string]struct{}),
	}
}

// UpsertRelations stores the edges for a product.
func (s *MemoryStore) UpsertRelations(ctx context.Context, productID int64, rel *ProductRelations) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	categories := lowerTrimAll(rel.Categories)
	benefits := lowerTrimAll(rel.Benefits)
	sort.Strings(categories)
	sort.Strings(benefits)

	s.relations[productID] = &ProductRelations{
		Categories: categories,
		Benefits:   benefits,
		Brand:      strings.ToLower(rel.Brand),
		Importance: rel.Importance,
	}

	for _, cat := range categories {
		s.all[cat] = struct{}{}
		for _, other := range categories {
			if other == cat {
				continue
			}
			if s.related[cat] == nil {
				s.related[cat] = make(map[string]struct{})
			}
			s.related[cat][other] = struct{}{}
		}
	}

	return nil
}

// GetRelations returns a copy of the edges for a product, or nil.
func (s *MemoryStore) GetRelations(ctx context.Context, productID int64) (*ProductRelations, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Err != nil {
		return nil, s.Err
	}

	rel, ok := s.relations[productID]
	if !ok {
		return nil, nil
	}

	out := &ProductRelations{
		Categories: append([]string(nil), rel.Categories...),
		Benefits:   append([]string(nil), rel.Benefits...),
		Brand:      rel.Brand,
		Importance: rel.Importance,
	}
	return out, nil
}

// RelatedCategories returns co-occurring categories, alphabetical, capped
// at limit.
func (s *MemoryStore) RelatedCategories(ctx context.Context, category string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	set := s.related[strings.ToLower(strings.TrimSpace(category))]
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Categories returns all known categories, sorted.
func (s *MemoryStore) Categories(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]string, 0, len(s.all))
	for cat := range s.all {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out, nil
}

// Ping reports the simulated error, if any.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Err
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
