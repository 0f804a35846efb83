package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemorySource is an in-memory catalog source.
// Used by tests and by the seed path before persistence is configured.
type MemorySource struct {
	mu       sync.RWMutex
	products map[int64]*Product

	// Err, when set, is returned by every call. Lets tests simulate a
	// failing catalog backend.
	Err error
}

// NewMemorySource creates a memory-backed catalog with the given products.
func NewMemorySource(products ...*Product) *MemorySource {
	m := &MemorySource{products: make(map[int64]*Product, len(products))}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

// GetAllProducts returns all products ordered by ID ascending.
func (m *MemorySource) GetAllProducts(ctx context.Context, pageSize int) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]*Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetProduct returns the product with the given ID, or nil.
func (m *MemorySource) GetProduct(ctx context.Context, id int64) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.products[id], nil
}

// Add inserts or replaces a product.
func (m *MemorySource) Add(p *Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// Close is a no-op for the memory source.
func (m *MemorySource) Close() error { return nil }

// Verify interface implementation.
var _ Source = (*MemorySource)(nil)
