package index

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/coder/hnsw"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

// HNSW tuning. M and EfSearch follow the coder/hnsw recommendations for
// small-to-medium in-memory graphs.
const (
	hnswM        = 16
	hnswEfSearch = 40

	// filterOverFetch is the multiplier applied to k when structured
	// filters are set, so post-filtering still yields enough candidates.
	filterOverFetch = 4
)

// VectorIndex is the semantic side of a snapshot: an HNSW graph over
// product embeddings, keyed by product ID. Filters are applied after the
// graph search because HNSW has no native attribute filtering.
type VectorIndex struct {
	mu         sync.RWMutex
	graph      *hnsw.Graph[int64]
	products   map[int64]*catalog.Product
	dimensions int
	closed     bool
}

// NewVectorIndex creates an empty vector index for embeddings of the given
// dimension.
func NewVectorIndex(dimensions int) *VectorIndex {
	graph := hnsw.NewGraph[int64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = hnswM
	graph.EfSearch = hnswEfSearch
	graph.Ml = 0.25

	return &VectorIndex{
		graph:      graph,
		products:   make(map[int64]*catalog.Product),
		dimensions: dimensions,
	}
}

// Add inserts product embeddings. vectors must be parallel to products.
func (v *VectorIndex) Add(ctx context.Context, products []*catalog.Product, vectors [][]float32) error {
	if len(products) != len(vectors) {
		return fmt.Errorf("products and vectors length mismatch: %d vs %d", len(products), len(vectors))
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return fmt.Errorf("vector index is closed")
	}

	for i, p := range products {
		if len(vectors[i]) != v.dimensions {
			return fmt.Errorf("product %d: dimension mismatch: expected %d, got %d",
				p.ID, v.dimensions, len(vectors[i]))
		}

		vec := make([]float32, len(vectors[i]))
		copy(vec, vectors[i])
		normalizeInPlace(vec)

		v.graph.Add(hnsw.MakeNode(p.ID, vec))
		v.products[p.ID] = p
	}

	return nil
}

// Search finds the k nearest products to the query embedding, honoring the
// given filters. Scores are cosine similarity mapped to [0, 1].
func (v *VectorIndex) Search(ctx context.Context, query []float32, filters catalog.Filters, k int) ([]*VectorResult, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.closed {
		return nil, fmt.Errorf("vector index is closed")
	}

	if len(query) != v.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", v.dimensions, len(query))
	}

	if v.graph.Len() == 0 {
		return []*VectorResult{}, nil
	}

	normalized := make([]float32, len(query))
	copy(normalized, query)
	normalizeInPlace(normalized)

	fetchK := k
	if !filters.Empty() {
		fetchK = k * filterOverFetch
	}
	if fetchK > v.graph.Len() {
		fetchK = v.graph.Len()
	}

	nodes := v.graph.Search(normalized, fetchK)

	results := make([]*VectorResult, 0, k)
	for _, node := range nodes {
		product, ok := v.products[node.Key]
		if !ok {
			continue
		}
		if !filters.Empty() && !filters.Matches(product) {
			continue
		}

		distance := v.graph.Distance(normalized, node.Value)
		results = append(results, &VectorResult{
			ProductID: node.Key,
			Score:     cosineDistanceToScore(distance),
		})

		if len(results) >= k {
			break
		}
	}

	return results, nil
}

// Count returns the number of indexed products.
func (v *VectorIndex) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.closed {
		return 0
	}
	return len(v.products)
}

// Close releases the graph.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.products = nil
	v.graph = nil
	return nil
}

// cosineDistanceToScore maps cosine distance (0 to 2) onto a [0, 1]
// similarity score, clamping float drift at the edges.
func cosineDistanceToScore(distance float32) float64 {
	score := 1.0 - float64(distance)/2.0
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// normalizeInPlace normalizes a vector to unit length.
func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	invMagnitude := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= invMagnitude
	}
}
