// Package catalog provides the product catalog model and catalog sources.
// The search engine treats the catalog as a read-only snapshot source; it is
// paged out of storage in batches and consumed to build the keyword index.
package catalog

import (
	"context"
	"time"
)

// Product is one catalog entry. Products are immutable once loaded; the
// engine never writes back to the catalog.
type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Brand         string            `json:"brand"`
	Price         float64           `json:"price"`
	Categories    []string          `json:"categories"`
	Tags          []string          `json:"tags"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Benefits      []string          `json:"benefits,omitempty"`
	AverageRating float64           `json:"average_rating"`
	ReviewCount   int               `json:"review_count"`
	InStock       bool              `json:"in_stock"`
	Featured      bool              `json:"featured"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Source supplies catalog snapshots for index builds.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// GetAllProducts returns the full catalog, fetched in pages of pageSize.
	// A pageSize <= 0 uses the implementation default.
	GetAllProducts(ctx context.Context, pageSize int) ([]*Product, error)

	// GetProduct returns a single product by ID, or nil if absent.
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// Close releases underlying resources.
	Close() error
}

// DefaultPageSize is the catalog fetch page size used when none is given.
const DefaultPageSize = 500
