// Package graph provides the product relationship store. Relationships
// connect products to categories, benefits, and brands, and carry a
// per-product importance weight. The store feeds both query expansion
// (related categories) and graph-based result scoring.
package graph

import "context"

// DefaultRelatedLimit bounds how many related categories an expansion
// request returns.
const DefaultRelatedLimit = 5

// ProductRelations are the relationship edges of one product.
type ProductRelations struct {
	Categories []string `json:"categories"`
	Benefits   []string `json:"benefits"`
	Brand      string   `json:"brand,omitempty"`

	// Importance is a [0, 1] centrality weight: how connected the
	// product is relative to the rest of the catalog.
	Importance float64 `json:"importance"`
}

// RelationshipStore persists and queries product relationship edges.
//
// Implementations must be safe for concurrent use.
type RelationshipStore interface {
	// UpsertRelations stores the relationship edges for a product,
	// replacing any previous edges.
	UpsertRelations(ctx context.Context, productID int64, rel *ProductRelations) error

	// GetRelations returns the edges for a product, or nil if the
	// product has none.
	GetRelations(ctx context.Context, productID int64) (*ProductRelations, error)

	// RelatedCategories returns up to limit categories that co-occur
	// with the given category on at least one product, sorted
	// alphabetically for determinism.
	RelatedCategories(ctx context.Context, category string, limit int) ([]string, error)

	// Categories returns all known categories.
	Categories(ctx context.Context) ([]string, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases underlying resources.
	Close() error
}
