package graph

import (
	"context"
	"fmt"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

// SeedFromCatalog derives relationship edges from catalog products and
// loads them into the store. Importance is a product's edge count
// (categories, benefits, brand) normalized by the most connected product,
// so it lands in [0, 1].
func SeedFromCatalog(ctx context.Context, store RelationshipStore, products []*catalog.Product) error {
	maxEdges := 0
	for _, p := range products {
		if n := edgeCount(p); n > maxEdges {
			maxEdges = n
		}
	}

	for _, p := range products {
		importance := 0.0
		if maxEdges > 0 {
			importance = float64(edgeCount(p)) / float64(maxEdges)
		}

		rel := &ProductRelations{
			Categories: p.Categories,
			Benefits:   p.Benefits,
			Brand:      p.Brand,
			Importance: importance,
		}
		if err := store.UpsertRelations(ctx, p.ID, rel); err != nil {
			return fmt.Errorf("failed to seed relations for product %d: %w", p.ID, err)
		}
	}

	return nil
}

func edgeCount(p *catalog.Product) int {
	n := len(p.Categories) + len(p.Benefits)
	if p.Brand != "" {
		n++
	}
	return n
}
