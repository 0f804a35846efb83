package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/verdantcart/hybridsearch/internal/graph"
	"github.com/verdantcart/hybridsearch/internal/telemetry"
)

// Expander widens a query with table synonyms and graph-derived related
// categories before retrieval.
type Expander struct {
	store  graph.RelationshipStore
	logger *slog.Logger
}

// NewExpander creates an expander. store may be nil, in which case only
// the synonym table contributes.
func NewExpander(store graph.RelationshipStore, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{store: store, logger: logger}
}

// Expand returns the expansion for a query. The relationship store call is
// failure-isolated: any error yields an empty expanded-terms list, never a
// failed expansion.
func (e *Expander) Expand(ctx context.Context, query string) *Expansion {
	exp := &Expansion{
		Original:      query,
		ExpandedTerms: []string{},
		Synonyms:      synonymsFor(query),
	}

	if e.store == nil {
		return exp
	}

	related, err := e.relatedCategories(ctx, query)
	if err != nil {
		e.logger.Warn("graph expansion failed, continuing without it",
			slog.String("query", query),
			slog.String("error", err.Error()))
		telemetry.RecordBranchFailure("graph")
		return exp
	}

	exp.ExpandedTerms = related
	return exp
}

// relatedCategories finds categories whose name contains the lowercased
// query, then returns categories co-occurring with them, capped at the
// graph package's related limit.
func (e *Expander) relatedCategories(ctx context.Context, query string) ([]string, error) {
	categories, err := e.store.Categories(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	out := []string{}

	for _, cat := range categories {
		if !strings.Contains(cat, needle) {
			continue
		}

		related, err := e.store.RelatedCategories(ctx, cat, graph.DefaultRelatedLimit)
		if err != nil {
			return nil, err
		}

		for _, r := range related {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
			if len(out) >= graph.DefaultRelatedLimit {
				return out, nil
			}
		}
	}

	return out, nil
}
