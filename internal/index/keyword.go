package index

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/verdantcart/hybridsearch/internal/catalog"
)

// productFields is the Bleve document for one product. Search text is the
// enriched composite; the remaining fields exist for filter conjunctions.
type productFields struct {
	SearchText string   `json:"search_text"`
	Categories []string `json:"categories"`
	Price      float64  `json:"price"`
	InStock    bool     `json:"in_stock"`
	Featured   bool     `json:"featured"`
}

// KeywordIndex is the BM25 keyword side of a snapshot. It is built
// once and read-only afterwards; rebuilds produce a fresh index.
type KeywordIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	closed bool
}

// NewKeywordIndex creates an empty in-memory keyword index.
func NewKeywordIndex() (*KeywordIndex, error) {
	idx, err := bleve.NewMemOnly(createProductMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index: %w", err)
	}
	return &KeywordIndex{index: idx}, nil
}

// createProductMapping maps search_text through the English analyzer and
// keeps filter fields exact-match.
func createProductMapping() *mapping.IndexMappingImpl {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = en.AnalyzerName
	textField.Store = false
	textField.IncludeTermVectors = true

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = keyword.Name
	categoryField.Store = false

	priceField := bleve.NewNumericFieldMapping()
	priceField.Store = false

	boolField := bleve.NewBooleanFieldMapping()
	boolField.Store = false

	productMapping := bleve.NewDocumentMapping()
	productMapping.AddFieldMappingsAt("search_text", textField)
	productMapping.AddFieldMappingsAt("categories", categoryField)
	productMapping.AddFieldMappingsAt("price", priceField)
	productMapping.AddFieldMappingsAt("in_stock", boolField)
	productMapping.AddFieldMappingsAt("featured", boolField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = productMapping
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	return indexMapping
}

// Index adds products with their enriched search text. searchTexts must be
// parallel to products.
func (k *KeywordIndex) Index(ctx context.Context, products []*catalog.Product, searchTexts []string) error {
	if len(products) != len(searchTexts) {
		return fmt.Errorf("products and searchTexts length mismatch: %d vs %d", len(products), len(searchTexts))
	}
	if len(products) == 0 {
		return nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return fmt.Errorf("keyword index is closed")
	}

	batch := k.index.NewBatch()
	for i, p := range products {
		doc := productFields{
			SearchText: searchTexts[i],
			Categories: lowerAll(p.Categories),
			Price:      p.Price,
			InStock:    p.InStock,
			Featured:   p.Featured,
		}
		if err := batch.Index(strconv.FormatInt(p.ID, 10), doc); err != nil {
			return fmt.Errorf("failed to index product %d: %w", p.ID, err)
		}
	}

	if err := k.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	return nil
}

// Search returns products matching the query text under the given filters.
// Raw BM25 scores are normalized by the best hit so downstream thresholds
// apply on a [0, 1] scale.
func (k *KeywordIndex) Search(ctx context.Context, queryStr string, filters catalog.Filters, limit int) ([]*KeywordResult, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.closed {
		return nil, fmt.Errorf("keyword index is closed")
	}

	if strings.TrimSpace(queryStr) == "" {
		return []*KeywordResult{}, nil
	}

	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetField("search_text")

	searchRequest := bleve.NewSearchRequest(buildFilteredQuery(matchQuery, filters))
	searchRequest.Size = limit
	searchRequest.IncludeLocations = true

	result, err := k.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	maxScore := 0.0
	for _, hit := range result.Hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}

	results := make([]*KeywordResult, 0, len(result.Hits))
	for _, hit := range result.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}

		score := 0.0
		if maxScore > 0 {
			score = hit.Score / maxScore
		}

		results = append(results, &KeywordResult{
			ProductID:    id,
			Score:        score,
			MatchedTerms: extractMatchedTerms(hit),
		})
	}

	return results, nil
}

// buildFilteredQuery wraps the text query in a conjunction with one clause
// per set filter.
func buildFilteredQuery(textQuery query.Query, filters catalog.Filters) query.Query {
	if filters.Empty() {
		return textQuery
	}

	conjuncts := []query.Query{textQuery}

	if len(filters.Categories) > 0 {
		categoryQueries := make([]query.Query, 0, len(filters.Categories))
		for _, cat := range filters.Categories {
			tq := bleve.NewTermQuery(strings.ToLower(cat))
			tq.SetField("categories")
			categoryQueries = append(categoryQueries, tq)
		}
		conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(categoryQueries...))
	}

	if filters.PriceMin != nil || filters.PriceMax != nil {
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(filters.PriceMin, filters.PriceMax, &inclusive, &inclusive)
		rq.SetField("price")
		conjuncts = append(conjuncts, rq)
	}

	if filters.InStock != nil {
		bq := bleve.NewBoolFieldQuery(*filters.InStock)
		bq.SetField("in_stock")
		conjuncts = append(conjuncts, bq)
	}

	if filters.Featured != nil {
		bq := bleve.NewBoolFieldQuery(*filters.Featured)
		bq.SetField("featured")
		conjuncts = append(conjuncts, bq)
	}

	return bleve.NewConjunctionQuery(conjuncts...)
}

// DocCount returns the number of indexed products.
func (k *KeywordIndex) DocCount() int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.closed {
		return 0
	}

	count, _ := k.index.DocCount()
	return int(count)
}

// Close closes the underlying Bleve index.
func (k *KeywordIndex) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true
	return k.index.Close()
}

// extractMatchedTerms collects analyzed query terms that matched in the
// search text.
func extractMatchedTerms(hit *search.DocumentMatch) []string {
	seen := make(map[string]struct{})
	for field, locations := range hit.Locations {
		if field != "search_text" {
			continue
		}
		for term := range locations {
			seen[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
