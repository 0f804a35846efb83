package search

import (
	"sort"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/index"
)

// fuse merges the branch hit lists into one result per product. Semantic
// hits populate the semantic score, keyword hits the keyword score and
// matched terms; products hit by both branches are labeled hybrid.
// Display fields come from the snapshot products; hits without a snapshot
// product are dropped (the catalog changed under the index).
func fuse(semantic []*index.VectorResult, keyword []*index.KeywordResult, byID map[int64]*catalog.Product) map[int64]*Result {
	fused := make(map[int64]*Result, len(semantic)+len(keyword))

	for _, hit := range semantic {
		p, ok := byID[hit.ProductID]
		if !ok {
			continue
		}
		fused[hit.ProductID] = &Result{
			ProductID:     p.ID,
			Name:          p.Name,
			Slug:          p.Slug,
			Price:         p.Price,
			Categories:    p.Categories,
			SemanticScore: hit.Score,
			MatchType:     MatchSemantic,
		}
	}

	for _, hit := range keyword {
		if existing, ok := fused[hit.ProductID]; ok {
			existing.KeywordScore = hit.Score
			existing.MatchedTerms = hit.MatchedTerms
			existing.MatchType = MatchHybrid
			continue
		}

		p, ok := byID[hit.ProductID]
		if !ok {
			continue
		}
		fused[hit.ProductID] = &Result{
			ProductID:    p.ID,
			Name:         p.Name,
			Slug:         p.Slug,
			Price:        p.Price,
			Categories:   p.Categories,
			KeywordScore: hit.Score,
			MatchedTerms: hit.MatchedTerms,
			MatchType:    MatchKeyword,
		}
	}

	return fused
}

// finalize computes each result's weighted final score and explanation,
// then sorts descending by final score with product ID ascending as the
// tie-break. The tie-break keeps pagination stable and rankings
// reproducible.
func finalize(fused map[int64]*Result, weights Weights) []*Result {
	results := make([]*Result, 0, len(fused))
	for _, r := range fused {
		r.FinalScore = weights.Semantic*r.SemanticScore +
			weights.Keyword*r.KeywordScore +
			weights.Graph*r.GraphScore +
			weights.Popularity*r.PopularityScore
		r.Explanation = explain(r)
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].ProductID < results[j].ProductID
	})

	return results
}

// paginate slices the sorted result list. Out-of-range offsets yield an
// empty page, never an error.
func paginate(results []*Result, offset, limit int) []*Result {
	if offset >= len(results) {
		return []*Result{}
	}

	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
