// Package index builds and serves the in-memory search indexes: a Bleve
// keyword index and an HNSW vector index, assembled together into immutable
// catalog snapshots that are rebuilt on a TTL.
package index

import "time"

// DefaultRebuildTTL is how long a snapshot stays fresh before the next
// access triggers a rebuild.
const DefaultRebuildTTL = 5 * time.Minute

// KeywordResult is one hit from the keyword index. Score is normalized to
// [0, 1] relative to the best hit in the same result set.
type KeywordResult struct {
	ProductID    int64
	Score        float64
	MatchedTerms []string
}

// VectorResult is one hit from the vector index. Score is cosine
// similarity mapped to [0, 1].
type VectorResult struct {
	ProductID int64
	Score     float64
}

// Stats describes the contents of a built snapshot.
type Stats struct {
	ProductCount int           `json:"product_count"`
	BuiltAt      time.Time     `json:"built_at"`
	BuildTime    time.Duration `json:"build_time"`
}
