package search

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Result cache defaults.
const (
	DefaultResultCacheSize = 512
	DefaultResultCacheTTL  = 60 * time.Second
)

// ResultCache memoizes full search responses keyed by (query, options) for
// a short TTL. No write-through invalidation: staleness is bounded by the
// TTL alone.
type ResultCache struct {
	cache *expirable.LRU[string, *Response]
}

// NewResultCache creates a result cache. size <= 0 and ttl <= 0 fall back
// to the defaults.
func NewResultCache(size int, ttl time.Duration) *ResultCache {
	if size <= 0 {
		size = DefaultResultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultResultCacheTTL
	}
	return &ResultCache{
		cache: expirable.NewLRU[string, *Response](size, nil, ttl),
	}
}

// cacheKeyPayload pins the serialization shape of the cache key. Every
// option that changes the answer must appear here.
type cacheKeyPayload struct {
	Query   string  `json:"q"`
	Options Options `json:"o"`
}

// Key computes a stable cache key for a query and its options.
func (c *ResultCache) Key(query string, opts Options) string {
	data, err := json.Marshal(cacheKeyPayload{Query: query, Options: opts})
	if err != nil {
		// Options contains only plain values; marshal failure means a
		// programming error. Degrade to an uncacheable key.
		return ""
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the cached response for the key, if present and unexpired.
func (c *ResultCache) Get(key string) (*Response, bool) {
	if key == "" {
		return nil, false
	}
	return c.cache.Get(key)
}

// Put stores a response under the key.
func (c *ResultCache) Put(key string, resp *Response) {
	if key == "" {
		return
	}
	c.cache.Add(key, resp)
}

// Purge drops all cached responses.
func (c *ResultCache) Purge() {
	c.cache.Purge()
}

// Len returns the number of live cache entries.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}
