package graph

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis key layout. Categories are stored lowercased.
//
//	graph:categories                  set of all categories
//	graph:category:products:<cat>     set of product IDs in category
//	graph:category:related:<cat>      set of co-occurring categories
//	graph:product:categories:<id>     set of product categories
//	graph:product:benefits:<id>       set of product benefits
//	graph:product:brand:<id>          string
//	graph:product:importance:<id>     float string
const (
	keyCategories        = "graph:categories"
	keyCategoryProducts  = "graph:category:products:"
	keyCategoryRelated   = "graph:category:related:"
	keyProductCategories = "graph:product:categories:"
	keyProductBenefits   = "graph:product:benefits:"
	keyProductBrand      = "graph:product:brand:"
	keyProductImportance = "graph:product:importance:"
)

// RedisConfig configures the Redis relationship store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RedisStore is a RelationshipStore backed by Redis sets.
type RedisStore struct {
	client *redis.Client
}

var _ RelationshipStore = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// UpsertRelations stores the edges for a product. Existing edges for the
// product are replaced; category membership is additive.
func (s *RedisStore) UpsertRelations(ctx context.Context, productID int64, rel *ProductRelations) error {
	id := strconv.FormatInt(productID, 10)
	categories := lowerTrimAll(rel.Categories)
	benefits := lowerTrimAll(rel.Benefits)

	pipe := s.client.TxPipeline()

	pipe.Del(ctx, keyProductCategories+id, keyProductBenefits+id)

	if len(categories) > 0 {
		members := toAnySlice(categories)
		pipe.SAdd(ctx, keyCategories, members...)
		pipe.SAdd(ctx, keyProductCategories+id, members...)
		for _, cat := range categories {
			pipe.SAdd(ctx, keyCategoryProducts+cat, id)
			for _, other := range categories {
				if other != cat {
					pipe.SAdd(ctx, keyCategoryRelated+cat, other)
				}
			}
		}
	}

	if len(benefits) > 0 {
		pipe.SAdd(ctx, keyProductBenefits+id, toAnySlice(benefits)...)
	}

	if rel.Brand != "" {
		pipe.Set(ctx, keyProductBrand+id, strings.ToLower(rel.Brand), 0)
	} else {
		pipe.Del(ctx, keyProductBrand+id)
	}

	pipe.Set(ctx, keyProductImportance+id, strconv.FormatFloat(rel.Importance, 'f', -1, 64), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert relations for product %d: %w", productID, err)
	}

	return nil
}

// GetRelations returns the edges for a product, or nil if none exist.
func (s *RedisStore) GetRelations(ctx context.Context, productID int64) (*ProductRelations, error) {
	id := strconv.FormatInt(productID, 10)

	pipe := s.client.Pipeline()
	categoriesCmd := pipe.SMembers(ctx, keyProductCategories+id)
	benefitsCmd := pipe.SMembers(ctx, keyProductBenefits+id)
	brandCmd := pipe.Get(ctx, keyProductBrand+id)
	importanceCmd := pipe.Get(ctx, keyProductImportance+id)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get relations for product %d: %w", productID, err)
	}

	categories := categoriesCmd.Val()
	benefits := benefitsCmd.Val()
	brand, _ := brandCmd.Result()
	importanceStr, importanceErr := importanceCmd.Result()

	if len(categories) == 0 && len(benefits) == 0 && brand == "" && importanceErr == redis.Nil {
		return nil, nil
	}

	importance := 0.0
	if importanceErr == nil {
		importance, _ = strconv.ParseFloat(importanceStr, 64)
	}

	sort.Strings(categories)
	sort.Strings(benefits)

	return &ProductRelations{
		Categories: categories,
		Benefits:   benefits,
		Brand:      brand,
		Importance: importance,
	}, nil
}

// RelatedCategories returns co-occurring categories, alphabetical, capped
// at limit.
func (s *RedisStore) RelatedCategories(ctx context.Context, category string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	related, err := s.client.SMembers(ctx, keyCategoryRelated+strings.ToLower(strings.TrimSpace(category))).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get related categories for %q: %w", category, err)
	}

	sort.Strings(related)
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

// Categories returns all known categories, sorted.
func (s *RedisStore) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.client.SMembers(ctx, keyCategories).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func lowerTrimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
