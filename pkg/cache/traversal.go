package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pathfinder/pkg/domain"
)

// TraversalCache is a cache specialized for traversal results.
type TraversalCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedTraversalResult is the cached form of a finished traversal.
type CachedTraversalResult struct {
	Results     map[domain.Id]domain.PathResult `json:"results"`
	Rounds      int64                           `json:"rounds"`
	SearchSpace int64                           `json:"search_space"`
	TargetFound bool                            `json:"target_found,omitempty"`
	ComputedAt  time.Time                       `json:"computed_at"`
}

// NewTraversalCache creates a cache for traversal results.
func NewTraversalCache(cache Cache, defaultTTL time.Duration) *TraversalCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &TraversalCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cached result for the query. The second return value
// reports whether a usable entry was found.
func (tc *TraversalCache) Get(ctx context.Context, q *QueryKey) (*CachedTraversalResult, bool, error) {
	key := BuildTraversalKey(QueryHash(q))

	data, err := tc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedTraversalResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Corrupted entry, drop it and treat as a miss.
		_ = tc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set stores the traversal result for the query.
func (tc *TraversalCache) Set(ctx context.Context, q *QueryKey, result *CachedTraversalResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = tc.defaultTTL
	}

	key := BuildTraversalKey(QueryHash(q))

	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return tc.cache.Set(ctx, key, data, ttl)
}

// Invalidate removes the cached result for the query.
func (tc *TraversalCache) Invalidate(ctx context.Context, q *QueryKey) error {
	key := BuildTraversalKey(QueryHash(q))
	return tc.cache.Delete(ctx, key)
}

// InvalidateAll clears the whole cache. Used when the underlying graph
// changes.
func (tc *TraversalCache) InvalidateAll(ctx context.Context) error {
	return tc.cache.Clear(ctx)
}
