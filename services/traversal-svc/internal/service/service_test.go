package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/cache"
	"pathfinder/pkg/domain"
	"pathfinder/pkg/logger"
	"pathfinder/pkg/metrics"
	"pathfinder/services/traversal-svc/internal/store"
	"pathfinder/services/traversal-svc/internal/traversal"
)

func init() {
	logger.Init("error")
}

func newTestService(t *testing.T, withCache bool) (*TraversalService, *store.MemoryStore) {
	t.Helper()

	s := store.NewMemoryStore()
	s.AddEdge("A", "B", "", map[string]float64{"w": 2})
	s.AddEdge("A", "C", "", map[string]float64{"w": 1})
	s.AddEdge("C", "B", "", map[string]float64{"w": 2})

	var tc *cache.TraversalCache
	if withCache {
		backend := cache.NewMemoryCache(nil)
		t.Cleanup(func() { _ = backend.Close() })
		tc = cache.NewTraversalCache(backend, time.Minute)
	}

	m := metrics.NewMetrics("pathfinder_test", "traversal")
	return New(traversal.NewTraverser(s), tc, m), s
}

func unboundedQuery(source domain.Id) traversal.Query {
	return traversal.Query{
		Source:         source,
		Direction:      domain.DirectionOut,
		WeightProperty: "w",
		Degree:         domain.NoLimit,
		Capacity:       domain.NoLimit,
		Limit:          domain.NoLimit,
	}
}

func TestShortestPaths(t *testing.T) {
	svc, _ := newTestService(t, false)

	resp, err := svc.ShortestPaths(context.Background(), unboundedQuery("A"))
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, 1.0, resp.Results["C"].Weight)
	assert.Equal(t, 2.0, resp.Results["B"].Weight)
	assert.False(t, resp.Cached)
	assert.ElementsMatch(t, []domain.Id{"A", "B", "C"}, resp.Vertices)
}

func TestShortestPaths_CacheHit(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()
	q := unboundedQuery("A")

	first, err := svc.ShortestPaths(ctx, q)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.ShortestPaths(ctx, q)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Results, second.Results)
}

func TestShortestPaths_ValidationErrorNotCached(t *testing.T) {
	svc, _ := newTestService(t, true)
	q := unboundedQuery("A")
	q.Degree = -5

	_, err := svc.ShortestPaths(context.Background(), q)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidDegree))

	// The failure must not have poisoned the cache for the valid query.
	q.Degree = domain.NoLimit
	resp, err := svc.ShortestPaths(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
}

func TestShortestPath_Found(t *testing.T) {
	svc, _ := newTestService(t, false)
	q := unboundedQuery("A")
	q.Target = "B"

	resp, err := svc.ShortestPath(context.Background(), q)
	require.NoError(t, err)

	require.True(t, resp.Found)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 2.0, resp.Result.Weight)
	assert.Equal(t, []domain.Id{"A", "B"}, resp.Result.Path)
}

func TestShortestPath_NotFound(t *testing.T) {
	svc, _ := newTestService(t, false)
	q := unboundedQuery("A")
	q.Target = "Z"

	resp, err := svc.ShortestPath(context.Background(), q)
	require.NoError(t, err)
	assert.False(t, resp.Found)
	assert.Nil(t, resp.Result)
}

func TestShortestPath_CacheHitIncludingAbsence(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()
	q := unboundedQuery("A")
	q.Target = "Z"

	first, err := svc.ShortestPath(ctx, q)
	require.NoError(t, err)
	require.False(t, first.Found)

	// The unreachable outcome is cached too.
	second, err := svc.ShortestPath(ctx, q)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.False(t, second.Found)
}
