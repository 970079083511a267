// Package service wraps the traversal facade with the operational concerns
// the HTTP layer should not care about: result caching, metrics, tracing
// and structured logging.
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"pathfinder/pkg/cache"
	"pathfinder/pkg/domain"
	"pathfinder/pkg/logger"
	"pathfinder/pkg/metrics"
	"pathfinder/pkg/telemetry"
	"pathfinder/services/traversal-svc/internal/traversal"
)

const (
	opShortestPaths = "shortest_paths"
	opShortestPath  = "shortest_path"
)

// PathsResponse is the outcome of a to-all query.
type PathsResponse struct {
	Results     map[domain.Id]domain.PathResult
	Vertices    []domain.Id
	Rounds      int64
	SearchSpace int64
	Cached      bool
}

// PathResponse is the outcome of a single-target query.
type PathResponse struct {
	Found       bool
	Result      *domain.PathResult
	Rounds      int64
	SearchSpace int64
	Cached      bool
}

// TraversalService executes traversal queries with caching and telemetry.
type TraversalService struct {
	traverser *traversal.Traverser
	cache     *cache.TraversalCache // nil when caching is disabled
	metrics   *metrics.Metrics
}

// New creates a TraversalService. resultCache may be nil.
func New(traverser *traversal.Traverser, resultCache *cache.TraversalCache, m *metrics.Metrics) *TraversalService {
	return &TraversalService{
		traverser: traverser,
		cache:     resultCache,
		metrics:   m,
	}
}

// ShortestPaths runs a single-source-to-many query.
func (s *TraversalService) ShortestPaths(ctx context.Context, q traversal.Query) (*PathsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "traversal.shortest_paths",
		trace.WithAttributes(telemetry.QueryAttributes(
			string(q.Source), string(q.Direction), q.Label, q.Degree, q.SkipDegree, q.Capacity)...))
	defer span.End()

	key := queryKey(opShortestPaths, q)
	if cached, ok := s.cacheLookup(ctx, key); ok {
		return &PathsResponse{
			Results:     cached.Results,
			Vertices:    vertexList(cached.Results),
			Rounds:      cached.Rounds,
			SearchSpace: cached.SearchSpace,
			Cached:      true,
		}, nil
	}

	start := time.Now()
	res, err := s.traverser.SingleSourceShortestPaths(ctx, q)
	duration := time.Since(start)

	if err != nil {
		telemetry.SetError(ctx, err)
		s.record(opShortestPaths, false, duration, res)
		return nil, err
	}

	results := res.Paths.ToMap()
	s.record(opShortestPaths, true, duration, res)
	span.SetAttributes(telemetry.OutcomeAttributes(res.Rounds, res.SearchSpace, int64(len(results)))...)

	s.cacheStore(ctx, key, &cache.CachedTraversalResult{
		Results:     results,
		Rounds:      res.Rounds,
		SearchSpace: res.SearchSpace,
	})

	logger.Log.Debug("shortest paths query finished",
		"source", q.Source,
		"rounds", res.Rounds,
		"search_space", res.SearchSpace,
		"results", len(results),
		"duration", duration,
	)

	return &PathsResponse{
		Results:     results,
		Vertices:    vertexList(results),
		Rounds:      res.Rounds,
		SearchSpace: res.SearchSpace,
	}, nil
}

// ShortestPath runs a single-source-to-one-target query.
func (s *TraversalService) ShortestPath(ctx context.Context, q traversal.Query) (*PathResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "traversal.shortest_path",
		trace.WithAttributes(telemetry.QueryAttributes(
			string(q.Source), string(q.Direction), q.Label, q.Degree, q.SkipDegree, q.Capacity)...))
	defer span.End()

	key := queryKey(opShortestPath, q)
	if cached, ok := s.cacheLookup(ctx, key); ok {
		resp := &PathResponse{
			Found:       cached.TargetFound,
			Rounds:      cached.Rounds,
			SearchSpace: cached.SearchSpace,
			Cached:      true,
		}
		if cached.TargetFound {
			r := cached.Results[q.Target]
			resp.Result = &r
		}
		return resp, nil
	}

	start := time.Now()
	res, found, err := s.traverser.WeightedShortestPath(ctx, q)
	duration := time.Since(start)

	if err != nil {
		telemetry.SetError(ctx, err)
		s.record(opShortestPath, false, duration, res)
		return nil, err
	}

	resultCount := int64(0)
	entry := &cache.CachedTraversalResult{
		Rounds:      res.Rounds,
		SearchSpace: res.SearchSpace,
		TargetFound: found,
	}

	resp := &PathResponse{
		Found:       found,
		Rounds:      res.Rounds,
		SearchSpace: res.SearchSpace,
	}
	if found {
		r, _ := res.Paths.Result(q.Target)
		resp.Result = &r
		entry.Results = map[domain.Id]domain.PathResult{q.Target: r}
		resultCount = 1
	}

	s.record(opShortestPath, true, duration, res)
	span.SetAttributes(telemetry.OutcomeAttributes(res.Rounds, res.SearchSpace, resultCount)...)
	s.cacheStore(ctx, key, entry)

	logger.Log.Debug("shortest path query finished",
		"source", q.Source,
		"target", q.Target,
		"found", found,
		"rounds", res.Rounds,
		"duration", duration,
	)

	return resp, nil
}

func (s *TraversalService) record(operation string, success bool, duration time.Duration, res *traversal.Result) {
	if s.metrics == nil {
		return
	}

	var rounds, edges, results, skipped int64
	if res != nil {
		rounds = res.Rounds
		edges = res.EdgesFetched
		results = int64(res.Paths.Len())
		skipped = res.SupernodesSkipped
	}

	s.metrics.RecordTraversal(operation, success, duration, rounds, edges, results)
	if skipped > 0 {
		s.metrics.SupernodesSkipped.Add(float64(skipped))
	}
}

func (s *TraversalService) cacheLookup(ctx context.Context, key *cache.QueryKey) (*cache.CachedTraversalResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		// A broken cache never fails a query.
		logger.Log.Warn("traversal cache lookup failed", "error", err)
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(found)
	}
	return cached, found
}

func (s *TraversalService) cacheStore(ctx context.Context, key *cache.QueryKey, entry *cache.CachedTraversalResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, entry, 0); err != nil {
		logger.Log.Warn("traversal cache store failed", "error", err)
	}
}

func queryKey(operation string, q traversal.Query) *cache.QueryKey {
	return &cache.QueryKey{
		Operation:      operation,
		Source:         string(q.Source),
		Target:         string(q.Target),
		Direction:      string(q.Direction),
		Label:          q.Label,
		WeightProperty: q.WeightProperty,
		Degree:         q.Degree,
		SkipDegree:     q.SkipDegree,
		Capacity:       q.Capacity,
		Limit:          q.Limit,
	}
}

func vertexList(results map[domain.Id]domain.PathResult) []domain.Id {
	seen := make(map[domain.Id]struct{})
	var vertices []domain.Id
	for id, r := range results {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			vertices = append(vertices, id)
		}
		for _, v := range r.Path {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vertices = append(vertices, v)
			}
		}
	}
	return vertices
}
