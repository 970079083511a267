// Package traversal implements single-source weighted shortest-path search
// over a backend graph store: the frontier expansion engine, the
// supernode-aware edge sampler and the public query facade.
package traversal

import (
	"context"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/domain"
	"pathfinder/services/traversal-svc/internal/store"
)

// Query holds the parameters of a shortest-path query. Degree, Capacity and
// Limit accept domain.NoLimit (-1) to disable the bound; SkipDegree uses 0.
type Query struct {
	Source         domain.Id
	Target         domain.Id // single-target queries only
	Direction      domain.Direction
	Label          string
	WeightProperty string
	Degree         int64
	SkipDegree     int64
	Capacity       int64
	Limit          int64
}

// Result is a finished traversal: the finalized path set plus the counters
// accumulated while producing it.
type Result struct {
	Paths             *domain.ShortestPaths
	Rounds            int64
	SearchSpace       int64
	EdgesFetched      int64
	SupernodesSkipped int64
}

// Traverser is the query facade over a graph store.
type Traverser struct {
	store store.GraphStore
}

// NewTraverser creates a traverser over the given store.
func NewTraverser(s store.GraphStore) *Traverser {
	return &Traverser{store: s}
}

// SingleSourceShortestPaths computes the shortest path from the source to
// every reachable vertex, up to the configured result limit.
func (t *Traverser) SingleSourceShortestPaths(ctx context.Context, q Query) (*Result, error) {
	if err := validate(q); err != nil {
		return nil, err
	}

	label, err := t.store.ResolveLabel(ctx, q.Label)
	if err != nil {
		return nil, err
	}

	eng := newEngine(t.store, q.Source, q.Direction, label, q.WeightProperty, q.Degree, q.SkipDegree, q.Limit)

	for !eng.done {
		if err := eng.advance(ctx); err != nil {
			return nil, err
		}
		// A finished traversal is a result regardless of how much of the
		// budget its last round consumed; capacity only gates further rounds.
		if eng.done {
			break
		}
		if err := checkCapacity(eng, q.Capacity); err != nil {
			return nil, err
		}
	}

	return resultOf(eng), nil
}

// WeightedShortestPath computes the shortest path from source to target,
// returning as soon as the target's distance is settled. The second return
// value is false when the target is unreachable under the configured
// bounds; that is a normal outcome, not an error.
func (t *Traverser) WeightedShortestPath(ctx context.Context, q Query) (*Result, bool, error) {
	if q.Target == "" {
		return nil, false, apperror.NewWithField(apperror.CodeInvalidArgument, "target is required", "target")
	}
	q.Limit = domain.NoLimit // no result-count limit for single-target queries
	if err := validate(q); err != nil {
		return nil, false, err
	}

	label, err := t.store.ResolveLabel(ctx, q.Label)
	if err != nil {
		return nil, false, err
	}

	eng := newEngine(t.store, q.Source, q.Direction, label, q.WeightProperty, q.Degree, q.SkipDegree, domain.NoLimit)

	for !eng.done {
		if err := eng.advance(ctx); err != nil {
			return nil, false, err
		}
		// A finalized target is already settled; later rounds cannot
		// change it, and capacity only gates further rounds.
		if eng.finalized.Contains(q.Target) {
			return resultOf(eng), true, nil
		}
		if eng.done {
			break
		}
		if err := checkCapacity(eng, q.Capacity); err != nil {
			return nil, false, err
		}
	}

	return resultOf(eng), false, nil
}

func resultOf(eng *engine) *Result {
	return &Result{
		Paths:             eng.finalized,
		Rounds:            eng.rounds,
		SearchSpace:       eng.searchSpace,
		EdgesFetched:      eng.edgesFetched,
		SupernodesSkipped: eng.supernodesSkipped,
	}
}

// checkCapacity fails the whole query once the explored search space
// exceeds the capacity bound. No partial result survives the failure.
func checkCapacity(eng *engine, capacity int64) error {
	if capacity == domain.NoLimit {
		return nil
	}
	if eng.searchSpace > capacity {
		return apperror.Newf(apperror.CodeCapacityExceeded,
			"search space %d exceeds capacity %d", eng.searchSpace, capacity)
	}
	return nil
}

// validate applies the per-field and cross-field parameter rules before any
// traversal work starts.
func validate(q Query) error {
	if q.Source == "" {
		return apperror.ErrNilSource
	}
	if !q.Direction.Valid() {
		return apperror.ErrInvalidDirection
	}
	if q.Degree < domain.NoLimit {
		return apperror.NewWithField(apperror.CodeInvalidDegree,
			"degree must be >= 0 or -1 for unbounded", "degree")
	}
	if q.SkipDegree < 0 {
		return apperror.NewWithField(apperror.CodeInvalidSkipDegree,
			"skip_degree must be >= 0", "skip_degree")
	}
	if q.Capacity < domain.NoLimit {
		return apperror.NewWithField(apperror.CodeInvalidCapacity,
			"capacity must be >= 0 or -1 for unbounded", "capacity")
	}
	if q.Limit < domain.NoLimit {
		return apperror.NewWithField(apperror.CodeInvalidLimit,
			"limit must be >= 0 or -1 for unbounded", "limit")
	}

	if q.Capacity != domain.NoLimit {
		if q.Degree == domain.NoLimit {
			return apperror.NewWithField(apperror.CodeInvalidDegree,
				"degree must be bounded when capacity is bounded", "degree")
		}
		if q.Degree >= q.Capacity {
			return apperror.NewWithField(apperror.CodeInvalidDegree,
				"degree must be smaller than capacity", "degree")
		}
		if q.SkipDegree >= q.Capacity {
			return apperror.NewWithField(apperror.CodeInvalidSkipDegree,
				"skip_degree must be smaller than capacity", "skip_degree")
		}
	}

	if q.SkipDegree > 0 {
		if q.Degree == domain.NoLimit {
			return apperror.NewWithField(apperror.CodeInvalidDegree,
				"degree must be bounded when skip_degree is set", "degree")
		}
		if q.SkipDegree < q.Degree {
			return apperror.NewWithField(apperror.CodeInvalidSkipDegree,
				"skip_degree must be at least the degree cap", "skip_degree")
		}
	}

	return nil
}
