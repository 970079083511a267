package traversal

import (
	"context"

	"pathfinder/pkg/domain"
	"pathfinder/services/traversal-svc/internal/store"
)

// sampler fetches a vertex's incident edges under the degree cap and the
// supernode skip threshold.
//
// With skipDegree disabled (0) it fetches up to degree edges and returns
// them as-is: an unbiased but possibly incomplete sample. With skipDegree
// enabled it fetches up to skipDegree edges, keeps the first degree of
// them, and drops the vertex entirely when the fetch reaches skipDegree.
// Keeping only the first edges of a vertex that large would bias the
// result toward the backend's storage order, so the vertex contributes
// nothing at all instead.
type sampler struct {
	store      store.GraphStore
	direction  domain.Direction
	label      string
	degree     int64
	skipDegree int64
}

func newSampler(s store.GraphStore, dir domain.Direction, label string, degree, skipDegree int64) *sampler {
	return &sampler{
		store:      s,
		direction:  dir,
		label:      label,
		degree:     degree,
		skipDegree: skipDegree,
	}
}

// fetchCap is the limit handed to the backend: skipDegree when supernode
// skipping is on, the plain degree cap otherwise.
func (s *sampler) fetchCap() int64 {
	if s.skipDegree > 0 {
		return s.skipDegree
	}
	return s.degree
}

// edgesOf returns the sampled edge set for vertex, plus the number of edges
// actually fetched from the backend and whether the vertex was skipped as a
// supernode.
func (s *sampler) edgesOf(ctx context.Context, vertex domain.Id) (edges []store.Edge, fetched int64, skipped bool, err error) {
	all, err := s.store.EdgesOfVertex(ctx, vertex, s.direction, s.label, s.fetchCap())
	if err != nil {
		return nil, 0, false, err
	}

	fetched = int64(len(all))

	if s.skipDegree > 0 {
		if fetched >= s.skipDegree {
			return nil, fetched, true, nil
		}
		if s.degree != domain.NoLimit && fetched > s.degree {
			all = all[:s.degree]
		}
	}

	return all, fetched, false, nil
}
