package traversal

import (
	"context"
	"sort"

	"pathfinder/pkg/domain"
	"pathfinder/services/traversal-svc/internal/store"
)

// engine is the round-based frontier expansion state machine. One engine
// instance serves exactly one query; nothing in it is shared or reused.
//
// Each round expands every vertex in the current frontier, merges the
// discovered candidates into the tentative map under a keep-the-smaller-
// weight rule, then promotes the whole group of tentative entries tied at
// the round minimum into the finalized set. The promoted group becomes the
// next frontier. Promotion order within a tie group is by vertex id, so a
// result-limit cutoff inside a group is deterministic.
type engine struct {
	source  domain.Id
	sampler *sampler

	weightProperty string
	limit          int64

	arena     *domain.PathArena
	frontier  []domain.NodeWithWeight
	tentative map[domain.Id]domain.NodeWithWeight
	finalized *domain.ShortestPaths

	done bool

	// searchSpace counts frontier vertices expanded plus edges examined,
	// checked against the capacity bound by the caller after each round.
	searchSpace       int64
	rounds            int64
	edgesFetched      int64
	supernodesSkipped int64
}

func newEngine(s store.GraphStore, source domain.Id, dir domain.Direction, label, weightProperty string, degree, skipDegree, limit int64) *engine {
	arena := domain.NewPathArena()
	e := &engine{
		source:         source,
		sampler:        newSampler(s, dir, label, degree, skipDegree),
		weightProperty: weightProperty,
		limit:          limit,
		arena:          arena,
		tentative:      make(map[domain.Id]domain.NodeWithWeight),
		finalized:      domain.NewShortestPaths(arena),
	}

	// Seed the frontier with the source at distance zero. The source node
	// itself never enters the finalized set.
	root := arena.Add(source, domain.NoParent)
	e.frontier = []domain.NodeWithWeight{{Weight: 0, Ref: root}}

	// A zero limit admits no results, so no round ever needs to run.
	if limit == 0 {
		e.done = true
	}

	return e
}

// advance runs one expansion round.
func (e *engine) advance(ctx context.Context) error {
	if e.done {
		return nil
	}
	e.rounds++

	for _, n := range e.frontier {
		vertex := e.arena.Vertex(n.Ref)

		edges, fetched, skipped, err := e.sampler.edgesOf(ctx, vertex)
		if err != nil {
			return err
		}
		e.edgesFetched += fetched
		if skipped {
			e.supernodesSkipped++
		}
		e.searchSpace += 1 + int64(len(edges))

		for _, edge := range edges {
			neighbor := edge.OtherVertex(vertex)

			// Paths never loop back to the source, and a finalized vertex
			// cannot be improved under non-negative weights.
			if neighbor == e.source || e.finalized.Contains(neighbor) {
				continue
			}

			candidate := n.Weight + e.edgeWeight(edge)

			existing, ok := e.tentative[neighbor]
			if !ok || candidate < existing.Weight {
				e.tentative[neighbor] = domain.NodeWithWeight{
					Weight: candidate,
					Ref:    e.arena.Add(neighbor, n.Ref),
				}
			}
		}
	}

	e.promoteMinimum()
	return nil
}

// promoteMinimum moves every tentative entry tied at the round minimum into
// the finalized set and makes the promoted group the next frontier.
func (e *engine) promoteMinimum() {
	if len(e.tentative) == 0 {
		e.frontier = nil
		e.done = true
		return
	}

	type entry struct {
		id   domain.Id
		node domain.NodeWithWeight
	}
	entries := make([]entry, 0, len(e.tentative))
	for id, node := range e.tentative {
		entries = append(entries, entry{id: id, node: node})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].node.Weight != entries[j].node.Weight {
			return entries[i].node.Weight < entries[j].node.Weight
		}
		return entries[i].id < entries[j].id
	})

	minWeight := entries[0].node.Weight

	var next []domain.NodeWithWeight
	for _, en := range entries {
		if en.node.Weight > minWeight {
			break
		}
		if e.limit != domain.NoLimit && int64(e.finalized.Len()) >= e.limit {
			e.done = true
			break
		}
		delete(e.tentative, en.id)
		e.finalized.Put(en.id, en.node)
		next = append(next, en.node)
	}

	e.frontier = next
	if len(e.frontier) == 0 {
		e.done = true
	}
}

// edgeWeight returns the edge's contribution: the configured weight
// property's value, or 1 when unconfigured or absent (unweighted hop).
func (e *engine) edgeWeight(edge store.Edge) float64 {
	if e.weightProperty == "" {
		return 1
	}
	if v, ok := edge.Property(e.weightProperty); ok {
		return v
	}
	return 1
}
