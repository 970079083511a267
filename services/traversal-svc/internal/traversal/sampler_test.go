package traversal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder/pkg/domain"
	"pathfinder/services/traversal-svc/internal/store"
)

func fanOut(t *testing.T, n int) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	for i := 0; i < n; i++ {
		s.AddEdge("hub", domain.Id(fmt.Sprintf("n%02d", i)), "", nil)
	}
	return s
}

func TestSampler_SkipDisabled(t *testing.T) {
	s := fanOut(t, 10)
	sm := newSampler(s, domain.DirectionOut, "", 4, 0)

	edges, fetched, skipped, err := sm.edgesOf(context.Background(), "hub")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Len(t, edges, 4, "degree caps the fetch when skip is disabled")
	assert.Equal(t, int64(4), fetched)
}

func TestSampler_SkipDisabledUnboundedDegree(t *testing.T) {
	s := fanOut(t, 10)
	sm := newSampler(s, domain.DirectionOut, "", domain.NoLimit, 0)

	edges, _, skipped, err := sm.edgesOf(context.Background(), "hub")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Len(t, edges, 10)
}

func TestSampler_SupernodeDetected(t *testing.T) {
	s := fanOut(t, 8)
	sm := newSampler(s, domain.DirectionOut, "", 3, 8)

	edges, fetched, skipped, err := sm.edgesOf(context.Background(), "hub")
	require.NoError(t, err)
	assert.True(t, skipped, "fetch reached skipDegree, vertex is a supernode")
	assert.Empty(t, edges, "a skipped vertex contributes no edges")
	assert.Equal(t, int64(8), fetched, "skipDegree is the fetch cap, not degree")
}

func TestSampler_BelowSkipThreshold(t *testing.T) {
	s := fanOut(t, 5)
	sm := newSampler(s, domain.DirectionOut, "", 3, 8)

	edges, fetched, skipped, err := sm.edgesOf(context.Background(), "hub")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Len(t, edges, 3, "only the first degree edges survive")
	assert.Equal(t, int64(5), fetched)
}

func TestSampler_NoEdges(t *testing.T) {
	s := store.NewMemoryStore()
	sm := newSampler(s, domain.DirectionOut, "", 3, 0)

	edges, fetched, skipped, err := sm.edgesOf(context.Background(), "lonely")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Empty(t, edges)
	assert.Equal(t, int64(0), fetched)
}

// Round minima must be non-decreasing, and finalized weights never change.
func TestEngine_RoundMinimumMonotonic(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddEdge("A", "B", "", map[string]float64{"w": 3})
	s.AddEdge("A", "C", "", map[string]float64{"w": 1})
	s.AddEdge("C", "D", "", map[string]float64{"w": 1})
	s.AddEdge("B", "E", "", map[string]float64{"w": 1})
	s.AddEdge("D", "E", "", map[string]float64{"w": 5})

	eng := newEngine(s, "A", domain.DirectionOut, "", "w", domain.NoLimit, 0, domain.NoLimit)

	ctx := context.Background()
	finalizedAt := make(map[domain.Id]float64)
	prevMin := 0.0

	for !eng.done {
		require.NoError(t, eng.advance(ctx))

		roundMin := -1.0
		for id := range eng.finalized.ToMap() {
			nw, _ := eng.finalized.Get(id)
			if prev, seen := finalizedAt[id]; seen {
				assert.Equal(t, prev, nw.Weight, "finalized weight of %s changed", id)
				continue
			}
			finalizedAt[id] = nw.Weight
			if roundMin < 0 || nw.Weight < roundMin {
				roundMin = nw.Weight
			}
		}

		if roundMin >= 0 {
			assert.GreaterOrEqual(t, roundMin, prevMin, "round minimum decreased")
			prevMin = roundMin
		}
	}

	assert.Equal(t, map[domain.Id]float64{"B": 3, "C": 1, "D": 2, "E": 4}, finalizedAt)
}

func TestEngine_SearchSpaceCounts(t *testing.T) {
	s := store.NewMemoryStore()
	s.AddEdge("A", "B", "", nil)
	s.AddEdge("A", "C", "", nil)

	eng := newEngine(s, "A", domain.DirectionOut, "", "", domain.NoLimit, 0, domain.NoLimit)
	ctx := context.Background()

	// Round 1: one vertex expanded, two edges examined.
	require.NoError(t, eng.advance(ctx))
	assert.Equal(t, int64(3), eng.searchSpace)

	// Round 2: B and C expanded, no edges.
	require.NoError(t, eng.advance(ctx))
	assert.Equal(t, int64(5), eng.searchSpace)
	assert.True(t, eng.done)
}
