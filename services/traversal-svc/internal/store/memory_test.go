package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathfinder/pkg/apperror"
	"pathfinder/pkg/domain"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	s.AddEdge("A", "B", "knows", map[string]float64{"w": 1})
	s.AddEdge("A", "C", "owns", map[string]float64{"w": 2})
	s.AddEdge("B", "A", "knows", nil)
	return s
}

func TestMemoryStore_EdgesOfVertex(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		dir     domain.Direction
		label   string
		limit   int64
		wantLen int
	}{
		{name: "out unbounded", dir: domain.DirectionOut, limit: domain.NoLimit, wantLen: 2},
		{name: "out limited", dir: domain.DirectionOut, limit: 1, wantLen: 1},
		{name: "out limit zero", dir: domain.DirectionOut, limit: 0, wantLen: 0},
		{name: "out label filtered", dir: domain.DirectionOut, label: "knows", limit: domain.NoLimit, wantLen: 1},
		{name: "in", dir: domain.DirectionIn, limit: domain.NoLimit, wantLen: 1},
		{name: "both", dir: domain.DirectionBoth, limit: domain.NoLimit, wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, err := s.EdgesOfVertex(ctx, "A", tt.dir, tt.label, tt.limit)
			require.NoError(t, err)
			assert.Len(t, edges, tt.wantLen)
		})
	}
}

func TestMemoryStore_EdgesOfVertex_InsertionOrder(t *testing.T) {
	s := seededStore(t)

	edges, err := s.EdgesOfVertex(context.Background(), "A", domain.DirectionOut, "", domain.NoLimit)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, domain.Id("B"), edges[0].Target)
	assert.Equal(t, domain.Id("C"), edges[1].Target)
}

func TestMemoryStore_EdgesOfVertex_UnknownDirection(t *testing.T) {
	s := seededStore(t)

	_, err := s.EdgesOfVertex(context.Background(), "A", "DIAGONAL", "", domain.NoLimit)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidDirection))
}

func TestMemoryStore_ResolveLabel(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	resolved, err := s.ResolveLabel(ctx, "knows")
	require.NoError(t, err)
	assert.Equal(t, "knows", resolved)

	resolved, err = s.ResolveLabel(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "", resolved)

	_, err = s.ResolveLabel(ctx, "likes")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeLabelNotFound))
}

func TestEdge_OtherVertex(t *testing.T) {
	e := Edge{Source: "A", Target: "B"}
	assert.Equal(t, domain.Id("B"), e.OtherVertex("A"))
	assert.Equal(t, domain.Id("A"), e.OtherVertex("B"))
}
