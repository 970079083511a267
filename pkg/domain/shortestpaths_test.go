package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildResultSet(t *testing.T) *ShortestPaths {
	t.Helper()

	arena := NewPathArena()
	root := arena.Add("A", NoParent)
	b := arena.Add("B", root)
	c := arena.Add("C", root)

	sp := NewShortestPaths(arena)
	sp.Put("B", NodeWithWeight{Weight: 2, Ref: b})
	sp.Put("C", NodeWithWeight{Weight: 1, Ref: c})
	return sp
}

func TestShortestPaths_GetAndPath(t *testing.T) {
	sp := buildResultSet(t)

	nw, ok := sp.Get("B")
	require.True(t, ok)
	assert.Equal(t, 2.0, nw.Weight)
	assert.Equal(t, []Id{"A", "B"}, sp.Path("B"))

	_, ok = sp.Get("Z")
	assert.False(t, ok)
	assert.Nil(t, sp.Path("Z"))
}

func TestShortestPaths_Vertices(t *testing.T) {
	sp := buildResultSet(t)

	vertices := sp.Vertices()
	// Keys B and C plus the shared source A from both paths.
	assert.Len(t, vertices, 3)
	assert.Contains(t, vertices, Id("A"))
	assert.Contains(t, vertices, Id("B"))
	assert.Contains(t, vertices, Id("C"))
}

func TestShortestPaths_ToMap(t *testing.T) {
	sp := buildResultSet(t)

	m := sp.ToMap()
	require.Len(t, m, 2)
	assert.Equal(t, PathResult{Weight: 1, Path: []Id{"A", "C"}}, m["C"])
	assert.Equal(t, PathResult{Weight: 2, Path: []Id{"A", "B"}}, m["B"])
}

func TestShortestPaths_Result(t *testing.T) {
	sp := buildResultSet(t)

	res, ok := sp.Result("C")
	require.True(t, ok)
	assert.Equal(t, 1.0, res.Weight)
	assert.Equal(t, []Id{"A", "C"}, res.Path)

	_, ok = sp.Result("missing")
	assert.False(t, ok)
}
