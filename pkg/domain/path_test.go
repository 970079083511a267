package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathArena_MaterializeSingleNode(t *testing.T) {
	a := NewPathArena()
	root := a.Add("A", NoParent)

	assert.Equal(t, []Id{"A"}, a.Materialize(root))
}

func TestPathArena_MaterializeChain(t *testing.T) {
	a := NewPathArena()
	root := a.Add("A", NoParent)
	b := a.Add("B", root)
	c := a.Add("C", b)

	assert.Equal(t, []Id{"A", "B", "C"}, a.Materialize(c))
	// Materializing a prefix is unaffected by longer chains.
	assert.Equal(t, []Id{"A", "B"}, a.Materialize(b))
}

func TestPathArena_SharedPrefix(t *testing.T) {
	a := NewPathArena()
	root := a.Add("A", NoParent)
	b := a.Add("B", root)

	// Two chains branching from B share its prefix nodes.
	c := a.Add("C", b)
	d := a.Add("D", b)

	assert.Equal(t, []Id{"A", "B", "C"}, a.Materialize(c))
	assert.Equal(t, []Id{"A", "B", "D"}, a.Materialize(d))
	assert.Equal(t, 4, a.Len())
}

func TestPathArena_DeepChainIterative(t *testing.T) {
	// A chain far deeper than any reasonable call stack budget; the walk
	// must be iterative.
	a := NewPathArena()
	parent := a.Add("v0", NoParent)
	const depth = 200000
	for i := 1; i <= depth; i++ {
		parent = a.Add(Id("v"), parent)
	}

	path := a.Materialize(parent)
	require.Len(t, path, depth+1)
	assert.Equal(t, Id("v0"), path[0])
}

func TestPathArena_ParentAccessors(t *testing.T) {
	a := NewPathArena()
	root := a.Add("A", NoParent)
	b := a.Add("B", root)

	assert.Equal(t, NoParent, a.Parent(root))
	assert.Equal(t, root, a.Parent(b))
	assert.Equal(t, Id("B"), a.Vertex(b))
}
