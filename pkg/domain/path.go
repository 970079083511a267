package domain

// NoParent marks an arena node without a predecessor, i.e. the source
// vertex of the traversal.
const NoParent int32 = -1

// PathArena stores backward-linked path chain nodes in a flat slice
// addressed by index. Multiple chains share common prefixes for free:
// linking a new node costs one append, never a copy. An arena belongs to a
// single traversal and is discarded with it.
type PathArena struct {
	vertices []Id
	parents  []int32
}

// NewPathArena creates an arena pre-sized for a small traversal.
func NewPathArena() *PathArena {
	return &PathArena{
		vertices: make([]Id, 0, 64),
		parents:  make([]int32, 0, 64),
	}
}

// Add appends a chain node for vertex v whose predecessor is the node at
// index parent (NoParent for the source) and returns its index.
func (a *PathArena) Add(v Id, parent int32) int32 {
	a.vertices = append(a.vertices, v)
	a.parents = append(a.parents, parent)
	return int32(len(a.vertices) - 1)
}

// Vertex returns the vertex recorded at index idx.
func (a *PathArena) Vertex(idx int32) Id {
	return a.vertices[idx]
}

// Parent returns the predecessor index of the node at idx.
func (a *PathArena) Parent(idx int32) int32 {
	return a.parents[idx]
}

// Len returns the number of chain nodes in the arena.
func (a *PathArena) Len() int {
	return len(a.vertices)
}

// Materialize reconstructs the forward path from the source to the vertex
// at idx. The chain is walked iteratively to the root and reversed, so the
// depth is bounded by the arena, not the call stack.
func (a *PathArena) Materialize(idx int32) []Id {
	var path []Id
	for cur := idx; cur != NoParent; cur = a.parents[cur] {
		path = append(path, a.vertices[cur])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
