package domain

// NodeWithWeight is one weighted path entry: the cumulative edge-weight sum
// from the source along the specific chain recorded in the arena.
type NodeWithWeight struct {
	Weight float64
	Ref    int32 // chain node index in the owning arena
}

// PathResult is the wire-level view of a single shortest path.
type PathResult struct {
	Weight float64 `json:"weight"`
	Path   []Id    `json:"path"`
}

// ShortestPaths is the finalized result set of a single-source traversal.
// Once a vertex is inserted its entry is never modified or removed; the
// source vertex itself is never a key.
type ShortestPaths struct {
	arena *PathArena
	nodes map[Id]NodeWithWeight
}

// NewShortestPaths creates an empty result set backed by arena.
func NewShortestPaths(arena *PathArena) *ShortestPaths {
	return &ShortestPaths{
		arena: arena,
		nodes: make(map[Id]NodeWithWeight),
	}
}

// Put finalizes the entry for vertex id.
func (sp *ShortestPaths) Put(id Id, nw NodeWithWeight) {
	sp.nodes[id] = nw
}

// Get returns the finalized entry for id, if any.
func (sp *ShortestPaths) Get(id Id) (NodeWithWeight, bool) {
	nw, ok := sp.nodes[id]
	return nw, ok
}

// Contains reports whether id has been finalized.
func (sp *ShortestPaths) Contains(id Id) bool {
	_, ok := sp.nodes[id]
	return ok
}

// Len returns the number of finalized vertices.
func (sp *ShortestPaths) Len() int {
	return len(sp.nodes)
}

// Path materializes the forward path from the source to id. Returns nil
// when id has not been finalized.
func (sp *ShortestPaths) Path(id Id) []Id {
	nw, ok := sp.nodes[id]
	if !ok {
		return nil
	}
	return sp.arena.Materialize(nw.Ref)
}

// Result returns the wire-level view for a single finalized vertex.
func (sp *ShortestPaths) Result(id Id) (PathResult, bool) {
	nw, ok := sp.nodes[id]
	if !ok {
		return PathResult{}, false
	}
	return PathResult{Weight: nw.Weight, Path: sp.arena.Materialize(nw.Ref)}, true
}

// Vertices returns the union of all result keys and every vertex appearing
// on any result path. Callers use it as the full touched-vertex set.
func (sp *ShortestPaths) Vertices() map[Id]struct{} {
	vertices := make(map[Id]struct{}, len(sp.nodes))
	for id, nw := range sp.nodes {
		vertices[id] = struct{}{}
		for cur := nw.Ref; cur != NoParent; cur = sp.arena.Parent(cur) {
			vertices[sp.arena.Vertex(cur)] = struct{}{}
		}
	}
	return vertices
}

// ToMap renders every finalized vertex as {weight, path}.
func (sp *ShortestPaths) ToMap() map[Id]PathResult {
	results := make(map[Id]PathResult, len(sp.nodes))
	for id, nw := range sp.nodes {
		results[id] = PathResult{
			Weight: nw.Weight,
			Path:   sp.arena.Materialize(nw.Ref),
		}
	}
	return results
}
