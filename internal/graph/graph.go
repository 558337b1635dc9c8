package graph

import "github.com/roach88/strand/internal/rewrite"

// VertexID is a stable arena index for a vertex.
type VertexID int

// Graph is a directed configuration graph over rewrite.Strings.
//
// Vertices are interned: AddVertex returns the existing id for a string
// already present. The graph is not safe for concurrent mutation; build
// it single-threaded (or merge per-vertex results through one writer),
// then treat it as immutable.
type Graph struct {
	verts []rewrite.String
	index map[rewrite.String]VertexID
	adj   [][]VertexID
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[rewrite.String]VertexID)}
}

// AddVertex interns s and returns its id.
func (g *Graph) AddVertex(s rewrite.String) VertexID {
	if id, ok := g.index[s]; ok {
		return id
	}
	id := VertexID(len(g.verts))
	g.verts = append(g.verts, s)
	g.adj = append(g.adj, nil)
	g.index[s] = id
	return id
}

// AddEdge adds the edge u → v, interning both endpoints. Duplicate edges
// collapse: v is appended to u's successor list only on first insertion.
func (g *Graph) AddEdge(u, v rewrite.String) {
	uid := g.AddVertex(u)
	vid := g.AddVertex(v)
	for _, w := range g.adj[uid] {
		if w == vid {
			return
		}
	}
	g.adj[uid] = append(g.adj[uid], vid)
	g.edges++
}

// Vertex returns the string interned at id.
func (g *Graph) Vertex(id VertexID) rewrite.String {
	return g.verts[id]
}

// Lookup returns the id of s, if present.
func (g *Graph) Lookup(s rewrite.String) (VertexID, bool) {
	id, ok := g.index[s]
	return id, ok
}

// Successors returns u's distinct successors in first-insertion order.
// Callers must not mutate the returned slice.
func (g *Graph) Successors(u VertexID) []VertexID {
	return g.adj[u]
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int {
	return len(g.verts)
}

// NumEdges returns the (collapsed) edge count.
func (g *Graph) NumEdges() int {
	return g.edges
}

// Reverse builds the reverse adjacency relation: result[v] lists every u
// with an edge u → v. Built on demand for basin computation.
func (g *Graph) Reverse() [][]VertexID {
	rev := make([][]VertexID, len(g.verts))
	for u, succs := range g.adj {
		for _, v := range succs {
			rev[v] = append(rev[v], VertexID(u))
		}
	}
	return rev
}

// VertexSet is a set of vertex ids.
type VertexSet map[VertexID]struct{}

// Contains reports membership.
func (vs VertexSet) Contains(id VertexID) bool {
	_, ok := vs[id]
	return ok
}

// Add inserts id.
func (vs VertexSet) Add(id VertexID) {
	vs[id] = struct{}{}
}
