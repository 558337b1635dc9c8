// Package graph builds and analyzes configuration graphs of a rewriting
// system.
//
// The configuration graph G_L has every string of length at most L as a
// vertex and an edge x → y whenever one rewrite step turns x into y
// without exceeding the length bound. G_L is built once per analysis run
// and read-only afterward.
//
// REPRESENTATION:
//
// Vertices live in an arena with stable integer ids; adjacency is stored
// as id lists. This keeps large String keys out of the hot maps and makes
// the reverse relation (needed for basin computation) cheap to build.
// Multi-edges are collapsed: a successor appears at most once per vertex,
// in first-insertion order.
//
// ANALYSIS:
//
// FindSCCs runs Tarjan's algorithm with an explicit work stack, so graph
// depth never risks goroutine stack exhaustion. The SCC list is an exact
// partition of the vertex set, singleton non-cyclic vertices included. A
// component is an attractor iff no member has an edge out of it; basins
// are computed by backward reachability over the reverse relation.
package graph
