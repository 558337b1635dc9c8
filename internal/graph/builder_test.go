package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strand/internal/rewrite"
)

var baseAlphabet = []rewrite.Symbol{rewrite.Zero, rewrite.Sep}

func TestBuilder_GenerateStrings(t *testing.T) {
	b := NewBuilder(rewrite.NewEngine(nil), baseAlphabet)

	got := b.GenerateStrings(2)

	// 2^0 + 2^1 + 2^2 = 7 strings, shortest first, lexicographic in
	// alphabet order within a length.
	want := []string{"", "0", "|", "00", "0|", "|0", "||"}
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, rewrite.NewString(w), got[i])
	}
}

func TestBuilder_BuildGraph_TwoCycle(t *testing.T) {
	engine := rewrite.NewEngine([]rewrite.Rule{
		rewrite.NewRule("00", "0|"),
		rewrite.NewRule("0|", "00"),
	})
	b := NewBuilder(engine, baseAlphabet)

	g := b.BuildGraph(2)
	require.Equal(t, 7, g.NumVertices())

	id00, ok := g.Lookup(rewrite.NewString("00"))
	require.True(t, ok)
	id0s, ok := g.Lookup(rewrite.NewString("0|"))
	require.True(t, ok)

	assert.Equal(t, []VertexID{id0s}, g.Successors(id00))
	assert.Equal(t, []VertexID{id00}, g.Successors(id0s))
}

func TestBuilder_BuildGraph_DropsOverlongSuccessors(t *testing.T) {
	// 0 → 00 grows strings; at L=1 the successor "00" exceeds the bound
	// and the edge must be dropped from the graph (not from the relation).
	engine := rewrite.NewEngine([]rewrite.Rule{rewrite.NewRule("0", "00")})
	b := NewBuilder(engine, baseAlphabet)

	g := b.BuildGraph(1)
	require.Equal(t, 3, g.NumVertices()) // "", "0", "|"
	assert.Equal(t, 0, g.NumEdges())

	// The underlying relation still produces the successor.
	apps := engine.AllApplications(rewrite.NewString("0"))
	require.Len(t, apps, 1)
	assert.Equal(t, rewrite.NewString("00"), apps[0].Result)
}

func TestBuilder_BuildIncremental(t *testing.T) {
	engine := rewrite.NewEngine([]rewrite.Rule{
		rewrite.NewRule("00", "0|"),
		rewrite.NewRule("0|", "00"),
	})
	b := NewBuilder(engine, baseAlphabet)

	g := b.BuildIncremental([]rewrite.String{rewrite.NewString("00")}, 3)

	// Only the cycle is reachable from the seed.
	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 2, g.NumEdges())
}

func TestBuilder_BuildIncremental_KeepsFrontierEdges(t *testing.T) {
	// 0 → 00 → 000 → ...: at depth 1 the vertex "00" sits on the cutoff
	// frontier and is not expanded, but the edge discovered while
	// expanding "0" must still be in the graph.
	engine := rewrite.NewEngine([]rewrite.Rule{rewrite.NewRule("0", "00")})
	b := NewBuilder(engine, baseAlphabet)

	g := b.BuildIncremental([]rewrite.String{rewrite.NewString("0")}, 1)

	id0, ok := g.Lookup(rewrite.NewString("0"))
	require.True(t, ok)
	id00, ok := g.Lookup(rewrite.NewString("00"))
	require.True(t, ok)

	assert.Equal(t, []VertexID{id00}, g.Successors(id0))
	// "00" itself sits on the frontier and is not expanded.
	assert.Empty(t, g.Successors(id00))
}
