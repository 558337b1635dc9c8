package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strand/internal/rewrite"
)

func TestAttractorAnalyzer_FindBasin(t *testing.T) {
	g := twoCycleWithTransient()
	components := FindSCCs(g)
	a := NewAttractorAnalyzer(g, components)

	attractors := a.Attractors()
	require.Len(t, attractors, 1)

	basin := a.FindBasin(attractors[0])

	// The basin is a superset of the attractor's own vertex set.
	for _, v := range attractors[0].Members {
		assert.True(t, basin.Contains(v))
	}

	// The transient vertex reaches the cycle, so it belongs to the basin.
	trID, ok := g.Lookup(rewrite.NewString("000"))
	require.True(t, ok)
	assert.True(t, basin.Contains(trID))
	assert.Len(t, basin, 3)
}

func TestAttractorAnalyzer_ClassifyVertices(t *testing.T) {
	g := twoCycleWithTransient()
	components := FindSCCs(g)
	a := NewAttractorAnalyzer(g, components)

	classification := a.ClassifyVertices()
	require.Len(t, classification, g.NumVertices())

	cycleA, _ := g.Lookup(rewrite.NewString("00"))
	trID, _ := g.Lookup(rewrite.NewString("000"))
	assert.NotEqual(t, NoAttractor, classification[cycleA])
	assert.Equal(t, classification[cycleA], classification[trID],
		"transient vertex classifies with the cycle it feeds")
}

func TestAttractorAnalyzer_TieBreakIsDeterministic(t *testing.T) {
	// seed feeds two disjoint attractor cycles; the lowest-indexed
	// attractor claims it, and the assignment never varies across runs.
	build := func() (*Graph, *AttractorAnalyzer) {
		g := New()
		seed := rewrite.NewString("seed")
		a1 := rewrite.NewString("a1")
		a2 := rewrite.NewString("a2")
		b1 := rewrite.NewString("b1")
		b2 := rewrite.NewString("b2")

		g.AddEdge(seed, a1)
		g.AddEdge(seed, b1)
		g.AddEdge(a1, a2)
		g.AddEdge(a2, a1)
		g.AddEdge(b1, b2)
		g.AddEdge(b2, b1)

		return g, NewAttractorAnalyzer(g, FindSCCs(g))
	}

	g, a := build()
	require.Len(t, a.Attractors(), 2)

	first := a.ClassifyVertices()
	seedID, _ := g.Lookup(rewrite.NewString("seed"))
	assert.Equal(t, 0, first[seedID], "ambiguous vertex goes to the lowest-indexed attractor")

	for i := 0; i < 10; i++ {
		_, again := build()
		assert.Equal(t, first, again.ClassifyVertices())
	}
}

func TestAttractorAnalyzer_EveryVertexClassifiesInFullGraph(t *testing.T) {
	// In a finite graph every path ends in some terminal component, and a
	// terminal component is an attractor, so no vertex is unassigned.
	engine := rewrite.NewEngine([]rewrite.Rule{
		rewrite.NewRule("00", "0|"),
		rewrite.NewRule("0|", "00"),
	})
	g := NewBuilder(engine, baseAlphabet).BuildGraph(3)

	a := NewAttractorAnalyzer(g, FindSCCs(g))
	for v, attr := range a.ClassifyVertices() {
		assert.NotEqual(t, NoAttractor, attr, "vertex %d (%s) unassigned", v, g.Vertex(VertexID(v)))
	}
}
