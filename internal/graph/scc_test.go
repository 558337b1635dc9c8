package graph

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strand/internal/rewrite"
)

// twoCycleWithTransient builds t → a ↔ b: a two-cycle fed by a transient
// vertex.
func twoCycleWithTransient() *Graph {
	g := New()
	a := rewrite.NewString("00")
	b := rewrite.NewString("0|")
	tr := rewrite.NewString("000")

	g.AddEdge(tr, a)
	g.AddEdge(a, b)
	g.AddEdge(b, a)
	return g
}

func TestFindSCCs_PartitionsVertices(t *testing.T) {
	engine := rewrite.NewEngine([]rewrite.Rule{
		rewrite.NewRule("00", "0|"),
		rewrite.NewRule("0|", "00"),
	})
	g := NewBuilder(engine, baseAlphabet).BuildGraph(3)

	components := FindSCCs(g)

	// SCCs are pairwise disjoint and cover the full vertex set.
	seen := make(map[VertexID]int)
	total := 0
	for ci, c := range components {
		require.NotEmpty(t, c.Members)
		assert.Equal(t, ci, c.Index)
		for _, v := range c.Members {
			_, dup := seen[v]
			require.False(t, dup, "vertex %d in two components", v)
			seen[v] = ci
			total++
		}
	}
	assert.Equal(t, g.NumVertices(), total)
}

func TestFindSCCs_AttractorClassification(t *testing.T) {
	g := twoCycleWithTransient()
	components := FindSCCs(g)
	require.Len(t, components, 2)

	var cycle, transient *SCC
	for i := range components {
		if components[i].Len() == 2 {
			cycle = &components[i]
		} else {
			transient = &components[i]
		}
	}
	require.NotNil(t, cycle)
	require.NotNil(t, transient)

	assert.True(t, cycle.IsAttractor, "closed 2-cycle is an attractor")
	assert.False(t, transient.IsAttractor, "transient vertex has an edge out of its singleton component")
}

func TestFindSCCs_TerminalSingletonIsAttractor(t *testing.T) {
	// A vertex with no outgoing edges has no edge leaving its component.
	g := New()
	g.AddEdge(rewrite.NewString("00"), rewrite.NewString("0"))

	components := FindSCCs(g)
	require.Len(t, components, 2)

	for _, c := range components {
		id := c.Members[0]
		if g.Vertex(id) == rewrite.NewString("0") {
			assert.True(t, c.IsAttractor)
		} else {
			assert.False(t, c.IsAttractor)
		}
	}
}

func TestFindSCCs_LargePathGraph(t *testing.T) {
	// A long chain exercises the explicit work stack; a recursive Tarjan
	// would be at risk on inputs orders of magnitude deeper.
	g := New()
	const n = 20000
	prev := rewrite.NewString("v0")
	for i := 1; i < n; i++ {
		cur := rewrite.NewString("v" + strconv.Itoa(i))
		g.AddEdge(prev, cur)
		prev = cur
	}

	components := FindSCCs(g)
	assert.Len(t, components, n)
}
