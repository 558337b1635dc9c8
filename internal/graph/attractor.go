package graph

import "sync"

// NoAttractor marks a vertex reachable from no attractor in the result of
// ClassifyVertices.
const NoAttractor = -1

// AttractorAnalyzer computes basins of attraction over a built graph.
// The graph and component list are read-only; the analyzer caches the
// reverse relation and per-attractor basins.
type AttractorAnalyzer struct {
	g          *Graph
	attractors []SCC

	revOnce sync.Once
	rev     [][]VertexID

	basinOnce sync.Once
	basins    []VertexSet
}

// NewAttractorAnalyzer creates an analyzer from the full SCC list. Only
// attractor components are retained, in emission order.
func NewAttractorAnalyzer(g *Graph, components []SCC) *AttractorAnalyzer {
	var attractors []SCC
	for _, c := range components {
		if c.IsAttractor {
			attractors = append(attractors, c)
		}
	}
	return &AttractorAnalyzer{g: g, attractors: attractors}
}

// Attractors returns the attractor components in emission order.
func (a *AttractorAnalyzer) Attractors() []SCC {
	return a.attractors
}

func (a *AttractorAnalyzer) reverse() [][]VertexID {
	a.revOnce.Do(func() {
		a.rev = a.g.Reverse()
	})
	return a.rev
}

// FindBasin returns the basin of attraction of the given attractor: its
// vertex set closed under backward reachability. The result is always a
// superset of the attractor's own members.
func (a *AttractorAnalyzer) FindBasin(attractor SCC) VertexSet {
	rev := a.reverse()

	basin := make(VertexSet, len(attractor.Members))
	queue := make([]VertexID, 0, len(attractor.Members))
	for _, v := range attractor.Members {
		basin.Add(v)
		queue = append(queue, v)
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, pred := range rev[v] {
			if basin.Contains(pred) {
				continue
			}
			basin.Add(pred)
			queue = append(queue, pred)
		}
	}
	return basin
}

// allBasins computes every attractor's basin once, one worker per
// attractor: basin computations are independent of each other.
func (a *AttractorAnalyzer) allBasins() []VertexSet {
	a.basinOnce.Do(func() {
		a.reverse() // materialize before fan-out so workers only read
		a.basins = make([]VertexSet, len(a.attractors))

		var wg sync.WaitGroup
		for i := range a.attractors {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				a.basins[i] = a.FindBasin(a.attractors[i])
			}(i)
		}
		wg.Wait()
	})
	return a.basins
}

// ClassifyVertices assigns each vertex the position (in Attractors()
// order) of the attractor whose basin contains it, or NoAttractor.
//
// Basins may overlap; the tie-break is deterministic: the lowest-indexed
// attractor claims the vertex. Attractor indices follow Tarjan emission
// order, which is fixed by vertex ids, so classification is reproducible
// across runs.
func (a *AttractorAnalyzer) ClassifyVertices() []int {
	basins := a.allBasins()

	classification := make([]int, a.g.NumVertices())
	for v := range classification {
		classification[v] = NoAttractor
		for i, basin := range basins {
			if basin.Contains(VertexID(v)) {
				classification[v] = i
				break
			}
		}
	}
	return classification
}
