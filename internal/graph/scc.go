package graph

// SCC is a strongly connected component: a non-empty vertex set plus the
// derived attractor property. Index is the component's emission order in
// Tarjan's algorithm; it is deterministic for a given graph and serves as
// the canonical component ordering (basin tie-breaks rely on it).
type SCC struct {
	Index       int
	Members     []VertexID
	IsAttractor bool
}

// Len returns the member count.
func (c SCC) Len() int {
	return len(c.Members)
}

// Contains reports whether id belongs to the component.
func (c SCC) Contains(id VertexID) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

// tarjanFrame is one explicit DFS frame: the vertex and the position of
// its child iterator. The explicit stack replaces recursion so large
// graphs cannot exhaust the goroutine stack.
type tarjanFrame struct {
	v    VertexID
	next int
}

// FindSCCs partitions the graph into strongly connected components with
// Tarjan's algorithm (O(V+E)), then classifies each as attractor or not
// with an O(E) post-pass. Every vertex belongs to exactly one component,
// singleton non-cyclic vertices included.
//
// Components are emitted in the order Tarjan closes them, starting DFS
// from vertex 0 upward; Index records that order.
func FindSCCs(g *Graph) []SCC {
	n := g.NumVertices()

	const unvisited = -1
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	counter := 0
	var stack []VertexID
	var components []SCC

	for root := 0; root < n; root++ {
		if index[root] != unvisited {
			continue
		}

		frames := []tarjanFrame{{v: VertexID(root)}}
		index[root] = counter
		lowlink[root] = counter
		counter++
		stack = append(stack, VertexID(root))
		onStack[root] = true

		for len(frames) > 0 {
			frame := &frames[len(frames)-1]
			succs := g.Successors(frame.v)

			if frame.next < len(succs) {
				w := succs[frame.next]
				frame.next++

				if index[w] == unvisited {
					index[w] = counter
					lowlink[w] = counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, tarjanFrame{v: w})
				} else if onStack[w] {
					if index[w] < lowlink[frame.v] {
						lowlink[frame.v] = index[w]
					}
				}
				continue
			}

			// Children exhausted: close the frame.
			v := frame.v
			frames = frames[:len(frames)-1]

			if len(frames) > 0 {
				parent := frames[len(frames)-1].v
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var members []VertexID
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					members = append(members, w)
					if w == v {
						break
					}
				}
				components = append(components, SCC{Index: len(components), Members: members})
			}
		}
	}

	identifyAttractors(g, components)
	return components
}

// identifyAttractors marks each component whose members have no edge
// leaving the component.
func identifyAttractors(g *Graph, components []SCC) {
	// Vertex → component index, so the edge scan is O(E).
	memberOf := make([]int, g.NumVertices())
	for ci, c := range components {
		for _, v := range c.Members {
			memberOf[v] = ci
		}
	}

	for ci := range components {
		attractor := true
	scan:
		for _, v := range components[ci].Members {
			for _, w := range g.Successors(v) {
				if memberOf[w] != ci {
					attractor = false
					break scan
				}
			}
		}
		components[ci].IsAttractor = attractor
	}
}
