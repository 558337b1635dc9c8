package graph

import (
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/roach88/strand/internal/rewrite"
)

// Builder materializes configuration graphs from a rewriting engine.
//
// Alphabet order is significant: string generation enumerates symbols in
// the given order, which fixes vertex ids and therefore every downstream
// iteration order (SCC emission, basin tie-breaks).
type Builder struct {
	engine   *rewrite.Engine
	alphabet []rewrite.Symbol
	log      logrus.FieldLogger
}

// NewBuilder creates a builder over the engine and alphabet.
func NewBuilder(engine *rewrite.Engine, alphabet []rewrite.Symbol) *Builder {
	return &Builder{engine: engine, alphabet: alphabet, log: logrus.StandardLogger()}
}

// SetLogger replaces the progress logger.
func (b *Builder) SetLogger(log logrus.FieldLogger) {
	b.log = log
}

// GenerateStrings enumerates, by construction, every string of length
// 0..maxLength over the alphabet, shortest first and lexicographic in
// alphabet order within a length. The count is |A|^0 + ... + |A|^L, so
// callers must bound maxLength tightly.
func (b *Builder) GenerateStrings(maxLength int) []rewrite.String {
	result := []rewrite.String{rewrite.NewString("")}
	frontier := []rewrite.String{rewrite.NewString("")}

	for length := 1; length <= maxLength; length++ {
		next := make([]rewrite.String, 0, len(frontier)*len(b.alphabet))
		for _, s := range frontier {
			for _, sym := range b.alphabet {
				next = append(next, s.Concat(rewrite.NewStringFromSymbols([]rewrite.Symbol{sym})))
			}
		}
		result = append(result, next...)
		frontier = next
	}
	return result
}

// BuildGraph builds the full configuration graph G_L: every generated
// string is a vertex, and each one-step successor of length <= maxLength
// contributes an edge. Successors exceeding the bound are dropped from
// the graph, not from the underlying relation; the truncation keeps G_L
// finite.
//
// Per-vertex successor computation runs in parallel; edges are merged
// into the adjacency through a single writer, so the result is
// deterministic.
func (b *Builder) BuildGraph(maxLength int) *Graph {
	vertices := b.GenerateStrings(maxLength)
	b.log.WithFields(logrus.Fields{
		"max_length": maxLength,
		"vertices":   len(vertices),
	}).Info("generating configuration graph")

	g := New()
	for _, v := range vertices {
		g.AddVertex(v)
	}

	succs := b.parallelSuccessors(vertices, maxLength)
	for i, v := range vertices {
		for _, next := range succs[i] {
			g.AddEdge(v, next)
		}
	}

	b.log.WithField("edges", g.NumEdges()).Info("configuration graph built")
	return g
}

// parallelSuccessors computes, per vertex, the in-bound successors. The
// work is independent per vertex; results land in a preallocated slice so
// no locking is needed.
func (b *Builder) parallelSuccessors(vertices []rewrite.String, maxLength int) [][]rewrite.String {
	succs := make([][]rewrite.String, len(vertices))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(vertices) {
		workers = len(vertices)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	work := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				for _, app := range b.engine.AllApplications(vertices[i]) {
					if app.Result.Len() <= maxLength {
						succs[i] = append(succs[i], app.Result)
					}
				}
			}
		}()
	}

	for i := range vertices {
		work <- i
	}
	close(work)
	wg.Wait()

	return succs
}

// seedItem is a BFS work item for incremental construction.
type seedItem struct {
	s     rewrite.String
	level int
}

// BuildIncremental explores breadth-first from the seed set instead of
// pre-enumerating all strings; useful when the full G_L would be too
// large. Every vertex and every encountered edge is added, including
// edges from expanded vertices to successors beyond the depth frontier.
func (b *Builder) BuildIncremental(seeds []rewrite.String, depth int) *Graph {
	g := New()
	visited := rewrite.NewStringSet()

	queue := make([]seedItem, 0, len(seeds))
	for _, s := range seeds {
		if visited.Contains(s) {
			continue
		}
		visited.Add(s)
		g.AddVertex(s)
		queue = append(queue, seedItem{s: s, level: 0})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.level >= depth {
			continue
		}

		for _, app := range b.engine.AllApplications(item.s) {
			g.AddEdge(item.s, app.Result)

			if !visited.Contains(app.Result) {
				visited.Add(app.Result)
				queue = append(queue, seedItem{s: app.Result, level: item.level + 1})
			}
		}
	}

	b.log.WithFields(logrus.Fields{
		"seeds":    len(seeds),
		"depth":    depth,
		"vertices": g.NumVertices(),
		"edges":    g.NumEdges(),
	}).Debug("incremental graph built")
	return g
}
