package overlap

import "github.com/roach88/strand/internal/rewrite"

// node is one trie state. output lists every pattern that ends at this
// state, own matches plus the ones inherited down the failure chain.
type node struct {
	children map[rewrite.Symbol]*node
	fail     *node
	output   []rewrite.String
	depth    int
}

func newNode(depth int) *node {
	return &node{children: make(map[rewrite.Symbol]*node), depth: depth}
}

// Match is one pattern hit: End is the index of the last matched symbol
// in the text.
type Match struct {
	End     int
	Pattern rewrite.String
}

// Automaton is an Aho-Corasick multi-pattern matcher. Add every pattern,
// call Build once, then Search any number of texts. The automaton is
// read-only after Build and safe for concurrent searches.
type Automaton struct {
	root     *node
	patterns []rewrite.String
	built    bool
}

// NewAutomaton creates an empty automaton.
func NewAutomaton() *Automaton {
	return &Automaton{root: newNode(0)}
}

// AddPattern inserts a pattern into the trie. Empty patterns are ignored.
// Must not be called after Build.
func (a *Automaton) AddPattern(pattern rewrite.String) {
	if pattern.IsEmpty() {
		return
	}
	a.patterns = append(a.patterns, pattern)

	current := a.root
	for _, sym := range pattern.Symbols() {
		child, ok := current.children[sym]
		if !ok {
			child = newNode(current.depth + 1)
			current.children[sym] = child
		}
		current = child
	}
	current.output = append(current.output, pattern)
}

// Patterns returns the inserted patterns in insertion order.
func (a *Automaton) Patterns() []rewrite.String {
	return a.patterns
}

// Build computes failure links breadth-first (the longest proper suffix of
// each prefix that is itself a prefix of some pattern) and propagates
// output inheritance down the failure chain, so a match at a state also
// reports every pattern ending via its suffixes.
func (a *Automaton) Build() {
	var queue []*node
	for _, child := range a.root.children {
		child.fail = a.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for sym, child := range current.children {
			queue = append(queue, child)

			fail := current.fail
			for fail != nil {
				if next, ok := fail.children[sym]; ok {
					child.fail = next
					break
				}
				fail = fail.fail
			}
			if child.fail == nil {
				child.fail = a.root
			}

			child.output = append(child.output, child.fail.output...)
		}
	}
	a.built = true
}

// Search scans the text once and returns every pattern hit, overlapping
// and nested matches included, in text order (and, at one end position,
// in output-inheritance order). Build must have been called.
func (a *Automaton) Search(text rewrite.String) []Match {
	var matches []Match
	current := a.root

	for i, sym := range text.Symbols() {
		for current != a.root {
			if _, ok := current.children[sym]; ok {
				break
			}
			current = current.fail
		}
		if next, ok := current.children[sym]; ok {
			current = next
		}

		for _, pattern := range current.output {
			matches = append(matches, Match{End: i, Pattern: pattern})
		}
	}
	return matches
}

// FindAllPositions returns, per pattern, every start position of its
// occurrences in the text. Patterns without occurrences map to an empty
// list.
func (a *Automaton) FindAllPositions(text rewrite.String) map[rewrite.String][]int {
	positions := make(map[rewrite.String][]int, len(a.patterns))
	for _, p := range a.patterns {
		positions[p] = []int{}
	}

	for _, m := range a.Search(text) {
		start := m.End - m.Pattern.Len() + 1
		positions[m.Pattern] = append(positions[m.Pattern], start)
	}
	return positions
}
