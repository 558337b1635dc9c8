package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strand/internal/rewrite"
)

func buildAutomaton(patterns ...string) *Automaton {
	a := NewAutomaton()
	for _, p := range patterns {
		a.AddPattern(rewrite.NewString(p))
	}
	a.Build()
	return a
}

func TestAutomaton_Search_AllOccurrences(t *testing.T) {
	a := buildAutomaton("00", "0|", "000", "|0")
	text := rewrite.NewString("00|000|0")

	positions := a.FindAllPositions(text)

	assert.Equal(t, []int{0, 3, 4}, positions[rewrite.NewString("00")],
		"\"00\" occurs inside \"000\" too: overlapping matches are reported")
	assert.Equal(t, []int{1, 5}, positions[rewrite.NewString("0|")])
	assert.Equal(t, []int{3}, positions[rewrite.NewString("000")])
	assert.Equal(t, []int{2, 6}, positions[rewrite.NewString("|0")])
}

func TestAutomaton_Search_NestedMatchViaFailureChain(t *testing.T) {
	// A hit on "000" must also report its suffix "00" through output
	// inheritance.
	a := buildAutomaton("000", "00")

	matches := a.Search(rewrite.NewString("000"))

	var patterns []string
	for _, m := range matches {
		patterns = append(patterns, m.Pattern.Content())
	}
	assert.Contains(t, patterns, "000")
	assert.Contains(t, patterns, "00")
	// "00" at both ends 1 and 2, "000" at end 2.
	assert.Len(t, matches, 3)
}

func TestAutomaton_Search_NoMatch(t *testing.T) {
	a := buildAutomaton("000")
	assert.Empty(t, a.Search(rewrite.NewString("0|0|")))
}

func TestAutomaton_FindAllPositions_AbsentPatternGetsEmptyList(t *testing.T) {
	a := buildAutomaton("00", "|||")

	positions := a.FindAllPositions(rewrite.NewString("00"))
	require.Contains(t, positions, rewrite.NewString("|||"))
	assert.Empty(t, positions[rewrite.NewString("|||")])
}

func TestAutomaton_AddPattern_IgnoresEmpty(t *testing.T) {
	a := NewAutomaton()
	a.AddPattern(rewrite.NewString(""))
	assert.Empty(t, a.Patterns())
}

func TestAutomaton_Search_MacroSymbols(t *testing.T) {
	// The automaton is alphabet-agnostic: macro symbols match like any
	// other.
	a := buildAutomaton("A0", "0A")

	positions := a.FindAllPositions(rewrite.NewString("0A0"))
	assert.Equal(t, []int{1}, positions[rewrite.NewString("A0")])
	assert.Equal(t, []int{0}, positions[rewrite.NewString("0A")])
}
