package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_FindPositions(t *testing.T) {
	e := NewEngine(nil)

	// Non-overlapping occurrences.
	assert.Equal(t, []int{0, 3}, e.FindPositions(NewString("00|00"), NewString("00")))

	// Overlapping occurrences are all reported.
	assert.Equal(t, []int{0, 1, 2}, e.FindPositions(NewString("0000"), NewString("00")))

	// No occurrence and pattern longer than string.
	assert.Empty(t, e.FindPositions(NewString("||"), NewString("00")))
	assert.Empty(t, e.FindPositions(NewString("0"), NewString("00")))

	// Empty pattern matches nowhere.
	assert.Empty(t, e.FindPositions(NewString("00"), NewString("")))
}

func TestEngine_ApplyRule(t *testing.T) {
	e := NewEngine(nil)
	rule := NewRule("00", "0|")

	got := e.ApplyRule(NewString("000"), rule, 1)
	assert.Equal(t, NewString("00|"), got)

	// Result length is len(s) - len(left) + len(right).
	shrink := NewRule("00", "0")
	got = e.ApplyRule(NewString("00|00"), shrink, 3)
	assert.Equal(t, NewString("00|0"), got)
	assert.Equal(t, 4, got.Len())
}

func TestEngine_AllApplications_DeterministicOrder(t *testing.T) {
	// Rule order first, then ascending position within each rule. Several
	// checks sample "the first two" applications, so this order matters.
	r1 := NewRule("00", "0")
	r2 := NewRule("0|", "|0")
	e := NewEngine([]Rule{r1, r2})

	apps := e.AllApplications(NewString("000|"))
	require.Len(t, apps, 3)

	assert.True(t, apps[0].Rule.Equal(r1))
	assert.Equal(t, 0, apps[0].Position)
	assert.Equal(t, NewString("00|"), apps[0].Result)

	assert.True(t, apps[1].Rule.Equal(r1))
	assert.Equal(t, 1, apps[1].Position)

	assert.True(t, apps[2].Rule.Equal(r2))
	assert.Equal(t, 2, apps[2].Position)
	assert.Equal(t, NewString("00|0"), apps[2].Result)
}

func TestEngine_AllApplications_NormalForm(t *testing.T) {
	e := NewEngine([]Rule{NewRule("00", "0")})

	// No match: empty image, not an error.
	assert.Empty(t, e.AllApplications(NewString("0|0")))
}

func TestEngine_BoundedReach_TwoCycle(t *testing.T) {
	// 00 → 0| → 00: the visited set stops the cycle at level 2.
	e := NewEngine([]Rule{NewRule("00", "0|"), NewRule("0|", "00")})

	levels := e.BoundedReach(NewString("00"), 2, 10)

	require.Len(t, levels, 2)
	assert.Equal(t, NewStringSet(NewString("00")), levels[0])
	assert.Equal(t, NewStringSet(NewString("0|")), levels[1])
	_, hasLevel2 := levels[2]
	assert.False(t, hasLevel2, "level 2 rediscovers only visited strings and must be absent")
}

func TestEngine_BoundedReach_WidthTruncation(t *testing.T) {
	// "0000" has three applications of 00→0; width 1 expands only the first.
	e := NewEngine([]Rule{NewRule("00", "0")})

	levels := e.BoundedReach(NewString("0000"), 1, 1)
	require.Len(t, levels, 2)
	assert.Equal(t, NewStringSet(NewString("000")), levels[1])

	// Unlimited width reaches the same single successor here (all three
	// splices of 00→0 in 0000 produce 000), so compare against a case
	// that actually fans out.
	fanOut := NewEngine([]Rule{NewRule("0", "00"), NewRule("0", "0|")})
	levels = fanOut.BoundedReach(NewString("0"), 1, 0)
	assert.Equal(t, NewStringSet(NewString("00"), NewString("0|")), levels[1])
}

func TestEngine_Reachable(t *testing.T) {
	e := NewEngine([]Rule{NewRule("00", "0|"), NewRule("0|", "00")})

	path, ok := e.Reachable(NewString("00"), NewString("0|"), 5, 10)
	require.True(t, ok)
	assert.Equal(t, []String{NewString("00"), NewString("0|")}, path)

	// Start equals target.
	path, ok = e.Reachable(NewString("00"), NewString("00"), 5, 10)
	require.True(t, ok)
	assert.Equal(t, []String{NewString("00")}, path)

	// Unreachable target is a negative result, not an error.
	_, ok = e.Reachable(NewString("00"), NewString("|||"), 5, 10)
	assert.False(t, ok)
}

func TestEngine_Reachable_MultiStepPath(t *testing.T) {
	e := NewEngine([]Rule{NewRule("000", "00|"), NewRule("00|", "0||")})

	path, ok := e.Reachable(NewString("000"), NewString("0||"), 5, 10)
	require.True(t, ok)
	assert.Equal(t, []String{NewString("000"), NewString("00|"), NewString("0||")}, path)
}

func TestEngine_OmegaLimit_Cycle(t *testing.T) {
	e := NewEngine([]Rule{NewRule("00", "0|"), NewRule("0|", "00")})

	res := e.OmegaLimit(NewString("00"), 100)
	assert.True(t, res.Exact)
	assert.Equal(t, NewStringSet(NewString("00"), NewString("0|")), res.States)
}

func TestEngine_OmegaLimit_Terminal(t *testing.T) {
	e := NewEngine([]Rule{NewRule("00", "0")})

	// 000 → 00 → 0, then no rule applies.
	res := e.OmegaLimit(NewString("000"), 100)
	assert.True(t, res.Exact)
	assert.Equal(t, NewStringSet(NewString("0")), res.States)
}

func TestEngine_OmegaLimit_BudgetExhausted(t *testing.T) {
	// 0 → 00 → 000 → ... never revisits a string.
	e := NewEngine([]Rule{NewRule("0", "00")})

	res := e.OmegaLimit(NewString("0"), 10)
	assert.False(t, res.Exact, "no cycle within budget yields a heuristic window")
	assert.Len(t, res.States, 10)
}
