package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func twoCycleScenario() *Scenario {
	return &Scenario{
		Name:        "two-cycle",
		Description: "oscillator analysis",
		Operation:   OpAnalyze,
		Rules: []RuleSpec{
			{Left: "00", Right: "0|"},
			{Left: "0|", Right: "00"},
		},
		Bounds: &BoundsSpec{MaxLength: intPtr(2)},
	}
}

func TestRun_AnalyzePasses(t *testing.T) {
	s := twoCycleScenario()
	s.Expect = &ExpectClause{
		Vertices:   intPtr(7),
		Edges:      intPtr(2),
		Attractors: intPtr(1),
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Passed, "failures: %v", result.Failures)
	assert.Equal(t, DefaultRunToken, result.Report.RunToken)
}

func TestRun_ExpectationFailureIsReported(t *testing.T) {
	s := twoCycleScenario()
	s.Expect = &ExpectClause{Vertices: intPtr(99)}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "vertices: expected 99, got 7")
}

func TestRun_LiftScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/separator_shift_lift.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Passed, "failures: %v", result.Failures)
	assert.Equal(t, 1, result.Report.MacrosAdmitted)
	assert.Equal(t, 2, result.Report.DictionaryVersion)
}

func TestRun_Deterministic(t *testing.T) {
	s := twoCycleScenario()

	first, err := Run(s)
	require.NoError(t, err)
	firstJSON, err := first.Report.CanonicalJSON()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := Run(s)
		require.NoError(t, err)
		againJSON, err := again.Report.CanonicalJSON()
		require.NoError(t, err)
		assert.Equal(t, firstJSON, againJSON)
	}
}
