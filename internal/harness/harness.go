package harness

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/roach88/strand/internal/macro"
	"github.com/roach88/strand/internal/pipeline"
	"github.com/roach88/strand/internal/rewrite"
)

// Result is the outcome of one scenario execution.
type Result struct {
	Scenario *Scenario
	Report   *pipeline.Report
	Passed   bool
	Failures []string
}

// Run executes a scenario and evaluates its expectations.
//
// Each scenario runs against a fresh dictionary with a fixed run token,
// so repeated runs produce identical reports. Expectation failures land
// in Result.Failures; an error return means the scenario could not be
// executed at all.
func Run(scenario *Scenario) (*Result, error) {
	rules := make([]rewrite.Rule, 0, len(scenario.Rules))
	for _, r := range scenario.Rules {
		rules = append(rules, rewrite.NewRule(r.Left, r.Right))
	}

	token := scenario.RunToken
	if token == "" {
		token = DefaultRunToken
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	lifter := pipeline.NewLifter(rules, macro.NewDictionary())
	lifter.SetLogger(log)
	lifter.SetTokenGenerator(pipeline.NewFixedGenerator(token))

	opts := applyBounds(pipeline.DefaultOptions(), scenario.Bounds)

	var (
		report *pipeline.Report
		err    error
	)
	switch scenario.Operation {
	case OpAnalyze:
		report, err = lifter.Analyze(context.Background(), opts)
	case OpLift:
		report, err = lifter.Lift(context.Background(), opts)
	default:
		return nil, fmt.Errorf("unknown operation %q", scenario.Operation)
	}
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", scenario.Operation, err)
	}

	result := &Result{Scenario: scenario, Report: report}
	result.Failures = evaluate(scenario.Expect, report)
	result.Passed = len(result.Failures) == 0
	return result, nil
}

// applyBounds overlays scenario bounds onto the defaults.
func applyBounds(opts pipeline.Options, bounds *BoundsSpec) pipeline.Options {
	if bounds == nil {
		return opts
	}
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&opts.MaxLength, bounds.MaxLength)
	set(&opts.MinPatternLen, bounds.MinPatternLen)
	set(&opts.MaxPatternLen, bounds.MaxPatternLen)
	set(&opts.MaxCandidates, bounds.MaxCandidates)
	set(&opts.ConfluenceDepth, bounds.ConfluenceDepth)
	set(&opts.BisimLength, bounds.BisimLength)
	set(&opts.BisimDepth, bounds.BisimDepth)
	return opts
}

// evaluate checks each set expectation against the report.
func evaluate(expect *ExpectClause, report *pipeline.Report) []string {
	if expect == nil {
		return nil
	}

	var failures []string
	check := func(name string, want *int, got int) {
		if want != nil && *want != got {
			failures = append(failures, fmt.Sprintf("%s: expected %d, got %d", name, *want, got))
		}
	}

	nontrivial := 0
	for _, a := range report.Attractors {
		if a.Size >= 2 {
			nontrivial++
		}
	}

	check("vertices", expect.Vertices, report.Vertices)
	check("edges", expect.Edges, report.Edges)
	check("attractors", expect.Attractors, nontrivial)
	check("admitted", expect.Admitted, report.MacrosAdmitted)
	check("version", expect.Version, report.DictionaryVersion)
	return failures
}
