package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/strand/internal/rewrite"
)

// Scenario defines one conformance scenario: a rewriting system, the
// operation to run, and expectations over the resulting report.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Operation selects the pipeline: "analyze" or "lift".
	Operation string `yaml:"operation"`

	// RunToken is an optional fixed run token for deterministic golden
	// comparison. Defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Rules is the rewriting system under test.
	Rules []RuleSpec `yaml:"rules"`

	// Bounds override the pipeline defaults. Unset fields keep their
	// defaults.
	Bounds *BoundsSpec `yaml:"bounds,omitempty"`

	// Expect validates the report. If nil, only successful execution is
	// checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// RuleSpec is one rewriting rule in YAML form.
type RuleSpec struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// BoundsSpec overrides pipeline bounds. Pointer fields distinguish
// "unset" from an explicit zero.
type BoundsSpec struct {
	MaxLength       *int `yaml:"max_length,omitempty"`
	MinPatternLen   *int `yaml:"min_pattern_len,omitempty"`
	MaxPatternLen   *int `yaml:"max_pattern_len,omitempty"`
	MaxCandidates   *int `yaml:"max_candidates,omitempty"`
	ConfluenceDepth *int `yaml:"confluence_depth,omitempty"`
	BisimLength     *int `yaml:"bisim_length,omitempty"`
	BisimDepth      *int `yaml:"bisim_depth,omitempty"`
}

// ExpectClause holds report expectations. Unset fields are not checked.
type ExpectClause struct {
	// Vertices is the expected configuration-graph vertex count.
	Vertices *int `yaml:"vertices,omitempty"`

	// Edges is the expected edge count.
	Edges *int `yaml:"edges,omitempty"`

	// Attractors is the expected number of nontrivial attractors
	// (at least two members).
	Attractors *int `yaml:"attractors,omitempty"`

	// Admitted is the expected number of macros admitted (lift only).
	Admitted *int `yaml:"admitted,omitempty"`

	// Version is the expected dictionary version after the run
	// (lift only).
	Version *int `yaml:"version,omitempty"`
}

// DefaultRunToken is used when a scenario does not fix its own token.
const DefaultRunToken = "test-run-default"

// Operation names.
const (
	OpAnalyze = "analyze"
	OpLift    = "lift"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Operation != OpAnalyze && s.Operation != OpLift {
		return fmt.Errorf("operation must be %q or %q, got %q", OpAnalyze, OpLift, s.Operation)
	}
	if len(s.Rules) == 0 {
		return fmt.Errorf("rules list is required and must be non-empty")
	}
	for i, r := range s.Rules {
		if r.Left == "" {
			return fmt.Errorf("rules[%d]: left side is empty", i)
		}
		for _, side := range []string{r.Left, r.Right} {
			for _, c := range side {
				sym := rewrite.Symbol(c)
				if !sym.IsBase() && (c < 'A' || c > 'Z') {
					return fmt.Errorf("rules[%d]: symbol %q outside alphabet", i, c)
				}
			}
		}
	}
	return nil
}
