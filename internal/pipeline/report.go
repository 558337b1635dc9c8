package pipeline

import (
	"strconv"

	"github.com/roach88/strand/internal/rewrite"
)

// AttractorInfo summarizes one attractor and its basin.
type AttractorInfo struct {
	Index     int      `json:"index"`
	Size      int      `json:"size"`
	Members   []string `json:"members"`
	BasinSize int      `json:"basin_size"`
}

// CandidateOutcome records what happened to one mined pattern.
type CandidateOutcome struct {
	Pattern        string  `json:"pattern"`
	AttractorIndex int     `json:"attractor_index"`
	Frequency      int     `json:"frequency"`
	Stability      float64 `json:"stability"`
	Score          float64 `json:"score"`
	Confluent      bool    `json:"confluent"`
	Bisimilar      bool    `json:"bisimilar"`
	Admitted       bool    `json:"admitted"`
	Symbol         string  `json:"symbol,omitempty"`
	Version        int     `json:"version,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}

// Rejection reasons carried in CandidateOutcome.Reason.
const (
	ReasonNotConfluent        = "not confluent"
	ReasonNotBisimilar        = "not bisimilar"
	ReasonDuplicateDefinition = "definition already admitted"
	ReasonSymbolsExhausted    = "symbol space exhausted"
)

// Report is the result of one pipeline run.
//
// Analyze runs fill the graph and attractor sections; Lift runs
// additionally fill the candidate and dictionary sections.
type Report struct {
	RunToken  string `json:"run_token"`
	MaxLength int    `json:"max_length"`

	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
	SCCCount int `json:"scc_count"`

	Attractors []AttractorInfo `json:"attractors"`

	Candidates []CandidateOutcome `json:"candidates,omitempty"`

	MacrosAdmitted    int    `json:"macros_admitted"`
	DictionaryVersion int    `json:"dictionary_version,omitempty"`
	DictionaryHash    string `json:"dictionary_hash,omitempty"`
}

// CanonicalJSON renders the report in canonical form: sorted keys, NFC
// strings, no floats (stability and score are fixed-precision decimal
// strings). The bytes are stable across runs with a fixed token, which
// is what the golden-file harness compares.
func (r *Report) CanonicalJSON() ([]byte, error) {
	attractors := make([]any, 0, len(r.Attractors))
	for _, a := range r.Attractors {
		attractors = append(attractors, map[string]any{
			"index":      a.Index,
			"size":       a.Size,
			"members":    stringsToAny(a.Members),
			"basin_size": a.BasinSize,
		})
	}

	candidates := make([]any, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, map[string]any{
			"pattern":         c.Pattern,
			"attractor_index": c.AttractorIndex,
			"frequency":       c.Frequency,
			"stability":       formatScore(c.Stability),
			"score":           formatScore(c.Score),
			"confluent":       c.Confluent,
			"bisimilar":       c.Bisimilar,
			"admitted":        c.Admitted,
			"symbol":          c.Symbol,
			"version":         c.Version,
			"reason":          c.Reason,
		})
	}

	return rewrite.MarshalCanonical(map[string]any{
		"run_token":          r.RunToken,
		"max_length":         r.MaxLength,
		"vertices":           r.Vertices,
		"edges":              r.Edges,
		"scc_count":          r.SCCCount,
		"attractors":         attractors,
		"candidates":         candidates,
		"macros_admitted":    r.MacrosAdmitted,
		"dictionary_version": r.DictionaryVersion,
		"dictionary_hash":    r.DictionaryHash,
	})
}

// ContentHash returns the domain-separated SHA-256 of the canonical
// report JSON.
func (r *Report) ContentHash() (string, error) {
	data, err := r.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return rewrite.HashWithDomain(rewrite.DomainReport, data), nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
