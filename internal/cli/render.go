package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/strand/internal/pipeline"
)

// outputReport writes a pipeline report: raw struct under JSON, rendered
// summary under text.
func outputReport(f *OutputFormatter, name string, report *pipeline.Report) error {
	if f.Format == "json" {
		return f.Success(report)
	}
	return f.Success(renderReport(name, report))
}

// renderReport formats a pipeline report as a human-readable summary.
func renderReport(name string, report *pipeline.Report) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "system: %s\n", name)
	}
	fmt.Fprintf(&b, "run: %s\n", report.RunToken)
	fmt.Fprintf(&b, "vertices: %d  edges: %d  sccs: %d  attractors: %d\n",
		report.Vertices, report.Edges, report.SCCCount, len(report.Attractors))

	for _, a := range report.Attractors {
		if a.Size < 2 {
			continue
		}
		fmt.Fprintf(&b, "  attractor %d: size=%d basin=%d members=[%s]\n",
			a.Index, a.Size, a.BasinSize, strings.Join(a.Members, " "))
	}

	if report.Candidates != nil {
		fmt.Fprintf(&b, "candidates: %d  admitted: %d\n", len(report.Candidates), report.MacrosAdmitted)
		for _, c := range report.Candidates {
			status := c.Reason
			if c.Admitted {
				status = fmt.Sprintf("admitted as %s (version %d)", c.Symbol, c.Version)
			}
			fmt.Fprintf(&b, "  %q freq=%d score=%.3f: %s\n", c.Pattern, c.Frequency, c.Score, status)
		}
	}
	if report.DictionaryVersion > 0 {
		fmt.Fprintf(&b, "dictionary: version=%d", report.DictionaryVersion)
	}
	return strings.TrimRight(b.String(), "\n")
}
