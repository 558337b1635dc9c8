package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/strand/internal/overlap"
)

// localityResult is the JSON payload for the locality command.
type localityResult struct {
	MaxOverlap int  `json:"max_overlap"`
	Bound      int  `json:"bound"`
	Local      bool `json:"local"`
}

// NewLocalityCommand creates the locality command: report the maximum
// pairwise suffix/prefix overlap among a system's left-hand sides and
// check it against a bound.
func NewLocalityCommand(opts *RootOptions) *cobra.Command {
	var bound int

	cmd := &cobra.Command{
		Use:   "locality <system.cue>",
		Short: "Check a system's rule patterns for m-locality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, opts)

			def, err := loadSystemOrFail(formatter, args[0])
			if err != nil {
				return err
			}

			result := localityResult{
				MaxOverlap: overlap.MaxOverlap(def.Rules),
				Bound:      bound,
				Local:      overlap.CheckMLocality(def.Rules, bound),
			}

			if opts.Format == "json" {
				if err := formatter.Success(result); err != nil {
					return err
				}
			} else {
				verdict := "local"
				if !result.Local {
					verdict = "NOT local"
				}
				if err := formatter.Success(fmt.Sprintf("max overlap %d, bound %d: %s",
					result.MaxOverlap, result.Bound, verdict)); err != nil {
					return err
				}
			}

			if !result.Local {
				return NewExitError(ExitFailure, fmt.Sprintf("system is not %d-local", bound))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bound, "m", 2, "locality bound")
	return cmd
}
