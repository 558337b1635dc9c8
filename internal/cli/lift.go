package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/strand/internal/macro"
	"github.com/roach88/strand/internal/pipeline"
	"github.com/roach88/strand/internal/store"
)

// NewLiftCommand creates the lift command: run the full macro pipeline
// against a system, optionally persisting the dictionary.
func NewLiftCommand(opts *RootOptions) *cobra.Command {
	var (
		maxLength int
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "lift <system.cue>",
		Short: "Mine, verify and admit macros from a system's attractors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, opts)

			def, err := loadSystemOrFail(formatter, args[0])
			if err != nil {
				return err
			}
			if maxLength > 0 {
				def.Options.MaxLength = maxLength
			}

			// With --db the dictionary survives across runs; without it
			// each lift starts empty.
			dict := macro.NewDictionary()
			var db *store.Store
			if dbPath != "" {
				db, err = store.Open(dbPath)
				if err != nil {
					formatter.Error(ErrCodeNotFound, err.Error(), nil)
					return WrapExitError(ExitCommandError, "opening database", err)
				}
				defer db.Close()

				dict, err = db.LoadDictionary(cmd.Context())
				if err != nil {
					formatter.Error(ErrCodeGeneric, err.Error(), nil)
					return WrapExitError(ExitCommandError, "loading dictionary", err)
				}
			}

			lifter := pipeline.NewLifter(def.Rules, dict)
			report, err := lifter.Lift(cmd.Context(), def.Options)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "lift failed", err)
			}

			if db != nil {
				if err := db.SaveDictionary(cmd.Context(), dict); err != nil {
					formatter.Error(ErrCodeGeneric, err.Error(), nil)
					return WrapExitError(ExitCommandError, "saving dictionary", err)
				}
			}

			return outputReport(formatter, def.Name, report)
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", 0, "override the graph length bound")
	cmd.Flags().StringVar(&dbPath, "db", "", "dictionary database path (persists admitted macros)")
	return cmd
}
