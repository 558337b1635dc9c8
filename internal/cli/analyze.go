package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/strand/internal/macro"
	"github.com/roach88/strand/internal/pipeline"
)

// NewAnalyzeCommand creates the analyze command: build the configuration
// graph for a system and report its SCC, attractor, and basin structure.
func NewAnalyzeCommand(opts *RootOptions) *cobra.Command {
	var maxLength int

	cmd := &cobra.Command{
		Use:   "analyze <system.cue>",
		Short: "Analyze a system's configuration graph and attractors",
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

			lifter := pipeline.NewLifter(def.Rules, macro.NewDictionary())
			report, err := lifter.Analyze(cmd.Context(), def.Options)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "analysis failed", err)
			}

			return outputReport(formatter, def.Name, report)
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", 0, "override the graph length bound")
	return cmd
}

// loadSystemOrFail loads a system definition, reporting the failure
// through the formatter.
func loadSystemOrFail(formatter *OutputFormatter, path string) (*SystemDefinition, error) {
	def, err := LoadSystem(path)
	if err != nil {
		code := ErrCodeGeneric
		if le, ok := err.(*LoadError); ok {
			code = le.Code
		}
		formatter.Error(code, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "loading system definition", err)
	}
	return def, nil
}
