package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/strand/internal/rewrite"
	"github.com/roach88/strand/internal/store"
)

// NewExpandCommand creates the expand command: rewrite a string's macro
// symbols down to the base alphabet using a stored dictionary.
func NewExpandCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "expand <string>",
		Short: "Expand a string's macro symbols against a stored dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, opts)

			input := args[0]
			for _, r := range input {
				sym := rewrite.Symbol(r)
				if !sym.IsBase() && (r < 'A' || r > 'Z') {
					msg := fmt.Sprintf("symbol %q outside alphabet in %q", r, input)
					formatter.Error(ErrCodeInvalidSymbol, msg, nil)
					return NewExitError(ExitCommandError, msg)
				}
			}

			db, err := store.Open(dbPath)
			if err != nil {
				formatter.Error(ErrCodeNotFound, err.Error(), nil)
				return WrapExitError(ExitCommandError, "opening database", err)
			}
			defer db.Close()

			dict, err := db.LoadDictionary(cmd.Context())
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "loading dictionary", err)
			}

			expanded, ok := dict.Expand(rewrite.NewString(input))
			if !ok {
				msg := fmt.Sprintf("expansion of %q did not terminate within the iteration cap", input)
				formatter.Error(ErrCodeGeneric, msg, expanded.Content())
				return NewExitError(ExitFailure, msg)
			}

			return formatter.Success(expanded.Content())
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "dictionary database path")
	cmd.MarkFlagRequired("db")
	return cmd
}
