package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/strand/internal/store"
)

// dictMacro is one macro row in the dict command's JSON payload.
type dictMacro struct {
	Symbol     string `json:"symbol"`
	Definition string `json:"definition"`
	Verified   bool   `json:"verified"`
}

// dictHistoryEntry is one history row in the dict command's JSON payload.
type dictHistoryEntry struct {
	Version     int    `json:"version"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// dictResult is the JSON payload for the dict command.
type dictResult struct {
	Version     int                `json:"version"`
	ContentHash string             `json:"content_hash"`
	Macros      []dictMacro        `json:"macros"`
	History     []dictHistoryEntry `json:"history"`
}

// NewDictCommand creates the dict command: show a stored dictionary's
// version, macros and admission history.
func NewDictCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Show a stored macro dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, opts)

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

			hash, err := dict.ContentHash()
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "hashing dictionary", err)
			}

			result := dictResult{
				Version:     dict.Version(),
				ContentHash: hash,
				Macros:      []dictMacro{},
				History:     []dictHistoryEntry{},
			}
			for _, m := range dict.Macros() {
				result.Macros = append(result.Macros, dictMacro{
					Symbol:     m.Symbol.String(),
					Definition: m.Definition.Content(),
					Verified:   m.Verified,
				})
			}
			for _, h := range dict.History() {
				result.History = append(result.History, dictHistoryEntry{
					Version:     h.Version,
					Action:      h.Action,
					Description: h.Description,
				})
			}

			if opts.Format == "json" {
				return formatter.Success(result)
			}
			return formatter.Success(renderDict(result))
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "dictionary database path")
	cmd.MarkFlagRequired("db")
	return cmd
}

// renderDict formats the dictionary as a human-readable summary.
func renderDict(result dictResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %d\n", result.Version)
	fmt.Fprintf(&b, "hash: %s\n", result.ContentHash)
	fmt.Fprintf(&b, "macros: %d\n", len(result.Macros))
	for _, m := range result.Macros {
		flag := ""
		if !m.Verified {
			flag = " (unverified)"
		}
		fmt.Fprintf(&b, "  %s := %s%s\n", m.Symbol, m.Definition, flag)
	}
	fmt.Fprintf(&b, "history: %d entries\n", len(result.History))
	for _, h := range result.History {
		fmt.Fprintf(&b, "  v%d %s %s\n", h.Version, h.Action, h.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
