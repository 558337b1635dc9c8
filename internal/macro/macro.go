package macro

import (
	"fmt"

	"github.com/roach88/strand/internal/rewrite"
)

// Macro binds a fresh alphabet symbol to a defining string. The
// introduction rule unfolds the symbol into its definition; the
// elimination rule folds the definition back into the symbol. A macro is
// created unverified and becomes permanent only through Dictionary.Admit
// after passing both checks.
type Macro struct {
	Symbol     rewrite.Symbol
	Definition rewrite.String
	IntroRule  rewrite.Rule
	ElimRule   rewrite.Rule
	Verified   bool
	Metadata   map[string]string
}

// New creates an unverified macro for the given symbol and definition.
func New(symbol rewrite.Symbol, definition rewrite.String) *Macro {
	symStr := rewrite.NewStringFromSymbols([]rewrite.Symbol{symbol})
	return &Macro{
		Symbol:     symbol,
		Definition: definition,
		IntroRule:  rewrite.Rule{Left: symStr, Right: definition},
		ElimRule:   rewrite.Rule{Left: definition, Right: symStr},
		Metadata:   map[string]string{},
	}
}

// Rules returns the macro's rule pair, introduction first. Appending
// these to a rule set extends the rewriting system with the macro.
func (m *Macro) Rules() []rewrite.Rule {
	return []rewrite.Rule{m.IntroRule, m.ElimRule}
}

// Description returns the human-readable form used in history records,
// e.g. "A := 00|0".
func (m *Macro) Description() string {
	return fmt.Sprintf("%s := %s", m.Symbol, m.Definition)
}

// ContentHash returns the macro's content-addressed identity over its
// symbol, definition and verified flag.
func (m *Macro) ContentHash() (string, error) {
	canonical, err := rewrite.MarshalCanonical(map[string]any{
		"symbol":     m.Symbol.String(),
		"definition": m.Definition.Content(),
		"verified":   m.Verified,
	})
	if err != nil {
		return "", fmt.Errorf("macro hash: %w", err)
	}
	return rewrite.HashWithDomain(rewrite.DomainMacro, canonical), nil
}
