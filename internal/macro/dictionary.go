package macro

import (
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/strand/internal/rewrite"
)

// Admission errors. All are programmer-visible rejections of the Admit
// precondition, not verification failures.
var (
	// ErrNotVerified rejects a macro that has not passed both checks.
	ErrNotVerified = errors.New("macro: admit requires a verified macro")
	// ErrDuplicateSymbol rejects a symbol already bound in the dictionary.
	ErrDuplicateSymbol = errors.New("macro: symbol already bound")
	// ErrBaseSymbol rejects shadowing a base alphabet symbol.
	ErrBaseSymbol = errors.New("macro: symbol collides with the base alphabet")
	// ErrUnboundedDefinition rejects a definition containing the macro's
	// own symbol or any symbol not yet admitted. The restriction makes
	// Expand terminating by construction: definitions only reference
	// strictly earlier macros.
	ErrUnboundedDefinition = errors.New("macro: definition references itself or an unadmitted symbol")
)

// expandCap bounds Expand's substitution passes. Admission invariants
// make dictionary-internal expansion terminating, but strings from
// outside callers can carry arbitrary symbols, and the cap keeps even a
// hostile input from looping.
const expandCap = 100

// HistoryEntry is one append-only admission record.
type HistoryEntry struct {
	Version     int
	Action      string
	Description string
	Symbol      rewrite.Symbol
}

// ActionAdd tags macro admission in the history log.
const ActionAdd = "add"

// Dictionary is the versioned, append-only list of admitted macros.
//
// All mutation funnels through Admit, a single compare-and-append under
// one mutex: concurrent verifications may race to admit, but versions are
// assigned at exactly one point so no version is ever skipped or reused.
// Reads take the same mutex and return copies.
type Dictionary struct {
	mu      sync.Mutex
	macros  []*Macro
	version int
	history []HistoryEntry
}

// NewDictionary creates an empty dictionary at version 1.
func NewDictionary() *Dictionary {
	return &Dictionary{version: 1}
}

// Restore rebuilds a dictionary from persisted state. Used by the store;
// no admission checks re-run, the persisted state is trusted.
func Restore(version int, macros []*Macro, history []HistoryEntry) *Dictionary {
	return &Dictionary{version: version, macros: macros, history: history}
}

// Admit appends a verified macro, assigns the next version and records
// the admission in the history. Returns the new version.
//
// Preconditions enforced here rather than at call sites: the macro must
// be verified, its symbol fresh and outside the base alphabet, and its
// definition must only use base symbols and already-admitted macro
// symbols (in particular, not its own).
func (d *Dictionary) Admit(m *Macro) (int, error) {
	if !m.Verified {
		return 0, ErrNotVerified
	}
	if m.Symbol.IsBase() {
		return 0, fmt.Errorf("%w: %s", ErrBaseSymbol, m.Symbol)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lookupLocked(m.Symbol) != nil {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateSymbol, m.Symbol)
	}
	for _, sym := range m.Definition.Symbols() {
		if sym.IsBase() {
			continue
		}
		if sym == m.Symbol || d.lookupLocked(sym) == nil {
			return 0, fmt.Errorf("%w: %s in %s", ErrUnboundedDefinition, sym, m.Definition)
		}
	}

	d.macros = append(d.macros, m)
	d.version++
	d.history = append(d.history, HistoryEntry{
		Version:     d.version,
		Action:      ActionAdd,
		Description: m.Description(),
		Symbol:      m.Symbol,
	})
	return d.version, nil
}

func (d *Dictionary) lookupLocked(sym rewrite.Symbol) *Macro {
	for _, m := range d.macros {
		if m.Symbol == sym {
			return m
		}
	}
	return nil
}

// Lookup returns the macro bound to sym, if any.
func (d *Dictionary) Lookup(sym rewrite.Symbol) (*Macro, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.lookupLocked(sym)
	return m, m != nil
}

// Version returns the current dictionary version.
func (d *Dictionary) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Macros returns the admitted macros in admission order.
func (d *Dictionary) Macros() []*Macro {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Macro, len(d.macros))
	copy(out, d.macros)
	return out
}

// History returns the admission log in order.
func (d *Dictionary) History() []HistoryEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]HistoryEntry, len(d.history))
	copy(out, d.history)
	return out
}

// Len returns the number of admitted macros.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.macros)
}

// Expand iteratively replaces every occurrence of each macro's symbol
// with its definition until a full pass makes no substitution. A string
// of base symbols only is returned unchanged, and expanding an already
// fully expanded string is the identity.
//
// ok=false reports that the iteration cap fired with macro symbols still
// present; the partially expanded string is returned alongside so callers
// can decide whether a partial result is usable.
func (d *Dictionary) Expand(s rewrite.String) (rewrite.String, bool) {
	macros := d.Macros()

	current := s
	for iteration := 0; iteration < expandCap; iteration++ {
		changed := false
		for _, m := range macros {
			next := substituteSymbol(current, m.Symbol, m.Definition)
			if next != current {
				changed = true
				current = next
			}
		}
		if !changed {
			return current, true
		}
	}

	// Cap fired; report whether macro symbols survive.
	for _, sym := range current.Symbols() {
		for _, m := range macros {
			if m.Symbol == sym {
				return current, false
			}
		}
	}
	return current, true
}

// substituteSymbol replaces every occurrence of sym with definition.
func substituteSymbol(s rewrite.String, sym rewrite.Symbol, definition rewrite.String) rewrite.String {
	var out []rewrite.Symbol
	hit := false
	for _, cur := range s.Symbols() {
		if cur == sym {
			out = append(out, definition.Symbols()...)
			hit = true
		} else {
			out = append(out, cur)
		}
	}
	if !hit {
		return s
	}
	return rewrite.NewStringFromSymbols(out)
}

// ContentHash returns a content-addressed hash of the full dictionary
// state (version, macros, history). The store uses it as an integrity
// check on load.
func (d *Dictionary) ContentHash() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	macroList := make([]any, len(d.macros))
	for i, m := range d.macros {
		macroList[i] = map[string]any{
			"symbol":     m.Symbol.String(),
			"definition": m.Definition.Content(),
			"verified":   m.Verified,
		}
	}
	historyList := make([]any, len(d.history))
	for i, h := range d.history {
		historyList[i] = map[string]any{
			"version":     h.Version,
			"action":      h.Action,
			"description": h.Description,
			"symbol":      h.Symbol.String(),
		}
	}

	canonical, err := rewrite.MarshalCanonical(map[string]any{
		"version": d.version,
		"macros":  macroList,
		"history": historyList,
	})
	if err != nil {
		return "", fmt.Errorf("dictionary hash: %w", err)
	}
	return rewrite.HashWithDomain(rewrite.DomainDictionary, canonical), nil
}
