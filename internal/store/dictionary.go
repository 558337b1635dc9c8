package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/strand/internal/macro"
	"github.com/roach88/strand/internal/rewrite"
)

// ErrIntegrity reports that the stored content hash does not match the
// hash recomputed from the loaded rows. The database was torn or edited
// outside the store.
var ErrIntegrity = errors.New("store: dictionary content hash mismatch")

// SaveDictionary writes the full dictionary state in one transaction.
// All-or-nothing: a failure at any point rolls back and leaves the
// previously stored state untouched.
func (s *Store) SaveDictionary(ctx context.Context, dict *macro.Dictionary) error {
	hash, err := dict.ContentHash()
	if err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	version := dict.Version()
	macros := dict.Macros()
	history := dict.History()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dictionary (id, version, content_hash)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			content_hash = excluded.content_hash
	`, version, hash)
	if err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}

	// Replace the dependent tables wholesale; the dictionary is
	// append-only in memory, so this only ever grows what is stored.
	if _, err := tx.ExecContext(ctx, "DELETE FROM macros"); err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	for i, m := range macros {
		metadata, err := marshalMetadata(m.Metadata)
		if err != nil {
			return fmt.Errorf("save dictionary: macro %s: %w", m.Symbol, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO macros (position, symbol, definition, verified, metadata)
			VALUES (?, ?, ?, ?, ?)
		`, i, m.Symbol.String(), m.Definition.Content(), m.Verified, metadata)
		if err != nil {
			return fmt.Errorf("save dictionary: macro %s: %w", m.Symbol, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	for _, h := range history {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO history (version, action, description, symbol)
			VALUES (?, ?, ?, ?)
		`, h.Version, h.Action, h.Description, h.Symbol.String())
		if err != nil {
			return fmt.Errorf("save dictionary: history %d: %w", h.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}
	return nil
}

// LoadDictionary rebuilds the dictionary from the database. A database
// with no saved dictionary yields a fresh empty one. The stored content
// hash is verified against a recomputation over the loaded rows;
// mismatch returns ErrIntegrity.
func (s *Store) LoadDictionary(ctx context.Context) (*macro.Dictionary, error) {
	var version int
	var storedHash string
	err := s.db.QueryRowContext(ctx,
		"SELECT version, content_hash FROM dictionary WHERE id = 1",
	).Scan(&version, &storedHash)
	if errors.Is(err, sql.ErrNoRows) {
		return macro.NewDictionary(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	macros, err := s.loadMacros(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx)
	if err != nil {
		return nil, err
	}

	dict := macro.Restore(version, macros, history)

	hash, err := dict.ContentHash()
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	if hash != storedHash {
		return nil, fmt.Errorf("%w: stored %s, computed %s", ErrIntegrity, storedHash, hash)
	}
	return dict, nil
}

func (s *Store) loadMacros(ctx context.Context) ([]*macro.Macro, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, definition, verified, metadata
		FROM macros
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load macros: %w", err)
	}
	defer rows.Close()

	var macros []*macro.Macro
	for rows.Next() {
		var symbol, definition, metadata string
		var verified bool
		if err := rows.Scan(&symbol, &definition, &verified, &metadata); err != nil {
			return nil, fmt.Errorf("load macros: %w", err)
		}

		sym, err := parseSymbol(symbol)
		if err != nil {
			return nil, fmt.Errorf("load macros: %w", err)
		}
		m := macro.New(sym, rewrite.NewString(definition))
		m.Verified = verified
		if err := json.Unmarshal([]byte(metadata), &m.Metadata); err != nil {
			return nil, fmt.Errorf("load macros: metadata for %s: %w", symbol, err)
		}
		macros = append(macros, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load macros: %w", err)
	}
	return macros, nil
}

func (s *Store) loadHistory(ctx context.Context) ([]macro.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version, action, description, symbol
		FROM history
		ORDER BY version ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var history []macro.HistoryEntry
	for rows.Next() {
		var entry macro.HistoryEntry
		var symbol string
		if err := rows.Scan(&entry.Version, &entry.Action, &entry.Description, &symbol); err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		sym, err := parseSymbol(symbol)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		entry.Symbol = sym
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

// marshalMetadata renders macro metadata as canonical JSON so stored
// bytes are deterministic.
func marshalMetadata(metadata map[string]string) (string, error) {
	m := make(map[string]any, len(metadata))
	for k, v := range metadata {
		m[k] = v
	}
	data, err := rewrite.MarshalCanonical(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseSymbol decodes a stored one-rune symbol column.
func parseSymbol(s string) (rewrite.Symbol, error) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("invalid symbol %q", s)
	}
	return rewrite.Symbol(runes[0]), nil
}
