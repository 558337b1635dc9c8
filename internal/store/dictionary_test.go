package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/roach88/strand/internal/macro"
	"github.com/roach88/strand/internal/rewrite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func admitTestMacro(t *testing.T, dict *macro.Dictionary, sym rune, definition string) {
	t.Helper()
	m := macro.New(rewrite.Symbol(sym), rewrite.NewString(definition))
	m.Verified = true
	if _, err := dict.Admit(m); err != nil {
		t.Fatalf("Admit(%c) failed: %v", sym, err)
	}
}

func TestLoadDictionary_EmptyDatabase(t *testing.T) {
	s := openTestStore(t)

	dict, err := s.LoadDictionary(context.Background())
	if err != nil {
		t.Fatalf("LoadDictionary() failed: %v", err)
	}
	if dict.Version() != 1 {
		t.Errorf("Version() = %d, expected 1", dict.Version())
	}
	if dict.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", dict.Len())
	}
}

func TestSaveLoadDictionary_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dict := macro.NewDictionary()
	admitTestMacro(t, dict, 'A', "00")
	admitTestMacro(t, dict, 'B', "A|A")

	if err := s.SaveDictionary(ctx, dict); err != nil {
		t.Fatalf("SaveDictionary() failed: %v", err)
	}

	loaded, err := s.LoadDictionary(ctx)
	if err != nil {
		t.Fatalf("LoadDictionary() failed: %v", err)
	}

	if loaded.Version() != dict.Version() {
		t.Errorf("Version() = %d, expected %d", loaded.Version(), dict.Version())
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", loaded.Len())
	}

	m, ok := loaded.Lookup('B')
	if !ok {
		t.Fatal("Lookup('B') not found")
	}
	if m.Definition != rewrite.NewString("A|A") {
		t.Errorf("definition = %q, expected %q", m.Definition, "A|A")
	}
	if !m.Verified {
		t.Error("loaded macro lost its verified flag")
	}

	history := loaded.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, expected 2", len(history))
	}
	if history[0].Version != 2 || history[0].Symbol != 'A' {
		t.Errorf("history[0] = %+v, expected version 2 symbol A", history[0])
	}

	// Expansion still works over the restored state.
	expanded, ok := loaded.Expand(rewrite.NewString("B"))
	if !ok {
		t.Fatal("Expand('B') hit the iteration cap")
	}
	if expanded != rewrite.NewString("00|00") {
		t.Errorf("Expand('B') = %q, expected %q", expanded, "00|00")
	}
}

func TestSaveDictionary_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dict := macro.NewDictionary()
	admitTestMacro(t, dict, 'A', "00")
	if err := s.SaveDictionary(ctx, dict); err != nil {
		t.Fatalf("first SaveDictionary() failed: %v", err)
	}

	admitTestMacro(t, dict, 'B', "0|")
	if err := s.SaveDictionary(ctx, dict); err != nil {
		t.Fatalf("second SaveDictionary() failed: %v", err)
	}

	loaded, err := s.LoadDictionary(ctx)
	if err != nil {
		t.Fatalf("LoadDictionary() failed: %v", err)
	}
	if loaded.Version() != 3 {
		t.Errorf("Version() = %d, expected 3", loaded.Version())
	}
	if loaded.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", loaded.Len())
	}
}

func TestLoadDictionary_DetectsTampering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dict := macro.NewDictionary()
	admitTestMacro(t, dict, 'A', "00")
	if err := s.SaveDictionary(ctx, dict); err != nil {
		t.Fatalf("SaveDictionary() failed: %v", err)
	}

	// Edit a macro behind the store's back.
	if _, err := s.db.Exec("UPDATE macros SET definition = '0|' WHERE symbol = 'A'"); err != nil {
		t.Fatalf("tampering update failed: %v", err)
	}

	_, err := s.LoadDictionary(ctx)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("LoadDictionary() error = %v, expected ErrIntegrity", err)
	}
}

func TestSaveLoadDictionary_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	dict := macro.NewDictionary()
	admitTestMacro(t, dict, 'A', "000")
	if err := s1.SaveDictionary(ctx, dict); err != nil {
		t.Fatalf("SaveDictionary() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	loaded, err := s2.LoadDictionary(ctx)
	if err != nil {
		t.Fatalf("LoadDictionary() failed: %v", err)
	}
	if _, ok := loaded.Lookup('A'); !ok {
		t.Error("macro A missing after reopen")
	}
}
