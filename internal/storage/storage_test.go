package storage

import (
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if _, ok, err := store.Get(KeyToken); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(KeyToken, "abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := store.Get(KeyToken)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || value != "abc123" {
		t.Fatalf("expected 'abc123', got %q ok=%v", value, ok)
	}

	if err := store.Set(KeyToken, "def456"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, _, err = store.Get(KeyToken)
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if value != "def456" {
		t.Fatalf("expected 'def456', got %q", value)
	}

	if err := store.Delete(KeyToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(KeyToken); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Set(KeyUser, `{"name":"Alice"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(KeyUser)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || value != `{"name":"Alice"}` {
		t.Fatalf("expected persisted user, got %q ok=%v", value, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()

	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, _ := store.Get("k")
	if !ok || value != "v" {
		t.Fatalf("expected 'v', got %q ok=%v", value, ok)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}

func newTestStore(t *testing.T) (*SQLite, func()) {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store, func() {
		_ = store.Close()
	}
}
