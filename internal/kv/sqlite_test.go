package kv

import (
	"context"
	"path/filepath"
	"testing"

	"fuizlet/internal/config"
)

func newSQLiteStore(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.db")
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSQLite_SetGet(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "fuizlet_folders", `[{"id":"f1"}]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := store.Get(ctx, "fuizlet_folders")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if got != `[{"id":"f1"}]` {
		t.Errorf("Get() = %q, want %q", got, `[{"id":"f1"}]`)
	}
}

func TestSQLite_Overwrite(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "first"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "k", "second"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	got, _, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}

func TestSQLite_GetAbsent(t *testing.T) {
	store, _ := newSQLiteStore(t)

	_, ok, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for absent key, want false")
	}
}

func TestSQLite_Delete(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true after Delete, want false")
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen NewSQLite() error = %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || got != "v" {
		t.Errorf("Get() after reopen = (%q, %v), want (%q, true)", got, ok, "v")
	}
}

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := NewStoreFromConfig(configFor("memory", ""))
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer store.Close()
		if _, ok := store.(*Memory); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *Memory", store)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kv.db")
		store, err := NewStoreFromConfig(configFor("sqlite", path))
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer store.Close()
		if _, ok := store.(*SQLite); !ok {
			t.Errorf("NewStoreFromConfig() = %T, want *SQLite", store)
		}
	})

	t.Run("sqlite without path", func(t *testing.T) {
		if _, err := NewStoreFromConfig(configFor("sqlite", "")); err == nil {
			t.Error("NewStoreFromConfig() expected error for missing path")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewStoreFromConfig(configFor("redis", "")); err == nil {
			t.Error("NewStoreFromConfig() expected error for unknown type")
		}
	})
}

func configFor(storeType, path string) config.LocalStoreConfig {
	return config.LocalStoreConfig{Type: storeType, Path: path}
}
