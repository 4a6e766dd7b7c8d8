package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("missing key", func(t *testing.T) {
		_, err := m.Get(ctx, "absent")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get() = %v, want ErrNotFound", err)
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := m.Set(ctx, "k", "v1"); err != nil {
			t.Fatalf("Set() = %v", err)
		}
		if err := m.Set(ctx, "k", "v2"); err != nil {
			t.Fatalf("Set() = %v", err)
		}
		got, err := m.Get(ctx, "k")
		if err != nil {
			t.Fatalf("Get() = %v", err)
		}
		if got != "v2" {
			t.Errorf("Get() = %q, want %q", got, "v2")
		}
		if m.Writes() != 2 {
			t.Errorf("Writes() = %d, want 2", m.Writes())
		}
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() = %v", err)
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := f.Get(ctx, DefaultKey)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get() = %v, want ErrNotFound", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		blob := `[{"id":"1","name":"SSN"}]`
		if err := f.Set(ctx, DefaultKey, blob); err != nil {
			t.Fatalf("Set() = %v", err)
		}
		got, err := f.Get(ctx, DefaultKey)
		if err != nil {
			t.Fatalf("Get() = %v", err)
		}
		if got != blob {
			t.Errorf("Get() = %q, want %q", got, blob)
		}
	})

	t.Run("key is sanitized into a file name", func(t *testing.T) {
		if err := f.Set(ctx, "a:b/c", "x"); err != nil {
			t.Fatalf("Set() = %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "a_b_c.json")); err != nil {
			t.Errorf("expected sanitized file name: %v", err)
		}
	})

	t.Run("survives reopen", func(t *testing.T) {
		reopened, err := NewFile(dir)
		if err != nil {
			t.Fatalf("NewFile() = %v", err)
		}
		got, err := reopened.Get(ctx, DefaultKey)
		if err != nil {
			t.Fatalf("Get() = %v", err)
		}
		if got == "" {
			t.Error("reopened store lost data")
		}
	})
}
