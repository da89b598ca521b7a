package backend

import (
	"path/filepath"
	"testing"

	"shelf-go/internal/shelf"
)

func TestSQLiteBackend(t *testing.T) {
	runBackendContract(t, func(t *testing.T) shelf.Backend {
		b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "library.db"))
		if err != nil {
			t.Fatalf("NewSQLiteBackend() error = %v", err)
		}
		t.Cleanup(func() { b.Close() })
		return b
	})
}

func TestSQLiteBackend_inMemory(t *testing.T) {
	b, err := NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	defer b.Close()

	if err := b.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := b.Get("k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}

func TestSQLiteBackend_migratesOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "library.db")

	b, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	defer b.Close()

	st, err := b.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("status = %+v, want up to date", st)
	}
	if b.Path() != path {
		t.Errorf("Path() = %q, want %q", b.Path(), path)
	}
}

func TestSQLiteBackend_persistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")

	first, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend() error = %v", err)
	}
	if err := first.Set("sanskriti_books", []byte("[]")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer second.Close()

	got, ok, err := second.Get("sanskriti_books")
	if err != nil || !ok || string(got) != "[]" {
		t.Errorf("Get() = %q, %v, %v", got, ok, err)
	}
}
