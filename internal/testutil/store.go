package testutil

import (
	"testing"
	"time"

	"shelf-go/internal/backend"
	"shelf-go/internal/shelf"
)

// NewTestStore creates a Store over a fresh in-memory backend. The backend is
// returned too so tests can plant raw blobs.
func NewTestStore(t *testing.T) (*shelf.Store, *backend.MemoryBackend) {
	t.Helper()

	b := backend.NewMemoryBackend()
	t.Cleanup(func() {
		b.Close()
	})
	return shelf.NewStore(b, "", shelf.NewNopLogger()), b
}

// NewTestService wires a LibraryService over a fresh in-memory store with
// a FixedClock and sequential IDs.
func NewTestService(t *testing.T) (*shelf.LibraryService, *shelf.Store, *StubClock) {
	t.Helper()

	store, _ := NewTestStore(t)
	clock := FixedClock()
	svc := shelf.NewLibraryService(store, shelf.NewNopLogger(), clock, NewStubIDGenerator())
	return svc, store, clock
}

// Book returns a valid want-to-read book with the given id; tweak fields as needed.
func Book(id string) shelf.Book {
	return shelf.Book{
		ID:         id,
		Title:      "Book " + id,
		Author:     "Author " + id,
		Category:   shelf.CategoryOther,
		TotalPages: 100,
		Status:     shelf.StatusWantToRead,
		CoverColor: shelf.DefaultCoverColor,
		DateAdded:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}
