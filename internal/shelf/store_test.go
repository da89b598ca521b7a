package shelf_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"shelf-go/internal/backend"
	"shelf-go/internal/shelf"
	"shelf-go/internal/testutil"
)

func TestStore_AddAndListBooks(t *testing.T) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)

		books, err := store.ListBooks()
		if err != nil {
			t.Fatalf("ListBooks() error = %v", err)
		}
		if books == nil || len(books) != 0 {
			t.Errorf("ListBooks() = %v, want empty non-nil slice", books)
		}
	})

	t.Run("keeps insertion order", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)

		for _, id := range []string{"c", "a", "b"} {
			if err := store.AddBook(testutil.Book(id)); err != nil {
				t.Fatalf("AddBook(%s) error = %v", id, err)
			}
		}

		books, err := store.ListBooks()
		if err != nil {
			t.Fatalf("ListBooks() error = %v", err)
		}
		var ids []string
		for _, b := range books {
			ids = append(ids, b.ID)
		}
		if diff := cmp.Diff([]string{"c", "a", "b"}, ids); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)

		if err := store.AddBook(testutil.Book("a")); err != nil {
			t.Fatalf("AddBook() error = %v", err)
		}
		err := store.AddBook(testutil.Book("a"))
		if !errors.Is(err, shelf.ErrValidation) {
			t.Errorf("AddBook() duplicate error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects invalid books without writing", func(t *testing.T) {
		store, mem := testutil.NewTestStore(t)

		b := testutil.Book("a")
		b.Rating = 6
		if err := store.AddBook(b); !errors.Is(err, shelf.ErrValidation) {
			t.Errorf("AddBook() error = %v, want ErrValidation", err)
		}
		if mem.Len() != 0 {
			t.Errorf("backend has %d blobs, want 0", mem.Len())
		}
	})
}

func TestStore_blobLayout(t *testing.T) {
	store, mem := testutil.NewTestStore(t)

	if err := store.AddBook(testutil.Book("a")); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}
	if err := store.AddSession(shelf.ReadingSession{ID: "s1", BookID: "a", PagesRead: 5}); err != nil {
		t.Fatalf("AddSession() error = %v", err)
	}
	if err := store.SaveStreak(shelf.ReadingStreak{CurrentStreak: 1, LongestStreak: 1}); err != nil {
		t.Fatalf("SaveStreak() error = %v", err)
	}

	for _, key := range []string{"sanskriti_books", "sanskriti_sessions", "sanskriti_streak"} {
		if _, ok, _ := mem.Get(key); !ok {
			t.Errorf("expected blob %q", key)
		}
	}
}

func TestStore_customPrefix(t *testing.T) {
	mem := backend.NewMemoryBackend()
	store := shelf.NewStore(mem, "test_", nil)

	if err := store.AddBook(testutil.Book("a")); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}
	if _, ok, _ := mem.Get("test_books"); !ok {
		t.Error("expected blob test_books")
	}
}

func TestStore_UpdateBook(t *testing.T) {
	t.Run("rating round trip changes nothing else", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)

		orig := testutil.Book("a")
		started := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
		orig.Status = shelf.StatusReading
		orig.StartDate = &started
		orig.CurrentPage = 30
		orig.Notes = "slow going"
		if err := store.AddBook(orig); err != nil {
			t.Fatalf("AddBook() error = %v", err)
		}

		ok, err := store.UpdateBook("a", shelf.BookPatch{Rating: shelf.Ref(4)})
		if err != nil || !ok {
			t.Fatalf("UpdateBook() = %v, %v", ok, err)
		}

		got, found, err := store.GetBook("a")
		if err != nil || !found {
			t.Fatalf("GetBook() = %v, %v", found, err)
		}

		want := orig
		want.Rating = 4
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("GetBook() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)
		if err := store.AddBook(testutil.Book("a")); err != nil {
			t.Fatalf("AddBook() error = %v", err)
		}

		ok, err := store.UpdateBook("missing", shelf.BookPatch{Rating: shelf.Ref(3)})
		if err != nil {
			t.Fatalf("UpdateBook() error = %v", err)
		}
		if ok {
			t.Error("UpdateBook() = true, want false for unknown id")
		}
	})

	t.Run("rejects a merge that breaks invariants", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)
		if err := store.AddBook(testutil.Book("a")); err != nil {
			t.Fatalf("AddBook() error = %v", err)
		}

		_, err := store.UpdateBook("a", shelf.BookPatch{CurrentPage: shelf.Ref(101)})
		if !errors.Is(err, shelf.ErrValidation) {
			t.Errorf("UpdateBook() error = %v, want ErrValidation", err)
		}

		got, _, _ := store.GetBook("a")
		if got.CurrentPage != 0 {
			t.Errorf("CurrentPage = %d after rejected update, want 0", got.CurrentPage)
		}
	})
}

func TestStore_DeleteBook(t *testing.T) {
	store, _ := testutil.NewTestStore(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := store.AddBook(testutil.Book(id)); err != nil {
			t.Fatalf("AddBook(%s) error = %v", id, err)
		}
	}

	ok, err := store.DeleteBook("b")
	if err != nil || !ok {
		t.Fatalf("DeleteBook(b) = %v, %v", ok, err)
	}

	ok, err = store.DeleteBook("b")
	if err != nil {
		t.Fatalf("second DeleteBook(b) error = %v", err)
	}
	if ok {
		t.Error("second DeleteBook(b) = true, want false")
	}

	books, _ := store.ListBooks()
	if len(books) != 2 || books[0].ID != "a" || books[1].ID != "c" {
		t.Errorf("remaining books = %v, want [a c]", books)
	}
}

func TestStore_GetBook(t *testing.T) {
	store, _ := testutil.NewTestStore(t)
	if err := store.AddBook(testutil.Book("a")); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}

	if _, ok, err := store.GetBook("a"); err != nil || !ok {
		t.Errorf("GetBook(a) = %v, %v, want found", ok, err)
	}
	if _, ok, err := store.GetBook("zzz"); err != nil || ok {
		t.Errorf("GetBook(zzz) = %v, %v, want not found", ok, err)
	}
}

func TestStore_ReplaceBooks(t *testing.T) {
	store, _ := testutil.NewTestStore(t)
	if err := store.AddBook(testutil.Book("old")); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}

	replacement := []shelf.Book{testutil.Book("x"), testutil.Book("y")}
	if err := store.ReplaceBooks(replacement); err != nil {
		t.Fatalf("ReplaceBooks() error = %v", err)
	}

	got, err := store.ListBooks()
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if diff := cmp.Diff(replacement, got); diff != "" {
		t.Errorf("ListBooks() mismatch (-want +got):\n%s", diff)
	}

	bad := testutil.Book("z")
	bad.TotalPages = 0
	if err := store.ReplaceBooks([]shelf.Book{bad}); !errors.Is(err, shelf.ErrValidation) {
		t.Errorf("ReplaceBooks() error = %v, want ErrValidation", err)
	}

	t.Run("rejects duplicate ids", func(t *testing.T) {
		store, _ := testutil.NewTestStore(t)
		if err := store.ReplaceBooks([]shelf.Book{testutil.Book("x")}); err != nil {
			t.Fatalf("ReplaceBooks() error = %v", err)
		}

		err := store.ReplaceBooks([]shelf.Book{testutil.Book("a"), testutil.Book("b"), testutil.Book("a")})
		if !errors.Is(err, shelf.ErrValidation) {
			t.Fatalf("ReplaceBooks() error = %v, want ErrValidation", err)
		}

		got, _ := store.ListBooks()
		if len(got) != 1 || got[0].ID != "x" {
			t.Errorf("books = %v, want the previous collection untouched", got)
		}
	})
}

func TestStore_SeedBooks(t *testing.T) {
	store, _ := testutil.NewTestStore(t)

	seeded, err := store.SeedBooks([]shelf.Book{testutil.Book("a")})
	if err != nil || !seeded {
		t.Fatalf("SeedBooks() = %v, %v, want true", seeded, err)
	}

	seeded, err = store.SeedBooks([]shelf.Book{testutil.Book("b")})
	if err != nil {
		t.Fatalf("SeedBooks() error = %v", err)
	}
	if seeded {
		t.Error("SeedBooks() on a non-empty library = true, want false")
	}

	books, _ := store.ListBooks()
	if len(books) != 1 || books[0].ID != "a" {
		t.Errorf("books = %v, want only a", books)
	}

	empty, mem := testutil.NewTestStore(t)
	seeded, err = empty.SeedBooks([]shelf.Book{testutil.Book("a"), testutil.Book("a")})
	if !errors.Is(err, shelf.ErrValidation) || seeded {
		t.Errorf("SeedBooks() with duplicate ids = %v, %v; want false, ErrValidation", seeded, err)
	}
	if mem.Len() != 0 {
		t.Error("SeedBooks() wrote a collection with duplicate ids")
	}
}

func TestStore_ModifyBook(t *testing.T) {
	store, _ := testutil.NewTestStore(t)
	if err := store.AddBook(testutil.Book("a")); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}

	var seen shelf.Book
	got, ok, err := store.ModifyBook("a", func(current shelf.Book) shelf.BookPatch {
		seen = current
		return shelf.BookPatch{CurrentPage: shelf.Ref(current.CurrentPage + 10)}
	})
	if err != nil || !ok {
		t.Fatalf("ModifyBook() = %v, %v", ok, err)
	}
	if seen.ID != "a" || got.CurrentPage != 10 {
		t.Errorf("seen %q, CurrentPage = %d; want a, 10", seen.ID, got.CurrentPage)
	}

	stored, _, _ := store.GetBook("a")
	if diff := cmp.Diff(got, stored); diff != "" {
		t.Errorf("stored book mismatch (-returned +stored):\n%s", diff)
	}

	if _, ok, err := store.ModifyBook("missing", func(shelf.Book) shelf.BookPatch { return shelf.BookPatch{} }); ok || err != nil {
		t.Errorf("ModifyBook(missing) = %v, %v; want false, nil", ok, err)
	}
}

func TestStore_Sessions(t *testing.T) {
	store, _ := testutil.NewTestStore(t)
	day := time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)

	sessions := []shelf.ReadingSession{
		{ID: "s1", BookID: "a", Date: day, PagesRead: 10, Duration: 30},
		{ID: "s2", BookID: "b", Date: day, PagesRead: 5, Duration: 15},
		{ID: "s3", BookID: "a", Date: day.Add(24 * time.Hour), PagesRead: 12, Duration: 40, Notes: "good chapter"},
	}
	for _, rs := range sessions {
		if err := store.AddSession(rs); err != nil {
			t.Fatalf("AddSession(%s) error = %v", rs.ID, err)
		}
	}

	all, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if diff := cmp.Diff(sessions, all); diff != "" {
		t.Errorf("ListSessions() mismatch (-want +got):\n%s", diff)
	}

	forA, err := store.SessionsForBook("a")
	if err != nil {
		t.Fatalf("SessionsForBook() error = %v", err)
	}
	if diff := cmp.Diff([]shelf.ReadingSession{sessions[0], sessions[2]}, forA); diff != "" {
		t.Errorf("SessionsForBook(a) mismatch (-want +got):\n%s", diff)
	}

	none, err := store.SessionsForBook("nope")
	if err != nil || len(none) != 0 {
		t.Errorf("SessionsForBook(nope) = %v, %v, want empty", none, err)
	}

	if err := store.AddSession(shelf.ReadingSession{ID: "s4", BookID: "a", PagesRead: -1}); !errors.Is(err, shelf.ErrValidation) {
		t.Errorf("AddSession() negative pages error = %v, want ErrValidation", err)
	}

	if err := store.ReplaceSessions(nil); err != nil {
		t.Fatalf("ReplaceSessions(nil) error = %v", err)
	}
	if all, _ := store.ListSessions(); len(all) != 0 {
		t.Errorf("ListSessions() after replace = %v, want empty", all)
	}
}

func TestStore_Streak(t *testing.T) {
	store, _ := testutil.NewTestStore(t)

	got, err := store.GetStreak()
	if err != nil {
		t.Fatalf("GetStreak() error = %v", err)
	}
	if diff := cmp.Diff(shelf.ReadingStreak{}, got); diff != "" {
		t.Errorf("default streak mismatch (-want +got):\n%s", diff)
	}

	last := shelf.NewDate(2024, 1, 14)
	want := shelf.ReadingStreak{CurrentStreak: 3, LongestStreak: 8, LastReadDate: &last}
	if err := store.SaveStreak(want); err != nil {
		t.Fatalf("SaveStreak() error = %v", err)
	}

	got, err = store.GetStreak()
	if err != nil {
		t.Fatalf("GetStreak() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetStreak() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_UpdateStreak(t *testing.T) {
	store, mem := testutil.NewTestStore(t)

	got, err := store.UpdateStreak(func(s shelf.ReadingStreak) (shelf.ReadingStreak, bool) {
		return s, false
	})
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if got.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", got.CurrentStreak)
	}
	if mem.Len() != 0 {
		t.Error("unchanged streak should not be written")
	}

	got, err = store.UpdateStreak(func(s shelf.ReadingStreak) (shelf.ReadingStreak, bool) {
		s.CurrentStreak, s.LongestStreak = 1, 1
		return s, true
	})
	if err != nil {
		t.Fatalf("UpdateStreak() error = %v", err)
	}
	if got.CurrentStreak != 1 || mem.Len() != 1 {
		t.Errorf("streak = %+v, blobs = %d; want written streak of 1", got, mem.Len())
	}

	t.Run("replaces a corrupt streak", func(t *testing.T) {
		store, mem := testutil.NewTestStore(t)
		mem.Set("sanskriti_streak", []byte("{"))

		var seen shelf.ReadingStreak
		got, err := store.UpdateStreak(func(s shelf.ReadingStreak) (shelf.ReadingStreak, bool) {
			seen = s
			return s, false
		})
		if err != nil {
			t.Fatalf("UpdateStreak() error = %v", err)
		}
		if seen.CurrentStreak != 0 || seen.LastReadDate != nil || got.CurrentStreak != 0 {
			t.Errorf("seen %+v, got %+v; want the zero streak", seen, got)
		}

		if _, err := store.GetStreak(); err != nil {
			t.Errorf("GetStreak() after replacement error = %v", err)
		}
	})
}

func TestStore_corruptData(t *testing.T) {
	tests := []struct {
		name string
		key  string
		read func(*shelf.Store) error
	}{
		{
			name: "books",
			key:  "sanskriti_books",
			read: func(s *shelf.Store) error {
				books, err := s.ListBooks()
				if books == nil || len(books) != 0 {
					return fmt.Errorf("books = %v, want empty", books)
				}
				return err
			},
		},
		{
			name: "sessions",
			key:  "sanskriti_sessions",
			read: func(s *shelf.Store) error {
				sessions, err := s.ListSessions()
				if sessions == nil || len(sessions) != 0 {
					return fmt.Errorf("sessions = %v, want empty", sessions)
				}
				return err
			},
		},
		{
			name: "streak",
			key:  "sanskriti_streak",
			read: func(s *shelf.Store) error {
				streak, err := s.GetStreak()
				if streak.CurrentStreak != 0 || streak.LastReadDate != nil {
					return fmt.Errorf("streak = %+v, want zero", streak)
				}
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mem := testutil.NewTestStore(t)
			mem.Set(tt.key, []byte(`{"not": "a list`))

			err := tt.read(store)
			if !errors.Is(err, shelf.ErrDataCorruption) {
				t.Errorf("read error = %v, want ErrDataCorruption", err)
			}
		})
	}

	t.Run("mutations refuse to overwrite corrupt data", func(t *testing.T) {
		store, mem := testutil.NewTestStore(t)
		mem.Set("sanskriti_books", []byte("garbage"))

		if err := store.AddBook(testutil.Book("a")); !errors.Is(err, shelf.ErrDataCorruption) {
			t.Errorf("AddBook() error = %v, want ErrDataCorruption", err)
		}

		raw, _, _ := mem.Get("sanskriti_books")
		if string(raw) != "garbage" {
			t.Errorf("corrupt blob was overwritten with %q", raw)
		}
	})
}

func TestStore_Stats_corrupt(t *testing.T) {
	store, mem := testutil.NewTestStore(t)
	done := testutil.Book("a")
	done.Status = shelf.StatusCompleted
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	done.EndDate = &end
	if err := store.AddBook(done); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}
	mem.Set("sanskriti_streak", []byte("{"))

	stats, err := store.Stats()
	if !errors.Is(err, shelf.ErrDataCorruption) {
		t.Errorf("Stats() error = %v, want ErrDataCorruption", err)
	}
	if stats.TotalBooks != 1 || stats.BooksCompleted != 1 || stats.ReadingStreak.CurrentStreak != 0 {
		t.Errorf("Stats() = %+v, want the book counted and a zero streak", stats)
	}
}

func TestStore_Stats(t *testing.T) {
	store, _ := testutil.NewTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if diff := cmp.Diff(shelf.Stats{}, stats); diff != "" {
		t.Errorf("empty Stats() mismatch (-want +got):\n%s", diff)
	}

	done := testutil.Book("a")
	done.Status = shelf.StatusCompleted
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	done.EndDate = &end
	done.CurrentPage = done.TotalPages
	done.Rating = 4
	if err := store.AddBook(done); err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}
	last := shelf.NewDate(2024, 1, 3)
	if err := store.SaveStreak(shelf.ReadingStreak{CurrentStreak: 1, LongestStreak: 2, LastReadDate: &last}); err != nil {
		t.Fatalf("SaveStreak() error = %v", err)
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := shelf.Stats{
		TotalBooks:     1,
		BooksCompleted: 1,
		TotalPagesRead: 100,
		AverageRating:  4,
		ReadingStreak:  shelf.ReadingStreak{CurrentStreak: 1, LongestStreak: 2, LastReadDate: &last},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_concurrentAdds(t *testing.T) {
	store, _ := testutil.NewTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.AddBook(testutil.Book(fmt.Sprintf("b%d", i))); err != nil {
				t.Errorf("AddBook() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	books, err := store.ListBooks()
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if len(books) != 20 {
		t.Errorf("len(books) = %d, want 20", len(books))
	}
}
