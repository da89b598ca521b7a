package shelf

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultKeyPrefix is prepended to every collection key.
const DefaultKeyPrefix = "sanskriti_"

const (
	booksCollection    = "books"
	sessionsCollection = "sessions"
	streakCollection   = "streak"
)

// Store persists the three collections (books, sessions, streak) through a
// Backend, each as a single JSON blob.
//
// Every mutation is a read-modify-write of a whole collection. Calls on one
// Store are serialized, but two processes sharing the same backend race:
// the last writer's snapshot wins and the other's interleaved change is lost.
//
// A corrupt books or sessions blob reads as empty and blocks writes to that
// collection so it is never silently replaced. A corrupt streak reads as
// zero and is overwritten by the next UpdateStreak.
type Store struct {
	backend Backend
	prefix  string
	logger  Logger
	mu      sync.Mutex
}

// NewStore creates a Store over backend. An empty prefix means DefaultKeyPrefix.
func NewStore(backend Backend, prefix string, logger Logger) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Store{
		backend: backend,
		prefix:  prefix,
		logger:  logger,
	}
}

func (s *Store) key(collection string) string {
	return s.prefix + collection
}

// Books

// ListBooks returns every stored book in insertion order. An unset collection
// yields an empty slice. A corrupt collection also yields an empty slice,
// together with an error wrapping ErrDataCorruption.
func (s *Store) ListBooks() ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readList[Book](s, booksCollection)
}

// ReplaceBooks overwrites the whole books collection in one write.
func (s *Store) ReplaceBooks(books []Book) error {
	if err := validateBooks(books); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeList(s, booksCollection, books)
}

// SeedBooks writes books only if the collection is currently empty.
// It reports whether anything was written.
func (s *Store) SeedBooks(books []Book) (bool, error) {
	if err := validateBooks(books); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readList[Book](s, booksCollection)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := writeList(s, booksCollection, books); err != nil {
		return false, err
	}
	return true, nil
}

// AddBook validates b and appends it to the books collection.
func (s *Store) AddBook(b Book) error {
	if err := ValidateBook(b); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := readList[Book](s, booksCollection)
	if err != nil {
		return err
	}
	if indexOfBook(books, b.ID) >= 0 {
		return &ValidationError{Problems: []string{fmt.Sprintf("id %s already exists", b.ID)}}
	}

	books = append(books, b)
	if err := writeList(s, booksCollection, books); err != nil {
		return err
	}
	s.logger.Debug("book stored", "id", b.ID)
	return nil
}

// UpdateBook merges patch into the book with the given id and persists the
// result. It reports false (and no error) when no such book exists.
// The merged record must pass validation.
func (s *Store) UpdateBook(id string, patch BookPatch) (bool, error) {
	_, ok, err := s.ModifyBook(id, func(Book) BookPatch { return patch })
	return ok, err
}

// ModifyBook builds a patch from the stored book and applies it, all under
// the store lock, so fn sees the state the patch is applied to. It returns
// the updated book, or false when no such book exists.
func (s *Store) ModifyBook(id string, fn func(current Book) BookPatch) (Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := readList[Book](s, booksCollection)
	if err != nil {
		return Book{}, false, err
	}

	idx := indexOfBook(books, id)
	if idx < 0 {
		return Book{}, false, nil
	}

	updated := fn(books[idx]).Apply(books[idx])
	if err := ValidateBook(updated); err != nil {
		return Book{}, false, err
	}
	books[idx] = updated

	if err := writeList(s, booksCollection, books); err != nil {
		return Book{}, false, err
	}
	return updated, true, nil
}

// DeleteBook removes the book with the given id. It reports false when
// there was nothing to remove.
func (s *Store) DeleteBook(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := readList[Book](s, booksCollection)
	if err != nil {
		return false, err
	}

	idx := indexOfBook(books, id)
	if idx < 0 {
		return false, nil
	}

	books = append(books[:idx], books[idx+1:]...)
	if err := writeList(s, booksCollection, books); err != nil {
		return false, err
	}
	return true, nil
}

// GetBook looks a book up by id.
func (s *Store) GetBook(id string) (Book, bool, error) {
	books, err := s.ListBooks()
	if err != nil {
		return Book{}, false, err
	}
	idx := indexOfBook(books, id)
	if idx < 0 {
		return Book{}, false, nil
	}
	return books[idx], true, nil
}

// validateBooks checks every book and rejects ids that appear more than once.
func validateBooks(books []Book) error {
	seen := make(map[string]bool, len(books))
	var dups []string
	for _, b := range books {
		if err := ValidateBook(b); err != nil {
			return fmt.Errorf("book %s: %w", b.ID, err)
		}
		if seen[b.ID] {
			dups = append(dups, fmt.Sprintf("id %s appears more than once", b.ID))
		}
		seen[b.ID] = true
	}
	if len(dups) > 0 {
		return &ValidationError{Problems: dups}
	}
	return nil
}

func indexOfBook(books []Book, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

// Sessions

// ListSessions returns every stored reading session in insertion order.
func (s *Store) ListSessions() ([]ReadingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readList[ReadingSession](s, sessionsCollection)
}

// ReplaceSessions overwrites the whole sessions collection in one write.
func (s *Store) ReplaceSessions(sessions []ReadingSession) error {
	for _, rs := range sessions {
		if err := ValidateSession(rs); err != nil {
			return fmt.Errorf("session %s: %w", rs.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeList(s, sessionsCollection, sessions)
}

// AddSession validates rs and appends it to the sessions collection.
func (s *Store) AddSession(rs ReadingSession) error {
	if err := ValidateSession(rs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readList[ReadingSession](s, sessionsCollection)
	if err != nil {
		return err
	}
	sessions = append(sessions, rs)
	return writeList(s, sessionsCollection, sessions)
}

// SessionsForBook returns the sessions logged against bookID.
func (s *Store) SessionsForBook(bookID string) ([]ReadingSession, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return nil, err
	}

	matched := []ReadingSession{}
	for _, rs := range sessions {
		if rs.BookID == bookID {
			matched = append(matched, rs)
		}
	}
	return matched, nil
}

// Streak

// GetStreak returns the persisted streak, or the zero streak if none was saved.
// A corrupt blob yields the zero streak and an error wrapping ErrDataCorruption.
func (s *Store) GetStreak() (ReadingStreak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readStreak()
}

// SaveStreak overwrites the persisted streak.
func (s *Store) SaveStreak(streak ReadingStreak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeStreak(streak)
}

// UpdateStreak applies fn to the persisted streak under the store lock and
// saves the result when fn reports a change. A corrupt streak is replaced:
// fn starts from the zero streak and its result is always written.
func (s *Store) UpdateStreak(fn func(ReadingStreak) (ReadingStreak, bool)) (ReadingStreak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readStreak()
	corrupt := errors.Is(err, ErrDataCorruption)
	if err != nil && !corrupt {
		return ReadingStreak{}, err
	}

	next, changed := fn(current)
	if !changed && !corrupt {
		return current, nil
	}
	if corrupt {
		s.logger.Warn("replacing corrupt streak", "key", s.key(streakCollection))
	}
	if err := s.writeStreak(next); err != nil {
		return ReadingStreak{}, err
	}
	return next, nil
}

func (s *Store) readStreak() (ReadingStreak, error) {
	var streak ReadingStreak
	data, ok, err := s.backend.Get(s.key(streakCollection))
	if err != nil {
		return ReadingStreak{}, fmt.Errorf("reading %s: %w", streakCollection, err)
	}
	if !ok || len(data) == 0 {
		return streak, nil
	}
	if err := json.Unmarshal(data, &streak); err != nil {
		s.logger.Warn("streak is corrupt, using zero streak", "key", s.key(streakCollection), "error", err)
		return ReadingStreak{}, fmt.Errorf("%w: %s: %w", ErrDataCorruption, streakCollection, err)
	}
	return streak, nil
}

func (s *Store) writeStreak(streak ReadingStreak) error {
	data, err := json.Marshal(streak)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", streakCollection, err)
	}
	if err := s.backend.Set(s.key(streakCollection), data); err != nil {
		return fmt.Errorf("writing %s: %w", streakCollection, err)
	}
	return nil
}

// Stats derives a statistics snapshot from the current books and streak.
// When either is corrupt the snapshot is still computed, with the corrupt
// part taken as empty, and returned together with the ErrDataCorruption error.
func (s *Store) Stats() (Stats, error) {
	books, streak, err := s.snapshot()
	if err != nil && !errors.Is(err, ErrDataCorruption) {
		return Stats{}, err
	}
	return CalculateStats(books, streak), err
}

// snapshot reads books and streak. Corruption errors from both are joined
// and the corrupt parts come back empty; any other error stops the read.
func (s *Store) snapshot() ([]Book, ReadingStreak, error) {
	books, booksErr := s.ListBooks()
	if booksErr != nil && !errors.Is(booksErr, ErrDataCorruption) {
		return nil, ReadingStreak{}, booksErr
	}
	streak, streakErr := s.GetStreak()
	if streakErr != nil && !errors.Is(streakErr, ErrDataCorruption) {
		return nil, ReadingStreak{}, streakErr
	}
	return books, streak, errors.Join(booksErr, streakErr)
}

// readList and writeList assume s.mu is held.

func readList[T any](s *Store, collection string) ([]T, error) {
	key := s.key(collection)
	data, ok, err := s.backend.Get(key)
	if err != nil {
		return []T{}, fmt.Errorf("reading %s: %w", collection, err)
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("collection is corrupt, treating as empty", "key", key, "error", err)
		return []T{}, fmt.Errorf("%w: %s: %w", ErrDataCorruption, collection, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func writeList[T any](s *Store, collection string, records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", collection, err)
	}
	if err := s.backend.Set(s.key(collection), data); err != nil {
		return fmt.Errorf("writing %s: %w", collection, err)
	}
	return nil
}
