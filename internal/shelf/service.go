package shelf

import (
	"errors"
	"fmt"
	"time"
)

// DefaultCoverColor is used when a new book does not name one.
const DefaultCoverColor = "#f97316"

// LibraryService is the orchestration layer the CLI talks to. It owns the
// lifecycle rules the store itself does not apply: stamping start/end dates
// on status changes and counting completions toward the streak.
type LibraryService struct {
	store  *Store
	streak *StreakTracker
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewLibraryService creates a LibraryService with the provided dependencies.
func NewLibraryService(store *Store, logger Logger, clock Clock, idgen IDGenerator) *LibraryService {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &LibraryService{
		store:  store,
		streak: NewStreakTracker(store, clock, logger),
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// NewBook holds the user-supplied fields of a book being added.
type NewBook struct {
	Title       string
	Author      string
	Category    Category
	TotalPages  int
	CurrentPage int
	Rating      int
	Status      Status
	Notes       string
	CoverColor  string
}

// AddBook creates and stores a book. Status defaults to want-to-read.
// A book added as reading gets a start date of now; one added as completed
// gets an end date of now and is marked fully read. Adding a completed book
// is not a completion event, so the streak is left alone.
func (s *LibraryService) AddBook(nb NewBook) (Book, error) {
	now := s.clock.Now()

	b := Book{
		ID:          s.idgen.New(),
		Title:       nb.Title,
		Author:      nb.Author,
		Category:    nb.Category,
		TotalPages:  nb.TotalPages,
		CurrentPage: nb.CurrentPage,
		Rating:      nb.Rating,
		Status:      nb.Status,
		Notes:       nb.Notes,
		CoverColor:  nb.CoverColor,
		DateAdded:   now,
	}
	if b.Status == "" {
		b.Status = StatusWantToRead
	}
	if b.CoverColor == "" {
		b.CoverColor = DefaultCoverColor
	}

	switch b.Status {
	case StatusReading:
		b.StartDate = &now
	case StatusCompleted:
		b.EndDate = &now
		b.CurrentPage = b.TotalPages
	}

	if err := s.store.AddBook(b); err != nil {
		return Book{}, fmt.Errorf("adding book: %w", err)
	}

	s.logger.Info("book added", "id", b.ID, "title", b.Title, "status", string(b.Status))
	return b, nil
}

// GetBook returns the book with the given id, or an error wrapping ErrNotFound.
func (s *LibraryService) GetBook(id string) (Book, error) {
	b, ok, err := s.store.GetBook(id)
	if err != nil {
		return Book{}, fmt.Errorf("getting book: %w", err)
	}
	if !ok {
		return Book{}, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// ListBooks returns the stored books that match f.
func (s *LibraryService) ListBooks(f BookFilter) ([]Book, error) {
	books, err := s.store.ListBooks()
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return FilterBooks(books, f), nil
}

// UpdateProgress applies patch to a book and handles status transitions:
// moving into reading stamps the start date, and moving into completed stamps
// the end date, sets the current page to the last page and records one
// completion toward the reading streak. Explicit dates in patch win over the
// stamped ones. The transition is decided against the stored book under the
// store lock, so two concurrent updates cannot both count the same change.
func (s *LibraryService) UpdateProgress(id string, patch BookPatch) (Book, error) {
	now := s.clock.Now()
	completing := false

	updated, ok, err := s.store.ModifyBook(id, func(current Book) BookPatch {
		p := patch
		completing = false
		if p.Status == nil || *p.Status == current.Status {
			return p
		}
		switch *p.Status {
		case StatusReading:
			if !p.StartDate.Set {
				p.StartDate = SetTime(now)
			}
		case StatusCompleted:
			if !p.EndDate.Set {
				p.EndDate = SetTime(now)
			}
			total := current.TotalPages
			if p.TotalPages != nil {
				total = *p.TotalPages
			}
			p.CurrentPage = &total
			completing = true
		}
		return p
	})
	if err != nil {
		return Book{}, fmt.Errorf("updating book %s: %w", id, err)
	}
	if !ok {
		return Book{}, fmt.Errorf("updating book %s: %w", id, ErrNotFound)
	}

	if completing {
		streak, err := s.streak.RecordCompletionToday()
		if err != nil {
			return Book{}, fmt.Errorf("book %s completed but streak not updated: %w", id, err)
		}
		s.logger.Info("book completed", "id", id, "streak", streak.CurrentStreak, "longest", streak.LongestStreak)
	}

	s.logger.Info("book updated", "id", id, "status", string(updated.Status), "page", updated.CurrentPage)
	return updated, nil
}

// DeleteBook removes a book. Sessions logged against it are kept.
func (s *LibraryService) DeleteBook(id string) error {
	ok, err := s.store.DeleteBook(id)
	if err != nil {
		return fmt.Errorf("deleting book %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("deleting book %s: %w", id, ErrNotFound)
	}
	s.logger.Info("book deleted", "id", id)
	return nil
}

// NewSession holds the user-supplied fields of a reading session.
type NewSession struct {
	BookID    string
	Date      time.Time // zero means now
	PagesRead int
	Duration  int // minutes
	Notes     string
}

// LogSession stores a reading session against an existing book.
func (s *LibraryService) LogSession(ns NewSession) (ReadingSession, error) {
	if _, err := s.GetBook(ns.BookID); err != nil {
		return ReadingSession{}, fmt.Errorf("logging session: %w", err)
	}

	date := ns.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	rs := ReadingSession{
		ID:        s.idgen.New(),
		BookID:    ns.BookID,
		Date:      date,
		PagesRead: ns.PagesRead,
		Duration:  ns.Duration,
		Notes:     ns.Notes,
	}
	if err := s.store.AddSession(rs); err != nil {
		return ReadingSession{}, fmt.Errorf("logging session: %w", err)
	}

	s.logger.Info("session logged", "id", rs.ID, "book", rs.BookID, "pages", rs.PagesRead)
	return rs, nil
}

// Sessions returns the sessions for one book, or every session when bookID is empty.
func (s *LibraryService) Sessions(bookID string) ([]ReadingSession, error) {
	if bookID == "" {
		return s.store.ListSessions()
	}
	return s.store.SessionsForBook(bookID)
}

// Stats returns a statistics snapshot. Corrupt books or streak data are
// counted as empty and logged as a warning rather than failing the read.
func (s *LibraryService) Stats() (Stats, error) {
	stats, err := s.store.Stats()
	if err := s.degrade("stats", err); err != nil {
		return Stats{}, fmt.Errorf("calculating stats: %w", err)
	}
	return stats, nil
}

// Streak returns the persisted reading streak, or the zero streak when the
// stored one is corrupt.
func (s *LibraryService) Streak() (ReadingStreak, error) {
	streak, err := s.store.GetStreak()
	if err := s.degrade("streak", err); err != nil {
		return ReadingStreak{}, err
	}
	return streak, nil
}

// ResetStreak clears the reading streak, replacing whatever is stored.
func (s *LibraryService) ResetStreak() error {
	if err := s.store.SaveStreak(ReadingStreak{}); err != nil {
		return fmt.Errorf("resetting streak: %w", err)
	}
	s.logger.Info("streak reset")
	return nil
}

// Dashboard is the home-screen summary. Warnings lists data that could not
// be read and is shown as empty.
type Dashboard struct {
	Stats            Stats
	RecentlyAdded    []Book
	CurrentlyReading []Book
	Warnings         []string
}

// Dashboard returns stats, the four most recently added books and every
// book currently being read.
func (s *LibraryService) Dashboard() (*Dashboard, error) {
	books, streak, err := s.store.snapshot()
	warnings := corruptionWarnings(err)
	if err := s.degrade("dashboard", err); err != nil {
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}

	return &Dashboard{
		Stats:            CalculateStats(books, streak),
		RecentlyAdded:    RecentlyAdded(books, 4),
		CurrentlyReading: CurrentlyReading(books),
		Warnings:         warnings,
	}, nil
}

// Analytics is the detailed statistics view.
type Analytics struct {
	Stats             Stats
	Categories        []CategoryCount
	Statuses          map[Status]int
	TopRated          []Book
	RecentlyCompleted []Book
	Warnings          []string
}

// Analytics returns stats plus category and status breakdowns and the top
// five rated and most recently completed books.
func (s *LibraryService) Analytics() (*Analytics, error) {
	books, streak, err := s.store.snapshot()
	warnings := corruptionWarnings(err)
	if err := s.degrade("analytics", err); err != nil {
		return nil, fmt.Errorf("loading analytics: %w", err)
	}

	return &Analytics{
		Stats:             CalculateStats(books, streak),
		Categories:        CategoryBreakdown(books),
		Statuses:          StatusBreakdown(books),
		TopRated:          TopRated(books, 5),
		RecentlyCompleted: RecentlyCompleted(books, 5),
		Warnings:          warnings,
	}, nil
}

// degrade swallows ErrDataCorruption on read paths after logging it; the
// store has already substituted empty values. Other errors pass through.
func (s *LibraryService) degrade(view string, err error) error {
	if err == nil || !errors.Is(err, ErrDataCorruption) {
		return err
	}
	s.logger.Warn("showing corrupt data as empty", "view", view, "error", err)
	return nil
}

func corruptionWarnings(err error) []string {
	if err == nil || !errors.Is(err, ErrDataCorruption) {
		return nil
	}
	return []string{err.Error()}
}
