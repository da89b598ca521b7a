package shelf

import (
	"sort"
	"strings"
)

// BookFilter narrows a book list. Zero-valued fields match everything.
type BookFilter struct {
	Category Category
	Status   Status
	Query    string // case-insensitive substring of title or author
}

// Matches reports whether b passes every set criterion.
func (f BookFilter) Matches(b Book) bool {
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) && !strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	return true
}

// FilterBooks returns the books matching f, keeping their order.
func FilterBooks(books []Book, f BookFilter) []Book {
	matched := []Book{}
	for _, b := range books {
		if f.Matches(b) {
			matched = append(matched, b)
		}
	}
	return matched
}

// CurrentlyReading returns the books with status reading, in stored order.
func CurrentlyReading(books []Book) []Book {
	return FilterBooks(books, BookFilter{Status: StatusReading})
}

// TopRated returns up to n rated books, highest rating first. Books with
// equal ratings keep their stored order.
func TopRated(books []Book, n int) []Book {
	rated := []Book{}
	for _, b := range books {
		if b.Rating > 0 {
			rated = append(rated, b)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].Rating > rated[j].Rating
	})
	return limit(rated, n)
}

// RecentlyCompleted returns up to n completed books that have an end date,
// most recently finished first.
func RecentlyCompleted(books []Book, n int) []Book {
	done := []Book{}
	for _, b := range books {
		if b.Status == StatusCompleted && b.EndDate != nil {
			done = append(done, b)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].EndDate.After(*done[j].EndDate)
	})
	return limit(done, n)
}

// RecentlyAdded returns up to n books, newest first. The input is not modified.
func RecentlyAdded(books []Book, n int) []Book {
	sorted := make([]Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateAdded.After(sorted[j].DateAdded)
	})
	return limit(sorted, n)
}

func limit(books []Book, n int) []Book {
	if n >= 0 && n < len(books) {
		return books[:n]
	}
	return books
}
