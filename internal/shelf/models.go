package shelf

import (
	"fmt"
	"strings"
	"time"
)

// Category is the philosophical tradition a book belongs to.
type Category string

const (
	CategoryVedanta     Category = "Vedanta"
	CategoryYoga        Category = "Yoga"
	CategorySamkhya     Category = "Samkhya"
	CategoryBuddhism    Category = "Buddhism"
	CategoryJainism     Category = "Jainism"
	CategoryNyaya       Category = "Nyaya"
	CategoryVaisheshika Category = "Vaisheshika"
	CategoryMimamsa     Category = "Mimamsa"
	CategoryOther       Category = "Other"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryVedanta,
	CategoryYoga,
	CategorySamkhya,
	CategoryBuddhism,
	CategoryJainism,
	CategoryNyaya,
	CategoryVaisheshika,
	CategoryMimamsa,
	CategoryOther,
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Status is where a book sits in the reading lifecycle.
type Status string

const (
	StatusWantToRead Status = "want-to-read"
	StatusReading    Status = "reading"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusWantToRead, StatusReading, StatusCompleted}

// ParseStatus matches s against the known statuses, ignoring case.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusWantToRead:
		return "Want to Read"
	case StatusReading:
		return "Reading"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Book is one tracked text. ID is assigned at creation and never changes.
type Book struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Author      string     `json:"author"`
	Category    Category   `json:"category" validate:"required,oneof=Vedanta Yoga Samkhya Buddhism Jainism Nyaya Vaisheshika Mimamsa Other"`
	TotalPages  int        `json:"totalPages" validate:"min=1"`
	CurrentPage int        `json:"currentPage" validate:"min=0,ltefield=TotalPages"`
	Rating      int        `json:"rating" validate:"min=0,max=5"` // 0 means unrated
	Status      Status     `json:"status" validate:"required,oneof=want-to-read reading completed"`
	StartDate   *time.Time `json:"startDate" validate:"required_if=Status reading"`
	EndDate     *time.Time `json:"endDate" validate:"required_if=Status completed"`
	Notes       string     `json:"notes"`
	CoverColor  string     `json:"coverColor"`
	DateAdded   time.Time  `json:"dateAdded"`
}

// ReadingSession is a fine-grained log entry for time spent on a book.
type ReadingSession struct {
	ID        string    `json:"id" validate:"required"`
	BookID    string    `json:"bookId" validate:"required"`
	Date      time.Time `json:"date"`
	PagesRead int       `json:"pagesRead" validate:"min=0"`
	Duration  int       `json:"duration" validate:"min=0"` // minutes
	Notes     string    `json:"notes"`
}

// ReadingStreak counts consecutive calendar days with at least one completed book.
// LongestStreak is always >= CurrentStreak.
type ReadingStreak struct {
	CurrentStreak int   `json:"currentStreak"`
	LongestStreak int   `json:"longestStreak"`
	LastReadDate  *Date `json:"lastReadDate"`
}

// Stats is a derived, read-only snapshot of the library.
type Stats struct {
	TotalBooks     int           `json:"totalBooks"`
	BooksCompleted int           `json:"booksCompleted"`
	BooksReading   int           `json:"booksReading"`
	TotalPagesRead int           `json:"totalPagesRead"`
	AverageRating  float64       `json:"averageRating"`
	ReadingStreak  ReadingStreak `json:"readingStreak"`
}
