package shelf

import (
	"math"
	"sort"
)

// CalculateStats aggregates books into a Stats snapshot. It is pure: the
// streak is passed through as given, never derived from the books.
//
// Pages read count totalPages for completed books and currentPage for books
// being read. Want-to-read books contribute nothing even with a nonzero
// currentPage. The average rating only considers rated (rating > 0) books
// and is 0 when there are none.
func CalculateStats(books []Book, streak ReadingStreak) Stats {
	stats := Stats{
		TotalBooks:    len(books),
		ReadingStreak: streak,
	}

	ratingSum, rated := 0, 0
	for _, b := range books {
		switch b.Status {
		case StatusCompleted:
			stats.BooksCompleted++
			stats.TotalPagesRead += b.TotalPages
		case StatusReading:
			stats.BooksReading++
			stats.TotalPagesRead += b.CurrentPage
		}

		if b.Rating > 0 {
			ratingSum += b.Rating
			rated++
		}
	}

	if rated > 0 {
		stats.AverageRating = float64(ratingSum) / float64(rated)
	}
	return stats
}

// ProgressPercentage returns current/total as a whole percentage, rounded
// half up. A zero total yields 0.
func ProgressPercentage(current, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(total) * 100))
}

// CategoryCount is one row of a category breakdown.
type CategoryCount struct {
	Category Category
	Count    int
}

// CategoryBreakdown counts books per category, largest first. Ties are
// ordered by category name. Categories with no books are omitted.
func CategoryBreakdown(books []Book) []CategoryCount {
	counts := make(map[Category]int)
	for _, b := range books {
		counts[b.Category]++
	}

	rows := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		rows = append(rows, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// StatusBreakdown counts books per status. Every status is present in the
// result, with zero counts where no book has it.
func StatusBreakdown(books []Book) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, b := range books {
		counts[b.Status]++
	}
	return counts
}
