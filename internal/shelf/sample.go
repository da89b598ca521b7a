package shelf

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// SampleBooks returns the starter library, dated relative to now.
func SampleBooks(now time.Time, idgen IDGenerator) []Book {
	at := func(daysAgo int) *time.Time {
		t := now.Add(-time.Duration(daysAgo) * day)
		return &t
	}

	return []Book{
		{
			ID:          idgen.New(),
			Title:       "Bhagavad Gita",
			Author:      "Vyasa",
			Category:    CategoryVedanta,
			TotalPages:  700,
			CurrentPage: 150,
			Rating:      5,
			Status:      StatusReading,
			StartDate:   at(30),
			Notes:       "The eternal dialogue between Krishna and Arjuna. Profound insights on dharma and karma.",
			CoverColor:  "#f97316",
			DateAdded:   *at(30),
		},
		{
			ID:          idgen.New(),
			Title:       "Yoga Sutras of Patanjali",
			Author:      "Patanjali",
			Category:    CategoryYoga,
			TotalPages:  195,
			CurrentPage: 195,
			Rating:      5,
			Status:      StatusCompleted,
			StartDate:   at(90),
			EndDate:     at(10),
			Notes:       "Complete guide to the eight limbs of yoga. Transformative practice.",
			CoverColor:  "#6366f1",
			DateAdded:   *at(90),
		},
		{
			ID:         idgen.New(),
			Title:      "The Upanishads",
			Author:     "Various Sages",
			Category:   CategoryVedanta,
			TotalPages: 500,
			Status:     StatusWantToRead,
			CoverColor: "#ea580c",
			DateAdded:  now,
		},
		{
			ID:          idgen.New(),
			Title:       "The Dhammapada",
			Author:      "Buddha",
			Category:    CategoryBuddhism,
			TotalPages:  423,
			CurrentPage: 200,
			Rating:      5,
			Status:      StatusReading,
			StartDate:   at(20),
			Notes:       "Collection of sayings of the Buddha. Beautiful verses on mindfulness.",
			CoverColor:  "#c2410c",
			DateAdded:   *at(20),
		},
	}
}

// SeedSampleData fills an empty library with the starter books. It reports
// whether anything was written; a library that already has books is left alone.
func (s *LibraryService) SeedSampleData() (bool, error) {
	seeded, err := s.store.SeedBooks(SampleBooks(s.clock.Now(), s.idgen))
	if err != nil {
		return false, fmt.Errorf("seeding sample data: %w", err)
	}
	if seeded {
		s.logger.Info("sample library created")
	}
	return seeded, nil
}
