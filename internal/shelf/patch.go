package shelf

import "time"

// OptionalTime is a patch slot for a nullable timestamp. Set distinguishes
// "leave unchanged" from "set to Value", where a nil Value clears the field.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// SetTime returns a slot that sets the field to t.
func SetTime(t time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: &t}
}

// ClearTime returns a slot that nulls the field.
func ClearTime() OptionalTime {
	return OptionalTime{Set: true}
}

// BookPatch is a partial update. Nil fields (and unset time slots) leave the
// stored value alone. The ID and DateAdded are not patchable.
type BookPatch struct {
	Title       *string
	Author      *string
	Category    *Category
	TotalPages  *int
	CurrentPage *int
	Rating      *int
	Status      *Status
	StartDate   OptionalTime
	EndDate     OptionalTime
	Notes       *string
	CoverColor  *string
}

// Ref returns a pointer to v, for building patches inline.
func Ref[T any](v T) *T {
	return &v
}

// Apply merges the patch into b field by field and returns the result.
func (p BookPatch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.TotalPages != nil {
		b.TotalPages = *p.TotalPages
	}
	if p.CurrentPage != nil {
		b.CurrentPage = *p.CurrentPage
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.StartDate.Set {
		b.StartDate = copyTime(p.StartDate.Value)
	}
	if p.EndDate.Set {
		b.EndDate = copyTime(p.EndDate.Value)
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.CoverColor != nil {
		b.CoverColor = *p.CoverColor
	}
	return b
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Category == nil &&
		p.TotalPages == nil && p.CurrentPage == nil && p.Rating == nil &&
		p.Status == nil && !p.StartDate.Set && !p.EndDate.Set &&
		p.Notes == nil && p.CoverColor == nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
