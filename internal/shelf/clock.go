package shelf

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so streak transitions are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the local wall-clock time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Today returns the calendar day of c.Now() in the clock's location.
func Today(c Clock) Date {
	return DateOf(c.Now())
}

// IDGenerator abstracts record ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
