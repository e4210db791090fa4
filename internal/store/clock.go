package store

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Clock abstracts time retrieval so backend logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// NanoIDGenerator produces URL-safe nanoid identifiers.
type NanoIDGenerator struct{}

func (NanoIDGenerator) New() string { return GenerateID() }

// GenerateID returns a new unique identifier for locally created entities.
func GenerateID() string {
	return gonanoid.Must()
}
