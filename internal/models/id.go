package models

import "github.com/google/uuid"

// NewID returns a time-ordered UUIDv7, so ordering by id follows insertion
// order. Falls back to a random v4 if the clock source fails.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
