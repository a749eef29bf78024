// Package uid generates identifiers.
package uid

import "github.com/google/uuid"

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered UUIDv7 strings, used as request correlation ids.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a UUIDv7, or a random UUIDv4 if the clock source fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
