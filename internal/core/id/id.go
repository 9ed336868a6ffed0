// Package id generates row identifiers and human-readable document codes.
package id

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID identifies stock movement lines and audit entries.
type ID = uuid.UUID

// New returns a time-ordered UUIDv7, falling back to v4 if the clock source fails.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// IsNil reports whether v is the zero UUID.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Timestamped builds PREFIX-YYYYMMDD-HHMMSSffffff from t (microsecond resolution).
// Sale codes use it; collisions within the same microsecond are resolved by the caller.
func Timestamped(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s%06d", prefix, t.Format("20060102-150405"), t.Nanosecond()/1000)
}
