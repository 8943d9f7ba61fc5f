package store

import "github.com/google/uuid"

// IDGenerator produces run identifiers.
// Implemented by UUIDv7Generator (production) and
// testutil.FixedIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator produces RFC 9562 UUIDv7 run IDs. UUIDv7 is
// time-ordered, so lexicographic ID order roughly matches creation order.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
// Falls back to UUIDv4 in the unlikely event v7 generation fails.
func (UUIDv7Generator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
