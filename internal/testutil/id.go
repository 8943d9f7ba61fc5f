// Package testutil provides deterministic test doubles.
package testutil

// FixedIDGenerator returns the same run ID every time.
//
// This enables deterministic store tests and stable assertions on
// recorded history: the same run with the same FixedIDGenerator produces
// byte-identical rows.
//
// Thread-safety: stateless, safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed run-ID generator.
// If id is empty, Generate() returns "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements store.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
