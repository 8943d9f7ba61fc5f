package machine

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity. The version suffix
// leaves room for algorithm migration without colliding with old hashes.
const (
	DomainTable  = "tapir/table/v1"
	DomainConfig = "tapir/config/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TableHash computes the content-addressed identity of a transition table
// from its canonical rendering (declaration order, one rule per line).
// Two tables parsed from differently-formatted text hash equal when they
// carry the same rules in the same order.
func TableHash(t *Table) string {
	var data []byte
	for _, tr := range t.Transitions() {
		data = append(data, tr.String()...)
		data = append(data, '\n')
	}
	return hashWithDomain(DomainTable, data)
}

// ConfigHash computes the identity of a machine configuration
// (state, head position, materialized tape) for loop detection.
// An exact repeat of a configuration proves the machine will never halt.
func ConfigHash(state State, head int, tape *Tape) (string, error) {
	data, err := MarshalCanonical(map[string]any{
		"state": string(state),
		"head":  head,
		"tape":  tape.String(),
	})
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainConfig, data), nil
}
