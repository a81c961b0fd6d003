// Package uid provides identifier generators behind small interfaces so
// business code can be tested with deterministic IDs.
package uid

// NumberID generates numeric identifiers (database primary keys).
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers (correlation IDs, lock tokens).
type StringID interface {
	Generate() string
}
