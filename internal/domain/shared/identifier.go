package shared

import "sync/atomic"

// IdentifierFactory issues the human-facing sequential identifiers printed
// on documents (sales, payments, purchases). Implementations must be safe
// for concurrent use.
type IdentifierFactory interface {
	Next() int64
}

// SequentialIdentifierFactory is an in-memory factory for tests.
type SequentialIdentifierFactory struct {
	last atomic.Int64
}

// Next returns the next identifier in sequence.
func (f *SequentialIdentifierFactory) Next() int64 {
	return f.last.Add(1)
}
