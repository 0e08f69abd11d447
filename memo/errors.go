package memo

import "errors"

// Construction errors.
var (
	// ErrNilProducer indicates New was given a nil producer function.
	ErrNilProducer = errors.New("memo: producer is nil")

	// ErrInvalidMaxAge indicates Options.MaxAge is zero or negative.
	ErrInvalidMaxAge = errors.New("memo: MaxAge must be positive")

	// ErrInvalidMaxPendingAge indicates Options.MaxPendingAge is negative.
	ErrInvalidMaxPendingAge = errors.New("memo: MaxPendingAge must not be negative")

	// ErrInvalidMaxSize indicates Options.MaxSize is negative.
	ErrInvalidMaxSize = errors.New("memo: MaxSize must not be negative")
)
