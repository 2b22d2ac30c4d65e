package sqlite

// errors.go defines the usage errors this layer raises itself. Engine
// errors are never wrapped or translated by the data operations.

import (
	"errors"
)

var (
	// ErrNotOpen is returned by every data operation on a handle that
	// was never opened or has been closed.
	ErrNotOpen = errors.New("database not open")

	// ErrMissingCallback is returned by Each when no per-row callback
	// is supplied. No engine call is issued.
	ErrMissingCallback = errors.New("each requires a per-row callback")

	// ErrUnorderedRow is returned by InsertMany when a named row is
	// supplied without an explicit column list; map iteration order
	// would make the emitted column order unspecified.
	ErrUnorderedRow = errors.New("named rows require an explicit column list")

	// ErrInvalidRow is returned by the insertion builders when a row is
	// neither a positional Values nor a named Row.
	ErrInvalidRow = errors.New("row must be a positional Values or a named Row")

	// ErrNoRows is returned by InsertMany when no rows are supplied.
	ErrNoRows = errors.New("insert requires at least one row")
)
