package storage

import "errors"

// Error taxonomy for store operations. Callers match with errors.Is.
var (
	// ErrUnavailable means the persistence layer could not be reached or
	// opened. Fatal to the operation; no retry is built in.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrWriteFailed means a statement failed mid-transaction. The
	// enclosing transaction is rolled back, so prior durable state is
	// unchanged.
	ErrWriteFailed = errors.New("write failed")

	// ErrNotFound is returned by modify operations given an unknown
	// account id. Deletes are idempotent no-ops instead, and reads return
	// empty results.
	ErrNotFound = errors.New("not found")
)
