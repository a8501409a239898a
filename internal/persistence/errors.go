package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrUnavailable is returned when the underlying store cannot be reached.
	// Callers are expected to keep their in-memory state authoritative and
	// continue in a non-durable session.
	ErrUnavailable = errors.New("persistence: store unavailable")
)
