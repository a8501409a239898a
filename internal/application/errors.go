package application

import "errors"

var (
	// ErrNotFound is returned when an operation targets a booking, bed, or room
	// that does not exist or is no longer in the required state.
	ErrNotFound = errors.New("application: not found")
	// ErrCannotRemove is returned when a bed removal would violate the room's
	// constraints (single remaining bed, or last bed occupied).
	ErrCannotRemove = errors.New("application: cannot remove bed")
	// ErrPersistenceUnavailable is returned after a mutation was applied in
	// memory but could not be written through to storage. The session continues
	// with the in-memory state as the authority.
	ErrPersistenceUnavailable = errors.New("application: persistence unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
