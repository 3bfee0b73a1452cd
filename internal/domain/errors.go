package domain

import "errors"

// Sentinel errors forming the closed status taxonomy for the clearing
// subsystem. Every public operation reports failure through one of these
// (possibly wrapped with context); there is no exception-style control
// flow. The handler layer maps these to HTTP status codes.
var (
	ErrInvalidArgument = errors.New("invalid_argument")
	ErrDuplicateID     = errors.New("duplicate_id")
	ErrNotFound        = errors.New("not_found")
	ErrNotImplemented  = errors.New("not_implemented")
	ErrOverflow        = errors.New("overflow")
	ErrInsufficient    = errors.New("insufficient")
	ErrInternal        = errors.New("internal")
)

// ValidationError carries a human-readable description of a request
// validation failure. It wraps ErrInvalidArgument so callers can branch
// on the sentinel while still logging the detail.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, ErrInvalidArgument) hold for validation errors.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}
