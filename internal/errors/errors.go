package errors

import "fmt"

// Sentinel errors shared across services and handlers.
var (
	// ErrNotFound indicates the requested row does not exist (or is
	// soft-deleted).
	ErrNotFound = fmt.Errorf("not found")

	// ErrUnauthenticated indicates no identity could be resolved for the
	// caller. Nothing is read or written when this is returned.
	ErrUnauthenticated = fmt.Errorf("authentication required")

	// ErrEmptyCart indicates the buyer's cart holds no purchasable
	// (active-listing) lines at the moment of checkout.
	ErrEmptyCart = fmt.Errorf("no purchasable items in cart")
)

// ValidationError reports a malformed or missing request field. It always
// fails the operation before any write.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
