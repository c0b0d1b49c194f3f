package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("not found or access denied")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleExists          = errors.New("role already exists")
	ErrRoleAlreadyAssigned = errors.New("user already has this role")
	ErrCatalogEntryExists  = errors.New("catalog entry already exists")
	ErrInvalidReference    = errors.New("referenced record does not exist")
	ErrPhotoAttached       = errors.New("photo already attached to publication")
	ErrValidation          = errors.New("validation failed")
)

// ValidationError describes a rejected input. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError reports message against field. An empty field means
// the message already names what failed.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error prefixes the message with the field name when there is one.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
