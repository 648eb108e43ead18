package utils

import "errors"

// Common application errors used across services.
var (
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrInvalidQuantity    = errors.New("INVALID_QUANTITY")
	ErrEmptyCart          = errors.New("EMPTY_CART")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrUnsupportedImage   = errors.New("UNSUPPORTED_IMAGE")
	ErrImageTooLarge      = errors.New("IMAGE_TOO_LARGE")
	ErrAssistantDisabled  = errors.New("ASSISTANT_DISABLED")
)

// ValidationError is a form validation failure carrying the inline message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
