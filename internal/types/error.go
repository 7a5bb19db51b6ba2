package types

import "fmt"

// Error type tags used in response bodies and logs.
const (
	ErrTypeValidation  = "validation"
	ErrTypeAuth        = "authentication"
	ErrTypeForbidden   = "authorization"
	ErrTypeNotFound    = "not_found"
	ErrTypeConflict    = "conflict"
	ErrTypeStorage     = "storage"
	ErrTypePersistence = "persistence"
	ErrTypeConfig      = "configuration"
)

// CustomError is the only error shape that reaches clients. Anything else
// is logged and collapsed to a generic 500 by the central error handler.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NewValidationError reports missing or malformed input (400).
func NewValidationError(message string) *CustomError {
	return &CustomError{Code: 400, Message: message, Type: ErrTypeValidation}
}

// NewAuthError reports a missing credential (401).
func NewAuthError(message string) *CustomError {
	return &CustomError{Code: 401, Message: message, Type: ErrTypeAuth}
}

// NewForbiddenError reports an invalid token or an ownership mismatch (403).
func NewForbiddenError(message string) *CustomError {
	return &CustomError{Code: 403, Message: message, Type: ErrTypeForbidden}
}

// NewNotFoundError reports an absent entity (404).
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: 404, Message: message, Type: ErrTypeNotFound}
}

// NewConflictError reports a duplicate unique key (409).
func NewConflictError(message string) *CustomError {
	return &CustomError{Code: 409, Message: message, Type: ErrTypeConflict}
}

// NewStorageError reports a downstream object-storage failure (500).
// The underlying cause stays server-side.
func NewStorageError(message string) *CustomError {
	return &CustomError{Code: 500, Message: message, Type: ErrTypeStorage}
}
