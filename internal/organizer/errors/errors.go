package errors

import (
	"errors"
	"fmt"
)

// ValidationError is a caller-side guard failure: the operation never started,
// no local state changed and no request was made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var (
	ErrEmptyCategoryName     = NewValidationError("Category name must not be empty")
	ErrCategoryNameTooLong   = NewValidationError("Category name is too long")
	ErrUnknownPaletteColor   = NewValidationError("Category color is not in the palette")
	ErrUnknownAutoFilter     = NewValidationError("Unknown auto-filter rule")
	ErrCategoryNotFound      = NewValidationError("Category does not exist")
	ErrIncompleteOrder       = NewValidationError("Reorder must list every category exactly once")
	ErrCategoryAlreadyExists = NewValidationError("Category with this name already exists")
)

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("Validation error on %s: %s", field, msg)}
}
