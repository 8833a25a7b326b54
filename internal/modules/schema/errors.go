package schema

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicateField = errors.New("duplicate field id")
	ErrNotFound       = errors.New("field not found")
)
