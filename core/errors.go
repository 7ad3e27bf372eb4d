package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific request field.
// Shape mirrors what API clients expect: one object per failing field.
type FieldError struct {
	Location string      `json:"location"`
	Param    string      `json:"param"`
	Msg      string      `json:"msg"`
	Value    interface{} `json:"value,omitempty"`
}

// ValidationError aggregates all field-level (shape) errors of a request.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// BadRequestError indicates that a referenced entity exists but violates an
// ownership/state/consistency rule, or that a write did not match any row.
type BadRequestError struct {
	message string
}

func NewBadRequestError(msg string) error {
	return &BadRequestError{message: msg}
}

func (err BadRequestError) Error() string { return err.message }

// NotFoundError indicates that a referenced entity, or the mutation target,
// does not exist under the given scope.
type NotFoundError struct {
	message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{message: msg}
}

func (err NotFoundError) Error() string { return err.message }

// ConflictError indicates a violated uniqueness constraint.
type ConflictError struct {
	message string
}

func NewConflictError(msg string) error {
	return &ConflictError{message: msg}
}

func (err ConflictError) Error() string { return err.message }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
