package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var ErrNoActor = errors.New("you must be logged in to perform this action")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldError is a shortcut for a ValidationError on a single field, whose message is the error's.
func NewFieldError(field string, err error) error {
	return NewValidationError(err, FieldError{Field: field, Error: err.Error()})
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldsMap returns {field: error}.
func (err ValidationError) FieldsMap() map[string]string {
	fields := make(map[string]string, len(err.Fields))
	for _, fe := range err.Fields {
		fields[fe.Field] = fe.Error
	}
	return fields
}

// AsValidationError returns the *ValidationError err is caused by.
// validator.ValidationErrors are translated into one.
func AsValidationError(err error) (*ValidationError, bool) {
	switch e := errors.Cause(err).(type) {
	case *ValidationError:
		return e, true
	case validator.ValidationErrors:
		return &ValidationError{Err: e, Fields: TranslateValidationErrors(e)}, true
	}
	return nil, false
}

func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

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
