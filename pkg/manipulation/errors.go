package manipulation

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidOption indicates an enumerated option holds a value outside its closed set.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidParameter indicates a numeric or textual parameter violates a stated bound.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrCharset indicates an unknown charset or bytes that cannot be decoded/encoded.
	ErrCharset = errors.New("charset error")

	// ErrSkip signals that a data source contributes nothing for the current record.
	// It is not a failure and never leaves the orchestrator.
	ErrSkip = errors.New("skip source")
)

// OptionError describes a configuration value that was rejected.
type OptionError struct {
	Err   error  // ErrInvalidOption or ErrInvalidParameter
	Field string // configuration field holding the value
	Value string // offending value, rendered as text
}

func (e *OptionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s %q for %s", e.Err.Error(), e.Value, e.Field)
	}
	return fmt.Sprintf("%s %q", e.Err.Error(), e.Value)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// CharsetError wraps a failure of the encoding registry.
type CharsetError struct {
	Name  string // charset name as configured
	Cause error  // underlying codec error, may be nil for unknown charsets
}

func (e *CharsetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", ErrCharset.Error(), e.Name, e.Cause)
	}
	return fmt.Sprintf("%s: unknown charset %q", ErrCharset.Error(), e.Name)
}

func (e *CharsetError) Unwrap() error {
	return ErrCharset
}

// RecordError attributes a fatal processing error to the index of the input record.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// InvalidOption returns an OptionError for an unknown enumerated value.
func InvalidOption(field, value string) error {
	return &OptionError{Err: ErrInvalidOption, Field: field, Value: value}
}

// InvalidParameter returns an OptionError for an out-of-bounds parameter.
func InvalidParameter(field string, value interface{}) error {
	return &OptionError{Err: ErrInvalidParameter, Field: field, Value: fmt.Sprint(value)}
}

// NewCharsetError wraps cause as a CharsetError for the named charset.
func NewCharsetError(name string, cause error) error {
	return &CharsetError{Name: name, Cause: cause}
}
