package ical

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds returned by the parser and the value decoders. They are
// wrapped with context on the way up; match them with errors.Is or
// errors.Cause.
var (
	// ErrTruncatedInput marks a document source that could not be read
	// to completion, or input that ended before any component.
	ErrTruncatedInput = errors.New("ical: truncated input")

	// ErrMalformedContentLine marks a logical line that does not match
	// the contentline grammar: missing unquoted ":", unterminated quoted
	// parameter value, or an empty or invalid name.
	ErrMalformedContentLine = errors.New("ical: malformed content line")

	// ErrMalformedEscape marks an invalid backslash escape in a TEXT
	// value, such as a trailing lone backslash.
	ErrMalformedEscape = errors.New("ical: malformed escape sequence")

	// ErrMalformedValue marks a raw value that failed to decode as its
	// declared type.
	ErrMalformedValue = errors.New("ical: malformed value")

	// ErrMalformedBinary marks invalid base64 in a BINARY value.
	ErrMalformedBinary = errors.New("ical: malformed binary value")

	// ErrUnbalancedComponent marks an END line whose name does not match
	// the innermost open BEGIN, or content outside any component.
	ErrUnbalancedComponent = errors.New("ical: unbalanced component")

	// ErrUnclosedComponent marks input that ended with open components.
	ErrUnclosedComponent = errors.New("ical: unclosed component")

	// ErrMissingProperty is returned by Properties.Get when no entry
	// exists for the requested name.
	ErrMissingProperty = errors.New("ical: missing property")

	// ErrUnknownValueType marks an explicit VALUE= parameter naming a
	// type the decoders do not recognize.
	ErrUnknownValueType = errors.New("ical: unknown value type")
)

// A ParseError reports where in the document a parse failure happened.
// Line is the 1-based physical line number where the offending logical
// line started. Property and Raw are set when a property value failed to
// decode.
type ParseError struct {
	Line     int
	Property string
	Raw      string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("line %d: property %s: %v", e.Line, e.Property, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap supports errors.Is matching against the error kinds.
func (e *ParseError) Unwrap() error { return e.Err }

// Cause supports github.com/pkg/errors.Cause.
func (e *ParseError) Cause() error { return e.Err }
