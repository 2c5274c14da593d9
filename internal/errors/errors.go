package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing failures.
const (
	// ErrConfig covers missing or malformed configuration. Fatal: nothing
	// is collected when the config can't be loaded.
	ErrConfig = "CONFIG"
	// ErrConnect covers TCP-level failures reaching a host.
	ErrConnect = "CONNECT"
	// ErrAuth covers SSH handshake/authentication failures.
	ErrAuth = "AUTH"
	// ErrExec covers remote commands that couldn't run or exited non-zero.
	ErrExec = "EXEC"
	// ErrParse covers command output the collector couldn't interpret.
	ErrParse = "PARSE"
	// ErrReport covers report serialization and write failures. Fatal.
	ErrReport = "REPORT"
)

// Error represents a structured error with code, message, suggestion, and
// optional cause. Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrExec code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrExec,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface with formatted output.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// Code returns the code of a structured Error, or empty string for other errors.
func Code(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsFatal reports whether an error should abort the whole run rather than
// being downgraded to a per-host error row.
func IsFatal(err error) bool {
	return IsCode(err, ErrConfig) || IsCode(err, ErrReport)
}
