// Package errors defines the coded errors zelus reports.
//
// Every failure that leaves a package carries one of the codes below. The
// engine decides from the code whether a failure disables protection
// (CONFIG, TEMPLATE), drops one routes file entry (RESOLUTION, VALIDATION)
// or stops the daemon (NETWORK, INTERNAL).
package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeConfig     ErrorCode = "CONFIG_ERROR"
	ErrCodeTemplate   ErrorCode = "TEMPLATE_ERROR"
	ErrCodeResolution ErrorCode = "RESOLUTION_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeNetwork is a failed netlink request or a lost route subscription.
	ErrCodeNetwork  ErrorCode = "NETWORK_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// exitCodes are the process exit statuses of `zelus` for each code.
var exitCodes = map[ErrorCode]int{
	ErrCodeConfig:     2,
	ErrCodeTemplate:   2,
	ErrCodeValidation: 2,
	ErrCodeResolution: 3,
	ErrCodeNetwork:    4,
	ErrCodeInternal:   1,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so callers can test
// errors.Is(err, &Error{Code: ErrCodeNetwork}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &Error{Code: code})
}

// ExitCode maps err to a process exit status: 0 for nil, 1 for uncoded
// errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := exitCodes[CodeOf(err)]; ok {
		return code
	}
	return 1
}

func wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NewConfigError reports an unreadable or malformed settings or routes file.
func NewConfigError(message string, cause error) *Error {
	return wrap(ErrCodeConfig, message, cause)
}

// NewTemplateError reports a routes file that cannot be rendered.
func NewTemplateError(message string, cause error) *Error {
	return wrap(ErrCodeTemplate, message, cause)
}

// NewResolutionError reports an unknown interface or routing table.
func NewResolutionError(message string, cause error) *Error {
	return wrap(ErrCodeResolution, message, cause)
}

func NewValidationError(message string, cause error) *Error {
	return wrap(ErrCodeValidation, message, cause)
}

// NewNetworkError reports a failed kernel operation.
func NewNetworkError(message string, cause error) *Error {
	return wrap(ErrCodeNetwork, message, cause)
}

func NewInternalError(message string, cause error) *Error {
	return wrap(ErrCodeInternal, message, cause)
}
