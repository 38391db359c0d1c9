package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified engine error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is comparisons. Matching is by code only.
var (
	ErrEmptyResult           = &AppError{Code: ErrCodeEmptyResult}
	ErrMultiplicityViolation = &AppError{Code: ErrCodeMultiplicityViolation}
	ErrElementNotFound       = &AppError{Code: ErrCodeElementNotFound}
	ErrInsufficientElements  = &AppError{Code: ErrCodeInsufficientElements}
	ErrInvalidArgument       = &AppError{Code: ErrCodeInvalidArgument}
	ErrUnsupportedOperation  = &AppError{Code: ErrCodeUnsupportedOperation}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// EmptyResult creates an error for a terminal operation that found nothing to return.
func EmptyResult(op string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyResult, Message: fmt.Sprintf("%s: sequence has no qualifying items", op),
		Details: map[string]any{"operation": op},
	}
}

// MultiplicityViolation creates an error carrying the first two conflicting items.
func MultiplicityViolation(first, second any) *AppError {
	return &AppError{
		Code: ErrCodeMultiplicityViolation, Message: fmt.Sprintf("found at least two items: %v, %v", first, second),
		Details: map[string]any{"first": first, "second": second},
	}
}

// ElementNotFound creates an error for an index outside the sequence.
func ElementNotFound(index int) *AppError {
	return &AppError{
		Code: ErrCodeElementNotFound, Message: fmt.Sprintf("no element at index %d", index),
		Details: map[string]any{"index": index},
	}
}

// InsufficientElements creates an error for a request exceeding the available items.
func InsufficientElements(requested, available int) *AppError {
	return &AppError{
		Code: ErrCodeInsufficientElements, Message: fmt.Sprintf("requested %d items, only %d available", requested, available),
		Details: map[string]any{"requested": requested, "available": available},
	}
}

// InvalidArgument creates an error for a malformed argument.
func InvalidArgument(arg, reason string) *AppError {
	details := make(map[string]any)
	if arg != "" {
		details["argument"] = arg
	}
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid argument %s: %s", arg, reason),
		Details: details,
	}
}

// Unsupported creates an error for an operator the source cannot serve.
func Unsupported(op, reason string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedOperation, Message: fmt.Sprintf("%s is not supported: %s", op, reason),
		Details: map[string]any{"operation": op},
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// CodeOf returns the error code of err, or "" when err is not an AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
