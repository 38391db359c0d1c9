package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Data-dependent errors, raised when a chain is consumed.
const (
	// ErrCodeEmptyResult indicates no qualifying item was found and no default was given.
	ErrCodeEmptyResult ErrorCode = "EMPTY_RESULT"
	// ErrCodeMultiplicityViolation indicates more than one item matched where at most one was expected.
	ErrCodeMultiplicityViolation ErrorCode = "MULTIPLICITY_VIOLATION"
	// ErrCodeElementNotFound indicates an index or key lookup fell outside the sequence.
	ErrCodeElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"
	// ErrCodeInsufficientElements indicates the sequence holds fewer items than requested.
	ErrCodeInsufficientElements ErrorCode = "INSUFFICIENT_ELEMENTS"
)

// Argument and capability errors, raised by the call that receives them.
const (
	// ErrCodeInvalidArgument indicates a malformed argument or classifier result.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUnsupportedOperation indicates the source lacks a capability the operator needs.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
)

var dataDependentCodes = map[ErrorCode]bool{
	ErrCodeEmptyResult:           true,
	ErrCodeMultiplicityViolation: true,
	ErrCodeElementNotFound:       true,
	ErrCodeInsufficientElements:  true,
	ErrCodeInvalidArgument:       false,
	ErrCodeUnsupportedOperation:  false,
}

// IsDataDependentCode returns true if the code is only known once items are pulled.
func IsDataDependentCode(code ErrorCode) bool {
	return dataDependentCodes[code]
}
