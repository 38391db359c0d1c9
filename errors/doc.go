// Package errors defines the error taxonomy of the sequence engine.
// Every error raised by the engine is an *AppError carrying a machine-readable
// ErrorCode, so callers can branch with errors.Is against the exported sentinels
// or with HasCode.
package errors
