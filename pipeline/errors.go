package pipeline

import (
	"github.com/kbukum/seqkit/errors"
)

func invalidNil(arg string) *errors.AppError {
	return errors.InvalidArgument(arg, "must not be nil")
}

func unsupportedInfinite(op string) *errors.AppError {
	return errors.Unsupported(op, "the source is infinite and would never be exhausted")
}

// guardFinite rejects sequences known to be infinite before op materialises them.
func guardFinite[T any](op string, s Sequence[T]) error {
	if isUnbounded(s) {
		return unsupportedInfinite(op)
	}
	return nil
}
