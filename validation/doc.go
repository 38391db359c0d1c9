// Package validation checks operator arguments and engine options.
//
// It supports both struct tag validation (using the validator library) for
// option structs, and programmatic validation with error collection for
// scalar arguments. Both produce an INVALID_ARGUMENT *errors.AppError.
//
// # Struct Tag Validation
//
//	type shuffleOptions struct {
//	    BufferSize int `validate:"gte=1"`
//	}
//	err := validation.ValidateStruct(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Positive("window", window).Range("overlap", overlap, 0, window-1)
//	err := v.Error()
package validation
