// Package errors provides the classified error primitives used across headmeta.
//
// Errors carry a category (what kind of failure), a severity (how bad) and a
// free-form context map. The CLI adapter turns them into exit codes and log
// records.
//
// Example usage:
//
//	err := errors.WrapError(ErrInvalidDate, errors.CategoryValidation, "invalid date").
//		WithContext("field", "published").
//		WithContext("value", raw).
//		Build()
package errors
