// Package errs provides standardized error types for the field-service
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package covers the four failure categories of the order lifecycle core:
//   - Validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//   - Not found: ObjectNotFoundError
//   - Permission: PermissionDeniedError
//   - Conflict: ConflictError and OpenSessionConflictError
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is classifies against the sentinel
//
// All four categories abort the surrounding transaction entirely; no error in
// this package is ever used to signal a partially applied change.
package errs
