package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidEncoding indicates that an imported file is not valid UTF-8.
// Import errors are whole-file: nothing of the import is applied.
var ErrInvalidEncoding = errors.New("file content is not valid UTF-8")

// ErrUnparsableFile indicates that an imported file has no usable content
// (no header line, no data rows).
var ErrUnparsableFile = errors.New("file content is not a parsable statement")
