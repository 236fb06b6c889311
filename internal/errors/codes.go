// Package errors provides structured error handling for structsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Schema/configuration errors
//   - 2XX: Index IO errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates schema and configuration errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates index file I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Schema/config errors (100-199)
	ErrCodeSchemaNotFound = "ERR_101_SCHEMA_NOT_FOUND"
	ErrCodeSchemaInvalid  = "ERR_102_SCHEMA_INVALID"
	ErrCodeUnknownType    = "ERR_103_UNKNOWN_FIELD_TYPE"

	// Index IO errors (200-299)
	ErrCodeIndexOpen    = "ERR_201_INDEX_OPEN_FAILED"
	ErrCodeIndexCorrupt = "ERR_202_INDEX_CORRUPT"
	ErrCodeIndexClosed  = "ERR_203_INDEX_CLOSED"

	// Validation errors (400-499)
	ErrCodeInvalidInput  = "ERR_401_INVALID_INPUT"
	ErrCodeFlexibleArity = "ERR_402_FLEXIBLE_ARITY_MISMATCH"
	ErrCodeInvalidQuery  = "ERR_403_INVALID_QUERY"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
	ErrCodeIndexFailed  = "ERR_503_INDEX_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives severity from error code.
// Schema and corruption failures abort the operation; everything else
// is a recoverable error.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeSchemaNotFound, ErrCodeSchemaInvalid, ErrCodeIndexCorrupt:
		return SeverityFatal
	default:
		return SeverityError
	}
}
