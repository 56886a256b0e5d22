package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Validation failures raised at the boundary of a single call. None of them
// are transient; callers surface them as-is.
var (
	// ErrInvalidUnitConfiguration: unit parameters out of range or a pattern
	// that does not compile.
	ErrInvalidUnitConfiguration = errors.New("invalid unit configuration")

	// ErrSchemaMismatch: a named column is absent, has the wrong kind, or an
	// output column would clash with an existing one.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDuplicateKey: more than one row lands on a key that must be unique.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnknownLexicon: stopword source or sentiment lexicon not registered.
	ErrUnknownLexicon = errors.New("unknown lexicon")

	// ErrIndexOutOfRange: a matrix cell references a row or column outside
	// its index.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDimensionMismatch: model matrices disagree with the document or
	// term index.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
