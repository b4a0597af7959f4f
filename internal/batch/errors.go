package batch

import "errors"

var (
	// ErrNotFound indicates a batch run was not found for the session.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a bad upload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingColumns matches any *MissingColumnsError.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrEmptyBatch indicates an upload with a header but no data rows.
	ErrEmptyBatch = errors.New("batch has no rows")
)
