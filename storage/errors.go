package storage

import "errors"

// Common storage errors.
var (
	// ErrContentConflict is returned by a write-once publish when the file
	// already exists with different bytes.
	ErrContentConflict = errors.New("existing file content differs")

	// ErrInvalidName is returned for an empty file name or one that escapes
	// the target directory.
	ErrInvalidName = errors.New("invalid file name")
)
