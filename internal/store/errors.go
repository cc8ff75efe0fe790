package store

import "errors"

// Sentinel errors for common storage failure conditions. Command handlers
// check these with errors.Is and map them to user-facing messages.
var (
	// ErrNotTracked indicates no versions exist for the requested name.
	ErrNotTracked = errors.New("file is not tracked")

	// ErrVersionNotFound indicates the requested version has no delta or
	// metadata file on disk.
	ErrVersionNotFound = errors.New("version not found")

	// ErrMaxVersions indicates the per-file version cap was reached; no new
	// revision is recorded.
	ErrMaxVersions = errors.New("maximum versions reached")

	// ErrNameTooLong indicates the name does not fit the fixed 256-byte
	// (null-terminated) filename field of the metadata record.
	ErrNameTooLong = errors.New("filename exceeds 255 bytes")

	// ErrMetaMalformed indicates a metadata file whose size or contents do
	// not match the fixed record layout.
	ErrMetaMalformed = errors.New("metadata record malformed")
)
