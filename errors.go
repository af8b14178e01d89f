package stzip

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a member name is not a valid
	// slash-separated path relative to the archive root.
	ErrInvalidPath = errors.New("invalid member name")

	// ErrDuplicateEntry is returned when adding a member whose name
	// collides with one already added.
	ErrDuplicateEntry = errors.New("duplicate member name")

	// ErrSealed is returned when adding to or finalizing a Writer whose
	// archive has already been finalized.
	ErrSealed = errors.New("archive already finalized")

	// ErrTruncated is returned when decoding runs past the end of the
	// buffer.
	ErrTruncated = errors.New("unexpected end of archive")

	// ErrMalformedEntry is returned when a member's headers carry a bad
	// signature or contradict each other.
	ErrMalformedEntry = errors.New("malformed member")

	// ErrNotAnArchive is returned by OpenReader when no end of central
	// directory record exists within the trailing comment window.
	ErrNotAnArchive = errors.New("end of central directory not found; most likely not a ZIP file")

	// ErrMalformedArchive is returned by OpenReader when the central
	// directory disagrees with the end of central directory record.
	ErrMalformedArchive = errors.New("malformed archive")

	// ErrChecksum is returned when a member's content does not match its
	// recorded CRC-32.
	ErrChecksum = errors.New("CRC-32 mismatch")

	// ErrUnsupportedMethod is returned when reading a member compressed
	// with any method other than store.
	ErrUnsupportedMethod = errors.New("unsupported compression method")

	// ErrTooLarge is returned when an archive outgrows what the ZIP
	// format can describe without ZIP64 extensions.
	ErrTooLarge = errors.New("archive too large for ZIP")
)

// EntryError reports the failure of a single member during ExtractAll.
type EntryError struct {
	// Name is the member's name as recorded in the archive.
	Name string
	// Err is the underlying error.
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf(`extract "%s" error: %v`, e.Name, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
