package types

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify failures for the HTTP layer: validation failures map
// to 400, not-found to 404, everything else to 500.
var (
	TagValidation = goerr.NewTag("validation")
	TagNotFound   = goerr.NewTag("not_found")
	TagStorage    = goerr.NewTag("storage")
)

// Upload-time validation failures. All of them classify deterministically
// bad input; none are retried.
var (
	ErrEmptyArchive             = goerr.New("archive contains no files", goerr.T(TagValidation))
	ErrCorruptArchive           = goerr.New("archive is corrupt or not a ZIP file", goerr.T(TagValidation))
	ErrForbiddenContent         = goerr.New("archive contains forbidden executable content", goerr.T(TagValidation))
	ErrDisallowedExtension      = goerr.New("archive contains a file with a disallowed extension", goerr.T(TagValidation))
	ErrUncompressedSizeExceeded = goerr.New("total uncompressed size exceeds the allowed limit", goerr.T(TagValidation))
)

var (
	// ErrNotFound covers both a missing archive and an invalid or absent
	// member path. The two are deliberately indistinguishable so that a
	// prober cannot use the error as a path-validity oracle.
	ErrNotFound = goerr.New("not found", goerr.T(TagNotFound))

	// ErrInvalidStoragePath means a stored path would escape the storage
	// root. Ordinary user input can never cause it; it indicates a bug or
	// a tampered record.
	ErrInvalidStoragePath = goerr.New("storage path escapes storage root", goerr.T(TagStorage))
)

// RejectReason returns a stable label for an upload rejection, used in
// API responses and metrics.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyArchive):
		return "empty_archive"
	case errors.Is(err, ErrCorruptArchive):
		return "corrupt_archive"
	case errors.Is(err, ErrForbiddenContent):
		return "forbidden_content"
	case errors.Is(err, ErrDisallowedExtension):
		return "disallowed_extension"
	case errors.Is(err, ErrUncompressedSizeExceeded):
		return "uncompressed_size_exceeded"
	default:
		return "invalid_request"
	}
}
