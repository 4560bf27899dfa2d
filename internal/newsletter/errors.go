package newsletter

import "errors"

var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("newsletter: not found")

	// ErrPermissionDenied indicates the acting user is not the owner.
	// The HTTP layer surfaces it the same way as ErrNotFound so record
	// existence is not leaked; the distinction is kept for logging.
	ErrPermissionDenied = errors.New("newsletter: permission denied")

	// ErrInvalidInput indicates a validation failure (empty title, malformed
	// email or URL, empty recipient list on send, unknown style or tone).
	ErrInvalidInput = errors.New("newsletter: invalid input")

	// ErrAlreadySent indicates a send was attempted on a sent newsletter.
	ErrAlreadySent = errors.New("newsletter: already sent")
)
