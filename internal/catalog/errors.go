package catalog

import "errors"

var (
	// ErrBookNotFound indicates the ISBN has not been cataloged locally.
	ErrBookNotFound = errors.New("book not found in catalog")

	// ErrExternalRecordNotFound indicates the provider confirmed the ISBN does not exist.
	ErrExternalRecordNotFound = errors.New("isbn not found at external catalog")

	// ErrExternalSourceUnavailable indicates the provider could not be checked.
	ErrExternalSourceUnavailable = errors.New("external catalog unavailable")

	ErrInvalidISBN = errors.New("invalid ISBN")
)
