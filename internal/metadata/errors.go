package metadata

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the provider confirmed the ISBN does not exist.
var ErrNotFound = errors.New("isbn not found at catalog provider")

// ErrUnavailable indicates the provider could not be reached or kept failing
// after every retry. It never means the ISBN is absent.
var ErrUnavailable = errors.New("catalog provider unavailable")

// ErrInvalidISBN indicates the identifier was empty after normalization.
var ErrInvalidISBN = errors.New("invalid ISBN")

// StatusError represents a non-2xx, non-404 response from the provider.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog provider error: HTTP %d", e.StatusCode)
}

// Transient reports whether a retry could plausibly succeed.
func (e *StatusError) Transient() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}
