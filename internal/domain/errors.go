package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogLoad signals that the catalog could not be built. Fatal at
	// startup; the process must not serve traffic without a catalog.
	ErrCatalogLoad = errors.New("catalog load failed")
	// ErrEmbeddingUnavailable signals that the embedding provider could not
	// produce a vector (API error, timeout, quota). Recoverable: the caller
	// falls back to lexical scoring.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrDimensionMismatch signals a vector dimensionality mismatch.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrInvalidQuery signals empty or malformed query input, rejected
	// before any scoring work.
	ErrInvalidQuery = errors.New("invalid query")
)

// DimensionMismatchError wraps ErrDimensionMismatch with the observed and
// expected dimensions.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: got %d, want %d", ErrDimensionMismatch.Error(), e.Got, e.Want)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionMismatch creates a dimension mismatch error.
func NewDimensionMismatch(got, want int) error {
	return &DimensionMismatchError{Got: got, Want: want}
}
