package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidEAN = errors.New("invalid ean")
)

// UpstreamSourceError wraps an unexpected failure of a source adapter lookup.
// It is surfaced to the caller as-is; no retry happens at the pipeline level.
type UpstreamSourceError struct {
	Adapter string
	Err     error
}

func (e *UpstreamSourceError) Error() string {
	return fmt.Sprintf("source adapter %q: %v", e.Adapter, e.Err)
}

func (e *UpstreamSourceError) Unwrap() error {
	return e.Err
}
