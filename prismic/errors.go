package prismic

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream marks every failure caused by the content API or the
	// transport to it.
	ErrUpstream = errors.New("prismic: upstream failure")
	// ErrForeignCursor is returned for cursors that do not point at the
	// configured API host.
	ErrForeignCursor = errors.New("prismic: cursor does not belong to the configured endpoint")
	// ErrNoMasterRef is returned when the API lists no master ref.
	ErrNoMasterRef = errors.New("prismic: no master ref")
)

// APIError is a non-2xx reply from the content API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("prismic: api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("prismic: api returned %d", e.StatusCode)
}

// Is makes every APIError match ErrUpstream.
func (e *APIError) Is(target error) bool {
	return target == ErrUpstream
}
