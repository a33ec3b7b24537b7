package source

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLocation is returned when no dataset location is configured.
	ErrEmptyLocation = errors.New("empty dataset location")

	// ErrBodyTooLarge is returned when a document exceeds MaxBodyBytes.
	ErrBodyTooLarge = errors.New("dataset body too large")
)

// FetchError describes a failed dataset fetch.
type FetchError struct {
	Location   string
	StatusCode int
	Err        error
}

func (fetchError *FetchError) Error() string {
	switch {
	case fetchError.Err != nil && fetchError.StatusCode != 0:
		return fmt.Sprintf("fetch %s: HTTP %d: %v", fetchError.Location, fetchError.StatusCode, fetchError.Err)
	case fetchError.Err != nil:
		return fmt.Sprintf("fetch %s: %v", fetchError.Location, fetchError.Err)
	default:
		return fmt.Sprintf("fetch %s: HTTP %d", fetchError.Location, fetchError.StatusCode)
	}
}

func (fetchError *FetchError) Unwrap() error {
	return fetchError.Err
}
