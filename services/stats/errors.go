package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is returned when the stats API could not be reached
	ErrUnreachable = errors.New("stats API unreachable")

	// ErrInvalidResponse is returned for non-2xx statuses, malformed payloads
	// and payloads without a true success flag
	ErrInvalidResponse = errors.New("invalid stats API response")
)

// FetchError describes a failed fetch of one endpoint
type FetchError struct {
	Endpoint string
	Kind     error // ErrUnreachable or ErrInvalidResponse
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Endpoint, e.Kind, e.Err)
}

// Is lets errors.Is match the sentinel kind
func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func unreachable(endpoint string, err error) error {
	return &FetchError{Endpoint: endpoint, Kind: ErrUnreachable, Err: err}
}

func invalid(endpoint string, err error) error {
	return &FetchError{Endpoint: endpoint, Kind: ErrInvalidResponse, Err: err}
}
