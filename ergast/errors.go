package ergast

import (
	"errors"
	"fmt"
)

// RateLimitError means the provider refused the request volume (HTTP 429)
// and the retry budget is spent. Callers distinguish it from transport
// failures to decide between serving stale data, surfacing a retry message,
// or dropping just that dataset.
type RateLimitError struct {
	Endpoint string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by provider: %s", e.Endpoint)
}

// FetchError covers every other transport or server failure. Callers default
// to treating the dataset as unavailable rather than failing the whole view.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.Endpoint, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsRateLimit reports whether err is (or wraps) a rate-limit failure.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
