package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned (wrapped) when the upstream answers 404.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned (wrapped) when the upstream rate limits requests.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrUpstreamDown is returned (wrapped) for 5xx responses and open circuits.
	ErrUpstreamDown = errors.New("upstream unavailable")

	// ErrInvalidBody is returned (wrapped) when a response body cannot be decoded.
	ErrInvalidBody = errors.New("invalid response body")
)

// HTTPError represents a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrUpstreamDown
	}
	return nil
}

// RateLimitError is returned when the upstream rate limits requests.
type RateLimitError struct {
	RetryAfter int // seconds
	URL        string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %d seconds", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
