package core

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when no asset kind is registered under a name.
var ErrUnknownKind = errors.New("unknown asset kind")

// FailureKind classifies why a release could not be fetched.
type FailureKind string

const (
	// TransportFailure covers DNS, TLS, connection errors and non-success
	// responses from the release endpoint.
	TransportFailure FailureKind = "transport"
	// ParseFailure covers bodies that are not a release document.
	ParseFailure FailureKind = "parse"
)

// FetchError is returned by a ReleaseFetcher. Callers treat it as "no update
// this cycle"; it never reaches the end user.
type FetchError struct {
	Kind FailureKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failure fetching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransportFailure reports whether err is a FetchError of kind TransportFailure.
func IsTransportFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == TransportFailure
}

// IsParseFailure reports whether err is a FetchError of kind ParseFailure.
func IsParseFailure(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == ParseFailure
}
