// Package googleerr classifies errors returned by Google API clients.
package googleerr

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindServer       Kind = "server"
)

// Classify maps err to a Kind. Errors that do not come from the Google API
// client are KindUnknown.
func Classify(err error) Kind {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return KindUnknown
	}

	switch apiErr.Code {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		if strings.Contains(strings.ToLower(apiErr.Message), "rate limit") {
			return KindRateLimited
		}
		return KindForbidden
	case http.StatusNotFound, http.StatusGone:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if apiErr.Code >= 500 {
		return KindServer
	}
	return KindUnknown
}

func IsNotFound(err error) bool     { return Classify(err) == KindNotFound }
func IsUnauthorized(err error) bool { return Classify(err) == KindUnauthorized }
func IsRateLimited(err error) bool  { return Classify(err) == KindRateLimited }

// Error carries the provider, the failing operation and the classified kind.
type Error struct {
	Provider string
	Op       string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return e.Provider + ": unable to " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err.
func Wrap(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Provider: provider, Op: op, Kind: Classify(err), Err: err}
}
