package weread

import (
	"errors"
	"fmt"
)

// ErrEmptyCookie indicates the caller supplied no usable cookie credential
var ErrEmptyCookie = errors.New("empty WeRead cookie string")

// ErrWarmup indicates the landing-page warm-up request failed; all API
// calls depend on the cookies that request sets, so the run cannot proceed
var ErrWarmup = errors.New("WeRead landing page unreachable")

// ErrNoNotebooks indicates the notebook list could not be fetched after all
// retry attempts, or the account has no annotated books
var ErrNoNotebooks = errors.New("could not fetch the notebook list; the cookie may have expired")

// ServerError represents a 5xx error from the WeRead API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("WeRead server error: HTTP %d", e.StatusCode)
}
