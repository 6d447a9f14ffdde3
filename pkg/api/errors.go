package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout marks a request that was aborted by its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrUnreachable marks a transport failure before any HTTP response,
	// such as a refused connection or failed DNS lookup.
	ErrUnreachable = errors.New("backend unreachable")
)

// HTTPError is an HTTP response outside the success range, regardless of
// whether a JSON body was present.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend returned HTTP %d", e.Status)
}

// AppError is a well-formed {success:false, error} envelope from the backend.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// IsTransport reports whether err is a transport-level failure (timeout,
// unreachable, or bad HTTP status) as opposed to an application error.
func IsTransport(err error) bool {
	var httpErr *HTTPError
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnreachable) || errors.As(err, &httpErr)
}
