package core

import (
	"fmt"
)

// StatusError is returned for responses with a non-2xx status code.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status: %s", e.Status)
	}
	return fmt.Sprintf("unexpected status: %s: %s", e.Status, e.Body)
}

// RequestError is returned once a request has failed on every attempt, it
// carries the last underlying failure.
type RequestError struct {
	Url   string
	Tries int
	Err   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed after %d tries: %s", e.Url, e.Tries, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
