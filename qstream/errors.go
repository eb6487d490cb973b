package qstream

import (
	"errors"
	"fmt"
	"time"
)

// Err is the base error for everything this package returns. Callers that
// don't care about the failure mode can match it with errors.Is.
var Err = errors.New("qstream")

// ConnectionError indicates the device could not be reached at all.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("qstream: connecting to %v: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{Err, e.Err}
}

// TimeoutError indicates the device did not answer within the configured
// per-call timeout.
type TimeoutError struct {
	Host    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("qstream: %v did not answer within %v", e.Host, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return Err
}

// ResponseError indicates the device answered with something the client could
// not decode. Raw holds the offending response text.
type ResponseError struct {
	Message string
	Raw     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("qstream: %v (raw response: %q)", e.Message, e.Raw)
}

func (e *ResponseError) Unwrap() error {
	return Err
}

func newResponseError(raw string, format string, args ...interface{}) *ResponseError {
	return &ResponseError{
		Message: fmt.Sprintf(format, args...),
		Raw:     raw,
	}
}
