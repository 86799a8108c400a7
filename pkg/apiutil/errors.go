package apiutil

import "fmt"

// RequestError is the single error kind returned by the request gateway.
// Transport failures, non-2xx statuses, JSON parse failures and anything
// unexpected all collapse into it; the message states the actual cause.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func requestErrorf(err error, format string, args ...any) *RequestError {
	return &RequestError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// ValidationError reports a payload that does not match the expected
// response schema. It carries the offending payload for diagnosis.
type ValidationError struct {
	Payload map[string]any
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("error validating response received from service: %v: %v", e.Payload, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
