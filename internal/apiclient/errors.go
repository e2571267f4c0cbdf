package apiclient

import "errors"

// ErrorKind classifies a request failure.
type ErrorKind string

const (
	// KindTransport covers network-level failures: unreachable host, DNS,
	// timeout, or a body that could not be read.
	KindTransport ErrorKind = "transport"

	// KindApplication covers a completed exchange that the server rejected
	// with a non-2xx status.
	KindApplication ErrorKind = "application"

	// KindParse covers a response body that is not valid JSON, or a body
	// whose shape fails validation at a typed boundary.
	KindParse ErrorKind = "parse"

	// KindSerialize covers a request payload that could not be serialized.
	KindSerialize ErrorKind = "serialize"
)

// FallbackMessage is the application-error message used when the server's
// response body carries no "error" field of its own.
const FallbackMessage = "API request failed"

// RequestError is the single failure type surfaced by the client. Message is
// always suitable for showing to a user; Err preserves the underlying cause
// for errors.Is/As chains.
type RequestError struct {
	Kind    ErrorKind
	Message string
	Status  int // HTTP status for application errors, 0 otherwise
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// AsRequestError unwraps err into a *RequestError if one is in the chain.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
