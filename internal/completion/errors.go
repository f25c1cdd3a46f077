package completion

import (
	"errors"
	"fmt"
)

// Error kinds, as reported by Kind and used in log fields.
const (
	KindTransport = "transport"
	KindService   = "service"
	KindParse     = "parse"
)

// ParseFailure is the message carried by every ParseError.
const ParseFailure = "Failed to parse LLM response as JSON"

// TransportError means the request never produced an HTTP response: connection refused,
// DNS failure, timeout or cancellation. Its message is the underlying error's.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Kind() string  { return KindTransport }

// ServiceError means the completion service answered with a non-2xx status.
type ServiceError struct {
	Provider   string
	StatusCode int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Provider, e.StatusCode)
}

func (e *ServiceError) Kind() string { return KindService }

// ParseError means the response envelope or the generated text was not the expected JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return ParseFailure }
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Kind() string  { return KindParse }

// Kind returns the kind of a completion error, or "unknown".
func Kind(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return "unknown"
}
