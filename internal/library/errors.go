package library

import (
	"errors"
	"fmt"
)

var (
	errNilClient = errors.New("client is nil")

	// ErrInvalidChatMessage is returned by SendChat before any request is
	// made when the message is blank or longer than MaxChatMessageLength.
	ErrInvalidChatMessage = errors.New("message must be non-empty and at most 500 characters")
)

// RequestError is the single failure kind of the gateway. It covers transport
// failures, non-2xx responses and undecodable bodies alike; callers should
// treat any RequestError as "operation did not complete".
type RequestError struct {
	Op     string // gateway operation, e.g. "borrows.create"
	Status int    // HTTP status, zero when no response was received
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsRequestError reports whether err wraps a *RequestError.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
