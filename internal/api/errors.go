package api

import (
	"context"
	"errors"
	"net"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// KindValidation is raised by callers before any request is sent.
	KindValidation Kind = iota + 1
	// KindTransport covers network failures and undecodable bodies.
	KindTransport
	// KindTimeout is a transport failure caused by the client timeout or a context deadline.
	KindTimeout
	// KindServer is a non-2xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by Client operations. Message is
// ready for display: the server's detail string when one was sent, otherwise
// a fixed per-operation fallback.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status for KindServer, zero otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// ValidationError wraps a local input error so views report every failure
// through the same type.
func ValidationError(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error(), Err: err}
}

// KindOf returns the Kind of err, or zero when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
