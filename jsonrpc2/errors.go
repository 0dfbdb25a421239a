package jsonrpc2

import (
	"errors"
	"fmt"
)

// ErrTransportClosed is returned when sending over a transport that has been
// closed by its owner.
var ErrTransportClosed = errors.New("transport closed")

// ErrorKind discriminates transport failures.
type ErrorKind int

const (
	// ErrKindTransport is an I/O failure, lost connection, or a rejection by
	// the remote end.
	ErrKindTransport ErrorKind = iota + 1
	// ErrKindSerialization is a failure to encode the payload.
	ErrKindSerialization
	// ErrKindClosed is a send on a closed transport.
	ErrKindClosed
	// ErrKindTimeout is a send that did not complete in time.
	ErrKindTimeout
	// ErrKindThrottled is a send rejected by a rate limit.
	ErrKindThrottled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "transport"
	case ErrKindSerialization:
		return "serialization"
	case ErrKindClosed:
		return "closed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindThrottled:
		return "throttled"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// TransportError is returned by transports when a response could not be
// delivered.
type TransportError struct {
	Kind     ErrorKind
	Endpoint string
	Err      error
}

func (err *TransportError) Error() string {
	if err.Endpoint == "" {
		return fmt.Sprintf("%s error: %s", err.Kind, err.Err)
	}
	return fmt.Sprintf("%s error on %s: %s", err.Kind, err.Endpoint, err.Err)
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// NewTransportError wraps err with a kind and the endpoint description of t.
func NewTransportError(kind ErrorKind, t Transport, err error) *TransportError {
	return &TransportError{
		Kind:     kind,
		Endpoint: Endpoint(t),
		Err:      err,
	}
}

// KindOf returns the kind of a TransportError in err's chain, or 0 if there is
// none.
func KindOf(err error) ErrorKind {
	var terr *TransportError
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return 0
}
