package jsonrpc2

import (
	"io"
	"strings"
)

// Transport delivers responses to the peer of an underlying connection.
// Implementations must be safe for concurrent use.
type Transport interface {
	// SendResponse transmits a single response and returns it once sent.
	SendResponse(resp *Response) (*Response, error)
	// SendBatch transmits the responses as one batch. On success the returned
	// slice has the same length and order as the input. On failure the whole
	// batch is considered undelivered.
	SendBatch(resps []*Response) ([]*Response, error)
	// DescribeEndpoint writes the target of this transport (URL, socket path,
	// peer address) for diagnostics. It must not block on I/O.
	DescribeEndpoint(w io.Writer)
}

// Endpoint renders the endpoint description of a transport.
func Endpoint(t Transport) string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	t.DescribeEndpoint(&sb)
	return sb.String()
}

// Middleware decorates a Transport.
type Middleware func(Transport) Transport
