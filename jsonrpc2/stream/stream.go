// Package stream implements a jsonrpc2.Transport that writes newline-delimited
// JSON over any io.Writer, such as a Unix socket, a TCP connection, or stdio.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// ErrWriteOnly is returned when reading requests from a transport that was
// created around a plain io.Writer.
var ErrWriteOnly = errors.New("transport is write-only")

var _ jsonrpc2.Transport = &Transport{}

// Transport writes one JSON value per line. A batch is a single JSON array
// written with a single Write call.
type Transport struct {
	endpoint string

	muWrite sync.Mutex
	w       io.Writer
	closed  bool

	muRead sync.Mutex
	dec    *json.Decoder
}

// New returns a Transport writing to w. If w is also an io.Reader, requests
// can be read with ReadRequests. If w is an io.Closer, Close closes it.
func New(w io.Writer, endpoint string) *Transport {
	t := &Transport{
		endpoint: endpoint,
		w:        w,
	}
	if r, ok := w.(io.Reader); ok {
		t.dec = json.NewDecoder(r)
	}
	return t
}

// FromConn returns a Transport over an established connection. The endpoint
// is the remote address of the connection.
func FromConn(conn net.Conn) *Transport {
	addr := conn.RemoteAddr()
	return New(conn, fmt.Sprintf("%s://%s", addr.Network(), addr.String()))
}

// Dial connects to the address on the named network (e.g. "unix", "tcp").
func Dial(ctx context.Context, network, address string) (*Transport, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return New(conn, fmt.Sprintf("%s://%s", network, address)), nil
}

func (t *Transport) write(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindSerialization, t, err)
	}
	payload = append(payload, '\n')

	t.muWrite.Lock()
	defer t.muWrite.Unlock()
	if t.closed {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindClosed, t, jsonrpc2.ErrTransportClosed)
	}
	if _, err := t.w.Write(payload); err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindTransport, t, err)
	}
	return nil
}

func (t *Transport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.write(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Transport) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	if len(resps) == 0 {
		return []*jsonrpc2.Response{}, nil
	}
	if err := t.write(resps); err != nil {
		return nil, err
	}
	return resps, nil
}

func (t *Transport) DescribeEndpoint(w io.Writer) {
	io.WriteString(w, t.endpoint)
}

// ReadRequests blocks until the next request or batch of requests is read.
func (t *Transport) ReadRequests() ([]*jsonrpc2.Request, bool, error) {
	if t.dec == nil {
		return nil, false, ErrWriteOnly
	}
	t.muRead.Lock()
	defer t.muRead.Unlock()

	var raw json.RawMessage
	if err := t.dec.Decode(&raw); err != nil {
		return nil, false, err
	}
	return jsonrpc2.DecodeRequests(raw)
}

// Close marks the transport as closed and closes the underlying writer if it
// is an io.Closer. Subsequent sends fail with jsonrpc2.ErrTransportClosed.
func (t *Transport) Close() error {
	t.muWrite.Lock()
	defer t.muWrite.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
