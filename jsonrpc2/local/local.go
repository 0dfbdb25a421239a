// Package local implements an in-process jsonrpc2.Transport over a Go channel.
// It's like a network transport, but without the wire.
package local

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// Delivery is what a receiver gets for each send.
type Delivery struct {
	Responses []*jsonrpc2.Response
	Batch     bool
}

var _ jsonrpc2.Transport = &Transport{}

// Transport hands responses to a receiver in the same process. Sends block
// until the delivery is received or the transport is closed.
type Transport struct {
	name      string
	ch        chan Delivery
	done      chan struct{}
	closeOnce sync.Once
}

// New returns a Transport with the given name and channel buffer size.
func New(name string, buffer int) *Transport {
	return &Transport{
		name: name,
		ch:   make(chan Delivery, buffer),
		done: make(chan struct{}),
	}
}

func (t *Transport) deliver(d Delivery) error {
	// Closed takes precedence over free buffer space.
	select {
	case <-t.done:
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindClosed, t, jsonrpc2.ErrTransportClosed)
	default:
	}
	select {
	case t.ch <- d:
		return nil
	case <-t.done:
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindClosed, t, jsonrpc2.ErrTransportClosed)
	}
}

func (t *Transport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.deliver(Delivery{Responses: []*jsonrpc2.Response{resp}}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Transport) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	if len(resps) == 0 {
		return []*jsonrpc2.Response{}, nil
	}
	batch := make([]*jsonrpc2.Response, len(resps))
	copy(batch, resps)
	if err := t.deliver(Delivery{Responses: batch, Batch: true}); err != nil {
		return nil, err
	}
	return resps, nil
}

func (t *Transport) DescribeEndpoint(w io.Writer) {
	fmt.Fprintf(w, "local://%s", t.name)
}

// Recv blocks until a delivery is available, the context is done, or the
// transport is closed.
func (t *Transport) Recv(ctx context.Context) (Delivery, error) {
	select {
	case d := <-t.ch:
		return d, nil
	case <-ctx.Done():
		return Delivery{}, ctx.Err()
	case <-t.done:
		// Drain anything buffered before reporting closed.
		select {
		case d := <-t.ch:
			return d, nil
		default:
		}
		return Delivery{}, jsonrpc2.ErrTransportClosed
	}
}

// Close unblocks pending senders and receivers. Buffered deliveries can still
// be received.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
	})
	return nil
}
