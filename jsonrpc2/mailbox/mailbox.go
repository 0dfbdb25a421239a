// Package mailbox implements a store-and-forward jsonrpc2.Transport. Sends
// are queued in a Store, and delivered later with Drain or Forward, such as
// when a disconnected peer comes back.
package mailbox

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// drainChunk is the number of envelopes loaded from the store at a time.
const drainChunk = 64

var _ jsonrpc2.Transport = &Transport{}

// Transport queues every send as one Envelope. A send succeeds once the
// envelope is stored, not when it is delivered.
type Transport struct {
	name  string
	store Store
	now   func() time.Time
}

// New returns a mailbox Transport named name backed by store.
func New(name string, store Store) *Transport {
	return &Transport{
		name:  name,
		store: store,
		now:   time.Now,
	}
}

func (t *Transport) queue(env *Envelope) error {
	env.Queued = t.now()
	if err := t.store.Append(env); err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindTransport, t, err)
	}
	return nil
}

func (t *Transport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.queue(&Envelope{Responses: []*jsonrpc2.Response{resp}}); err != nil {
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
	if err := t.queue(&Envelope{Responses: batch, Batch: true}); err != nil {
		return nil, err
	}
	return resps, nil
}

func (t *Transport) DescribeEndpoint(w io.Writer) {
	fmt.Fprintf(w, "mailbox://%s", t.name)
}

// Drain calls deliver for each queued envelope in order, and acks it once
// deliver succeeds. It stops at the first delivery error, leaving that
// envelope queued, and returns the number of envelopes delivered.
func (t *Transport) Drain(ctx context.Context, deliver func(Envelope) error) (int, error) {
	delivered := 0
	for {
		pending, err := t.store.Pending(drainChunk)
		if err != nil {
			return delivered, err
		}
		if len(pending) == 0 {
			break
		}
		for _, env := range pending {
			if err := ctx.Err(); err != nil {
				return delivered, err
			}
			if err := deliver(env); err != nil {
				logger.Printf("Drain(%s): delivery of envelope %d failed: %s", t.name, env.Seq, err)
				return delivered, err
			}
			if err := t.store.Ack(env.Seq); err != nil {
				return delivered, err
			}
			delivered++
		}
	}
	if delivered > 0 {
		logger.Printf("Drain(%s): delivered %d envelopes", t.name, delivered)
	}
	return delivered, nil
}

// Forward drains the mailbox into another transport, preserving whether each
// envelope was sent as a batch.
func (t *Transport) Forward(ctx context.Context, dst jsonrpc2.Transport) (int, error) {
	return t.Drain(ctx, func(env Envelope) error {
		if env.Batch {
			_, err := dst.SendBatch(env.Responses)
			return err
		}
		for _, resp := range env.Responses {
			if _, err := dst.SendResponse(resp); err != nil {
				return err
			}
		}
		return nil
	})
}
