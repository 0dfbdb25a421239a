package middleware

import (
	"errors"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// ErrSendTimeout is wrapped in a timeout jsonrpc2.TransportError when a send
// does not complete within the Timeout duration.
var ErrSendTimeout = errors.New("send timed out")

// Timeout fails sends that take longer than d. Transports have no way to be
// cancelled, so the abandoned send keeps running in the background and its
// outcome is discarded.
func Timeout(d time.Duration) jsonrpc2.Middleware {
	return func(next jsonrpc2.Transport) jsonrpc2.Transport {
		return &timeout{Transport: next, d: d}
	}
}

type timeout struct {
	jsonrpc2.Transport
	d time.Duration
}

type sendResult struct {
	resps []*jsonrpc2.Response
	err   error
}

func (t *timeout) wait(send func() sendResult) sendResult {
	done := make(chan sendResult, 1)
	go func() {
		done <- send()
	}()

	timer := time.NewTimer(t.d)
	defer timer.Stop()

	select {
	case r := <-done:
		return r
	case <-timer.C:
		return sendResult{err: jsonrpc2.NewTransportError(jsonrpc2.ErrKindTimeout, t, ErrSendTimeout)}
	}
}

func (t *timeout) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	r := t.wait(func() sendResult {
		sent, err := t.Transport.SendResponse(resp)
		return sendResult{[]*jsonrpc2.Response{sent}, err}
	})
	if r.err != nil {
		return nil, r.err
	}
	return r.resps[0], nil
}

func (t *timeout) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	r := t.wait(func() sendResult {
		sent, err := t.Transport.SendBatch(resps)
		return sendResult{sent, err}
	})
	return r.resps, r.err
}
