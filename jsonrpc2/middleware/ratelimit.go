package middleware

import (
	"errors"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
	"golang.org/x/time/rate"
)

// ErrRateLimited is wrapped in a throttled jsonrpc2.TransportError when a send
// is rejected by RateLimit.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimit rejects sends once the limiter runs out of tokens. Each response
// costs one token, so a batch larger than the limiter's burst is always
// rejected. Rejected sends never reach the wrapped transport.
func RateLimit(limiter *rate.Limiter) jsonrpc2.Middleware {
	return func(next jsonrpc2.Transport) jsonrpc2.Transport {
		return &rateLimit{Transport: next, limiter: limiter}
	}
}

type rateLimit struct {
	jsonrpc2.Transport
	limiter *rate.Limiter
}

func (t *rateLimit) allow(n int) error {
	if t.limiter.AllowN(time.Now(), n) {
		return nil
	}
	return jsonrpc2.NewTransportError(jsonrpc2.ErrKindThrottled, t, ErrRateLimited)
}

func (t *rateLimit) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.allow(1); err != nil {
		return nil, err
	}
	return t.Transport.SendResponse(resp)
}

func (t *rateLimit) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	if err := t.allow(len(resps)); err != nil {
		return nil, err
	}
	return t.Transport.SendBatch(resps)
}
