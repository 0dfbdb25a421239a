package jsonrpc2

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// Server owns a Transport and mints correlation IDs for the requests it
// originates. It is ready to use once built and safe for concurrent use.
type Server struct {
	// nonce must stay first for 64-bit atomic alignment on 32-bit platforms.
	nonce     uint64
	transport Transport
}

// NewServer returns a Server that owns the given transport. It's equivalent
// to NewBuilder(transport).Build().
func NewServer(transport Transport) *Server {
	return NewBuilder(transport).Build()
}

// NextNonce returns a fresh identifier. The first value is 1, and the counter
// wraps around to 0 after the maximum uint64.
func (s *Server) NextNonce() uint64 {
	return atomic.AddUint64(&s.nonce, 1)
}

// NewRequest returns a request originated by this server, such as a call back
// to the peer in a bidirectional protocol. Its ID is the next nonce.
func (s *Server) NewRequest(method string, params ...interface{}) (*Request, error) {
	req := &Request{
		Method:  method,
		Version: Version,
	}
	var err error
	if req.ID, err = json.Marshal(s.NextNonce()); err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if req.Params, err = json.Marshal(params); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// SendResponse validates the response and sends it over the transport.
func (s *Server) SendResponse(resp *Response) (*Response, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return s.transport.SendResponse(resp)
}

// SendBatch validates the responses and sends them over the transport as a
// single batch. An empty batch is not sent.
func (s *Server) SendBatch(resps []*Response) ([]*Response, error) {
	if len(resps) == 0 {
		return []*Response{}, nil
	}
	for i, resp := range resps {
		if err := resp.Validate(); err != nil {
			return nil, fmt.Errorf("batch response %d: %w", i, err)
		}
	}
	return s.transport.SendBatch(resps)
}

// Endpoint returns the endpoint description of the server's transport.
func (s *Server) Endpoint() string {
	return Endpoint(s.transport)
}

func (s *Server) String() string {
	return fmt.Sprintf("jsonrpc2.Server(%s)", s.Endpoint())
}
