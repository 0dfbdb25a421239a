// Package httppush implements a jsonrpc2.Transport that POSTs responses to a
// peer's HTTP endpoint, for callback-style deployments where the peer is
// reachable over HTTP but the response can't ride on its original request.
package httppush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

const httpContentType = "application/json"

// HTTPStatusError is used when the peer answers with a non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (err HTTPStatusError) Error() string {
	return fmt.Sprintf("bad status code: %d", err.StatusCode)
}

var _ jsonrpc2.Transport = &Transport{}

// Transport posts each send as one HTTP request to Endpoint.
type Transport struct {
	// Endpoint is the HTTP URL that receives responses.
	Endpoint string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Header is added to every request (optional).
	Header http.Header
	// Timeout bounds each POST (optional).
	Timeout time.Duration
}

func (t *Transport) post(v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindSerialization, t, err)
	}

	ctx := context.Background()
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	req, err := http.NewRequest(http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindTransport, t, err)
	}
	for k, values := range t.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", httpContentType)
	req = req.WithContext(ctx)

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		kind := jsonrpc2.ErrKindTransport
		if ctx.Err() == context.DeadlineExceeded {
			kind = jsonrpc2.ErrKindTimeout
		}
		return jsonrpc2.NewTransportError(kind, t, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	io.Copy(ioutil.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindTransport, t, HTTPStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}
	return nil
}

func (t *Transport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.post(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Transport) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	if len(resps) == 0 {
		return []*jsonrpc2.Response{}, nil
	}
	if err := t.post(resps); err != nil {
		return nil, err
	}
	return resps, nil
}

func (t *Transport) DescribeEndpoint(w io.Writer) {
	io.WriteString(w, t.Endpoint)
}
