package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
)

// stubTransport records everything it sends, or fails with err.
type stubTransport struct {
	endpoint string
	err      error

	mu      sync.Mutex
	sent    []*Response
	batches [][]*Response
}

func (t *stubTransport) SendResponse(resp *Response) (*Response, error) {
	if t.err != nil {
		return nil, t.err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, resp)
	return resp, nil
}

func (t *stubTransport) SendBatch(resps []*Response) ([]*Response, error) {
	if t.err != nil {
		return nil, t.err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.batches = append(t.batches, resps)
	out := make([]*Response, len(resps))
	copy(out, resps)
	return out, nil
}

func (t *stubTransport) DescribeEndpoint(w io.Writer) {
	io.WriteString(w, t.endpoint)
}

func assertEqualJSON(t *testing.T, a, b interface{}, format string, args ...interface{}) {
	t.Helper()

	aa, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(aa, bb) {
		prefix := fmt.Sprintf(format, args...)
		t.Errorf(prefix+"\n   got: %s\n  want: %s", aa, bb)
	}
}

func mustResult(t *testing.T, id string, v interface{}) *Response {
	t.Helper()
	resp, err := NewResult(json.RawMessage(id), v)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}
