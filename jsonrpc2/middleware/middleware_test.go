package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/vipnode/rpcserver/jsonrpc2"
	"github.com/vipnode/rpcserver/jsonrpc2/mailbox"
)

// fakeTransport records sends, optionally failing them or blocking until
// release is closed.
type fakeTransport struct {
	err     error
	release chan struct{}

	mu    sync.Mutex
	calls []string
}

func (t *fakeTransport) record(call string) error {
	if t.release != nil {
		<-t.release
	}
	t.mu.Lock()
	t.calls = append(t.calls, call)
	t.mu.Unlock()
	return t.err
}

func (t *fakeTransport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.record(fmt.Sprintf("single:%s", resp.ID)); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *fakeTransport) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	if err := t.record(fmt.Sprintf("batch:%d", len(resps))); err != nil {
		return nil, err
	}
	return resps, nil
}

func (t *fakeTransport) DescribeEndpoint(w io.Writer) {
	io.WriteString(w, "fake://")
}

func (t *fakeTransport) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.calls...)
}

func result(t *testing.T, id string) *jsonrpc2.Response {
	t.Helper()
	resp, err := jsonrpc2.NewResult(json.RawMessage(id), "ok")
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// tag prefixes the endpoint so the nesting order is visible.
type tag struct {
	jsonrpc2.Transport
	name string
}

func (t *tag) DescribeEndpoint(w io.Writer) {
	io.WriteString(w, t.name+"+")
	t.Transport.DescribeEndpoint(w)
}

func tagged(name string) jsonrpc2.Middleware {
	return func(next jsonrpc2.Transport) jsonrpc2.Transport {
		return &tag{next, name}
	}
}

func TestChain(t *testing.T) {
	store := mailbox.MemoryStore(0)
	mw := Chain(tagged("a"), tagged("b"), tagged("c"))
	s := jsonrpc2.NewBuilder(mailbox.New("chain", store)).Use(mw, tagged("d")).Build()

	if got, want := s.Endpoint(), "a+b+c+d+mailbox://chain"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}
	if _, err := s.SendResponse(result(t, "1")); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.Len(); n != 1 {
		t.Errorf("send did not reach the innermost transport: %d queued", n)
	}

	if got, want := jsonrpc2.Endpoint(Chain()(&fakeTransport{})), "fake://"; got != want {
		t.Errorf("empty chain: got %q; want %q", got, want)
	}
}

func TestWrappersKeepEndpoint(t *testing.T) {
	m, err := Metrics(newRegistry(), "test")
	if err != nil {
		t.Fatal(err)
	}
	wrappers := map[string]jsonrpc2.Middleware{
		"logging":   Logging(&recordLogger{}),
		"ratelimit": RateLimit(nil),
		"timeout":   Timeout(0),
		"metrics":   m,
	}
	for name, mw := range wrappers {
		if got, want := jsonrpc2.Endpoint(mw(&fakeTransport{})), "fake://"; got != want {
			t.Errorf("%s: got %q; want %q", name, got, want)
		}
	}
}

func TestErrorsPassThrough(t *testing.T) {
	errFake := errors.New("fake failure")
	m, err := Metrics(newRegistry(), "test")
	if err != nil {
		t.Fatal(err)
	}
	mw := Chain(Logging(&recordLogger{}), m)
	s := jsonrpc2.NewBuilder(&fakeTransport{err: errFake}).Use(mw).Build()

	if _, err := s.SendResponse(result(t, "1")); err != errFake {
		t.Errorf("expected error to be returned unchanged, got: %v", err)
	}
	if _, err := s.SendBatch([]*jsonrpc2.Response{result(t, "1")}); err != errFake {
		t.Errorf("expected error to be returned unchanged, got: %v", err)
	}
}
