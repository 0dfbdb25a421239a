package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
	"github.com/vipnode/rpcserver/jsonrpc2/local"
)

func result(t *testing.T, id string, v interface{}) *jsonrpc2.Response {
	t.Helper()
	resp, err := jsonrpc2.NewResult(json.RawMessage(id), v)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestMailboxForward(t *testing.T) {
	store := MemoryStore(0)
	transport := New("peer-1", store)
	queued := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	transport.now = func() time.Time { return queued }

	s := jsonrpc2.NewServer(transport)
	if got, want := s.Endpoint(), "mailbox://peer-1"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	if _, err := s.SendResponse(result(t, "1", "Apple")); err != nil {
		t.Fatal(err)
	}
	batch := []*jsonrpc2.Response{result(t, "2", "Banana"), result(t, "3", "Cherry")}
	if _, err := s.SendBatch(batch); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.Len(); n != 2 {
		t.Fatalf("got %d queued envelopes; want 2", n)
	}

	dst := local.New("peer-1", 2)
	n, err := transport.Forward(context.Background(), dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("got %d forwarded; want 2", n)
	}

	d, err := dst.Recv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.Batch || string(d.Responses[0].ID) != "1" {
		t.Errorf("wrong first delivery: %+v", d)
	}
	d, err = dst.Recv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !d.Batch || len(d.Responses) != 2 || string(d.Responses[1].ID) != "3" {
		t.Errorf("wrong second delivery: %+v", d)
	}
	if n, _ := store.Len(); n != 0 {
		t.Errorf("forwarded envelopes were not acked: %d", n)
	}
}

func TestMailboxDrainFailure(t *testing.T) {
	store := MemoryStore(0)
	transport := New("peer-2", store)
	for _, id := range []string{"1", "2", "3"} {
		if _, err := transport.SendResponse(result(t, id, id)); err != nil {
			t.Fatal(err)
		}
	}

	failure := errors.New("peer went away")
	calls := 0
	n, err := transport.Drain(context.Background(), func(env Envelope) error {
		calls++
		if calls == 2 {
			return failure
		}
		return nil
	})
	if err != failure {
		t.Errorf("got: %v; want %v", err, failure)
	}
	if n != 1 {
		t.Errorf("got %d delivered; want 1", n)
	}
	pending, _ := store.Pending(0)
	if len(pending) != 2 || string(pending[0].Responses[0].ID) != "2" {
		t.Errorf("failed envelope was not kept: %v", pending)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := transport.Drain(ctx, func(Envelope) error { return nil }); err != context.Canceled {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestMailboxFull(t *testing.T) {
	transport := New("tiny", MemoryStore(1))
	if _, err := transport.SendResponse(result(t, "1", true)); err != nil {
		t.Fatal(err)
	}
	_, err := transport.SendBatch([]*jsonrpc2.Response{result(t, "2", true)})
	if !errors.Is(err, ErrMailboxFull) || jsonrpc2.KindOf(err) != jsonrpc2.ErrKindTransport {
		t.Errorf("expected full mailbox error, got: %v", err)
	}
}
