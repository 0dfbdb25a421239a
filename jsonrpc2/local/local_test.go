package local

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

func TestLocal(t *testing.T) {
	transport := New("fruits", 0)
	s := jsonrpc2.NewServer(transport)
	if got, want := s.Endpoint(), "local://fruits"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	resp, err := jsonrpc2.NewResult(json.RawMessage("1"), "Apple")
	if err != nil {
		t.Fatal(err)
	}
	errChan := make(chan error, 1)
	go func() {
		_, err := s.SendResponse(resp)
		errChan <- err
	}()

	d, err := transport.Recv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.Batch || len(d.Responses) != 1 || d.Responses[0] != resp {
		t.Errorf("wrong delivery: %+v", d)
	}
	if err := <-errChan; err != nil {
		t.Error(err)
	}

	batch := []*jsonrpc2.Response{
		{ID: json.RawMessage("2"), Version: jsonrpc2.Version},
		{ID: json.RawMessage("3"), Version: jsonrpc2.Version},
	}
	go func() {
		_, err := s.SendBatch(batch)
		errChan <- err
	}()
	d, err = transport.Recv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !d.Batch || len(d.Responses) != 2 || string(d.Responses[1].ID) != "3" {
		t.Errorf("wrong batch delivery: %+v", d)
	}
	if err := <-errChan; err != nil {
		t.Error(err)
	}
}

func TestLocalClose(t *testing.T) {
	transport := New("closing", 1)
	resp := &jsonrpc2.Response{ID: json.RawMessage("1"), Version: jsonrpc2.Version}

	// Buffered, doesn't block.
	if _, err := transport.SendResponse(resp); err != nil {
		t.Fatal(err)
	}

	// Blocks until closed.
	errChan := make(chan error, 1)
	go func() {
		_, err := transport.SendResponse(resp)
		errChan <- err
	}()
	time.Sleep(10 * time.Millisecond)
	transport.Close()

	select {
	case err := <-errChan:
		if jsonrpc2.KindOf(err) != jsonrpc2.ErrKindClosed {
			t.Errorf("expected closed error, got: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked sender was not released by Close")
	}

	if _, err := transport.Recv(context.Background()); err != nil {
		t.Errorf("buffered delivery lost: %s", err)
	}
	if _, err := transport.Recv(context.Background()); !errors.Is(err, jsonrpc2.ErrTransportClosed) {
		t.Errorf("expected ErrTransportClosed, got: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("idle", 0).Recv(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}
