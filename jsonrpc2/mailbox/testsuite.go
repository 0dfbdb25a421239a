package mailbox

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// TestSuite runs a suite of tests against a store implementation.
func TestSuite(t *testing.T, newStore func() Store) {
	t.Helper()

	t.Run("Order", func(t *testing.T) {
		s := newStore()
		defer s.Close()

		var last uint64
		for i := 0; i < 5; i++ {
			env := &Envelope{
				Responses: []*jsonrpc2.Response{{ID: json.RawMessage(strconv.Itoa(i + 1)), Version: jsonrpc2.Version}},
			}
			if err := s.Append(env); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if i > 0 && env.Seq <= last {
				t.Errorf("sequence did not increase: %d after %d", env.Seq, last)
			}
			last = env.Seq
		}

		if n, err := s.Len(); err != nil || n != 5 {
			t.Errorf("got len %d (%v); want 5", n, err)
		}

		pending, err := s.Pending(3)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if len(pending) != 3 {
			t.Fatalf("got %d pending; want 3", len(pending))
		}
		for i, env := range pending {
			if got, want := string(env.Responses[0].ID), strconv.Itoa(i + 1); got != want {
				t.Errorf("pending %d out of order: got %s; want %s", i, got, want)
			}
		}

		if err := s.Ack(pending[0].Seq, pending[1].Seq, 12345); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		all, err := s.Pending(0)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if len(all) != 3 || string(all[0].Responses[0].ID) != "3" {
			t.Errorf("wrong pending after ack: %v", all)
		}
	})

	t.Run("Envelope", func(t *testing.T) {
		s := newStore()
		defer s.Close()

		queued := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		env := &Envelope{
			Batch: true,
			Responses: []*jsonrpc2.Response{
				{ID: json.RawMessage(`"a"`), Version: jsonrpc2.Version, Result: json.RawMessage(`{"fruit":"apple"}`)},
				jsonrpc2.NewError(json.RawMessage(`"b"`), jsonrpc2.ErrCodeInvalidParams, "invalid params"),
			},
			Queued: queued,
		}
		if err := s.Append(env); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		pending, err := s.Pending(0)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if len(pending) != 1 {
			t.Fatalf("got %d pending; want 1", len(pending))
		}
		got := pending[0]
		if !got.Batch || got.Seq != env.Seq || !got.Queued.Equal(queued) {
			t.Errorf("envelope metadata mismatch: %+v", got)
		}
		if len(got.Responses) != 2 {
			t.Fatalf("got %d responses; want 2", len(got.Responses))
		}
		for i := range env.Responses {
			if got, want := got.Responses[i].String(), env.Responses[i].String(); got != want {
				t.Errorf("response %d:\n   got: %s\n  want: %s", i, got, want)
			}
		}
	})

	t.Run("Empty", func(t *testing.T) {
		s := newStore()
		defer s.Close()

		pending, err := s.Pending(10)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if len(pending) != 0 {
			t.Errorf("expected no pending envelopes: %v", pending)
		}
		if n, err := s.Len(); err != nil || n != 0 {
			t.Errorf("got len %d (%v); want 0", n, err)
		}
	})
}
