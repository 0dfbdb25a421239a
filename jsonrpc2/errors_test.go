package jsonrpc2

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportError(t *testing.T) {
	err := NewTransportError(ErrKindClosed, &stubTransport{endpoint: "tcp://10.0.0.1:4000"}, ErrTransportClosed)
	if got, want := err.Error(), "closed error on tcp://10.0.0.1:4000: transport closed"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	wrapped := fmt.Errorf("send failed: %w", err)
	if !errors.Is(wrapped, ErrTransportClosed) {
		t.Errorf("expected wrapped ErrTransportClosed: %s", wrapped)
	}
	if got, want := KindOf(wrapped), ErrKindClosed; got != want {
		t.Errorf("got: %s; want %s", got, want)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("unexpected kind for plain error: %s", got)
	}
	if got, want := ErrorKind(42).String(), "ErrorKind(42)"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}
}
