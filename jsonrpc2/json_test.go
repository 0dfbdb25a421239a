package jsonrpc2

import (
	"encoding/json"
	"testing"
)

func TestDecodeRequests(t *testing.T) {
	reqs, batch, err := DecodeRequests(json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"apple"}`))
	if err != nil {
		t.Fatal(err)
	}
	if batch || len(reqs) != 1 || reqs[0].Method != "apple" {
		t.Errorf("wrong single decode: %v (batch=%v)", reqs, batch)
	}

	reqs, batch, err = DecodeRequests(json.RawMessage(" \n\t[{\"id\":1,\"method\":\"apple\"},{\"method\":\"banana\"}]"))
	if err != nil {
		t.Fatal(err)
	}
	if !batch || len(reqs) != 2 {
		t.Fatalf("wrong batch decode: %v (batch=%v)", reqs, batch)
	}
	if !reqs[1].IsNotification() {
		t.Errorf("expected notification: %s", reqs[1])
	}

	if _, batch, err = DecodeRequests(json.RawMessage(`[]`)); err != ErrEmptyBatch || !batch {
		t.Errorf("expected ErrEmptyBatch, got: %v", err)
	}
	if _, _, err = DecodeRequests(json.RawMessage(`{"method":`)); err == nil {
		t.Errorf("expected parse error")
	}
}
