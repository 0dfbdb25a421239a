package jsonrpc2

import (
	"encoding/json"
	"errors"
)

// ErrEmptyBatch is returned when decoding a batch with no requests.
var ErrEmptyBatch = errors.New("empty batch")

// DecodeRequests parses a single request or a batch of requests. The batch
// return value reports whether the payload was a JSON array, in which case the
// responses must be sent with SendBatch.
func DecodeRequests(raw json.RawMessage) (reqs []*Request, batch bool, err error) {
	if !isArray(raw) {
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, false, err
		}
		return []*Request{&req}, false, nil
	}
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return nil, true, err
	}
	if len(reqs) == 0 {
		return nil, true, ErrEmptyBatch
	}
	return reqs, true, nil
}

// Helpers for JSON parsing

// isArray returns true if the message is a JSON array (starts
// with '[', spaces skipped).
func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		if isSpace(b) {
			continue
		}
		return b == '['
	}
	return false
}

// isSpace returns true if the byte is considered a space in JSON syntax.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
