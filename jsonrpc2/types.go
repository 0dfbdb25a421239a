package jsonrpc2

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const Version = "2.0"

const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeServer         = -32000
)

// ErrAmbiguousResponse is returned when a Response carries both a result and
// an error.
var ErrAmbiguousResponse = errors.New("response has both a result and an error")

var jsonNull = json.RawMessage("null")

// Request is a single RPC invocation. JSON-RPC 1.0 requests have an empty
// Version.
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Version string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification returns true if the request does not expect a response.
func (req *Request) IsNotification() bool {
	return len(req.ID) == 0
}

func (req *Request) String() string {
	out, _ := json.Marshal(req)
	return string(out)
}

// Response is the outcome of a Request, correlated by ID. A Response with a
// non-nil Error is an error response, otherwise it is a success whose Result
// may be empty (encoded as null).
type Response struct {
	ID      json.RawMessage `json:"id"`
	Version string          `json:"jsonrpc,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrResponse    `json:"error,omitempty"`
}

// NewResult returns a successful 2.0 response with v encoded as the result.
func NewResult(id json.RawMessage, v interface{}) (*Response, error) {
	result, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Response{
		ID:      id,
		Version: Version,
		Result:  result,
	}, nil
}

// NewError returns a 2.0 error response.
func NewError(id json.RawMessage, code int, message string) *Response {
	return &Response{
		ID:      id,
		Version: Version,
		Error: &ErrResponse{
			Code:    code,
			Message: message,
		},
	}
}

// Validate asserts that the response is exactly one of success or error.
func (resp *Response) Validate() error {
	if resp.Error != nil && len(resp.Result) > 0 && !bytes.Equal(resp.Result, jsonNull) {
		return ErrAmbiguousResponse
	}
	return nil
}

// UnmarshalResult decodes the result into v, or returns the error response.
func (resp *Response) UnmarshalResult(v interface{}) error {
	if resp.Error != nil {
		return resp.Error
	}
	if v == nil || len(resp.Result) == 0 || bytes.Equal(resp.Result, jsonNull) {
		return nil
	}
	return json.Unmarshal(resp.Result, v)
}

func (resp *Response) String() string {
	out, _ := json.Marshal(resp)
	return string(out)
}

// MarshalJSON encodes 2.0 responses with exactly one of result or error, and
// 1.0 responses (empty Version) with both keys present.
func (resp Response) MarshalJSON() ([]byte, error) {
	id := resp.ID
	if len(id) == 0 {
		id = jsonNull
	}
	result := resp.Result
	if len(result) == 0 {
		result = jsonNull
	}

	if resp.Version == "" {
		v1 := struct {
			ID     json.RawMessage `json:"id"`
			Result json.RawMessage `json:"result"`
			Error  *ErrResponse    `json:"error"`
		}{id, result, resp.Error}
		if resp.Error != nil {
			v1.Result = jsonNull
		}
		return json.Marshal(v1)
	}

	if resp.Error != nil {
		return json.Marshal(struct {
			ID      json.RawMessage `json:"id"`
			Version string          `json:"jsonrpc"`
			Error   *ErrResponse    `json:"error"`
		}{id, resp.Version, resp.Error})
	}
	return json.Marshal(struct {
		ID      json.RawMessage `json:"id"`
		Version string          `json:"jsonrpc"`
		Result  json.RawMessage `json:"result"`
	}{id, resp.Version, result})
}

// ErrResponse is the error object of a Response.
type ErrResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (err *ErrResponse) Error() string {
	return fmt.Sprintf("%d: %s", err.Code, err.Message)
}

// ErrorCode returns the JSON-RPC error code.
func (err *ErrResponse) ErrorCode() int {
	return err.Code
}
