// Websocket transport using Gorilla's Websocket library
package gorilla

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vipnode/rpcserver/jsonrpc2"
	"github.com/vipnode/rpcserver/jsonrpc2/ws"
)

// Dial returns a client-side Transport connected to the websocket URL.
func Dial(ctx context.Context, url string) (*Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return New(conn, url), nil
}

// New wraps an established websocket connection.
func New(conn *websocket.Conn, endpoint string) *Transport {
	return &Transport{conn: conn, endpoint: endpoint}
}

var _ ws.Conn = &Transport{}

// Transport sends each response or batch as one text message.
type Transport struct {
	muWrite  sync.Mutex
	muRead   sync.Mutex
	conn     *websocket.Conn
	endpoint string
	closed   bool
}

func (t *Transport) write(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindSerialization, t, err)
	}
	t.muWrite.Lock()
	defer t.muWrite.Unlock()
	if t.closed {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindClosed, t, jsonrpc2.ErrTransportClosed)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindTransport, t, err)
	}
	return nil
}

func (t *Transport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	if err := t.write(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Transport) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	if len(resps) == 0 {
		return []*jsonrpc2.Response{}, nil
	}
	if err := t.write(resps); err != nil {
		return nil, err
	}
	return resps, nil
}

func (t *Transport) DescribeEndpoint(w io.Writer) {
	io.WriteString(w, t.endpoint)
}

func (t *Transport) ReadRequests() ([]*jsonrpc2.Request, bool, error) {
	t.muRead.Lock()
	defer t.muRead.Unlock()
	_, payload, err := t.conn.ReadMessage()
	if err != nil {
		return nil, false, err
	}
	return jsonrpc2.DecodeRequests(payload)
}

func (t *Transport) Close() error {
	t.muWrite.Lock()
	t.closed = true
	t.muWrite.Unlock()
	return t.conn.Close()
}

var _ ws.Upgrader = &Upgrader{}

// Upgrader upgrades an HTTP request to a WebSocket connection and returns the
// transport for it.
type Upgrader struct {
	Upgrader websocket.Upgrader
}

func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request, h http.Header) (ws.Conn, error) {
	conn, err := u.Upgrader.Upgrade(w, r, h)
	if err != nil {
		return nil, err
	}
	return New(conn, ws.Endpoint(r)), nil
}
