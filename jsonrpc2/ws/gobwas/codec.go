package gobwas

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/vipnode/rpcserver/jsonrpc2"
	rpcws "github.com/vipnode/rpcserver/jsonrpc2/ws"
)

// Dial returns a client-side Transport connected to the websocket URL.
func Dial(ctx context.Context, url string) (*Transport, error) {
	conn, _, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	return New(conn, ws.StateClientSide, url), nil
}

// New wraps an upgraded connection. The state selects which side of the
// websocket handshake this end is on.
func New(conn net.Conn, state ws.State, endpoint string) *Transport {
	return &Transport{
		conn:     conn,
		endpoint: endpoint,
		r:        wsutil.NewReader(conn, state),
		w:        wsutil.NewWriter(conn, state, ws.OpText),
	}
}

var _ rpcws.Conn = &Transport{}

// Transport sends each response or batch as one text frame.
type Transport struct {
	conn     net.Conn
	endpoint string

	muWrite sync.Mutex
	w       *wsutil.Writer
	closed  bool

	muRead sync.Mutex
	r      *wsutil.Reader
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
	if _, err := t.w.Write(payload); err != nil {
		return jsonrpc2.NewTransportError(jsonrpc2.ErrKindTransport, t, err)
	}
	if err := t.w.Flush(); err != nil {
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
	for {
		header, err := t.r.NextFrame()
		if err != nil {
			return nil, false, err
		}
		if header.OpCode == ws.OpClose {
			return nil, false, io.EOF
		}
		if header.OpCode.IsControl() {
			// FIXME: Answer pings; writing a pong here would race with t.w.
			if _, err := io.Copy(ioutil.Discard, t.r); err != nil {
				return nil, false, err
			}
			continue
		}
		payload, err := ioutil.ReadAll(t.r)
		if err != nil {
			return nil, false, err
		}
		return jsonrpc2.DecodeRequests(payload)
	}
}

func (t *Transport) Close() error {
	t.muWrite.Lock()
	t.closed = true
	t.muWrite.Unlock()
	return t.conn.Close()
}

var _ rpcws.Upgrader = &Upgrader{}

// Upgrader upgrades an HTTP request to a WebSocket connection and returns the
// server-side transport for it.
type Upgrader struct {
	Upgrader ws.HTTPUpgrader
}

func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request, h http.Header) (rpcws.Conn, error) {
	upgrader := u.Upgrader
	if h != nil {
		upgrader.Header = h
	}
	conn, _, _, err := upgrader.Upgrade(r, w)
	if err != nil {
		return nil, err
	}
	return New(conn, ws.StateServerSide, rpcws.Endpoint(r)), nil
}
