// Package ws defines the websocket transport contract shared by the gorilla
// and gobwas implementations, so callers can switch between them.
package ws

import (
	"net/http"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// Conn is a websocket jsonrpc2.Transport that can also read requests from its
// peer.
type Conn interface {
	jsonrpc2.Transport
	// ReadRequests blocks until the next request or batch is received.
	ReadRequests() (reqs []*jsonrpc2.Request, batch bool, err error)
	Close() error
}

// Upgrader takes an HTTP request, upgrades it to a websocket server and
// returns a transport. This allows switching between different websocket
// implementations.
type Upgrader interface {
	Upgrade(http.ResponseWriter, *http.Request, http.Header) (Conn, error)
}

// Endpoint returns the endpoint description for an upgraded request.
func Endpoint(r *http.Request) string {
	return "ws://" + r.RemoteAddr + r.URL.Path
}
