// Package middleware provides jsonrpc2.Middleware decorators for transports,
// to be staged with jsonrpc2.Builder.Use.
//
// Every decorator embeds the transport it wraps, so DescribeEndpoint always
// reports the innermost endpoint.
package middleware

import "github.com/vipnode/rpcserver/jsonrpc2"

// Chain composes middleware into one. The first middleware is the outermost,
// same as jsonrpc2.Builder.Use.
func Chain(mw ...jsonrpc2.Middleware) jsonrpc2.Middleware {
	return func(next jsonrpc2.Transport) jsonrpc2.Transport {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}
