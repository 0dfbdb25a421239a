package jsonrpc2

import "errors"

var (
	// ErrBuilderConsumed is the panic value when a Builder is used after Build.
	ErrBuilderConsumed = errors.New("jsonrpc2: builder already built")
	// ErrNoTransport is the panic value when building without a transport.
	ErrNoTransport = errors.New("jsonrpc2: builder has no transport")
)

// Builder stages the construction of a Server. A Builder can only be built
// once; misuse panics since it's a programming error.
type Builder struct {
	transport  Transport
	middleware []Middleware
	built      bool
}

// NewBuilder starts building a Server around the given transport.
func NewBuilder(transport Transport) *Builder {
	return &Builder{transport: transport}
}

// Use adds transport middleware. The first middleware is the outermost.
func (b *Builder) Use(mw ...Middleware) *Builder {
	if b.built {
		panic(ErrBuilderConsumed)
	}
	b.middleware = append(b.middleware, mw...)
	return b
}

// Build returns the finished Server.
func (b *Builder) Build() *Server {
	if b.built {
		panic(ErrBuilderConsumed)
	}
	if b.transport == nil {
		panic(ErrNoTransport)
	}
	b.built = true

	t := b.transport
	for i := len(b.middleware) - 1; i >= 0; i-- {
		t = b.middleware[i](t)
	}
	b.transport, b.middleware = nil, nil
	return &Server{transport: t}
}
