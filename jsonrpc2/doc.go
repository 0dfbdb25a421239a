/*
	Package jsonrpc2 implements the server side of JSON-RPC 1.0 and 2.0
	independently of the transport that carries the messages.

	Transport is the capability to deliver responses (one at a time or as a
	batch) to the peer of a connection, and to describe that peer. Concrete
	transports live in the subpackages: stream, local, httppush, ws/gorilla,
	ws/gobwas and mailbox. Package middleware decorates any of them.

	Server owns exactly one Transport for its lifetime, and mints correlation
	IDs (nonces) for requests it originates, such as calls back to the peer in
	a bidirectional protocol. Servers do not route methods; dispatching a
	Request to a handler is the caller's job.

	Builder stages the construction of a Server so that transport middleware
	can be attached before it is finalized. A Builder can only be built once.

	Nothing in this package logs or retries. Transport
	failures are returned as *TransportError values whose Kind can be used for
	retry decisions by the caller.
*/
package jsonrpc2
