package mailbox

import (
	"errors"
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// ErrMailboxFull is returned when appending to a store that reached its limit.
// Stores never evict queued envelopes to make room.
var ErrMailboxFull = errors.New("mailbox full")

// Envelope is one send queued in a Store: a single response, or a batch.
type Envelope struct {
	Seq       uint64
	Batch     bool
	Responses []*jsonrpc2.Response
	Queued    time.Time
}

// Store is the storage interface used by the mailbox Transport. It should be
// goroutine-safe.
type Store interface {
	// Append atomically queues the envelope and assigns its Seq, which is
	// higher than any Seq assigned before by this store.
	Append(env *Envelope) error
	// Pending returns up to limit queued envelopes in Seq order. A limit <= 0
	// returns all of them.
	Pending(limit int) ([]Envelope, error)
	// Ack removes delivered envelopes. Unknown sequence numbers are ignored.
	Ack(seqs ...uint64) error
	// Len returns the number of queued envelopes.
	Len() (int, error)
	// Close releases the store.
	Close() error
}
