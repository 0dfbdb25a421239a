package mailbox

import (
	"sort"
	"sync"
)

// MemoryStore implements an ephemeral in-memory store. A limit > 0 caps the
// number of queued envelopes.
func MemoryStore(limit int) *memoryStore {
	return &memoryStore{
		limit:     limit,
		envelopes: map[uint64]Envelope{},
	}
}

// Assert Store implementation
var _ Store = &memoryStore{}

type memoryStore struct {
	mu        sync.Mutex
	limit     int
	seq       uint64
	envelopes map[uint64]Envelope
}

func (s *memoryStore) Append(env *Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.envelopes) >= s.limit {
		return ErrMailboxFull
	}
	env.Seq = s.seq
	s.seq++
	s.envelopes[env.Seq] = *env
	return nil
}

func (s *memoryStore) Pending(limit int) ([]Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := make([]Envelope, 0, len(s.envelopes))
	for _, env := range s.envelopes {
		r = append(r, env)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Seq < r[j].Seq })
	if limit > 0 && len(r) > limit {
		r = r[:limit]
	}
	return r, nil
}

func (s *memoryStore) Ack(seqs ...uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seq := range seqs {
		delete(s.envelopes, seq)
	}
	return nil
}

func (s *memoryStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.envelopes), nil
}

func (s *memoryStore) Close() error {
	return nil
}
