package mailbox

import (
	"testing"
)

func TestMemoryStore(t *testing.T) {
	t.Run("MemoryStore", func(t *testing.T) {
		TestSuite(t, func() Store {
			return MemoryStore(0)
		})
	})
}

func TestMemoryStoreLimit(t *testing.T) {
	s := MemoryStore(2)
	for i := 0; i < 2; i++ {
		if err := s.Append(&Envelope{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Append(&Envelope{}); err != ErrMailboxFull {
		t.Errorf("expected ErrMailboxFull, got: %v", err)
	}
	if n, _ := s.Len(); n != 2 {
		t.Errorf("envelopes were evicted: %d", n)
	}
}
