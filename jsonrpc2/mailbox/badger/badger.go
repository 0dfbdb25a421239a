// Package badger implements a persistent mailbox.Store on top of Badger.
package badger

import (
	"encoding/binary"

	"github.com/dgraph-io/badger"
	"github.com/vipnode/rpcserver/jsonrpc2/mailbox"
)

// seqBandwidth is the number of sequence numbers leased from the db at a
// time. Unused leases are skipped after a restart.
const seqBandwidth = 128

var (
	seqKey    = []byte("mailbox:seq")
	envPrefix = []byte("mailbox:env:")
)

func envKey(seq uint64) []byte {
	key := make([]byte, len(envPrefix)+8)
	copy(key, envPrefix)
	binary.BigEndian.PutUint64(key[len(envPrefix):], seq)
	return key
}

// Open returns a mailbox.Store implementation using Badger as the storage
// driver. The store should be .Close()'d after use.
func Open(opts badger.Options) (*badgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	seq, err := db.GetSequence(seqKey, seqBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &badgerStore{db: db, seq: seq}, nil
}

var _ mailbox.Store = &badgerStore{}

type badgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

func (s *badgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

func (s *badgerStore) Append(env *mailbox.Envelope) error {
	seq, err := s.seq.Next()
	if err != nil {
		return err
	}
	env.Seq = seq
	return s.db.Update(func(txn *badger.Txn) error {
		return setItem(txn, envKey(seq), env)
	})
}

func (s *badgerStore) Pending(limit int) ([]mailbox.Envelope, error) {
	var r []mailbox.Envelope
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(envPrefix); it.ValidForPrefix(envPrefix); it.Next() {
			var env mailbox.Envelope
			if err := decodeItem(it.Item(), &env); err != nil {
				return err
			}
			r = append(r, env)
			if limit > 0 && len(r) >= limit {
				break
			}
		}
		return nil
	})
	return r, err
}

func (s *badgerStore) Ack(seqs ...uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, seq := range seqs {
			if err := txn.Delete(envKey(seq)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *badgerStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(envPrefix); it.ValidForPrefix(envPrefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
