package badger

import (
	"bytes"
	"encoding/gob"

	"github.com/dgraph-io/badger"
)

func decodeItem(item *badger.Item, into interface{}) error {
	return item.Value(func(val []byte) error {
		return gob.NewDecoder(bytes.NewReader(val)).Decode(into)
	})
}

func setItem(txn *badger.Txn, key []byte, val interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(val); err != nil {
		return err
	}
	return txn.Set(key, buf.Bytes())
}
