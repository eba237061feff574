package store

import (
	"encoding/binary"
	"encoding/json"

	"go.etcd.io/bbolt"

	"ledgerbank/internal/block"
)

var blocksBucket = []byte("blocks")

// BboltStore is an alternate ChainStore backed by an embedded bbolt
// database instead of a flat JSON file, selected via LEDGER_STORE=bbolt.
// Each block is still encoded with the same blockDoc JSON shape as
// JSONStore; only the container changes, keyed by the block number as an
// 8-byte big-endian key.
type BboltStore struct {
	db *bbolt.DB
}

// OpenBboltStore opens (creating if absent) the bbolt database at path.
func OpenBboltStore(path string) (*BboltStore, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, &IOError{Op: "open bbolt store", Err: err}
	}
	err = db.Update(func(txn *bbolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(blocksBucket)
		return err
	})
	if err != nil {
		return nil, &IOError{Op: "init bbolt bucket", Err: err}
	}
	return &BboltStore{db: db}, nil
}

func (s *BboltStore) Close() error { return s.db.Close() }

func numKey(num int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(num))
	return key
}

func (s *BboltStore) Load() (map[int]*block.Block, error) {
	blocks := make(map[int]*block.Block)
	err := s.db.View(func(txn *bbolt.Tx) error {
		b := txn.Bucket(blocksBucket)
		return b.ForEach(func(k, v []byte) error {
			num := int(binary.BigEndian.Uint64(k))
			var doc blockDoc
			if err := json.Unmarshal(v, &doc); err != nil {
				return err
			}
			blocks[num] = fromDoc(doc)
			return nil
		})
	})
	if err != nil {
		return nil, &IOError{Op: "read bbolt store", Err: err}
	}
	return blocks, nil
}

func (s *BboltStore) Save(blocks map[int]*block.Block) error {
	err := s.db.Update(func(txn *bbolt.Tx) error {
		b := txn.Bucket(blocksBucket)
		for _, num := range sortedNums(blocks) {
			raw, err := json.Marshal(toDoc(blocks[num]))
			if err != nil {
				return err
			}
			if err := b.Put(numKey(num), raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &IOError{Op: "write bbolt store", Err: err}
	}
	return nil
}
