package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agenthands/causalgraph/internal/core/model"
	"github.com/dgraph-io/badger/v4"
)

var linkPrefix = []byte("link/")

// BadgerStore keeps links in an embedded Badger database, keyed by
// link/<trigger>\x00<result> so iteration order is stable.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at '%s': %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func linkKey(l model.Link) []byte {
	var b bytes.Buffer
	b.Write(linkPrefix)
	b.WriteString(l.TriggerID)
	b.WriteByte(0)
	b.WriteString(l.ResultID)
	return b.Bytes()
}

func (s *BadgerStore) Links(ctx context.Context) ([]model.Link, error) {
	var links []model.Link
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(linkPrefix); it.ValidForPrefix(linkPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := bytes.TrimPrefix(it.Item().Key(), linkPrefix)
			trigger, result, ok := bytes.Cut(key, []byte{0})
			if !ok {
				return fmt.Errorf("malformed link key %q", it.Item().Key())
			}
			links = append(links, model.Link{TriggerID: string(trigger), ResultID: string(result)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}
	return links, nil
}

func (s *BadgerStore) SaveLink(ctx context.Context, rec Record) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}
	key := linkKey(rec.Link())

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, val)
	})
}

// Record loads the stored record for a link.
func (s *BadgerStore) Record(ctx context.Context, l model.Link) (*Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(linkKey(l))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load link %s -> %s: %w", l.TriggerID, l.ResultID, err)
	}
	return &rec, nil
}

func (s *BadgerStore) Close(ctx context.Context) error {
	return s.db.Close()
}
