// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package bridge

import (
	"errors"
	"fmt"
	"sync"

	"bitrwa.org/bridge/rwa"
	"github.com/dgraph-io/badger/v4"
	"github.com/ethereum/go-ethereum/common"
)

// BoundStore is the local cache of destination-address bindings, keyed by
// source address. It is display-only state. The on-chain binding record is
// authoritative and the cache is reconciled against it on every session
// start.
type BoundStore interface {
	Get(source common.Address) (common.Address, bool, error)
	Save(source, dest common.Address) error
	Delete(source common.Address) error
	Close() error
}

// badgerStore is a BoundStore over a badger key-value DB.
type badgerStore struct {
	*badger.DB
	log rwa.Logger
}

// NewBoundStore opens the binding cache at dir.
func NewBoundStore(dir string, log rwa.Logger) (BoundStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(&badgerLoggerWrapper{log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("error opening binding cache: %w", err)
	}
	return &badgerStore{DB: db, log: log}, nil
}

func (s *badgerStore) Get(source common.Address) (common.Address, bool, error) {
	var dest common.Address
	err := s.View(func(txn *badger.Txn) error {
		it, err := txn.Get(source.Bytes())
		if err != nil {
			return err
		}
		return it.Value(func(v []byte) error {
			if len(v) != common.AddressLength {
				return fmt.Errorf("stored binding has length %d", len(v))
			}
			dest = common.BytesToAddress(v)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return common.Address{}, false, nil
	}
	if err != nil {
		return common.Address{}, false, err
	}
	return dest, true, nil
}

func (s *badgerStore) Save(source, dest common.Address) error {
	return s.Update(func(txn *badger.Txn) error {
		return txn.Set(source.Bytes(), dest.Bytes())
	})
}

func (s *badgerStore) Delete(source common.Address) error {
	return s.Update(func(txn *badger.Txn) error {
		err := txn.Delete(source.Bytes())
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

func (s *badgerStore) Close() error {
	return s.DB.Close()
}

// memoryStore is an in-memory BoundStore for ephemeral sessions and tests.
type memoryStore struct {
	mtx      sync.RWMutex
	bindings map[common.Address]common.Address
}

// NewMemoryBoundStore creates a BoundStore that forgets everything on Close.
func NewMemoryBoundStore() BoundStore {
	return &memoryStore{bindings: make(map[common.Address]common.Address)}
}

func (s *memoryStore) Get(source common.Address) (common.Address, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	dest, found := s.bindings[source]
	return dest, found, nil
}

func (s *memoryStore) Save(source, dest common.Address) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.bindings[source] = dest
	return nil
}

func (s *memoryStore) Delete(source common.Address) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	delete(s.bindings, source)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

// badgerLoggerWrapper wraps rwa.Logger and translates Warnf to Warningf to
// satisfy badger.Logger.
type badgerLoggerWrapper struct {
	rwa.Logger
}

var _ badger.Logger = (*badgerLoggerWrapper)(nil)

// Warningf -> rwa.Logger.Warnf
func (log *badgerLoggerWrapper) Warningf(s string, a ...interface{}) {
	log.Warnf(s, a...)
}
