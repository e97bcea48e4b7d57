package kvstore

import (
	"sync"
)

// MemoryStore is an in-memory Store with the same transactional contract as
// BadgerStore. Tests run the full state machine against it.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// View runs fn against the committed state. Writes are rejected.
func (s *MemoryStore) View(fn func(Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return fn(&memoryTxn{base: s.data, readOnly: true})
}

// Update runs fn against a write overlay that is merged into the committed
// state only when fn returns nil. An error discards every write.
func (s *MemoryStore) Update(fn func(Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	txn := &memoryTxn{
		base:    s.data,
		writes:  make(map[string][]byte),
		deletes: make(map[string]bool),
	}
	if err := fn(txn); err != nil {
		return err
	}

	for k := range txn.deletes {
		delete(s.data, k)
	}
	for k, v := range txn.writes {
		s.data[k] = v
	}
	return nil
}

// Close marks the store closed. Further transactions fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}

type memoryTxn struct {
	base     map[string][]byte
	writes   map[string][]byte
	deletes  map[string]bool
	readOnly bool
}

func (t *memoryTxn) Get(key []byte) ([]byte, error) {
	k := string(key)
	if !t.readOnly {
		if t.deletes[k] {
			return nil, ErrKeyNotFound
		}
		if v, ok := t.writes[k]; ok {
			return append([]byte(nil), v...), nil
		}
	}
	v, ok := t.base[k]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (t *memoryTxn) Set(key, value []byte) error {
	if t.readOnly {
		return ErrReadOnlyTxn
	}
	k := string(key)
	delete(t.deletes, k)
	t.writes[k] = append([]byte(nil), value...)
	return nil
}

func (t *memoryTxn) Delete(key []byte) error {
	if t.readOnly {
		return ErrReadOnlyTxn
	}
	k := string(key)
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}

func (t *memoryTxn) Has(key []byte) (bool, error) {
	_, err := t.Get(key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
