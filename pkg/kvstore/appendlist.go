package kvstore

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when reading past the end of a list.
var ErrIndexOutOfRange = errors.New("list index out of range")

// List is an append-only ordered log stored inside a key region: a length key
// plus one key per entry, indexed from zero. Entries can be updated in place
// but never removed, so indices handed out stay stable.
type List struct {
	txn    Txn
	prefix []byte
}

// NewList attaches to the list stored under region and key parts. The list
// does not need to exist yet; an absent list has length zero.
func NewList(txn Txn, region string, parts ...[]byte) *List {
	return &List{txn: txn, prefix: Key(region, parts...)}
}

func (l *List) lenKey() []byte {
	return append(append([]byte(nil), l.prefix...), []byte("\x00len")...)
}

func (l *List) entryKey(idx uint32) []byte {
	key := append([]byte(nil), l.prefix...)
	key = append(key, keySeparator)
	return append(key, U32Key(idx)...)
}

// Len returns the number of entries ever appended.
func (l *List) Len() (uint32, error) {
	n, err := GetUint64(l.txn, l.lenKey())
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// Append adds an entry at the end and returns its index.
func (l *List) Append(value []byte) (uint32, error) {
	n, err := l.Len()
	if err != nil {
		return 0, err
	}
	if err := l.txn.Set(l.entryKey(n), value); err != nil {
		return 0, err
	}
	if err := SetJSON(l.txn, l.lenKey(), uint64(n+1)); err != nil {
		return 0, err
	}
	return n, nil
}

// Get returns the entry at idx.
func (l *List) Get(idx uint32) ([]byte, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	if idx >= n {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, idx, n)
	}
	return l.txn.Get(l.entryKey(idx))
}

// Set replaces the entry at idx, which must already exist.
func (l *List) Set(idx uint32, value []byte) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if idx >= n {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, idx, n)
	}
	return l.txn.Set(l.entryKey(idx), value)
}

// Entry pairs a list element with its stable index, for newest-first pages.
type Entry struct {
	Index uint32
	Value []byte
}

// PageDesc returns up to pageSize entries in newest-first order, skipping
// page*pageSize entries from the newest end. Pages past the end are empty,
// never an error.
func (l *List) PageDesc(page, pageSize uint32) ([]Entry, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	skip := uint64(page) * uint64(pageSize)
	if skip >= uint64(n) || pageSize == 0 {
		return nil, nil
	}

	// first index to return, walking downward
	start := uint32(uint64(n) - skip - 1)
	entries := make([]Entry, 0, pageSize)
	for i := uint32(0); i < pageSize; i++ {
		idx := int64(start) - int64(i)
		if idx < 0 {
			break
		}
		value, err := l.txn.Get(l.entryKey(uint32(idx)))
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Index: uint32(idx), Value: value})
	}
	return entries, nil
}
