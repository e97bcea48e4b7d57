package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned when the requested key has no value.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreClosed is returned when an operation is attempted on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrReadOnlyTxn is returned when a write is attempted inside View.
	ErrReadOnlyTxn = errors.New("write attempted in read-only transaction")
)

// Txn is the narrow read/write-by-key surface the state machine runs against.
// Every mutation made through a Txn either commits as a whole or is discarded
// as a whole when the enclosing call returns an error.
type Txn interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error

	// Has reports whether key currently has a value.
	Has(key []byte) (bool, error)
}

// Store opens transactions. View runs a read-only transaction against the
// last committed state; Update runs a read-write transaction that commits
// only if fn returns nil.
type Store interface {
	View(fn func(Txn) error) error
	Update(fn func(Txn) error) error
	Close() error
}

// GetJSON reads key and unmarshals its value into out.
func GetJSON(txn Txn, key []byte, out interface{}) error {
	raw, err := txn.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode value at %q: %w", key, err)
	}
	return nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(txn Txn, key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	return txn.Set(key, raw)
}

// GetBool reads a stored boolean flag, treating an absent key as false.
func GetBool(txn Txn, key []byte) (bool, error) {
	var v bool
	err := GetJSON(txn, key, &v)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v, nil
}

// GetUint64 reads a stored counter, treating an absent key as zero.
func GetUint64(txn Txn, key []byte) (uint64, error) {
	var v uint64
	err := GetJSON(txn, key, &v)
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return v, nil
}
