package kvstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	err := store.Update(func(txn Txn) error {
		return txn.Set([]byte("a"), []byte("1"))
	})
	require.NoError(t, err)

	err = store.View(func(txn Txn) error {
		v, err := txn.Get([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	err := store.View(func(txn Txn) error {
		_, err := txn.Get([]byte("missing"))
		return err
	})
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStoreRollbackOnError(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	boom := errors.New("boom")
	err := store.Update(func(txn Txn) error {
		require.NoError(t, txn.Set([]byte("a"), []byte("1")))
		require.NoError(t, txn.Set([]byte("b"), []byte("2")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// nothing written by the failed transaction is visible
	err = store.View(func(txn Txn) error {
		has, err := txn.Has([]byte("a"))
		require.NoError(t, err)
		assert.False(t, has)
		has, err = txn.Has([]byte("b"))
		require.NoError(t, err)
		assert.False(t, has)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStoreReadOwnWrites(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	err := store.Update(func(txn Txn) error {
		require.NoError(t, txn.Set([]byte("a"), []byte("1")))
		v, err := txn.Get([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)

		require.NoError(t, txn.Delete([]byte("a")))
		_, err = txn.Get([]byte("a"))
		assert.ErrorIs(t, err, ErrKeyNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStoreViewRejectsWrites(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	err := store.View(func(txn Txn) error {
		return txn.Set([]byte("a"), []byte("1"))
	})
	assert.ErrorIs(t, err, ErrReadOnlyTxn)
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemory()
	require.NoError(t, store.Close())

	err := store.Update(func(txn Txn) error { return nil })
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestKeyNamespacing(t *testing.T) {
	plain := Key(RegionAccount)
	assert.Equal(t, []byte(RegionAccount), plain)

	withParts := Key(RegionRated, []byte("alice"), U64Key(7))
	expected := append([]byte("rated\x00alice\x00"), U64Key(7)...)
	assert.Equal(t, expected, withParts)

	// distinct regions with equal parts never collide
	a := Key(RegionUpvotes, U64Key(1))
	b := Key(RegionDownvotes, U64Key(1))
	assert.NotEqual(t, a, b)
}

func TestJSONHelpers(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := store.Update(func(txn Txn) error {
		return SetJSON(txn, []byte("r"), record{Name: "x", Count: 3})
	})
	require.NoError(t, err)

	err = store.View(func(txn Txn) error {
		var out record
		require.NoError(t, GetJSON(txn, []byte("r"), &out))
		assert.Equal(t, record{Name: "x", Count: 3}, out)

		// absent flags and counters default rather than erroring
		flag, err := GetBool(txn, []byte("no-flag"))
		require.NoError(t, err)
		assert.False(t, flag)
		count, err := GetUint64(txn, []byte("no-count"))
		require.NoError(t, err)
		assert.Zero(t, count)
		return nil
	})
	require.NoError(t, err)
}
