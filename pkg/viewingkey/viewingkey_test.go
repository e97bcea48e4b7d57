package viewingkey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlenet/pkg/crypto"
	"bundlenet/pkg/kvstore"
)

var seedHash = crypto.Digest([]byte("test-seed"))

func TestDeriveDeterministic(t *testing.T) {
	a, err := Derive(seedHash, "addr-alice", []byte("entropy"), 100)
	require.NoError(t, err)
	b, err := Derive(seedHash, "addr-alice", []byte("entropy"), 100)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), Prefix))
}

func TestDeriveVariesWithInputs(t *testing.T) {
	base, err := Derive(seedHash, "addr-alice", []byte("entropy"), 100)
	require.NoError(t, err)

	other, err := Derive(seedHash, "addr-bob", []byte("entropy"), 100)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)

	other, err = Derive(seedHash, "addr-alice", []byte("different"), 100)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)

	other, err = Derive(seedHash, "addr-alice", []byte("entropy"), 101)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)
}

func TestGenerateAndAuthenticate(t *testing.T) {
	store := kvstore.NewMemory()
	defer store.Close()

	var key Key
	err := store.Update(func(txn kvstore.Txn) error {
		var err error
		key, err = Generate(txn, seedHash, "addr-alice", []byte("entropy"), 1)
		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, key)

	err = store.View(func(txn kvstore.Txn) error {
		ok, err := Authenticate(txn, "addr-alice", key)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = Authenticate(txn, "addr-alice", Key("key_wrong"))
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestSetOwnKey(t *testing.T) {
	store := kvstore.NewMemory()
	defer store.Close()

	err := store.Update(func(txn kvstore.Txn) error {
		return Set(txn, "addr-alice", Key("my own secret"))
	})
	require.NoError(t, err)

	err = store.View(func(txn kvstore.Txn) error {
		ok, err := Authenticate(txn, "addr-alice", Key("my own secret"))
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

// A wrong key for a known owner and any key for an unknown owner must produce
// the same observable result.
func TestAuthenticateNoExistenceSignal(t *testing.T) {
	store := kvstore.NewMemory()
	defer store.Close()

	err := store.Update(func(txn kvstore.Txn) error {
		return Set(txn, "addr-known", Key("real key"))
	})
	require.NoError(t, err)

	err = store.View(func(txn kvstore.Txn) error {
		wrongKey, err := Authenticate(txn, "addr-known", Key("bad key"))
		require.NoError(t, err)

		noKey, err := Authenticate(txn, "addr-never-registered", Key("bad key"))
		require.NoError(t, err)

		assert.Equal(t, wrongKey, noKey)
		assert.False(t, wrongKey)
		return nil
	})
	require.NoError(t, err)
}
