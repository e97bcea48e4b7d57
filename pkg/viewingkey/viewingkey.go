// Package viewingkey issues and checks the per-owner secrets that gate read
// access to private data. Only the digest of a key is ever persisted; the
// plaintext is returned to the caller once at generation and cannot be
// recovered afterwards.
package viewingkey

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"

	"crypto/sha256"

	"golang.org/x/crypto/hkdf"

	"bundlenet/pkg/crypto"
	"bundlenet/pkg/kvstore"
)

// KeySize is the number of random bytes behind a key.
const KeySize = 32

// Prefix marks the printable form so keys are recognizable in client config.
const Prefix = "key_"

// ErrDerivation is returned when key material cannot be derived.
var ErrDerivation = errors.New("viewing key derivation failed")

// Key is the printable secret handed to the owner.
type Key string

// Derive builds a key from the process-wide seed digest, the owner identity,
// caller-supplied entropy and the logical clock. The same inputs always yield
// the same key; the host guarantees clock monotonicity across calls.
func Derive(seedHash []byte, owner string, entropy []byte, clock uint64) (Key, error) {
	var clockBytes [8]byte
	binary.BigEndian.PutUint64(clockBytes[:], clock)

	info := make([]byte, 0, len(entropy)+8)
	info = append(info, entropy...)
	info = append(info, clockBytes[:]...)

	r := hkdf.New(sha256.New, seedHash, []byte(owner), info)
	material := make([]byte, KeySize)
	if _, err := io.ReadFull(r, material); err != nil {
		return "", ErrDerivation
	}
	return Key(Prefix + base64.StdEncoding.EncodeToString(material)), nil
}

// Hash returns the digest stored in place of the key.
func (k Key) Hash() []byte {
	return crypto.Digest([]byte(k))
}

func storageKey(owner string) []byte {
	return kvstore.Key(kvstore.RegionViewingKey, []byte(owner))
}

// Set stores hash(secret) for owner, replacing any previous key.
func Set(txn kvstore.Txn, owner string, k Key) error {
	return txn.Set(storageKey(owner), k.Hash())
}

// Generate derives a fresh key for owner, stores its hash, and returns the
// plaintext to be shown to the caller exactly once.
func Generate(txn kvstore.Txn, seedHash []byte, owner string, entropy []byte, clock uint64) (Key, error) {
	k, err := Derive(seedHash, owner, entropy, clock)
	if err != nil {
		return "", err
	}
	if err := Set(txn, owner, k); err != nil {
		return "", err
	}
	return k, nil
}

// Authenticate checks candidate against the stored key hash for owner. A
// wrong key, an owner with no key, and an unknown owner all take the same
// code path — a full-length constant-time comparison — and yield the same
// result, so responses carry no existence signal.
func Authenticate(txn kvstore.Txn, owner string, candidate Key) (bool, error) {
	stored, err := txn.Get(storageKey(owner))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		stored = make([]byte, crypto.DigestSize)
		err = nil
	}
	if err != nil {
		return false, err
	}
	return crypto.Equal(candidate.Hash(), stored), nil
}
