package config

import (
	"errors"
	"fmt"

	"bundlenet/pkg/crypto"
	"bundlenet/pkg/kvstore"
)

// Constants is the persisted copy of the configuration the state machine runs
// under. It is written once at initialization and thereafter changes only
// through the admin operations, atomically with the call that changes it.
type Constants struct {
	Admin    string `json:"admin"`
	SeedHash []byte `json:"seed_hash"`
	Limits   Limits `json:"limits"`
}

var (
	keyConstants     = kvstore.Key(kvstore.RegionConfig, []byte("constants"))
	keyFrozen        = kvstore.Key(kvstore.RegionConfig, []byte("frozen"))
	keyNewAdmin      = kvstore.Key(kvstore.RegionConfig, []byte("new-admin"))
	keyNewAdminCount = kvstore.Key(kvstore.RegionConfig, []byte("new-admin-count"))
)

// ErrNotInitialized is returned when constants are read before Init ran.
var ErrNotInitialized = errors.New("constants not initialized")

// Init writes the initial constants if none are stored yet. Re-running Init
// on an existing store keeps the stored constants, so restarting the host
// never silently reconfigures a live deployment.
func Init(txn kvstore.Txn, cfg Config) error {
	has, err := txn.Has(keyConstants)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	c := Constants{
		Admin:    cfg.Admin,
		SeedHash: crypto.Digest([]byte(cfg.Seed)),
		Limits:   cfg.Limits,
	}
	return kvstore.SetJSON(txn, keyConstants, c)
}

// LoadConstants reads the persisted constants.
func LoadConstants(txn kvstore.Txn) (Constants, error) {
	var c Constants
	err := kvstore.GetJSON(txn, keyConstants, &c)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return Constants{}, ErrNotInitialized
	}
	if err != nil {
		return Constants{}, err
	}
	return c, nil
}

// SaveConstants persists an updated copy.
func SaveConstants(txn kvstore.Txn, c Constants) error {
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	return kvstore.SetJSON(txn, keyConstants, c)
}

// SetFrozen flips the freeze flag. While frozen, only the admin may mutate.
func SetFrozen(txn kvstore.Txn, frozen bool) error {
	return kvstore.SetJSON(txn, keyFrozen, frozen)
}

// IsFrozen reports the freeze flag; absent means not frozen.
func IsFrozen(txn kvstore.Txn) (bool, error) {
	return kvstore.GetBool(txn, keyFrozen)
}

// ChangeAdminAttempts is how many consecutive identical change_admin requests
// are required before the admin identity actually changes, guarding against a
// handover to a mistyped address.
const ChangeAdminAttempts = 3

// RecordAdminChange registers one change_admin submission for candidate and
// returns true once enough consecutive matching submissions have arrived, at
// which point the stored admin has been replaced and the counter reset. A
// submission naming a different candidate restarts the count.
func RecordAdminChange(txn kvstore.Txn, candidate string) (bool, error) {
	var pending string
	err := kvstore.GetJSON(txn, keyNewAdmin, &pending)
	if err != nil && !errors.Is(err, kvstore.ErrKeyNotFound) {
		return false, err
	}

	count, err := kvstore.GetUint64(txn, keyNewAdminCount)
	if err != nil {
		return false, err
	}
	if pending != candidate {
		count = 0
	}
	count++

	if count < ChangeAdminAttempts {
		if err := kvstore.SetJSON(txn, keyNewAdmin, candidate); err != nil {
			return false, err
		}
		return false, kvstore.SetJSON(txn, keyNewAdminCount, count)
	}

	c, err := LoadConstants(txn)
	if err != nil {
		return false, fmt.Errorf("load constants for admin change: %w", err)
	}
	c.Admin = candidate
	if err := SaveConstants(txn, c); err != nil {
		return false, err
	}
	if err := txn.Delete(keyNewAdmin); err != nil {
		return false, err
	}
	return true, txn.Delete(keyNewAdminCount)
}
