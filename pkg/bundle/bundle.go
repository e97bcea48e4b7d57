// Package bundle implements the priced-share store and its unlock engine.
// Bundles live append-only in their owner's list; a global id region maps each
// monotonically assigned id back to its slot. Sealing, hiding and removal are
// flags in their own regions so the record itself is immutable after creation.
package bundle

import (
	"errors"

	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
	"bundlenet/pkg/registry"
)

// Service operates on bundle state within a single transaction.
type Service struct {
	txn    kvstore.Txn
	reg    *registry.Registry
	limits config.Limits
}

func New(txn kvstore.Txn, limits config.Limits) *Service {
	return &Service{txn: txn, reg: registry.New(txn, limits), limits: limits}
}

// nextID assigns the next global bundle id. Ids start at 1 and are never
// reused.
func (s *Service) nextID() (uint64, error) {
	key := kvstore.Key(kvstore.RegionBundleCount)
	n, err := kvstore.GetUint64(s.txn, key)
	if err != nil {
		return 0, err
	}
	id := n + 1
	if err := kvstore.SetJSON(s.txn, key, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Service) ref(id uint64) (models.BundleRef, error) {
	var ref models.BundleRef
	err := kvstore.GetJSON(s.txn, kvstore.Key(kvstore.RegionBundleByID, kvstore.U64Key(id)), &ref)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return models.BundleRef{}, ErrBundleNotFound
	}
	if err != nil {
		return models.BundleRef{}, err
	}
	return ref, nil
}

// load returns the stored record behind id, hidden or not.
func (s *Service) load(id uint64) (models.Bundle, error) {
	ref, err := s.ref(id)
	if err != nil {
		return models.Bundle{}, err
	}
	raw, err := kvstore.NewList(s.txn, kvstore.RegionBundle, []byte(ref.Owner)).Get(ref.Index)
	if err != nil {
		return models.Bundle{}, err
	}
	var b models.Bundle
	if err := decodeJSON(raw, &b); err != nil {
		return models.Bundle{}, err
	}
	return b, nil
}

func (s *Service) flag(region string, id uint64) (bool, error) {
	return kvstore.GetBool(s.txn, kvstore.Key(region, kvstore.U64Key(id)))
}

func (s *Service) setFlag(region string, id uint64, on bool) error {
	key := kvstore.Key(region, kvstore.U64Key(id))
	if on {
		return kvstore.SetJSON(s.txn, key, true)
	}
	return s.txn.Delete(key)
}

// IsSealed reports whether the bundle refuses new unlocks.
func (s *Service) IsSealed(id uint64) (bool, error) {
	return s.flag(kvstore.RegionSealed, id)
}

// hiddenFromPublic reports whether the owner or a moderator has withdrawn the
// bundle from public view.
func (s *Service) hiddenFromPublic(id uint64) (bool, error) {
	hidden, err := s.flag(kvstore.RegionHidden, id)
	if err != nil || hidden {
		return hidden, err
	}
	return s.flag(kvstore.RegionRemoved, id)
}

// IsUnlockedBy reports whether caller holds an unlock grant for id. Owners
// always read their own contents without a grant.
func (s *Service) IsUnlockedBy(caller string, id uint64) (bool, error) {
	return kvstore.GetBool(s.txn, kvstore.Key(kvstore.RegionUnlockedByID, []byte(caller), kvstore.U64Key(id)))
}

// Owner returns the owner address of a bundle.
func (s *Service) Owner(id uint64) (string, error) {
	ref, err := s.ref(id)
	if err != nil {
		return "", err
	}
	return ref.Owner, nil
}
