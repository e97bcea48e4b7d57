// Package ledger keeps the reputation records of bundles: up/down vote
// counters with one active rating per (rater, bundle), and an append-only
// comment list with author-only tombstones. Both are gated on having unlocked
// the bundle, so only people who paid get a say.
package ledger

import (
	"bundlenet/pkg/bundle"
	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/registry"
	"bundlenet/pkg/social"
)

// Ledger operates on rating and comment state within a single transaction.
type Ledger struct {
	txn     kvstore.Txn
	bundles *bundle.Service
	graph   *social.Graph
	reg     *registry.Registry
	limits  config.Limits
}

func New(txn kvstore.Txn, limits config.Limits) *Ledger {
	return &Ledger{
		txn:     txn,
		bundles: bundle.New(txn, limits),
		graph:   social.New(txn, limits),
		reg:     registry.New(txn, limits),
		limits:  limits,
	}
}

// requireUnlocked gates every reputation write: the bundle must exist and the
// caller must hold an unlock grant or own the bundle.
func (l *Ledger) requireUnlocked(caller string, id uint64) error {
	owner, err := l.bundles.Owner(id)
	if err != nil {
		return err
	}
	if owner == caller {
		return nil
	}
	unlocked, err := l.bundles.IsUnlockedBy(caller, id)
	if err != nil {
		return err
	}
	if !unlocked {
		return ErrNotUnlocked
	}
	return nil
}

func (l *Ledger) counterKey(id uint64, up bool) []byte {
	region := kvstore.RegionDownvotes
	if up {
		region = kvstore.RegionUpvotes
	}
	return kvstore.Key(region, kvstore.U64Key(id))
}

func (l *Ledger) adjustCounter(id uint64, up bool, delta int64) error {
	key := l.counterKey(id, up)
	n, err := kvstore.GetUint64(l.txn, key)
	if err != nil {
		return err
	}
	if delta < 0 && n == 0 {
		return nil
	}
	return kvstore.SetJSON(l.txn, key, uint64(int64(n)+delta))
}

// Upvotes returns the bundle's current upvote counter.
func (l *Ledger) Upvotes(id uint64) (uint64, error) {
	return kvstore.GetUint64(l.txn, l.counterKey(id, true))
}

// Downvotes returns the bundle's current downvote counter.
func (l *Ledger) Downvotes(id uint64) (uint64, error) {
	return kvstore.GetUint64(l.txn, l.counterKey(id, false))
}
