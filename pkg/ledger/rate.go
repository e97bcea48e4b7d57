package ledger

import (
	"errors"

	"bundlenet/pkg/kvstore"
)

// Rate records an up or down vote by caller on the bundle. A caller has at
// most one active rating per bundle: repeating the same vote is a no-op, and
// voting the opposite way decrements the old counter and increments the new
// one in the same call, never double-counting.
func (l *Ledger) Rate(caller string, id uint64, up bool) error {
	if err := l.requireUnlocked(caller, id); err != nil {
		return err
	}
	return l.applyRating(caller, id, up)
}

func (l *Ledger) applyRating(caller string, id uint64, up bool) error {
	key := kvstore.Key(kvstore.RegionRated, []byte(caller), kvstore.U64Key(id))

	var prior bool
	err := kvstore.GetJSON(l.txn, key, &prior)
	switch {
	case errors.Is(err, kvstore.ErrKeyNotFound):
		if err := l.adjustCounter(id, up, 1); err != nil {
			return err
		}
	case err != nil:
		return err
	case prior == up:
		return nil
	default:
		if err := l.adjustCounter(id, prior, -1); err != nil {
			return err
		}
		if err := l.adjustCounter(id, up, 1); err != nil {
			return err
		}
	}
	return kvstore.SetJSON(l.txn, key, up)
}

// Unrate withdraws the caller's rating, decrementing the matching counter.
func (l *Ledger) Unrate(caller string, id uint64) error {
	if err := l.requireUnlocked(caller, id); err != nil {
		return err
	}
	key := kvstore.Key(kvstore.RegionRated, []byte(caller), kvstore.U64Key(id))

	var prior bool
	err := kvstore.GetJSON(l.txn, key, &prior)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return ErrNotRated
	}
	if err != nil {
		return err
	}
	if err := l.adjustCounter(id, prior, -1); err != nil {
		return err
	}
	return l.txn.Delete(key)
}

// Rating returns the caller's own rating on the bundle, if any.
func (l *Ledger) Rating(caller string, id uint64) (rated, up bool, err error) {
	err = kvstore.GetJSON(l.txn, kvstore.Key(kvstore.RegionRated, []byte(caller), kvstore.U64Key(id)), &up)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, up, nil
}
