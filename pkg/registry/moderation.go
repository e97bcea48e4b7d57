package registry

import (
	"bundlenet/pkg/kvstore"
)

// Deactivate withdraws the account from public view. The account record and
// its bundles stay in the store; listings simply skip them until reactivation.
func (r *Registry) Deactivate(owner string) error {
	if _, err := r.Account(owner); err != nil {
		return err
	}
	return kvstore.SetJSON(r.txn, kvstore.Key(kvstore.RegionDeactivated, []byte(owner)), true)
}

// Reactivate restores a deactivated account to public view.
func (r *Registry) Reactivate(owner string) error {
	if _, err := r.Account(owner); err != nil {
		return err
	}
	return r.txn.Delete(kvstore.Key(kvstore.RegionDeactivated, []byte(owner)))
}

// IsDeactivated reports whether the owner has withdrawn from public view.
func (r *Registry) IsDeactivated(owner string) (bool, error) {
	return kvstore.GetBool(r.txn, kvstore.Key(kvstore.RegionDeactivated, []byte(owner)))
}

// SetBanned marks or unmarks an owner as banned. Banned owners are refused at
// the door before any operation runs; existing state is untouched.
func (r *Registry) SetBanned(owner string, banned bool) error {
	key := kvstore.Key(kvstore.RegionBanned, []byte(owner))
	if banned {
		return kvstore.SetJSON(r.txn, key, true)
	}
	return r.txn.Delete(key)
}

// IsBanned reports whether the owner is banned.
func (r *Registry) IsBanned(owner string) (bool, error) {
	return kvstore.GetBool(r.txn, kvstore.Key(kvstore.RegionBanned, []byte(owner)))
}
