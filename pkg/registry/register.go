package registry

import (
	"errors"
	"fmt"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
)

// Register claims a handle for owner, creating the account if needed. An
// already-registered owner may re-register to change handle or description;
// the previous handle is released in the same call. Claiming a handle that a
// different account holds fails with ErrHandleTaken.
func (r *Registry) Register(owner, handle, description string) error {
	handle, err := r.normalizeHandle(handle)
	if err != nil {
		return err
	}
	if err := r.validateDescription(description); err != nil {
		return err
	}

	current, err := r.ResolveHandle(handle)
	switch {
	case err == nil:
		if current != owner {
			return fmt.Errorf("%w: %s", ErrHandleTaken, handle)
		}
	case !errors.Is(err, ErrUnknownHandle):
		return err
	}

	acct, err := r.Account(owner)
	switch {
	case err == nil:
		if acct.Handle != handle {
			if err := r.txn.Delete(kvstore.Key(kvstore.RegionHandle, []byte(acct.Handle))); err != nil {
				return err
			}
		}
	case !errors.Is(err, ErrNotRegistered):
		return err
	}

	if err := r.txn.Set(kvstore.Key(kvstore.RegionHandle, []byte(handle)), []byte(owner)); err != nil {
		return err
	}
	acct = models.Account{Owner: owner, Handle: handle, Description: description}
	return kvstore.SetJSON(r.txn, kvstore.Key(kvstore.RegionAccount, []byte(owner)), acct)
}

// SetDescription replaces the profile description of a registered account.
func (r *Registry) SetDescription(owner, description string) error {
	if err := r.validateDescription(description); err != nil {
		return err
	}
	acct, err := r.Account(owner)
	if err != nil {
		return err
	}
	acct.Description = description
	return kvstore.SetJSON(r.txn, kvstore.Key(kvstore.RegionAccount, []byte(owner)), acct)
}

// SetThumbnail stores the profile image for a registered account. An empty
// image clears it.
func (r *Registry) SetThumbnail(owner string, img []byte) error {
	if len(img) > r.limits.MaxThumbnailSize {
		return ErrThumbnailTooLarge
	}
	if _, err := r.Account(owner); err != nil {
		return err
	}
	key := kvstore.Key(kvstore.RegionAccountImg, []byte(owner))
	if len(img) == 0 {
		return r.txn.Delete(key)
	}
	return r.txn.Set(key, img)
}

// Thumbnail returns the stored profile image, or nil when none is set.
func (r *Registry) Thumbnail(owner string) ([]byte, error) {
	img, err := r.txn.Get(kvstore.Key(kvstore.RegionAccountImg, []byte(owner)))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, nil
	}
	return img, err
}
