// Package registry maintains the account records and the handle index.
// Handles are unique across the store; every other lookup by handle goes
// through ResolveHandle so the index stays the single source of truth.
package registry

import (
	"errors"
	"strings"
	"unicode"

	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
)

// Registry operates on account state within a single transaction.
type Registry struct {
	txn    kvstore.Txn
	limits config.Limits
}

func New(txn kvstore.Txn, limits config.Limits) *Registry {
	return &Registry{txn: txn, limits: limits}
}

// Account returns the stored account record for owner.
func (r *Registry) Account(owner string) (models.Account, error) {
	var acct models.Account
	err := kvstore.GetJSON(r.txn, kvstore.Key(kvstore.RegionAccount, []byte(owner)), &acct)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return models.Account{}, ErrNotRegistered
	}
	if err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

// Handle returns the handle registered by owner.
func (r *Registry) Handle(owner string) (string, error) {
	acct, err := r.Account(owner)
	if err != nil {
		return "", err
	}
	return acct.Handle, nil
}

// ResolveHandle returns the owner address behind a handle.
func (r *Registry) ResolveHandle(handle string) (string, error) {
	owner, err := r.txn.Get(kvstore.Key(kvstore.RegionHandle, []byte(handle)))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return "", ErrUnknownHandle
	}
	if err != nil {
		return "", err
	}
	return string(owner), nil
}

// HandleAvailable reports whether a handle could be claimed by a new account.
// The handle is validated first so callers cannot probe with malformed input.
func (r *Registry) HandleAvailable(handle string) (bool, error) {
	if _, err := r.normalizeHandle(handle); err != nil {
		return false, err
	}
	_, err := r.ResolveHandle(strings.TrimSpace(handle))
	if errors.Is(err, ErrUnknownHandle) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (r *Registry) normalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || len(handle) > r.limits.MaxHandleLen {
		return "", ErrInvalidHandle
	}
	if strings.ContainsFunc(handle, unicode.IsSpace) {
		return "", ErrInvalidHandle
	}
	return handle, nil
}

func (r *Registry) validateDescription(description string) error {
	if len(description) > r.limits.MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}
