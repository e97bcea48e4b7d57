package bundle

import (
	"errors"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
	"bundlenet/pkg/registry"
)

// Get returns the bundle's public view for requester, with the private
// contents attached when the requester is the owner or holds an unlock grant.
// Hidden and removed bundles answer ErrBundleNotFound to everyone else.
func (s *Service) Get(id uint64, requester string) (models.BundleView, error) {
	b, err := s.load(id)
	if err != nil {
		return models.BundleView{}, err
	}
	unlocked, err := s.IsUnlockedBy(requester, id)
	if err != nil {
		return models.BundleView{}, err
	}
	if requester == b.Owner {
		unlocked = true
	}

	hidden, err := s.hiddenFromPublic(id)
	if err != nil {
		return models.BundleView{}, err
	}
	if hidden && !unlocked {
		return models.BundleView{}, ErrBundleNotFound
	}

	return s.view(b, unlocked)
}

// ListForHandle returns the bundles published under handle, newest first.
// Hidden and removed bundles are skipped; a deactivated owner lists nothing.
func (s *Service) ListForHandle(handle string, page, pageSize uint32) ([]models.BundleView, error) {
	owner, err := s.reg.ResolveHandle(handle)
	if errors.Is(err, registry.ErrUnknownHandle) {
		return nil, ErrBundleNotFound
	}
	if err != nil {
		return nil, err
	}
	deactivated, err := s.reg.IsDeactivated(owner)
	if err != nil {
		return nil, err
	}
	if deactivated {
		return nil, nil
	}

	pageSize = s.limits.ClampPageSize(pageSize)
	list := kvstore.NewList(s.txn, kvstore.RegionBundle, []byte(owner))
	n, err := list.Len()
	if err != nil {
		return nil, err
	}

	skip := uint64(page) * uint64(pageSize)
	var seen uint64
	views := make([]models.BundleView, 0, pageSize)
	for i := n; i > 0 && uint32(len(views)) < pageSize; i-- {
		raw, err := list.Get(i - 1)
		if err != nil {
			return nil, err
		}
		var b models.Bundle
		if err := decodeJSON(raw, &b); err != nil {
			return nil, err
		}
		hidden, err := s.hiddenFromPublic(b.ID)
		if err != nil {
			return nil, err
		}
		if hidden {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		v, err := s.view(b, false)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// view assembles the response shape from the stored record plus the counter
// regions the ledger maintains.
func (s *Service) view(b models.Bundle, unlocked bool) (models.BundleView, error) {
	sealed, err := s.IsSealed(b.ID)
	if err != nil {
		return models.BundleView{}, err
	}
	up, err := kvstore.GetUint64(s.txn, kvstore.Key(kvstore.RegionUpvotes, kvstore.U64Key(b.ID)))
	if err != nil {
		return models.BundleView{}, err
	}
	down, err := kvstore.GetUint64(s.txn, kvstore.Key(kvstore.RegionDownvotes, kvstore.U64Key(b.ID)))
	if err != nil {
		return models.BundleView{}, err
	}
	comments, err := kvstore.NewList(s.txn, kvstore.RegionComments, kvstore.U64Key(b.ID)).Len()
	if err != nil {
		return models.BundleView{}, err
	}

	v := models.BundleView{
		ID:             b.ID,
		Handle:         s.displayName(b.Owner),
		PublicMessage:  b.PublicMessage,
		Cost:           b.Cost,
		Sealed:         sealed,
		HasExternalRef: b.ExternalRef != "",
		Upvotes:        uint32(up),
		Downvotes:      uint32(down),
		CommentCount:   comments,
		CreatedAt:      b.CreatedAt,
		Unlocked:       unlocked,
	}
	if unlocked {
		v.Contents = &models.Contents{Text: b.ContentsText, ExternalRef: b.ExternalRef, Passphrase: b.Passphrase}
	}
	return v, nil
}
