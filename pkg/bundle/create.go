package bundle

import (
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
)

// Create stores a new unsealed bundle for owner and returns its id. The owner
// must hold a registered handle; all bounds come from the active limits. At
// least one of contents text or an external reference is required so a bundle
// always has something behind the paywall.
func (s *Service) Create(owner, publicMessage string, contents models.Contents, cost, clock uint64) (uint64, error) {
	if _, err := s.reg.Account(owner); err != nil {
		return 0, err
	}
	if len(publicMessage) > s.limits.MaxPublicMessageLen {
		return 0, ErrMessageTooLong
	}
	if contents.Text == "" && contents.ExternalRef == "" {
		return 0, ErrEmptyContents
	}
	if len(contents.Text) > s.limits.MaxContentsTextLen ||
		len(contents.ExternalRef) > s.limits.MaxExternalRefLen ||
		len(contents.Passphrase) > s.limits.MaxPassphraseLen {
		return 0, ErrContentsTooLong
	}
	if cost > s.limits.MaxCost {
		return 0, ErrCostTooHigh
	}

	id, err := s.nextID()
	if err != nil {
		return 0, err
	}
	b := models.Bundle{
		ID:            id,
		Owner:         owner,
		PublicMessage: publicMessage,
		ContentsText:  contents.Text,
		ExternalRef:   contents.ExternalRef,
		Passphrase:    contents.Passphrase,
		Cost:          cost,
		CreatedAt:     clock,
	}
	idx, err := kvstore.NewList(s.txn, kvstore.RegionBundle, []byte(owner)).Append(encodeJSON(b))
	if err != nil {
		return 0, err
	}
	ref := models.BundleRef{Owner: owner, Index: idx}
	if err := kvstore.SetJSON(s.txn, kvstore.Key(kvstore.RegionBundleByID, kvstore.U64Key(id)), ref); err != nil {
		return 0, err
	}
	return id, nil
}
