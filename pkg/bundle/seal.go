package bundle

import (
	"bundlenet/pkg/kvstore"
)

// Seal permanently stops new unlocks of the bundle. Only the owner may seal,
// and sealing is one-way: grants already purchased stay valid and there is no
// unseal.
func (s *Service) Seal(owner string, id uint64) error {
	if err := s.requireOwner(owner, id); err != nil {
		return err
	}
	return s.setFlag(kvstore.RegionSealed, id, true)
}

// Hide withdraws the bundle from listings and refuses new unlocks. Unlike
// sealing it is reversible, and prior unlockers keep read access.
func (s *Service) Hide(owner string, id uint64) error {
	if err := s.requireOwner(owner, id); err != nil {
		return err
	}
	return s.setFlag(kvstore.RegionHidden, id, true)
}

// Unhide restores a hidden bundle to public view.
func (s *Service) Unhide(owner string, id uint64) error {
	if err := s.requireOwner(owner, id); err != nil {
		return err
	}
	return s.setFlag(kvstore.RegionHidden, id, false)
}

// Remove is the moderation counterpart of Hide. The owner cannot undo it.
// Authorization is the caller's concern.
func (s *Service) Remove(id uint64) error {
	if _, err := s.ref(id); err != nil {
		return err
	}
	return s.setFlag(kvstore.RegionRemoved, id, true)
}

// Unremove lifts a moderation removal.
func (s *Service) Unremove(id uint64) error {
	if _, err := s.ref(id); err != nil {
		return err
	}
	return s.setFlag(kvstore.RegionRemoved, id, false)
}

func (s *Service) requireOwner(owner string, id uint64) error {
	ref, err := s.ref(id)
	if err != nil {
		return err
	}
	if ref.Owner != owner {
		return ErrNotOwner
	}
	return nil
}
