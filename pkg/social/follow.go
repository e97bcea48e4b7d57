package social

import (
	"errors"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/registry"
)

// Follow adds the account behind handle to the sender's follow set. Following
// an already-followed handle is a no-op; the follower count only moves when
// membership actually changes.
func (g *Graph) Follow(sender, handle string) error {
	followee, err := g.reg.ResolveHandle(handle)
	if err != nil {
		return err
	}
	if followee == sender {
		return ErrSelfFollow
	}

	if _, err := g.setMembership(kvstore.RegionFollowing, kvstore.RegionFollowingIdx, sender, followee, true); err != nil {
		return err
	}
	changed, err := g.setMembership(kvstore.RegionFollowers, kvstore.RegionFollowersIdx, followee, sender, true)
	if err != nil {
		return err
	}
	if changed {
		return g.adjustFollowerCount(followee, 1)
	}
	return nil
}

// Unfollow removes the account behind handle from the sender's follow set.
// Unfollowing someone not followed is a no-op.
func (g *Graph) Unfollow(sender, handle string) error {
	followee, err := g.reg.ResolveHandle(handle)
	if err != nil {
		return err
	}

	if _, err := g.setMembership(kvstore.RegionFollowing, kvstore.RegionFollowingIdx, sender, followee, false); err != nil {
		return err
	}
	changed, err := g.setMembership(kvstore.RegionFollowers, kvstore.RegionFollowersIdx, followee, sender, false)
	if err != nil {
		return err
	}
	if changed {
		return g.adjustFollowerCount(followee, -1)
	}
	return nil
}

// IsFollowing reports whether the sender currently follows the account behind
// handle.
func (g *Graph) IsFollowing(sender, handle string) (bool, error) {
	followee, err := g.reg.ResolveHandle(handle)
	if err != nil {
		return false, err
	}
	return g.isActiveMember(kvstore.RegionFollowing, kvstore.RegionFollowingIdx, sender, followee)
}

// Following returns the handles the sender follows, newest-first. Followees
// that have since released their handle are skipped.
func (g *Graph) Following(sender string, page, pageSize uint32) ([]string, error) {
	addrs, err := g.activeMembers(kvstore.RegionFollowing, sender, page, pageSize)
	if err != nil {
		return nil, err
	}
	return g.resolveHandles(addrs)
}

// Followers returns the handles following owner, newest-first. Followers
// without a registered handle are skipped.
func (g *Graph) Followers(owner string, page, pageSize uint32) ([]string, error) {
	addrs, err := g.activeMembers(kvstore.RegionFollowers, owner, page, pageSize)
	if err != nil {
		return nil, err
	}
	return g.resolveHandles(addrs)
}

// FollowerCount returns the number of accounts currently following owner.
func (g *Graph) FollowerCount(owner string) (uint64, error) {
	return kvstore.GetUint64(g.txn, kvstore.Key(kvstore.RegionFollowerCount, []byte(owner)))
}

func (g *Graph) adjustFollowerCount(owner string, delta int64) error {
	key := kvstore.Key(kvstore.RegionFollowerCount, []byte(owner))
	n, err := kvstore.GetUint64(g.txn, key)
	if err != nil {
		return err
	}
	if delta < 0 && n == 0 {
		return nil
	}
	return kvstore.SetJSON(g.txn, key, uint64(int64(n)+delta))
}

func (g *Graph) resolveHandles(addrs []string) ([]string, error) {
	handles := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		acct, err := g.reg.Account(addr)
		if errors.Is(err, registry.ErrNotRegistered) {
			continue
		}
		if err != nil {
			return nil, err
		}
		handles = append(handles, acct.Handle)
	}
	return handles, nil
}
