// Package social maintains the follow graph and the per-account block list.
// Follow sets are stored as an append-only member list plus an address-to-index
// map, with an active flag per entry. Deactivating an entry instead of removing
// it keeps indices stable, so a follow/unfollow/follow cycle reuses one slot.
package social

import (
	"errors"

	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/registry"
)

// Graph operates on follow state within a single transaction.
type Graph struct {
	txn    kvstore.Txn
	reg    *registry.Registry
	limits config.Limits
}

func New(txn kvstore.Txn, limits config.Limits) *Graph {
	return &Graph{txn: txn, reg: registry.New(txn, limits), limits: limits}
}

type member struct {
	Addr   string `json:"addr"`
	Active bool   `json:"active"`
}

// setMembership activates or deactivates member in the set stored under
// (listRegion, idxRegion, owner). It reports whether the active state changed.
func (g *Graph) setMembership(listRegion, idxRegion, owner, addr string, active bool) (bool, error) {
	idxKey := kvstore.Key(idxRegion, []byte(owner), []byte(addr))
	list := kvstore.NewList(g.txn, listRegion, []byte(owner))

	raw, err := g.txn.Get(idxKey)
	switch {
	case errors.Is(err, kvstore.ErrKeyNotFound):
		if !active {
			return false, nil
		}
		idx, err := list.Append(mustEncode(member{Addr: addr, Active: true}))
		if err != nil {
			return false, err
		}
		return true, g.txn.Set(idxKey, kvstore.U32Key(idx))
	case err != nil:
		return false, err
	}

	idx := decodeU32(raw)
	entry, err := list.Get(idx)
	if err != nil {
		return false, err
	}
	m, err := decodeMember(entry)
	if err != nil {
		return false, err
	}
	if m.Active == active {
		return false, nil
	}
	m.Active = active
	return true, list.Set(idx, mustEncode(m))
}

// activeMembers walks the set newest-first, skipping inactive entries, and
// returns up to pageSize active member addresses for the requested page.
func (g *Graph) activeMembers(listRegion, owner string, page, pageSize uint32) ([]string, error) {
	pageSize = g.limits.ClampPageSize(pageSize)
	list := kvstore.NewList(g.txn, listRegion, []byte(owner))
	n, err := list.Len()
	if err != nil {
		return nil, err
	}

	skip := uint64(page) * uint64(pageSize)
	var seen uint64
	addrs := make([]string, 0, pageSize)
	for i := n; i > 0 && uint32(len(addrs)) < pageSize; i-- {
		entry, err := list.Get(i - 1)
		if err != nil {
			return nil, err
		}
		m, err := decodeMember(entry)
		if err != nil {
			return nil, err
		}
		if !m.Active {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		addrs = append(addrs, m.Addr)
	}
	return addrs, nil
}

// isActiveMember checks membership via the index map without touching the list
// ordering.
func (g *Graph) isActiveMember(listRegion, idxRegion, owner, addr string) (bool, error) {
	raw, err := g.txn.Get(kvstore.Key(idxRegion, []byte(owner), []byte(addr)))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	entry, err := kvstore.NewList(g.txn, listRegion, []byte(owner)).Get(decodeU32(raw))
	if err != nil {
		return false, err
	}
	m, err := decodeMember(entry)
	if err != nil {
		return false, err
	}
	return m.Active, nil
}
