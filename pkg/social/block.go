package social

import (
	"bundlenet/pkg/kvstore"
)

// Block hides the account behind handle from the sender's comment threads.
// The follow graph is untouched; blocks only filter what the blocker sees.
func (g *Graph) Block(sender, handle string) error {
	blocked, err := g.reg.ResolveHandle(handle)
	if err != nil {
		return err
	}
	return kvstore.SetJSON(g.txn, kvstore.Key(kvstore.RegionBlocked, []byte(sender), []byte(blocked)), true)
}

// Unblock lifts a block. Unblocking someone not blocked is a no-op.
func (g *Graph) Unblock(sender, handle string) error {
	blocked, err := g.reg.ResolveHandle(handle)
	if err != nil {
		return err
	}
	return g.txn.Delete(kvstore.Key(kvstore.RegionBlocked, []byte(sender), []byte(blocked)))
}

// IsBlockedBy reports whether owner has blocked addr.
func (g *Graph) IsBlockedBy(addr, owner string) (bool, error) {
	return kvstore.GetBool(g.txn, kvstore.Key(kvstore.RegionBlocked, []byte(owner), []byte(addr)))
}
