package router

import (
	"errors"

	"bundlenet/pkg/bundle"
	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/ledger"
	"bundlenet/pkg/models"
	"bundlenet/pkg/registry"
	"bundlenet/pkg/social"
	"bundlenet/pkg/viewingkey"
)

// Query answers one read-only request against the last committed state.
// Viewing-key failures never abort: they fold into the generic auth_failed
// result so the response shape leaks nothing about which accounts exist.
func (r *Router) Query(raw []byte) Response {
	q, err := DecodeQuery(raw)
	if err != nil {
		return fail(err)
	}

	var resp Response
	err = r.store.View(func(txn kvstore.Txn) error {
		resp = r.answer(txn, q)
		return nil
	})
	if err != nil {
		return fail(err)
	}
	return resp
}

func (r *Router) answer(txn kvstore.Txn, q Query) Response {
	consts, err := config.LoadConstants(txn)
	if err != nil {
		return fail(err)
	}
	limits := consts.Limits

	reg := registry.New(txn, limits)
	graph := social.New(txn, limits)
	bundles := bundle.New(txn, limits)
	reputation := ledger.New(txn, limits)

	authenticate := func(address, key string) (bool, error) {
		return viewingkey.Authenticate(txn, address, viewingkey.Key(key))
	}

	switch q := q.(type) {
	case *HandleAvailable:
		free, err := reg.HandleAvailable(q.Handle)
		if err != nil {
			return fail(err)
		}
		return ok(struct {
			Available bool `json:"available"`
		}{free})

	case *GetProfile:
		p, err := reg.ProfileByHandle(q.Handle)
		if err != nil {
			return fail(err)
		}
		owner, err := reg.ResolveHandle(q.Handle)
		if err != nil {
			return fail(err)
		}
		n, err := graph.FollowerCount(owner)
		if err != nil {
			return fail(err)
		}
		p.FollowerCount = uint32(n)
		return ok(p)

	case *GetBundle:
		requester := ""
		if q.Key != "" {
			authed, err := authenticate(q.Address, q.Key)
			if err != nil {
				return fail(err)
			}
			if !authed {
				return ok(authFailed{true})
			}
			requester = q.Address
		}
		v, err := bundles.Get(q.BundleID, requester)
		if err != nil {
			return fail(err)
		}
		return ok(v)

	case *ListBundles:
		views, err := bundles.ListForHandle(q.Handle, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(bundleList(views))

	case *ListComments:
		views, err := reputation.Comments(q.BundleID, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(commentList(views))

	case *ListFollowing:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		handles, err := graph.Following(q.Address, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(handleList(handles))

	case *ListFollowers:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		handles, err := graph.Followers(q.Address, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(handleList(handles))

	case *IsFollowing:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		following, err := graph.IsFollowing(q.Address, q.Handle)
		if errors.Is(err, registry.ErrUnknownHandle) {
			following = false
		} else if err != nil {
			return fail(err)
		}
		return ok(struct {
			Following bool `json:"following"`
		}{following})

	case *ListUnlocked:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		views, err := bundles.ListUnlocked(q.Address, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(bundleList(views))

	case *ListSales:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		txs, err := bundles.ListSales(q.Address, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(struct {
			Sales []models.SaleTx `json:"sales"`
		}{nonNilSales(txs)})

	case *ListPurchases:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		txs, err := bundles.ListPurchases(q.Address, q.Page, q.PageSize)
		if err != nil {
			return fail(err)
		}
		return ok(struct {
			Purchases []models.PurchaseTx `json:"purchases"`
		}{nonNilPurchases(txs)})

	case *GetRating:
		authed, err := authenticate(q.Address, q.Key)
		if err != nil {
			return fail(err)
		}
		if !authed {
			return ok(authFailed{true})
		}
		rated, up, err := reputation.Rating(q.Address, q.BundleID)
		if err != nil {
			return fail(err)
		}
		return ok(struct {
			Rated bool `json:"rated"`
			Up    bool `json:"up"`
		}{rated, up})
	}
	return fail(ErrBadRequest)
}

// Empty lists marshal as [] rather than null.

func bundleList(views []models.BundleView) interface{} {
	if views == nil {
		views = []models.BundleView{}
	}
	return struct {
		Bundles []models.BundleView `json:"bundles"`
	}{views}
}

func commentList(views []models.CommentView) interface{} {
	if views == nil {
		views = []models.CommentView{}
	}
	return struct {
		Comments []models.CommentView `json:"comments"`
	}{views}
}

func handleList(handles []string) interface{} {
	if handles == nil {
		handles = []string{}
	}
	return struct {
		Handles []string `json:"handles"`
	}{handles}
}

func nonNilSales(txs []models.SaleTx) []models.SaleTx {
	if txs == nil {
		return []models.SaleTx{}
	}
	return txs
}

func nonNilPurchases(txs []models.PurchaseTx) []models.PurchaseTx {
	if txs == nil {
		return []models.PurchaseTx{}
	}
	return txs
}
