package router

import (
	"bundlenet/pkg/bundle"
	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/ledger"
	"bundlenet/pkg/models"
	"bundlenet/pkg/registry"
	"bundlenet/pkg/social"
	"bundlenet/pkg/viewingkey"
)

// Execute runs one mutating request to completion. The call either commits
// every write it made or none of them: any error aborts the enclosing store
// transaction.
func (r *Router) Execute(env Env, raw []byte) Response {
	m, err := DecodeMutation(raw)
	if err != nil {
		return fail(err)
	}
	if env.Sender == "" {
		return fail(ErrNoSender)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var result interface{}
	err = r.store.Update(func(txn kvstore.Txn) error {
		var err error
		result, err = r.dispatch(txn, env, m)
		return err
	})
	if err != nil {
		r.logger.Debug().Err(err).Str("sender", env.Sender).Msg("mutation rejected")
		return fail(err)
	}
	return ok(result)
}

func (r *Router) dispatch(txn kvstore.Txn, env Env, m Mutation) (interface{}, error) {
	consts, err := config.LoadConstants(txn)
	if err != nil {
		return nil, err
	}
	limits := consts.Limits
	isAdmin := env.Sender == consts.Admin

	reg := registry.New(txn, limits)
	banned, err := reg.IsBanned(env.Sender)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, ErrBanned
	}
	frozen, err := config.IsFrozen(txn)
	if err != nil {
		return nil, err
	}
	if frozen && !isAdmin {
		return nil, ErrFrozen
	}

	graph := social.New(txn, limits)
	bundles := bundle.New(txn, limits)
	reputation := ledger.New(txn, limits)

	switch m := m.(type) {
	case *Register:
		return ackOK, reg.Register(env.Sender, m.Handle, m.Description)
	case *SetDescription:
		return ackOK, reg.SetDescription(env.Sender, m.Description)
	case *SetThumbnail:
		return ackOK, reg.SetThumbnail(env.Sender, m.Thumbnail)
	case *Deactivate:
		return ackOK, reg.Deactivate(env.Sender)
	case *Reactivate:
		return ackOK, reg.Reactivate(env.Sender)

	case *GenerateViewingKey:
		key, err := viewingkey.Generate(txn, consts.SeedHash, env.Sender, env.Entropy, env.Clock)
		if err != nil {
			return nil, err
		}
		return struct {
			Key string `json:"viewing_key"`
		}{string(key)}, nil
	case *SetViewingKey:
		return ackOK, viewingkey.Set(txn, env.Sender, viewingkey.Key(m.Key))

	case *Follow:
		return ackOK, graph.Follow(env.Sender, m.Handle)
	case *Unfollow:
		return ackOK, graph.Unfollow(env.Sender, m.Handle)
	case *Block:
		return ackOK, graph.Block(env.Sender, m.Handle)
	case *Unblock:
		return ackOK, graph.Unblock(env.Sender, m.Handle)

	case *CreateBundle:
		contents := models.Contents{Text: m.ContentsText, ExternalRef: m.ExternalRef, Passphrase: m.Passphrase}
		id, err := bundles.Create(env.Sender, m.PublicMessage, contents, m.Cost, env.Clock)
		if err != nil {
			return nil, err
		}
		return struct {
			BundleID uint64 `json:"bundle_id"`
		}{id}, nil
	case *SealBundle:
		return ackOK, bundles.Seal(env.Sender, m.BundleID)
	case *HideBundle:
		return ackOK, bundles.Hide(env.Sender, m.BundleID)
	case *UnhideBundle:
		return ackOK, bundles.Unhide(env.Sender, m.BundleID)
	case *UnlockBundle:
		contents, err := bundles.Unlock(env.Sender, m.BundleID, env.Funds, env.Clock)
		if err != nil {
			return nil, err
		}
		return contents, nil

	case *Rate:
		return ackOK, reputation.Rate(env.Sender, m.BundleID, m.Up)
	case *Unrate:
		return ackOK, reputation.Unrate(env.Sender, m.BundleID)
	case *Comment:
		idx, err := reputation.Comment(env.Sender, m.BundleID, m.Text, m.Rating, env.Clock)
		if err != nil {
			return nil, err
		}
		return struct {
			Index uint32 `json:"comment_idx"`
		}{idx}, nil
	case *DeleteComment:
		return ackOK, reputation.DeleteComment(env.Sender, m.BundleID, m.Index)

	case *SetConstants:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		consts.Limits = m.Limits
		return ackOK, config.SaveConstants(txn, consts)
	case *ChangeAdmin:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		changed, err := config.RecordAdminChange(txn, m.Address)
		if err != nil {
			return nil, err
		}
		return struct {
			Changed bool `json:"changed"`
		}{changed}, nil
	case *Freeze:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		return ackOK, config.SetFrozen(txn, true)
	case *Unfreeze:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		return ackOK, config.SetFrozen(txn, false)
	case *Ban:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		owner, err := reg.ResolveHandle(m.Handle)
		if err != nil {
			return nil, err
		}
		return ackOK, reg.SetBanned(owner, true)
	case *Unban:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		owner, err := reg.ResolveHandle(m.Handle)
		if err != nil {
			return nil, err
		}
		return ackOK, reg.SetBanned(owner, false)
	case *RemoveBundle:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		return ackOK, bundles.Remove(m.BundleID)
	case *UnremoveBundle:
		if !isAdmin {
			return nil, ErrAdminOnly
		}
		return ackOK, bundles.Unremove(m.BundleID)
	}
	return nil, ErrBadRequest
}
