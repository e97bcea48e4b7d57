package ledger

import (
	"encoding/json"
	"fmt"

	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
)

// Comment appends a comment by caller to the bundle's list and returns its
// stable index. An attached rating applies the usual rating transition in the
// same call, so comment and rating commit together or not at all.
func (l *Ledger) Comment(caller string, id uint64, text string, rating *bool, clock uint64) (uint32, error) {
	if err := l.requireUnlocked(caller, id); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, ErrEmptyComment
	}
	if len(text) > l.limits.MaxCommentLen {
		return 0, ErrCommentTooLong
	}

	c := models.Comment{Commenter: caller, Text: text, Timestamp: clock}
	raw, err := json.Marshal(c)
	if err != nil {
		return 0, fmt.Errorf("encode comment: %w", err)
	}
	idx, err := kvstore.NewList(l.txn, kvstore.RegionComments, kvstore.U64Key(id)).Append(raw)
	if err != nil {
		return 0, err
	}

	if rating != nil {
		if err := l.applyRating(caller, id, *rating); err != nil {
			return 0, err
		}
	}
	return idx, nil
}

// DeleteComment tombstones the comment at idx. Only its author may delete it;
// later comments keep their indices.
func (l *Ledger) DeleteComment(caller string, id uint64, idx uint32) error {
	if _, err := l.bundles.Owner(id); err != nil {
		return err
	}
	c, err := l.commentAt(id, idx)
	if err != nil {
		return err
	}
	if c.Commenter != caller {
		return ErrNotCommentAuthor
	}
	deleted, err := l.isDeleted(id, idx)
	if err != nil {
		return err
	}
	if deleted {
		return ErrCommentNotFound
	}
	return kvstore.SetJSON(l.txn, kvstore.Key(kvstore.RegionDeletedComment, kvstore.U64Key(id), kvstore.U32Key(idx)), true)
}

// Comments lists the bundle's comments newest-first, skipping deleted entries
// and authors the bundle owner has blocked. Authors appear by handle when
// registered, by address otherwise.
func (l *Ledger) Comments(id uint64, page, pageSize uint32) ([]models.CommentView, error) {
	owner, err := l.bundles.Owner(id)
	if err != nil {
		return nil, err
	}

	pageSize = l.limits.ClampPageSize(pageSize)
	list := kvstore.NewList(l.txn, kvstore.RegionComments, kvstore.U64Key(id))
	n, err := list.Len()
	if err != nil {
		return nil, err
	}

	skip := uint64(page) * uint64(pageSize)
	var seen uint64
	views := make([]models.CommentView, 0, pageSize)
	for i := n; i > 0 && uint32(len(views)) < pageSize; i-- {
		idx := i - 1
		deleted, err := l.isDeleted(id, idx)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		c, err := l.commentAt(id, idx)
		if err != nil {
			return nil, err
		}
		blocked, err := l.graph.IsBlockedBy(c.Commenter, owner)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		views = append(views, models.CommentView{
			Index:     idx,
			Handle:    l.authorName(c.Commenter),
			Text:      c.Text,
			Timestamp: c.Timestamp,
		})
	}
	return views, nil
}

// CommentCount returns the number of comments ever posted, tombstoned or not.
func (l *Ledger) CommentCount(id uint64) (uint32, error) {
	return kvstore.NewList(l.txn, kvstore.RegionComments, kvstore.U64Key(id)).Len()
}

func (l *Ledger) commentAt(id uint64, idx uint32) (models.Comment, error) {
	raw, err := kvstore.NewList(l.txn, kvstore.RegionComments, kvstore.U64Key(id)).Get(idx)
	if err != nil {
		return models.Comment{}, ErrCommentNotFound
	}
	var c models.Comment
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.Comment{}, fmt.Errorf("decode comment: %w", err)
	}
	return c, nil
}

func (l *Ledger) isDeleted(id uint64, idx uint32) (bool, error) {
	return kvstore.GetBool(l.txn, kvstore.Key(kvstore.RegionDeletedComment, kvstore.U64Key(id), kvstore.U32Key(idx)))
}

func (l *Ledger) authorName(addr string) string {
	acct, err := l.reg.Account(addr)
	if err != nil {
		return addr
	}
	return acct.Handle
}
