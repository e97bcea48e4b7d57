package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundlenet/pkg/bundle"
	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/models"
	"bundlenet/pkg/registry"
	"bundlenet/pkg/social"
)

func exec(t *testing.T, store kvstore.Store, fn func(*Ledger) error) error {
	t.Helper()
	return store.Update(func(txn kvstore.Txn) error {
		return fn(New(txn, config.DefaultLimits()))
	})
}

// setupBundle registers alice with one bundle and gives bob an unlock grant.
func setupBundle(t *testing.T, store kvstore.Store) uint64 {
	t.Helper()
	var id uint64
	require.NoError(t, store.Update(func(txn kvstore.Txn) error {
		limits := config.DefaultLimits()
		reg := registry.New(txn, limits)
		if err := reg.Register("alice-addr", "alice", ""); err != nil {
			return err
		}
		if err := reg.Register("bob-addr", "bob", ""); err != nil {
			return err
		}
		svc := bundle.New(txn, limits)
		var err error
		id, err = svc.Create("alice-addr", "teaser", models.Contents{Text: "secret"}, 5, 100)
		if err != nil {
			return err
		}
		_, err = svc.Unlock("bob-addr", id, 5, 150)
		return err
	}))
	return id
}

func boolPtr(b bool) *bool { return &b }

func TestRateRequiresUnlock(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	err := exec(t, store, func(l *Ledger) error {
		return l.Rate("stranger-addr", id, true)
	})
	assert.ErrorIs(t, err, ErrNotUnlocked)

	err = exec(t, store, func(l *Ledger) error {
		return l.Rate("bob-addr", 999, true)
	})
	assert.ErrorIs(t, err, bundle.ErrBundleNotFound)
}

func TestRateIdempotentAndFlip(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	// Rating up twice counts once.
	for i := 0; i < 2; i++ {
		require.NoError(t, exec(t, store, func(l *Ledger) error {
			return l.Rate("bob-addr", id, true)
		}))
	}
	err := exec(t, store, func(l *Ledger) error {
		up, err := l.Upvotes(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), up)
		down, err := l.Downvotes(id)
		require.NoError(t, err)
		assert.Zero(t, down)
		return nil
	})
	require.NoError(t, err)

	// Flipping moves the vote, never double-counts.
	require.NoError(t, exec(t, store, func(l *Ledger) error {
		return l.Rate("bob-addr", id, false)
	}))
	err = exec(t, store, func(l *Ledger) error {
		up, err := l.Upvotes(id)
		require.NoError(t, err)
		assert.Zero(t, up)
		down, err := l.Downvotes(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), down)

		rated, isUp, err := l.Rating("bob-addr", id)
		require.NoError(t, err)
		assert.True(t, rated)
		assert.False(t, isUp)
		return nil
	})
	require.NoError(t, err)
}

func TestUnrate(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	err := exec(t, store, func(l *Ledger) error {
		return l.Unrate("bob-addr", id)
	})
	assert.ErrorIs(t, err, ErrNotRated)

	require.NoError(t, exec(t, store, func(l *Ledger) error {
		return l.Rate("bob-addr", id, true)
	}))
	require.NoError(t, exec(t, store, func(l *Ledger) error {
		return l.Unrate("bob-addr", id)
	}))

	err = exec(t, store, func(l *Ledger) error {
		up, err := l.Upvotes(id)
		require.NoError(t, err)
		assert.Zero(t, up)

		rated, _, err := l.Rating("bob-addr", id)
		require.NoError(t, err)
		assert.False(t, rated)
		return nil
	})
	require.NoError(t, err)
}

func TestCommentValidation(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	err := exec(t, store, func(l *Ledger) error {
		_, err := l.Comment("stranger-addr", id, "hi", nil, 200)
		return err
	})
	assert.ErrorIs(t, err, ErrNotUnlocked)

	err = exec(t, store, func(l *Ledger) error {
		_, err := l.Comment("bob-addr", id, "", nil, 200)
		return err
	})
	assert.ErrorIs(t, err, ErrEmptyComment)
}

func TestCommentWithRatingFlip(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	require.NoError(t, exec(t, store, func(l *Ledger) error {
		return l.Rate("bob-addr", id, true)
	}))

	// One call: one comment appended, counters reflect the flip.
	require.NoError(t, exec(t, store, func(l *Ledger) error {
		_, err := l.Comment("bob-addr", id, "changed my mind", boolPtr(false), 200)
		return err
	}))

	err := exec(t, store, func(l *Ledger) error {
		n, err := l.CommentCount(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), n)

		up, err := l.Upvotes(id)
		require.NoError(t, err)
		assert.Zero(t, up)
		down, err := l.Downvotes(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), down)
		return nil
	})
	require.NoError(t, err)
}

func TestCommentWithRatingRollsBackTogether(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	// A comment by someone without an unlock leaves no trace at all.
	err := exec(t, store, func(l *Ledger) error {
		_, err := l.Comment("stranger-addr", id, "sneaky", boolPtr(true), 200)
		return err
	})
	require.Error(t, err)

	err = exec(t, store, func(l *Ledger) error {
		n, err := l.CommentCount(id)
		require.NoError(t, err)
		assert.Zero(t, n)
		up, err := l.Upvotes(id)
		require.NoError(t, err)
		assert.Zero(t, up)
		return nil
	})
	require.NoError(t, err)
}

func TestDeleteComment(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	var first, second uint32
	require.NoError(t, exec(t, store, func(l *Ledger) error {
		var err error
		first, err = l.Comment("bob-addr", id, "one", nil, 200)
		if err != nil {
			return err
		}
		second, err = l.Comment("bob-addr", id, "two", nil, 201)
		return err
	}))

	// Only the author may delete.
	err := exec(t, store, func(l *Ledger) error {
		return l.DeleteComment("alice-addr", id, first)
	})
	assert.ErrorIs(t, err, ErrNotCommentAuthor)

	require.NoError(t, exec(t, store, func(l *Ledger) error {
		return l.DeleteComment("bob-addr", id, first)
	}))

	err = exec(t, store, func(l *Ledger) error {
		// Deleting twice fails, the survivor keeps its index.
		err := l.DeleteComment("bob-addr", id, first)
		assert.ErrorIs(t, err, ErrCommentNotFound)

		views, err := l.Comments(id, 0, 10)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, second, views[0].Index)
		assert.Equal(t, "two", views[0].Text)
		return nil
	})
	require.NoError(t, err)
}

func TestCommentsFilterBlockedAuthors(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	require.NoError(t, exec(t, store, func(l *Ledger) error {
		if _, err := l.Comment("bob-addr", id, "rude", nil, 200); err != nil {
			return err
		}
		return nil
	}))

	// The bundle owner blocks bob; his comment disappears from the listing.
	require.NoError(t, store.Update(func(txn kvstore.Txn) error {
		return social.New(txn, config.DefaultLimits()).Block("alice-addr", "bob")
	}))

	err := exec(t, store, func(l *Ledger) error {
		views, err := l.Comments(id, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, views)

		// The counter still reflects every comment ever posted.
		n, err := l.CommentCount(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), n)
		return nil
	})
	require.NoError(t, err)
}

func TestCommentsNewestFirst(t *testing.T) {
	store := kvstore.NewMemory()
	id := setupBundle(t, store)

	require.NoError(t, exec(t, store, func(l *Ledger) error {
		for _, text := range []string{"first", "second", "third"} {
			if _, err := l.Comment("bob-addr", id, text, nil, 200); err != nil {
				return err
			}
		}
		return nil
	}))

	err := exec(t, store, func(l *Ledger) error {
		views, err := l.Comments(id, 0, 10)
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, "third", views[0].Text)
		assert.Equal(t, "first", views[2].Text)
		assert.Equal(t, "bob", views[0].Handle)
		return nil
	})
	require.NoError(t, err)
}
