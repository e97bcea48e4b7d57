package ledger

import "errors"

var (
	// ErrNotUnlocked is returned when a caller rates or comments on a bundle
	// they never paid to unlock.
	ErrNotUnlocked = errors.New("bundle has not been unlocked by caller")

	// ErrNotRated is returned when a caller withdraws a rating they never gave.
	ErrNotRated = errors.New("caller has no rating on this bundle")

	// ErrCommentTooLong is returned when a comment exceeds the configured bound.
	ErrCommentTooLong = errors.New("comment is too long")

	// ErrEmptyComment is returned for a comment with no text.
	ErrEmptyComment = errors.New("comment is empty")

	// ErrCommentNotFound is returned for an index past the end of the list or
	// an already-deleted comment.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotCommentAuthor is returned when someone other than the author tries
	// to delete a comment.
	ErrNotCommentAuthor = errors.New("caller did not write this comment")
)
