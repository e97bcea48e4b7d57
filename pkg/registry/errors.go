package registry

import "errors"

var (
	// ErrHandleTaken is returned when the requested handle belongs to a different account.
	ErrHandleTaken = errors.New("handle is already in use")

	// ErrInvalidHandle is returned when a handle is empty, too long, or contains whitespace.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrDescriptionTooLong is returned when a profile description exceeds the configured bound.
	ErrDescriptionTooLong = errors.New("description is too long")

	// ErrThumbnailTooLarge is returned when a thumbnail exceeds the configured size bound.
	ErrThumbnailTooLarge = errors.New("thumbnail image is too large")

	// ErrUnknownHandle is returned when no account owns the given handle.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrNotRegistered is returned when the owner has no account record.
	ErrNotRegistered = errors.New("account is not registered")
)
