package router

import (
	"errors"

	"bundlenet/pkg/bundle"
	"bundlenet/pkg/config"
	"bundlenet/pkg/ledger"
	"bundlenet/pkg/registry"
	"bundlenet/pkg/social"
)

// Kind is the machine-readable error class surfaced on the wire.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindAuthFailed      Kind = "auth_failed"
	KindUnauthorized    Kind = "unauthorized"
	KindPaymentMismatch Kind = "payment_mismatch"
	KindSealed          Kind = "sealed"
	KindInternal        Kind = "internal"
)

// Error is the structured failure of a mutating call.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

var (
	// ErrBadRequest is returned when the envelope cannot be decoded: unknown
	// type, malformed JSON, or unknown fields.
	ErrBadRequest = errors.New("malformed request")

	// ErrBanned is returned when a banned sender attempts any mutation.
	ErrBanned = errors.New("sender is banned")

	// ErrFrozen is returned to non-admin mutations while the machine is frozen.
	ErrFrozen = errors.New("mutations are frozen")

	// ErrAdminOnly is returned when a non-admin sends an administrative request.
	ErrAdminOnly = errors.New("administrative request requires the admin identity")

	// ErrNoSender is returned when a mutation arrives without a sender identity.
	ErrNoSender = errors.New("sender identity is required")
)

// classify maps a domain error onto its wire kind. Anything unrecognized is
// an internal fault of the host, not a caller mistake.
func classify(err error) Kind {
	switch {
	case errors.Is(err, registry.ErrHandleTaken):
		return KindConflict

	case errors.Is(err, registry.ErrInvalidHandle),
		errors.Is(err, registry.ErrDescriptionTooLong),
		errors.Is(err, registry.ErrThumbnailTooLarge),
		errors.Is(err, social.ErrSelfFollow),
		errors.Is(err, bundle.ErrMessageTooLong),
		errors.Is(err, bundle.ErrContentsTooLong),
		errors.Is(err, bundle.ErrEmptyContents),
		errors.Is(err, bundle.ErrCostTooHigh),
		errors.Is(err, ledger.ErrCommentTooLong),
		errors.Is(err, ledger.ErrEmptyComment),
		errors.Is(err, config.ErrInvalidLimit),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrNoSender):
		return KindValidation

	case errors.Is(err, registry.ErrUnknownHandle),
		errors.Is(err, bundle.ErrBundleNotFound),
		errors.Is(err, ledger.ErrCommentNotFound):
		return KindNotFound

	case errors.Is(err, registry.ErrNotRegistered),
		errors.Is(err, bundle.ErrNotOwner),
		errors.Is(err, ledger.ErrNotUnlocked),
		errors.Is(err, ledger.ErrNotRated),
		errors.Is(err, ledger.ErrNotCommentAuthor),
		errors.Is(err, ErrBanned),
		errors.Is(err, ErrFrozen),
		errors.Is(err, ErrAdminOnly):
		return KindUnauthorized

	case errors.Is(err, bundle.ErrPaymentMismatch):
		return KindPaymentMismatch

	case errors.Is(err, bundle.ErrSealed):
		return KindSealed
	}
	return KindInternal
}

func wireError(err error) *Error {
	return &Error{Kind: classify(err), Message: err.Error()}
}
