package bundle

import "errors"

var (
	// ErrBundleNotFound is returned for unknown ids and for bundles withdrawn
	// from public view, so probing callers cannot tell the two apart.
	ErrBundleNotFound = errors.New("bundle not found")

	// ErrNotOwner is returned when a caller operates on someone else's bundle.
	ErrNotOwner = errors.New("caller does not own this bundle")

	// ErrSealed is returned when a new unlock is attempted on a sealed bundle.
	ErrSealed = errors.New("bundle is sealed")

	// ErrPaymentMismatch is returned unless the attached funds equal the cost
	// exactly. Overpayment is rejected the same as underpayment.
	ErrPaymentMismatch = errors.New("attached funds do not match bundle cost")

	// ErrCostTooHigh is returned when a bundle is priced above the configured cap.
	ErrCostTooHigh = errors.New("bundle cost exceeds maximum")

	// ErrEmptyContents is returned when a bundle carries neither contents text
	// nor an external reference.
	ErrEmptyContents = errors.New("bundle has no contents")

	// ErrMessageTooLong is returned when the public message exceeds its bound.
	ErrMessageTooLong = errors.New("public message is too long")

	// ErrContentsTooLong is returned when a private contents field exceeds its bound.
	ErrContentsTooLong = errors.New("contents field is too long")
)
