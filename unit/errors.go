package unit

import "errors"

// Sentinel errors for unit validation.
// Every construction failure wraps exactly one of these; callers dispatch
// with errors.Is.
var (
	// ErrUnknownValue reports an enum-typed field value outside its
	// recognized set, including module/model recognition failures.
	ErrUnknownValue = errors.New("unit: unrecognized value")

	// ErrFieldConflict reports a legacy alias supplied together with its
	// canonical field, or 'mask' together with 'mask_image'.
	ErrFieldConflict = errors.New("unit: conflicting fields")

	// ErrRangeViolation reports a numeric bound violation, including
	// guidance_start > guidance_end.
	ErrRangeViolation = errors.New("unit: value out of range")

	// ErrShapeMismatch reports image and mask spatial dimensions differing.
	ErrShapeMismatch = errors.New("unit: shape mismatch")

	// ErrMalformedInput reports an unrecognized image-field shape, an empty
	// required sequence, a malformed infotext segment, or a missing
	// required sub-value.
	ErrMalformedInput = errors.New("unit: malformed input")

	// ErrHookNotConfigured reports a required host hook left unset.
	ErrHookNotConfigured = errors.New("unit: host hook not configured")
)
