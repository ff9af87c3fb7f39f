package wm

import "errors"

// Error kinds of spec §7. Backends return these directly, or wrap them
// with fmt.Errorf("...: %w", err) as they cross a layer boundary, the way
// the teacher's internal/wm wraps driver failures on the way out of
// NewContext.
var (
	ErrDisplayUnavailable          = errors.New("wm: display connection unavailable")
	ErrGraphicsAPIUnsupported      = errors.New("wm: requested graphics API/version unsupported")
	ErrContextCreationFailed       = errors.New("wm: context creation failed")
	ErrWindowCreationFailed        = errors.New("wm: window creation failed")
	ErrBindFailed                  = errors.New("wm: failed to bind context")
	ErrSurfaceCreationFailed       = errors.New("wm: surface creation failed")
	ErrMultipleWindowsNotSupported = errors.New("wm: this backend supports only one window")
	ErrWindowDestructionNotAllowed = errors.New("wm: this backend does not allow programmatic window destruction")
	ErrUnsupported                 = errors.New("wm: operation not supported by this backend")
)
