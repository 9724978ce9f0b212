package bindings

import "errors"

var (
	// ErrNotBuilt reports that the C ABI was not compiled into the current
	// binary. Builds without cgo return it from Install.
	ErrNotBuilt = errors.New("cloudxr/internal/bindings: native bindings not built")

	// ErrAlreadyInstalled is returned when a bridge or an engine is installed
	// after the export surface already serves one.
	ErrAlreadyInstalled = errors.New("cloudxr/internal/bindings: bridge already installed")

	// ErrNilBridge rejects installing a nil bridge.
	ErrNilBridge = errors.New("cloudxr/internal/bindings: nil bridge")
)
