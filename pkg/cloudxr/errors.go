package cloudxr

import "errors"

var (
	// ErrInvalidHandle reports a handle that is zero, forged, or names an
	// instance that was already destroyed.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrConstruction is returned by Create when the factory or the engine's
	// Init step fails. Nothing is registered in that case.
	ErrConstruction = errors.New("engine construction failed")

	// ErrInvalidArgument rejects values outside an operation's domain, such
	// as an unknown rotation or a negative surface size.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEngineFault wraps a panic or close failure raised by the engine.
	ErrEngineFault = errors.New("engine fault")

	// ErrNotReady is returned in strict ordering mode for draw calls made
	// before the surface exists.
	ErrNotReady = errors.New("surface not created")
)

// Draw status codes returned by OnDrawFrame in place of an error. Engine
// status codes are non-negative.
const (
	StatusOK            int32 = 0
	StatusInvalidHandle int32 = -1
	StatusNotReady      int32 = -2
	StatusEngineFault   int32 = -3
)

func drawStatus(err error) int32 {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotReady):
		return StatusNotReady
	case errors.Is(err, ErrEngineFault):
		return StatusEngineFault
	default:
		return StatusInvalidHandle
	}
}

// reason is the metrics label for a rejected call.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidHandle):
		return "invalid_handle"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrEngineFault):
		return "engine_fault"
	case errors.Is(err, ErrConstruction):
		return "construction"
	}
	return "unknown"
}
