package cloudxr

import (
	"fmt"
	"io"

	"github.com/compal/cloudxr-go/pkg/cloudxr/internal/registry"
)

// Handle identifies one live engine instance. The zero value is NoHandle.
type Handle = registry.Handle

// NoHandle is returned by Create when no instance was registered.
const NoHandle = registry.None

// Rotation is the display rotation as reported by the host: either degrees
// (0, 90, 180, 270) or an Android Display.getRotation index (0, 1, 2, 3).
// The bridge forwards it as sent.
type Rotation int32

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// ParseRotation validates v and returns it unchanged.
func ParseRotation(v int32) (Rotation, error) {
	switch v {
	case 0, 1, 2, 3, 90, 180, 270:
		return Rotation(v), nil
	}
	return 0, fmt.Errorf("%w: rotation %d", ErrInvalidArgument, v)
}

// Degrees returns r in degrees, converting a quarter-turn index.
func (r Rotation) Degrees() int32 {
	if r >= 1 && r <= 3 {
		return int32(r) * 90
	}
	return int32(r)
}

// Geometry is the current surface geometry.
type Geometry struct {
	Rotation Rotation
	Width    int32
	Height   int32
}

// TouchEvent is a single pointer interaction in surface coordinates.
type TouchEvent struct {
	X         float32
	Y         float32
	LongPress bool
}

// Platform carries the host references passed along on resume, e.g. the
// Android application context and activity as JNI global references. The
// bridge never dereferences them.
type Platform struct {
	Context  uintptr
	Activity uintptr
}

// AssetStore gives the engine read access to bundled assets. It may be nil.
type AssetStore interface {
	Open(name string) (io.ReadCloser, error)
}
