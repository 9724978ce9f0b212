package cloudxr

// Engine is the native application instance behind a handle. The bridge owns
// it exclusively: Close is called exactly once, by Destroy or by Create when
// Init fails.
//
// Draw, geometry and surface calls arrive on the render goroutine while
// lifecycle, input and query calls arrive on the UI goroutine. The engine is
// responsible for making those two streams safe against each other; the
// bridge only guarantees that Close never overlaps any other call.
type Engine interface {
	Init() error
	OnPause()
	OnResume(p Platform)
	HandleLaunchOptions(options string)
	SetArgs(args string)
	ServerIP() string
	OnSurfaceCreated()
	OnDisplayGeometryChanged(g Geometry)
	// OnDrawFrame drives one render/update tick. Zero means success.
	OnDrawFrame() int32
	// CameraFrame returns the latest frame pixels, or nil when none exists.
	// The bridge copies the result before returning it to the host.
	CameraFrame() []byte
	OnTouched(ev TouchEvent)
	HasDetectedPlanes() bool
	HasCloudXRAnchor() bool
	Close() error
}

// Factory constructs an engine. It must not call Init.
type Factory func(assets AssetStore, cmdline string) (Engine, error)
