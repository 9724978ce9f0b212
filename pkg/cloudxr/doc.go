// Package cloudxr exposes a native AR application engine to a host through
// opaque integer handles.
//
// A host creates an instance, drives it through the lifecycle and releases it
// with Destroy:
//
//	b := cloudxr.New(cloudxr.Runtime{Logger: logging.New(nil)}, factory)
//	h, err := b.Create(assets, cmdline)
//	if err != nil {
//	    // h == cloudxr.NoHandle, nothing was registered
//	}
//	b.OnSurfaceCreated(h)
//	b.OnDisplayGeometryChanged(h, 90, 1080, 2340)
//	status := b.OnDrawFrame(h)
//	b.Destroy(h)
//
// # Lifecycle
//
// Instances move through Created, SurfaceReady, Running and Paused before the
// terminal Destroyed state. OnPause and OnResume are idempotent: repeating
// either one does not reach the engine again. The bridge tracks the state but
// forwards out-of-order calls unless Config.StrictOrdering is set.
//
// # Failure policy
//
// Every operation fails closed. Calls with unknown, stale or destroyed handles
// return ErrInvalidHandle and never reach an engine. Queries return their
// zero value (empty string, empty frame, false) alongside the error, and
// OnDrawFrame reports failures through negative status codes. Engine panics
// are recovered and reported as ErrEngineFault.
//
// # Threading
//
// The bridge may be called from a UI goroutine and a render goroutine at the
// same time. Destroy waits for in-flight calls on the same handle and no call
// reaches the engine after it has been released.
package cloudxr
