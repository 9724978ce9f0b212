// Package simengine is an in-process cloudxr.Engine with deterministic
// tracking and rendering. It stands in for the native engine in tests and in
// the demo command.
//
// Tracking is simulated per frame: planes are reported after a fixed number
// of running frames and the streaming anchor resolves once a server address
// is known and planes exist. A long press drops the anchor until the next
// tap.
package simengine
