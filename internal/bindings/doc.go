// Package bindings exposes the bridge to native hosts through a C ABI.
//
// The cgo build exports one C function per bridge operation. C strings are
// copied on entry and a NULL string is treated as empty. Strings and byte
// buffers handed back to the host are malloc'd copies the host releases with
// cloudxr_free_string and cloudxr_free_bytes. No Go pointer ever crosses the
// boundary: instances are named by the 64-bit handles issued by the bridge.
//
// The engine behind the bridge is either registered by the host as a C
// vtable (cloudxr_register_engine) or installed from Go with Install. Builds
// without cgo compile a stub whose Install reports ErrNotBuilt.
//
// Every export recovers panics and reports the failure value of its
// operation, so a Go fault never unwinds into the host.
package bindings
