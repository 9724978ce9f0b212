//go:build cgo && !windows

package bindings

/*
#include "cloudxr_bridge.h"
*/
import "C"

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"unsafe"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

var errEngineClosed = errors.New("native engine already destroyed")

// nativeFactory builds engines through a host-supplied vtable. The vtable is
// copied so the host may free its own copy after registration.
func nativeFactory(vt C.cloudxr_engine_vtable) cloudxr.Factory {
	return func(assets cloudxr.AssetStore, cmdline string) (cloudxr.Engine, error) {
		var ptr unsafe.Pointer
		if na, ok := assets.(*nativeAssets); ok {
			ptr = na.ptr
		}
		ccmd := C.CString(cmdline)
		defer C.free(unsafe.Pointer(ccmd))

		e := C.cloudxr_vt_create(&vt, ptr, ccmd)
		if e == nil {
			return nil, errors.New("native create returned NULL")
		}
		return &cEngine{vt: vt, ptr: e}, nil
	}
}

// cEngine forwards engine calls through the vtable. The bridge serializes
// Close against every other call, so ptr needs no locking of its own.
type cEngine struct {
	vt  C.cloudxr_engine_vtable
	ptr unsafe.Pointer
}

func (e *cEngine) Init() error {
	if rc := C.cloudxr_vt_init(&e.vt, e.ptr); rc != 0 {
		return fmt.Errorf("native init returned %d", int(rc))
	}
	return nil
}

func (e *cEngine) OnPause() { C.cloudxr_vt_on_pause(&e.vt, e.ptr) }

func (e *cEngine) OnResume(p cloudxr.Platform) {
	C.cloudxr_vt_on_resume(&e.vt, e.ptr, C.uintptr_t(p.Context), C.uintptr_t(p.Activity))
}

func (e *cEngine) HandleLaunchOptions(options string) {
	c := C.CString(options)
	defer C.free(unsafe.Pointer(c))
	C.cloudxr_vt_handle_launch_options(&e.vt, e.ptr, c)
}

func (e *cEngine) SetArgs(args string) {
	c := C.CString(args)
	defer C.free(unsafe.Pointer(c))
	C.cloudxr_vt_set_args(&e.vt, e.ptr, c)
}

func (e *cEngine) ServerIP() string {
	return C.GoString(C.cloudxr_vt_get_server_ip(&e.vt, e.ptr))
}

func (e *cEngine) OnSurfaceCreated() { C.cloudxr_vt_on_surface_created(&e.vt, e.ptr) }

func (e *cEngine) OnDisplayGeometryChanged(g cloudxr.Geometry) {
	C.cloudxr_vt_on_display_geometry_changed(&e.vt, e.ptr,
		C.int32_t(g.Rotation), C.int32_t(g.Width), C.int32_t(g.Height))
}

func (e *cEngine) OnDrawFrame() int32 {
	return int32(C.cloudxr_vt_on_draw_frame(&e.vt, e.ptr))
}

func (e *cEngine) CameraFrame() []byte {
	var size C.size_t
	px := C.cloudxr_vt_get_camera_frame(&e.vt, e.ptr, &size)
	if px == nil || size == 0 || uint64(size) > math.MaxInt32 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(px), C.int(size))
}

func (e *cEngine) OnTouched(ev cloudxr.TouchEvent) {
	C.cloudxr_vt_on_touched(&e.vt, e.ptr, C.float(ev.X), C.float(ev.Y), C.bool(ev.LongPress))
}

func (e *cEngine) HasDetectedPlanes() bool {
	return bool(C.cloudxr_vt_has_detected_planes(&e.vt, e.ptr))
}

func (e *cEngine) HasCloudXRAnchor() bool {
	return bool(C.cloudxr_vt_has_cloudxr_anchor(&e.vt, e.ptr))
}

func (e *cEngine) Close() error {
	if e.ptr == nil {
		return errEngineClosed
	}
	C.cloudxr_vt_destroy(&e.vt, e.ptr)
	e.ptr = nil
	return nil
}

// nativeAssets is the host asset manager passed to cloudxr_create. The
// pointer is only valid for the duration of that call.
type nativeAssets struct {
	vt  *C.cloudxr_engine_vtable
	ptr unsafe.Pointer
}

func (a *nativeAssets) Open(name string) (io.ReadCloser, error) {
	if a.vt == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var data *C.uint8_t
	var size C.size_t
	if rc := C.cloudxr_vt_open_asset(a.vt, a.ptr, cname, &data, &size); rc != 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if data == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	defer C.free(unsafe.Pointer(data))
	if uint64(size) > math.MaxInt32 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: errors.New("asset too large")}
	}
	return io.NopCloser(bytes.NewReader(C.GoBytes(unsafe.Pointer(data), C.int(size)))), nil
}
