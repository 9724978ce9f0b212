//go:build cgo && !windows

package bindings

/*
#include "cloudxr_bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

// registeredVTable returns the engine registered by the host, nil until
// cloudxr_register_engine succeeds.
func registeredVTable() *C.cloudxr_engine_vtable {
	vt, _ := registered().(*C.cloudxr_engine_vtable)
	return vt
}

// Install makes b the bridge served by the C exports. It fails when a bridge
// is already served or a native engine was registered. cmd/libcloudxr uses it
// to serve the simulated engine.
func Install(b *cloudxr.Bridge) error {
	return install(b)
}

// absorb swallows a panic so it never unwinds into the host. Callers preset
// their named result to the operation's failure value.
func absorb() {
	_ = recover()
}

func goString(s *C.char) *string {
	if s == nil {
		return nil
	}
	v := C.GoString(s)
	return &v
}

func cBool(v bool) C.bool {
	return C.bool(v)
}

// copyString returns a malloc'd copy of s, or NULL when allocation fails.
func copyString(s string) *C.char {
	var src *C.char
	if len(s) > 0 {
		src = (*C.char)(unsafe.Pointer(unsafe.StringData(s)))
	}
	return C.cloudxr_copy_string(src, C.size_t(len(s)))
}

//export cloudxr_register_engine
func cloudxr_register_engine(vt *C.cloudxr_engine_vtable) (rc C.int) {
	rc = -1
	defer absorb()
	if vt == nil || vt.create == nil {
		return
	}
	cp := *vt
	if err := registerFactory(nativeFactory(cp), &cp); err != nil {
		return
	}
	return 0
}

//export cloudxr_create
func cloudxr_create(assets unsafe.Pointer, cmdline *C.char) (h C.uint64_t) {
	h = 0
	defer absorb()
	h = C.uint64_t(create(&nativeAssets{vt: registeredVTable(), ptr: assets}, goString(cmdline)))
	return
}

//export cloudxr_destroy
func cloudxr_destroy(h C.uint64_t) {
	defer absorb()
	destroy(uint64(h))
}

//export cloudxr_on_pause
func cloudxr_on_pause(h C.uint64_t) {
	defer absorb()
	onPause(uint64(h))
}

//export cloudxr_on_resume
func cloudxr_on_resume(h C.uint64_t, ctx, activity C.uintptr_t) {
	defer absorb()
	onResume(uint64(h), uintptr(ctx), uintptr(activity))
}

//export cloudxr_handle_launch_options
func cloudxr_handle_launch_options(h C.uint64_t, options *C.char) {
	defer absorb()
	handleLaunchOptions(uint64(h), goString(options))
}

//export cloudxr_set_args
func cloudxr_set_args(h C.uint64_t, args *C.char) {
	defer absorb()
	setArgs(uint64(h), goString(args))
}

// cloudxr_get_server_ip returns a malloc'd string, "" on failure and NULL
// only when the copy cannot be allocated. The host frees it with
// cloudxr_free_string.
//
//export cloudxr_get_server_ip
func cloudxr_get_server_ip(h C.uint64_t) (s *C.char) {
	ip := ""
	defer func() {
		_ = recover()
		s = copyString(ip)
	}()
	ip = serverIP(uint64(h))
	return
}

//export cloudxr_on_surface_created
func cloudxr_on_surface_created(h C.uint64_t) {
	defer absorb()
	onSurfaceCreated(uint64(h))
}

//export cloudxr_on_display_geometry_changed
func cloudxr_on_display_geometry_changed(h C.uint64_t, rotation, width, height C.int32_t) {
	defer absorb()
	onDisplayGeometryChanged(uint64(h), int32(rotation), int32(width), int32(height))
}

//export cloudxr_on_draw_frame
func cloudxr_on_draw_frame(h C.uint64_t) (status C.int32_t) {
	status = C.int32_t(cloudxr.StatusEngineFault)
	defer absorb()
	status = C.int32_t(onDrawFrame(uint64(h)))
	return
}

// cloudxr_get_camera_frame returns a malloc'd copy of the frame and stores
// its length in size. No frame, or a copy that cannot be allocated, yields
// NULL and a size of 0. The host frees the buffer with cloudxr_free_bytes.
//
//export cloudxr_get_camera_frame
func cloudxr_get_camera_frame(h C.uint64_t, size *C.size_t) (px *C.uint8_t) {
	px = nil
	if size != nil {
		*size = 0
	}
	defer absorb()
	frame := cameraFrame(uint64(h))
	if len(frame) == 0 {
		return
	}
	px = C.cloudxr_copy_bytes(unsafe.Pointer(&frame[0]), C.size_t(len(frame)))
	if px != nil && size != nil {
		*size = C.size_t(len(frame))
	}
	return
}

//export cloudxr_on_touched
func cloudxr_on_touched(h C.uint64_t, x, y C.float, longPress C.bool) {
	defer absorb()
	onTouched(uint64(h), float32(x), float32(y), bool(longPress))
}

//export cloudxr_has_detected_planes
func cloudxr_has_detected_planes(h C.uint64_t) (ok C.bool) {
	ok = cBool(false)
	defer absorb()
	ok = cBool(hasDetectedPlanes(uint64(h)))
	return
}

//export cloudxr_has_cloudxr_anchor
func cloudxr_has_cloudxr_anchor(h C.uint64_t) (ok C.bool) {
	ok = cBool(false)
	defer absorb()
	ok = cBool(hasCloudXRAnchor(uint64(h)))
	return
}

//export cloudxr_free_string
func cloudxr_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

//export cloudxr_free_bytes
func cloudxr_free_bytes(px *C.uint8_t) {
	C.free(unsafe.Pointer(px))
}
