//go:build cgo && !windows

package bindings

/*
#include "cloudxr_bridge.h"

// A minimal C engine driven through the exported entry points. It records
// what crossed the boundary so the exports can be checked from Go.
typedef struct {
	bool running;
	bool surface;
	bool long_press;
	int32_t rotation;
	int32_t width;
	int32_t height;
	char server[64];
	int touches;
	uint8_t frame[16];
	size_t frame_len;
} lb_engine;

static int lb_destroyed;
static int lb_fail_init;
static int lb_null_strings;
static int lb_args_calls;

static void lb_reset(void) {
	lb_destroyed = 0;
	lb_fail_init = 0;
	lb_null_strings = 0;
	lb_args_calls = 0;
}

static int lb_destroyed_count(void) { return lb_destroyed; }
static int lb_null_string_count(void) { return lb_null_strings; }
static int lb_args_call_count(void) { return lb_args_calls; }
static void lb_set_fail_init(int v) { lb_fail_init = v; }

static void lb_parse(lb_engine* e, const char* s) {
	const char* p;
	size_t n;
	if (!s) {
		lb_null_strings++;
		return;
	}
	p = strstr(s, "--server ");
	if (!p) return;
	p += 9;
	n = strcspn(p, " ");
	if (n >= sizeof(e->server)) n = sizeof(e->server) - 1;
	memcpy(e->server, p, n);
	e->server[n] = 0;
}

static void* lb_create(void* assets, const char* cmdline) {
	lb_engine* e = (lb_engine*)calloc(1, sizeof(lb_engine));
	if (e) lb_parse(e, cmdline);
	return e;
}

static int lb_init(void* e) { return lb_fail_init ? 5 : 0; }

static void lb_destroy(void* e) {
	free(e);
	lb_destroyed++;
}

static void lb_on_pause(void* e) { ((lb_engine*)e)->running = false; }

static void lb_on_resume(void* e, void* context, void* activity) { ((lb_engine*)e)->running = true; }

static void lb_handle_launch_options(void* e, const char* options) { lb_parse((lb_engine*)e, options); }

static void lb_set_args(void* e, const char* args) {
	lb_args_calls++;
	lb_parse((lb_engine*)e, args);
}

static const char* lb_get_server_ip(void* e) { return ((lb_engine*)e)->server; }

static void lb_on_surface_created(void* e) { ((lb_engine*)e)->surface = true; }

static void lb_on_display_geometry_changed(void* v, int32_t rotation, int32_t width, int32_t height) {
	lb_engine* e = (lb_engine*)v;
	e->rotation = rotation;
	e->width = width;
	e->height = height;
}

static int32_t lb_on_draw_frame(void* v) {
	lb_engine* e = (lb_engine*)v;
	size_t i;
	if (!e->surface) return 1;
	for (i = 0; i < sizeof(e->frame); i++) e->frame[i] = (uint8_t)i;
	e->frame[0] = (uint8_t)e->rotation;
	e->frame_len = sizeof(e->frame);
	return 0;
}

static const uint8_t* lb_get_camera_frame(void* v, size_t* size) {
	lb_engine* e = (lb_engine*)v;
	*size = e->frame_len;
	return e->frame_len ? e->frame : NULL;
}

static void lb_on_touched(void* v, float x, float y, bool long_press) {
	lb_engine* e = (lb_engine*)v;
	e->touches++;
	e->long_press = long_press;
}

static bool lb_has_detected_planes(void* e) { return ((lb_engine*)e)->running; }

static bool lb_has_cloudxr_anchor(void* v) {
	lb_engine* e = (lb_engine*)v;
	return e->running && e->server[0] && !e->long_press;
}

static int lb_open_asset(void* assets, const char* name, uint8_t** data, size_t* size) {
	if (strcmp(name, "hello.txt") != 0) return -1;
	*data = (uint8_t*)malloc(5);
	if (!*data) return -1;
	memcpy(*data, "hello", 5);
	*size = 5;
	return 0;
}

static cloudxr_engine_vtable lb_vtable(void) {
	cloudxr_engine_vtable vt;
	memset(&vt, 0, sizeof(vt));
	vt.create = lb_create;
	vt.init = lb_init;
	vt.destroy = lb_destroy;
	vt.on_pause = lb_on_pause;
	vt.on_resume = lb_on_resume;
	vt.handle_launch_options = lb_handle_launch_options;
	vt.set_args = lb_set_args;
	vt.get_server_ip = lb_get_server_ip;
	vt.on_surface_created = lb_on_surface_created;
	vt.on_display_geometry_changed = lb_on_display_geometry_changed;
	vt.on_draw_frame = lb_on_draw_frame;
	vt.get_camera_frame = lb_get_camera_frame;
	vt.on_touched = lb_on_touched;
	vt.has_detected_planes = lb_has_detected_planes;
	vt.has_cloudxr_anchor = lb_has_cloudxr_anchor;
	vt.open_asset = lb_open_asset;
	return vt;
}
*/
import "C"

import (
	"unsafe"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

// The loopback helpers call the exports the way a C host does, against a
// static C engine. Go test files cannot use cgo, so they live here.

func loopbackReset() {
	C.lb_reset()
}

func loopbackRegister() int {
	vt := C.lb_vtable()
	return int(cloudxr_register_engine(&vt))
}

func loopbackRegisterNil() int {
	return int(cloudxr_register_engine(nil))
}

func loopbackRegisterEmpty() int {
	var vt C.cloudxr_engine_vtable
	return int(cloudxr_register_engine(&vt))
}

func loopbackFailInit(fail bool) {
	v := C.int(0)
	if fail {
		v = 1
	}
	C.lb_set_fail_init(v)
}

func loopbackDestroyed() int {
	return int(C.lb_destroyed_count())
}

func loopbackNullStrings() int {
	return int(C.lb_null_string_count())
}

func loopbackArgsCalls() int {
	return int(C.lb_args_call_count())
}

// cstr returns a C copy of s, or NULL for a nil s. free releases it.
func cstr(s *string) (c *C.char, free func()) {
	if s == nil {
		return nil, func() {}
	}
	c = C.CString(*s)
	return c, func() { C.free(unsafe.Pointer(c)) }
}

func loopbackCreate(cmdline *string) uint64 {
	c, free := cstr(cmdline)
	defer free()
	return uint64(cloudxr_create(nil, c))
}

func loopbackLaunchOptions(h uint64, options *string) {
	c, free := cstr(options)
	defer free()
	cloudxr_handle_launch_options(C.uint64_t(h), c)
}

func loopbackSetArgs(h uint64, args *string) {
	c, free := cstr(args)
	defer free()
	cloudxr_set_args(C.uint64_t(h), c)
}

// loopbackServerIP returns the copied string and whether it was non-NULL.
func loopbackServerIP(h uint64) (string, bool) {
	s := cloudxr_get_server_ip(C.uint64_t(h))
	if s == nil {
		return "", false
	}
	defer cloudxr_free_string(s)
	return C.GoString(s), true
}

// loopbackCameraFrame returns the copied frame and the size the export
// reported. A NULL buffer yields a nil frame.
func loopbackCameraFrame(h uint64) ([]byte, int) {
	size := C.size_t(99)
	px := cloudxr_get_camera_frame(C.uint64_t(h), &size)
	if px == nil {
		return nil, int(size)
	}
	defer cloudxr_free_bytes(px)
	return C.GoBytes(unsafe.Pointer(px), C.int(size)), int(size)
}

func loopbackFreeNull() {
	cloudxr_free_string(nil)
	cloudxr_free_bytes(nil)
}

func loopbackSurface(h uint64) {
	cloudxr_on_surface_created(C.uint64_t(h))
}

func loopbackGeometry(h uint64, rotation, width, height int32) {
	cloudxr_on_display_geometry_changed(C.uint64_t(h), C.int32_t(rotation), C.int32_t(width), C.int32_t(height))
}

func loopbackDraw(h uint64) int32 {
	return int32(cloudxr_on_draw_frame(C.uint64_t(h)))
}

func loopbackResume(h uint64) {
	cloudxr_on_resume(C.uint64_t(h), 0, 0)
}

func loopbackPause(h uint64) {
	cloudxr_on_pause(C.uint64_t(h))
}

func loopbackTouched(h uint64, x, y float32, longPress bool) {
	cloudxr_on_touched(C.uint64_t(h), C.float(x), C.float(y), C.bool(longPress))
}

func loopbackPlanes(h uint64) bool {
	return bool(cloudxr_has_detected_planes(C.uint64_t(h)))
}

func loopbackAnchor(h uint64) bool {
	return bool(cloudxr_has_cloudxr_anchor(C.uint64_t(h)))
}

func loopbackDestroy(h uint64) {
	cloudxr_destroy(C.uint64_t(h))
}

// loopbackAssets returns the asset store the registered engine serves.
func loopbackAssets() cloudxr.AssetStore {
	return &nativeAssets{vt: registeredVTable()}
}
