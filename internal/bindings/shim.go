package bindings

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
	"github.com/compal/cloudxr-go/pkg/cloudxr/logging"
)

// The export surface serves a single bridge per process. It is either
// installed from Go or built lazily from the registered native factory on
// the first create call.
var (
	mu      sync.Mutex
	active  *cloudxr.Bridge
	factory cloudxr.Factory

	// native is the host registration the factory was built from. It is
	// set together with factory.
	native any
)

// Registry collects the metrics of a bridge built from the environment.
var Registry = prometheus.NewRegistry()

var envMetrics = sync.OnceValue(func() *cloudxr.Metrics {
	return cloudxr.NewMetrics(Registry)
})

func install(b *cloudxr.Bridge) error {
	if b == nil {
		return ErrNilBridge
	}
	mu.Lock()
	defer mu.Unlock()
	if active != nil {
		return ErrAlreadyInstalled
	}
	active = b
	return nil
}

func registerFactory(f cloudxr.Factory, registration any) error {
	mu.Lock()
	defer mu.Unlock()
	if active != nil || factory != nil {
		return ErrAlreadyInstalled
	}
	factory, native = f, registration
	return nil
}

func registered() any {
	mu.Lock()
	defer mu.Unlock()
	return native
}

// reset detaches the served bridge and factory and returns the bridge so the
// caller can close it.
func reset() *cloudxr.Bridge {
	mu.Lock()
	defer mu.Unlock()
	b := active
	active, factory, native = nil, nil, nil
	return b
}

func current() *cloudxr.Bridge {
	mu.Lock()
	defer mu.Unlock()
	return active
}

func bridgeForCreate() *cloudxr.Bridge {
	mu.Lock()
	defer mu.Unlock()
	if active == nil && factory != nil {
		active = NewEnvBridge(factory)
	}
	return active
}

// NewEnvBridge returns a bridge over f configured from CLOUDXR_* settings,
// with metrics collected in Registry.
func NewEnvBridge(f cloudxr.Factory) *cloudxr.Bridge {
	return cloudxr.New(runtimeFromEnv(), f)
}

// runtimeFromEnv assembles the runtime of a bridge built on behalf of a
// native host, which has no other way to pass settings in.
func runtimeFromEnv() cloudxr.Runtime {
	cfg := cloudxr.LoadConfigOrDefault()
	log := logging.Nop()
	switch cfg.LogBackend {
	case "slog":
		log = logging.New(nil)
	default:
		if zl, err := logging.BuildZap(cfg.LogLevel, cfg.LogDevelopment); err == nil {
			log = logging.NewZap(zl)
		}
	}
	log.Debug(context.Background(), "bridge runtime loaded",
		"strict_ordering", cfg.StrictOrdering,
		"max_frame_bytes", cfg.MaxFrameBytes,
	)
	return cloudxr.Runtime{Logger: log, Metrics: envMetrics(), Config: cfg}
}

// str maps a NULL host string to "".
func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func create(assets cloudxr.AssetStore, cmdline *string) uint64 {
	b := bridgeForCreate()
	if b == nil {
		return 0
	}
	h, err := b.Create(assets, str(cmdline))
	if err != nil {
		return 0
	}
	return uint64(h)
}

func destroy(h uint64) {
	if b := current(); b != nil {
		_ = b.Destroy(cloudxr.Handle(h))
	}
}

func onPause(h uint64) {
	if b := current(); b != nil {
		_ = b.OnPause(cloudxr.Handle(h))
	}
}

func onResume(h uint64, ctx, activity uintptr) {
	if b := current(); b != nil {
		_ = b.OnResume(cloudxr.Handle(h), cloudxr.Platform{Context: ctx, Activity: activity})
	}
}

func handleLaunchOptions(h uint64, options *string) {
	if b := current(); b != nil {
		_ = b.HandleLaunchOptions(cloudxr.Handle(h), str(options))
	}
}

func setArgs(h uint64, args *string) {
	if b := current(); b != nil {
		_ = b.SetArgs(cloudxr.Handle(h), str(args))
	}
}

func serverIP(h uint64) string {
	b := current()
	if b == nil {
		return ""
	}
	ip, _ := b.ServerIP(cloudxr.Handle(h))
	return ip
}

func onSurfaceCreated(h uint64) {
	if b := current(); b != nil {
		_ = b.OnSurfaceCreated(cloudxr.Handle(h))
	}
}

func onDisplayGeometryChanged(h uint64, rotation, width, height int32) {
	if b := current(); b != nil {
		_ = b.OnDisplayGeometryChanged(cloudxr.Handle(h), rotation, width, height)
	}
}

func onDrawFrame(h uint64) int32 {
	b := current()
	if b == nil {
		return cloudxr.StatusInvalidHandle
	}
	return b.OnDrawFrame(cloudxr.Handle(h))
}

func cameraFrame(h uint64) []byte {
	b := current()
	if b == nil {
		return []byte{}
	}
	px, _ := b.CameraFrame(cloudxr.Handle(h))
	return px
}

func onTouched(h uint64, x, y float32, longPress bool) {
	if b := current(); b != nil {
		_ = b.OnTouched(cloudxr.Handle(h), cloudxr.TouchEvent{X: x, Y: y, LongPress: longPress})
	}
}

func hasDetectedPlanes(h uint64) bool {
	b := current()
	if b == nil {
		return false
	}
	ok, _ := b.HasDetectedPlanes(cloudxr.Handle(h))
	return ok
}

func hasCloudXRAnchor(h uint64) bool {
	b := current()
	if b == nil {
		return false
	}
	ok, _ := b.HasCloudXRAnchor(cloudxr.Handle(h))
	return ok
}
