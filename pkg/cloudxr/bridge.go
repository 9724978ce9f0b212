package cloudxr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/compal/cloudxr-go/pkg/cloudxr/internal/registry"
	"github.com/compal/cloudxr-go/pkg/cloudxr/logging"
)

const (
	opCreate           = "create"
	opDestroy          = "destroy"
	opPause            = "on_pause"
	opResume           = "on_resume"
	opLaunchOptions    = "handle_launch_options"
	opSetArgs          = "set_args"
	opServerIP         = "get_server_ip"
	opSurfaceCreated   = "on_surface_created"
	opGeometryChanged  = "on_display_geometry_changed"
	opDrawFrame        = "on_draw_frame"
	opCameraFrame      = "get_camera_frame"
	opTouched          = "on_touched"
	opHasPlanes        = "has_detected_planes"
	opHasCloudXRAnchor = "has_cloudxr_anchor"
)

// Runtime is the capability set a Bridge runs with. The zero value is usable:
// logs are discarded, metrics are not recorded and frames are not capped.
type Runtime struct {
	Logger  logging.Logger
	Metrics *Metrics
	Config  Config
}

// Bridge validates host handles and forwards calls to the engine instance
// they name. It is safe for concurrent use.
type Bridge struct {
	rt      Runtime
	log     logging.Logger
	factory Factory
	table   *registry.Table[*instance]
}

type instance struct {
	id     string
	engine Engine
	log    logging.Logger

	// mu is held for reading by every forwarded call and for writing by
	// Destroy, so release never overlaps an engine call.
	mu   sync.RWMutex
	dead bool

	// lcMu serializes pause and resume so the engine sees each transition
	// once.
	lcMu    sync.Mutex
	state   atomic.Int32
	surface atomic.Bool
	warned  atomic.Bool

	geoMu  sync.Mutex
	geo    Geometry
	hasGeo bool
}

// New returns a Bridge that builds engines with factory.
func New(rt Runtime, factory Factory) *Bridge {
	if rt.Logger == nil {
		rt.Logger = logging.Nop()
	}
	return &Bridge{
		rt:      rt,
		log:     rt.Logger.With("component", "bridge"),
		factory: factory,
		table:   registry.New[*instance](),
	}
}

// Create constructs an engine, runs its Init step and registers it. On any
// failure it returns NoHandle and nothing stays reachable: an engine whose
// Init failed is released before Create returns.
func (b *Bridge) Create(assets AssetStore, cmdline string) (Handle, error) {
	ctx := context.Background()
	b.rt.Metrics.call(opCreate)

	var eng Engine
	err := guard(func() error {
		var err error
		eng, err = b.factory(assets, cmdline)
		return err
	})
	if err == nil && eng == nil {
		err = errors.New("factory returned no engine")
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrConstruction, err)
		b.rt.Metrics.reject(opCreate, err)
		b.log.Error(ctx, "create failed", "error", err)
		return NoHandle, err
	}

	if err := guard(eng.Init); err != nil {
		if cerr := release(eng); cerr != nil {
			b.log.Warn(ctx, "release after failed init", "error", cerr)
		}
		err = fmt.Errorf("%w: init: %w", ErrConstruction, err)
		b.rt.Metrics.reject(opCreate, err)
		b.log.Error(ctx, "create failed", "error", err)
		return NoHandle, err
	}

	inst := &instance{id: uuid.NewString(), engine: eng}
	inst.log = b.log.With("instance_id", inst.id)
	inst.state.Store(int32(StateCreated))

	h := b.table.Insert(inst)
	if h == NoHandle {
		if cerr := release(eng); cerr != nil {
			b.log.Warn(ctx, "release after failed insert", "error", cerr)
		}
		err := fmt.Errorf("%w: handle space exhausted", ErrConstruction)
		b.rt.Metrics.reject(opCreate, err)
		return NoHandle, err
	}
	b.rt.Metrics.live(1)
	inst.log.Info(ctx, "instance created", "handle", uint64(h))
	return h, nil
}

// Destroy releases the instance behind h. It waits for calls already running
// against h and invalidates the handle for every later call. Destroying an
// unknown or already destroyed handle returns ErrInvalidHandle and does
// nothing else.
func (b *Bridge) Destroy(h Handle) error {
	ctx := context.Background()
	b.rt.Metrics.call(opDestroy)

	inst, ok := b.table.Remove(h)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrInvalidHandle, uint64(h))
		b.rejected(opDestroy, h, err)
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	inst.dead = true
	inst.state.Store(int32(StateDestroyed))
	eng := inst.engine
	inst.engine = nil
	b.rt.Metrics.live(-1)

	if err := release(eng); err != nil {
		inst.log.Warn(ctx, "engine close failed", "error", err)
		return fmt.Errorf("%w: close: %w", ErrEngineFault, err)
	}
	inst.log.Info(ctx, "instance destroyed", "handle", uint64(h))
	return nil
}

// Close destroys every live instance.
func (b *Bridge) Close() error {
	var errs []error
	for _, h := range b.table.Handles() {
		if err := b.Destroy(h); err != nil && !errors.Is(err, ErrInvalidHandle) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Live returns the number of registered instances.
func (b *Bridge) Live() int {
	return b.table.Len()
}

// State reports the lifecycle state of h. Unknown handles report
// StateDestroyed.
func (b *Bridge) State(h Handle) State {
	inst, ok := b.table.Resolve(h)
	if !ok {
		return StateDestroyed
	}
	return State(inst.state.Load())
}

// OnPause moves the instance to Paused. Pausing a paused instance is a no-op.
// If the engine faults the state is left unchanged so the call can be
// retried.
func (b *Bridge) OnPause(h Handle) error {
	return b.with(opPause, h, func(inst *instance) error {
		return inst.transition(StatePaused, inst.engine.OnPause)
	})
}

// OnResume moves the instance to Running. Resuming a running instance is a
// no-op. If the engine faults the state is left unchanged so the call can be
// retried.
func (b *Bridge) OnResume(h Handle, p Platform) error {
	return b.with(opResume, h, func(inst *instance) error {
		return inst.transition(StateRunning, func() { inst.engine.OnResume(p) })
	})
}

// HandleLaunchOptions forwards the host launch options. A host NULL arrives
// as the empty string and is forwarded as such.
func (b *Bridge) HandleLaunchOptions(h Handle, options string) error {
	return b.with(opLaunchOptions, h, func(inst *instance) error {
		inst.engine.HandleLaunchOptions(options)
		inst.log.Debug(context.Background(), "launch options applied", logging.Redacted("options"))
		return nil
	})
}

// SetArgs forwards a free-form argument string. A host NULL arrives as the
// empty string; both are accepted and not forwarded.
func (b *Bridge) SetArgs(h Handle, args string) error {
	return b.with(opSetArgs, h, func(inst *instance) error {
		if args == "" {
			return nil
		}
		inst.engine.SetArgs(args)
		inst.log.Debug(context.Background(), "args applied", logging.Redacted("args"))
		return nil
	})
}

// ServerIP returns the engine's current connection target, or "" when unset
// or when h is invalid.
func (b *Bridge) ServerIP(h Handle) (string, error) {
	var ip string
	err := b.with(opServerIP, h, func(inst *instance) error {
		ip = inst.engine.ServerIP()
		return nil
	})
	if err != nil {
		return "", err
	}
	return ip, nil
}

// OnSurfaceCreated tells the engine its rendering surface exists. It must
// precede draw calls.
func (b *Bridge) OnSurfaceCreated(h Handle) error {
	return b.with(opSurfaceCreated, h, func(inst *instance) error {
		inst.engine.OnSurfaceCreated()
		inst.surface.Store(true)
		inst.state.CompareAndSwap(int32(StateCreated), int32(StateSurfaceReady))
		return nil
	})
}

// OnDisplayGeometryChanged forwards a new surface geometry and retains it.
// Rotation is given in degrees or as a quarter-turn index and is forwarded
// and retained as sent. Invalid values are rejected and leave the retained
// geometry unchanged.
func (b *Bridge) OnDisplayGeometryChanged(h Handle, rotation, width, height int32) error {
	return b.with(opGeometryChanged, h, func(inst *instance) error {
		rot, err := ParseRotation(rotation)
		if err != nil {
			return err
		}
		if width < 0 || height < 0 {
			return fmt.Errorf("%w: size %dx%d", ErrInvalidArgument, width, height)
		}
		if !inst.surface.Load() {
			inst.warnOutOfOrder(opGeometryChanged)
		}

		g := Geometry{Rotation: rot, Width: width, Height: height}
		inst.engine.OnDisplayGeometryChanged(g)

		inst.geoMu.Lock()
		inst.geo = g
		inst.hasGeo = true
		inst.geoMu.Unlock()
		return nil
	})
}

// DisplayGeometry returns the geometry most recently accepted for h. The
// boolean is false until one has been set.
func (b *Bridge) DisplayGeometry(h Handle) (Geometry, bool, error) {
	inst, ok := b.table.Resolve(h)
	if !ok {
		return Geometry{}, false, fmt.Errorf("%w: %d", ErrInvalidHandle, uint64(h))
	}
	inst.geoMu.Lock()
	defer inst.geoMu.Unlock()
	return inst.geo, inst.hasGeo, nil
}

// OnDrawFrame drives one render tick and returns the engine status. Negative
// values are bridge failures: StatusInvalidHandle, StatusNotReady (strict
// ordering only) or StatusEngineFault.
func (b *Bridge) OnDrawFrame(h Handle) int32 {
	var status int32
	err := b.with(opDrawFrame, h, func(inst *instance) error {
		if !inst.surface.Load() {
			if b.rt.Config.StrictOrdering {
				return ErrNotReady
			}
			inst.warnOutOfOrder(opDrawFrame)
		}
		status = inst.engine.OnDrawFrame()
		return nil
	})
	if err != nil {
		return drawStatus(err)
	}
	return status
}

// CameraFrame returns a copy of the current frame pixels sized exactly to
// the frame. It returns an empty, non-nil slice when no frame exists, when
// the frame exceeds Config.MaxFrameBytes or when h is invalid.
func (b *Bridge) CameraFrame(h Handle) ([]byte, error) {
	out := []byte{}
	err := b.with(opCameraFrame, h, func(inst *instance) error {
		px := inst.engine.CameraFrame()
		if limit := b.rt.Config.MaxFrameBytes; limit > 0 && len(px) > limit {
			inst.log.Warn(context.Background(), "camera frame dropped", "bytes", len(px), "limit", limit)
			return nil
		}
		if len(px) > 0 {
			out = make([]byte, len(px))
			copy(out, px)
		}
		return nil
	})
	b.rt.Metrics.frame(len(out))
	return out, err
}

// OnTouched forwards a single pointer event.
func (b *Bridge) OnTouched(h Handle, ev TouchEvent) error {
	return b.with(opTouched, h, func(inst *instance) error {
		inst.engine.OnTouched(ev)
		return nil
	})
}

// HasDetectedPlanes reports whether the engine has found a plane.
func (b *Bridge) HasDetectedPlanes(h Handle) (bool, error) {
	var found bool
	err := b.with(opHasPlanes, h, func(inst *instance) error {
		found = inst.engine.HasDetectedPlanes()
		return nil
	})
	return found && err == nil, err
}

// HasCloudXRAnchor reports whether the engine has resolved its streaming
// anchor.
func (b *Bridge) HasCloudXRAnchor(h Handle) (bool, error) {
	var anchored bool
	err := b.with(opHasCloudXRAnchor, h, func(inst *instance) error {
		anchored = inst.engine.HasCloudXRAnchor()
		return nil
	})
	return anchored && err == nil, err
}

// with resolves h and runs fn while holding the instance's read lock.
func (b *Bridge) with(op string, h Handle, fn func(inst *instance) error) error {
	b.rt.Metrics.call(op)

	inst, ok := b.table.Resolve(h)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrInvalidHandle, uint64(h))
		b.rejected(op, h, err)
		return err
	}

	inst.mu.RLock()
	defer inst.mu.RUnlock()

	// Destroy removed h after we resolved it.
	if inst.dead {
		err := fmt.Errorf("%w: %d destroyed", ErrInvalidHandle, uint64(h))
		b.rejected(op, h, err)
		return err
	}

	if err := guard(func() error { return fn(inst) }); err != nil {
		b.rejected(op, h, err)
		return err
	}
	return nil
}

func (b *Bridge) rejected(op string, h Handle, err error) {
	b.rt.Metrics.reject(op, err)
	b.log.Warn(context.Background(), "call rejected", "op", op, "handle", uint64(h), "error", err)
}

// transition runs fn and moves the state to to once fn has returned. It does
// nothing when the state already is to.
func (inst *instance) transition(to State, fn func()) error {
	inst.lcMu.Lock()
	defer inst.lcMu.Unlock()

	if State(inst.state.Load()) == to {
		return nil
	}
	if err := guard(func() error { fn(); return nil }); err != nil {
		return err
	}
	inst.state.Store(int32(to))
	inst.log.Debug(context.Background(), "state changed", "state", to.String())
	return nil
}

func (inst *instance) warnOutOfOrder(op string) {
	if inst.warned.CompareAndSwap(false, true) {
		inst.log.Warn(context.Background(), "call before surface creation", "op", op, "state", State(inst.state.Load()).String())
	}
}

// release closes an engine. It is the only path that frees one.
func release(eng Engine) error {
	if eng == nil {
		return nil
	}
	return guard(eng.Close)
}

// guard converts an engine panic into ErrEngineFault.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEngineFault, r)
		}
	}()
	return fn()
}
