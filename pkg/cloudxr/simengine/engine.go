package simengine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

var (
	// ErrConstruct is returned by New when Options.FailConstruct is set.
	ErrConstruct = errors.New("simulated construction failure")
	// ErrInit is returned by Init when Options.FailInit is set.
	ErrInit = errors.New("simulated init failure")
	// ErrClosed is returned by a second Close.
	ErrClosed = errors.New("engine already closed")
)

// StatusNoSurface is returned by OnDrawFrame before the surface exists.
const StatusNoSurface int32 = 1

// Options tune the simulation.
type Options struct {
	FailConstruct bool
	FailInit      bool

	// PlaneFrames is the number of running frames before planes are
	// reported. Defaults to 30.
	PlaneFrames int

	// FrameScale divides the viewport size to get the camera frame size.
	// Defaults to 8.
	FrameScale int32

	// RequiredAssets are opened from the asset store during Init.
	RequiredAssets []string
}

// Engine is a simulated native application instance.
type Engine struct {
	opts    Options
	assets  cloudxr.AssetStore
	cmdline string

	mu       sync.Mutex
	launch   LaunchOptions
	args     []string
	inited   bool
	running  bool
	surface  bool
	geometry cloudxr.Geometry
	frames   int
	frame    []byte
	planes   bool
	stopped  bool
	touches  []cloudxr.TouchEvent
	platform cloudxr.Platform
	closed   bool
}

// NewFactory returns a cloudxr.Factory producing simulated engines.
func NewFactory(opts Options) cloudxr.Factory {
	return func(assets cloudxr.AssetStore, cmdline string) (cloudxr.Engine, error) {
		e, err := New(assets, cmdline, opts)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

// New constructs an engine. cmdline is applied as launch options by Init.
func New(assets cloudxr.AssetStore, cmdline string, opts Options) (*Engine, error) {
	if opts.FailConstruct {
		return nil, ErrConstruct
	}
	if opts.PlaneFrames <= 0 {
		opts.PlaneFrames = 30
	}
	if opts.FrameScale <= 0 {
		opts.FrameScale = 8
	}
	return &Engine{opts: opts, assets: assets, cmdline: cmdline}, nil
}

func (e *Engine) Init() error {
	if e.opts.FailInit {
		return ErrInit
	}
	for _, name := range e.opts.RequiredAssets {
		if e.assets == nil {
			return fmt.Errorf("asset %q: no asset store", name)
		}
		rc, err := e.assets.Open(name)
		if err != nil {
			return fmt.Errorf("asset %q: %w", name, err)
		}
		rc.Close()
	}

	lo, err := ParseLaunchOptions(e.cmdline)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.launch = lo
	e.inited = true
	return nil
}

func (e *Engine) OnPause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

func (e *Engine) OnResume(p cloudxr.Platform) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	e.platform = p
}

// HandleLaunchOptions merges the options into the current launch options.
// Unparseable input is ignored.
func (e *Engine) HandleLaunchOptions(options string) {
	lo, err := ParseLaunchOptions(options)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.launch = e.launch.merge(lo)
}

// SetArgs records the argument string and applies any launch options it
// carries.
func (e *Engine) SetArgs(args string) {
	lo, err := ParseLaunchOptions(args)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.args = append(e.args, args)
	if err == nil {
		e.launch = e.launch.merge(lo)
	}
}

func (e *Engine) ServerIP() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.launch.Server
}

func (e *Engine) OnSurfaceCreated() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface = true
}

func (e *Engine) OnDisplayGeometryChanged(g cloudxr.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.geometry = g
}

// OnDrawFrame advances tracking while running and renders a camera frame
// sized to the viewport.
func (e *Engine) OnDrawFrame() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.surface {
		return StatusNoSurface
	}
	if e.running {
		e.frames++
		if e.frames >= e.opts.PlaneFrames {
			e.planes = true
		}
	}
	e.render()
	return 0
}

// render fills the camera frame with an RGBA gradient shifted by the frame
// counter. Caller holds e.mu.
func (e *Engine) render() {
	w := e.geometry.Width / e.opts.FrameScale
	h := e.geometry.Height / e.opts.FrameScale
	if w <= 0 || h <= 0 {
		e.frame = nil
		return
	}
	// A fresh buffer per frame keeps earlier CameraFrame results stable.
	n := int(w) * int(h) * 4
	e.frame = make([]byte, n)

	shift := byte(e.frames)
	for y := int32(0); y < h; y++ {
		row := int(y) * int(w) * 4
		for x := int32(0); x < w; x++ {
			i := row + int(x)*4
			e.frame[i] = byte(x) + shift
			e.frame[i+1] = byte(y) + shift
			e.frame[i+2] = byte(e.geometry.Rotation.Degrees() / 90)
			e.frame[i+3] = 0xff
		}
	}
}

// CameraFrame returns the engine's frame buffer without copying.
func (e *Engine) CameraFrame() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// OnTouched records the event. A long press stops streaming; a tap
// re-enables it.
func (e *Engine) OnTouched(ev cloudxr.TouchEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touches = append(e.touches, ev)
	e.stopped = ev.LongPress
}

func (e *Engine) HasDetectedPlanes() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.planes
}

func (e *Engine) HasCloudXRAnchor() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running && e.planes && !e.stopped && e.launch.Server != ""
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	e.frame = nil
	return nil
}

// Snapshot is a copy of the engine state for assertions.
type Snapshot struct {
	Launch   LaunchOptions
	Args     []string
	Running  bool
	Surface  bool
	Geometry cloudxr.Geometry
	Frames   int
	Touches  []cloudxr.TouchEvent
	Platform cloudxr.Platform
	Closed   bool
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Launch:   e.launch,
		Args:     append([]string(nil), e.args...),
		Running:  e.running,
		Surface:  e.surface,
		Geometry: e.geometry,
		Frames:   e.frames,
		Touches:  append([]cloudxr.TouchEvent(nil), e.touches...),
		Platform: e.platform,
		Closed:   e.closed,
	}
}
