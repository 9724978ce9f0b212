package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
	"github.com/compal/cloudxr-go/pkg/cloudxr/logging"
)

// Host methods accepted by HandleMethod.
const (
	MethodConnect    = "connect_to_cloudxr"
	MethodDisconnect = "disconnect_to_cloudxr"
	MethodStop       = "stop_cloudxr"
)

// Events emitted to the host.
const (
	EventStart = "start_cloudxr"
	EventStop  = "stop_cloudxr"
	EventTouch = "touch"
)

// DefaultStopDelay is how long a stop request waits before the long press
// that ends streaming is sent.
const DefaultStopDelay = 200 * time.Millisecond

var (
	ErrNoServer       = errors.New("controller: no server address")
	ErrNotImplemented = errors.New("controller: method not implemented")
	ErrStopped        = errors.New("controller: stopped")
	ErrFrameUpdate    = errors.New("controller: frame update failed")
)

// Options configure a Controller.
type Options struct {
	// Args is the launch command line the host was started with.
	Args     string
	Assets   cloudxr.AssetStore
	Platform cloudxr.Platform
	Prefs    Prefs
	Logger   logging.Logger

	// Events receives host events. It is called from the goroutine that
	// caused the event and must not block. Nil drops events.
	Events func(event string)

	StopDelay time.Duration
}

// Controller drives one engine instance the way an AR host activity does:
// lifecycle and method calls arrive on a UI goroutine, DrawFrame runs on a
// render goroutine.
type Controller struct {
	bridge *cloudxr.Bridge
	opts   Options
	log    logging.Logger

	handle  atomic.Uint64
	resumed atomic.Bool

	// mu serializes DrawFrame against Stop.
	mu         sync.Mutex
	lastAnchor bool
	frame      []byte
	stopTimer  *time.Timer

	vpMu     sync.Mutex
	vpDirty  bool
	width    int32
	height   int32
	rotation int32
}

// New returns a Controller using b.
func New(b *cloudxr.Bridge, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.StopDelay <= 0 {
		opts.StopDelay = DefaultStopDelay
	}
	return &Controller{
		bridge: b,
		opts:   opts,
		log:    opts.Logger.With("component", "controller"),
	}
}

func (c *Controller) h() cloudxr.Handle {
	return cloudxr.Handle(c.handle.Load())
}

// Handle returns the engine handle, NoHandle before Start or after Stop.
func (c *Controller) Handle() cloudxr.Handle {
	return c.h()
}

// Start creates the engine instance. Starting twice is a no-op.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.h() != cloudxr.NoHandle {
		return nil
	}
	h, err := c.bridge.Create(c.opts.Assets, c.opts.Args)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	c.handle.Store(uint64(h))
	c.log.Info(context.Background(), "engine started", "handle", uint64(h), logging.Redacted("args"))
	return nil
}

// CheckLaunchOptions hands the launch arguments to the engine and resumes
// it. When the arguments carry no server address the saved preferences are
// used instead; ErrNoServer is returned when neither has one.
func (c *Controller) CheckLaunchOptions() error {
	if c.resumed.Load() {
		return nil
	}
	h := c.h()
	if h == cloudxr.NoHandle {
		return ErrStopped
	}
	ctx := context.Background()

	if err := c.bridge.HandleLaunchOptions(h, c.opts.Args); err != nil {
		return err
	}
	ip, err := c.bridge.ServerIP(h)
	if err != nil {
		return err
	}
	if ip == "" {
		p, err := c.loadPrefs()
		if err != nil {
			return err
		}
		if p.CloudIP == "" {
			c.log.Info(ctx, "no server address configured")
			return ErrNoServer
		}
		if err := c.bridge.SetArgs(h, p.LaunchArgs()); err != nil {
			return err
		}
		c.log.Debug(ctx, "using saved server address")
	}
	return c.resume()
}

// Pause pauses a resumed engine.
func (c *Controller) Pause() error {
	if !c.resumed.CompareAndSwap(true, false) {
		return nil
	}
	return c.bridge.OnPause(c.h())
}

// Resume resumes the engine after Pause.
func (c *Controller) Resume() error {
	if c.resumed.Load() {
		return nil
	}
	return c.resume()
}

func (c *Controller) resume() error {
	if err := c.bridge.OnResume(c.h(), c.opts.Platform); err != nil {
		return err
	}
	c.resumed.Store(true)
	return nil
}

// HandleMethod runs a host method call.
func (c *Controller) HandleMethod(method string) error {
	ctx := context.Background()
	switch {
	case method == MethodStop:
		c.mu.Lock()
		if c.stopTimer != nil {
			c.stopTimer.Stop()
		}
		c.stopTimer = time.AfterFunc(c.opts.StopDelay, func() {
			if err := c.LongPress(0, 0); err != nil {
				c.log.Debug(ctx, "delayed stop dropped", "error", err)
			}
		})
		c.mu.Unlock()
		return nil

	case method == MethodDisconnect:
		return c.Pause()

	case strings.HasPrefix(method, MethodConnect):
		ip := strings.TrimPrefix(method, MethodConnect)
		c.log.Debug(ctx, "connect requested", "server", ip)
		if c.opts.Prefs != nil {
			if err := c.opts.Prefs.Save(Params{CloudIP: ip, WebRTCIP: ip}); err != nil {
				c.log.Warn(ctx, "save prefs", "error", err)
			}
		}
		if ip != "" {
			if err := c.bridge.SetArgs(c.h(), Params{CloudIP: ip}.LaunchArgs()); err != nil {
				return err
			}
		}
		return c.resume()
	}
	return fmt.Errorf("%w: %q", ErrNotImplemented, method)
}

// SurfaceCreated forwards surface creation.
func (c *Controller) SurfaceCreated() error {
	return c.bridge.OnSurfaceCreated(c.h())
}

// SurfaceChanged records the viewport size. It is applied on the next
// DrawFrame.
func (c *Controller) SurfaceChanged(width, height int32) {
	c.vpMu.Lock()
	c.width, c.height = width, height
	c.vpDirty = true
	c.vpMu.Unlock()
}

// DisplayChanged records the display rotation. It is applied on the next
// DrawFrame.
func (c *Controller) DisplayChanged(rotation int32) {
	c.vpMu.Lock()
	c.rotation = rotation
	c.vpDirty = true
	c.vpMu.Unlock()
}

// DrawFrame runs one render tick: it reports anchor changes, applies a
// pending viewport change, draws and pulls the camera frame. A non-zero draw
// status is returned as ErrFrameUpdate.
func (c *Controller) DrawFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.h()
	if h == cloudxr.NoHandle {
		return ErrStopped
	}

	anchor, err := c.bridge.HasCloudXRAnchor(h)
	if err != nil {
		return err
	}
	if anchor != c.lastAnchor {
		c.lastAnchor = anchor
		if anchor {
			c.emit(EventStart)
		} else {
			c.emit(EventStop)
		}
	}

	c.vpMu.Lock()
	dirty, rot, w, ht := c.vpDirty, c.rotation, c.width, c.height
	c.vpDirty = false
	c.vpMu.Unlock()
	if dirty {
		if err := c.bridge.OnDisplayGeometryChanged(h, rot, w, ht); err != nil {
			return err
		}
	}

	if status := c.bridge.OnDrawFrame(h); status != cloudxr.StatusOK {
		c.log.Error(context.Background(), "frame update failed", "status", status)
		return fmt.Errorf("%w: status %d", ErrFrameUpdate, status)
	}
	c.frame, err = c.bridge.CameraFrame(h)
	return err
}

// Frame returns the camera frame pulled by the last DrawFrame.
func (c *Controller) Frame() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Tap forwards a single tap and emits EventTouch.
func (c *Controller) Tap(x, y float32) error {
	if err := c.bridge.OnTouched(c.h(), cloudxr.TouchEvent{X: x, Y: y}); err != nil {
		return err
	}
	c.emit(EventTouch)
	return nil
}

// LongPress forwards a long press.
func (c *Controller) LongPress(x, y float32) error {
	return c.bridge.OnTouched(c.h(), cloudxr.TouchEvent{X: x, Y: y, LongPress: true})
}

// WaitForPlanes polls plane detection every interval until planes are found
// or ctx is done.
func (c *Controller) WaitForPlanes(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		ok, err := c.bridge.HasDetectedPlanes(c.h())
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Stop destroys the engine instance. It waits for a running DrawFrame.
// Stopping twice is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopTimer != nil {
		c.stopTimer.Stop()
		c.stopTimer = nil
	}
	h := cloudxr.Handle(c.handle.Swap(0))
	if h == cloudxr.NoHandle {
		return nil
	}
	c.resumed.Store(false)
	c.frame = nil
	c.log.Info(context.Background(), "engine stopped", "handle", uint64(h))
	return c.bridge.Destroy(h)
}

func (c *Controller) loadPrefs() (Params, error) {
	if c.opts.Prefs == nil {
		return Params{}, nil
	}
	return c.opts.Prefs.Load()
}

func (c *Controller) emit(event string) {
	if c.opts.Events != nil {
		c.opts.Events(event)
	}
}
