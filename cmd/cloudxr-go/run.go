package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
	"github.com/compal/cloudxr-go/pkg/cloudxr/assets"
	"github.com/compal/cloudxr-go/pkg/cloudxr/logging"
	"github.com/compal/cloudxr-go/pkg/cloudxr/simengine"
	"github.com/compal/cloudxr-go/pkg/controller"
)

var (
	runArgs     string
	runFrames   int
	runInterval time.Duration
	runWidth    int32
	runHeight   int32
	runRotation int32
	runStrict   bool
	runAssets   string
	runRequire  []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one AR session against the simulated engine",
	Args:  cobra.NoArgs,
	RunE:  runSession,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runArgs, "args", "", "Launch options passed to the engine (e.g. \"--server 10.0.0.2\")")
	f.IntVar(&runFrames, "frames", 120, "Number of frames to draw")
	f.DurationVar(&runInterval, "interval", 16*time.Millisecond, "Delay between frames")
	f.Int32Var(&runWidth, "width", 1280, "Surface width")
	f.Int32Var(&runHeight, "height", 720, "Surface height")
	f.Int32Var(&runRotation, "rotation", 0, "Display rotation in degrees")
	f.BoolVar(&runStrict, "strict", false, "Reject draw calls issued before the surface exists")
	f.StringVar(&runAssets, "assets", "", "Directory the engine loads assets from")
	f.StringSliceVar(&runRequire, "require", nil, "Assets the engine must find at startup")
	rootCmd.AddCommand(runCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	cfg, err := cloudxr.LoadConfig()
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if runStrict {
		cfg.StrictOrdering = true
	}

	zl, err := logging.BuildZap(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	log := logging.NewZap(zl)
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, zl)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	var store cloudxr.AssetStore
	if runAssets != "" {
		dir, err := assets.NewDir(runAssets)
		if err != nil {
			return err
		}
		store = dir
	}

	bridge := cloudxr.New(cloudxr.Runtime{
		Logger:  log,
		Metrics: cloudxr.NewMetrics(reg),
		Config:  cfg,
	}, simengine.NewFactory(simengine.Options{RequiredAssets: runRequire}))
	defer func() {
		if err := bridge.Close(); err != nil {
			log.Warn(ctx, "bridge close", "error", err)
		}
	}()

	ctrl := controller.New(bridge, controller.Options{
		Args:   runArgs,
		Assets: store,
		Prefs:  controller.NewFilePrefs(cfg.PrefsPath),
		Logger: log,
		Events: func(event string) {
			log.Info(ctx, "host event", "event", event)
		},
	})
	if err := ctrl.Start(); err != nil {
		return err
	}
	if err := ctrl.SurfaceCreated(); err != nil {
		return err
	}
	ctrl.SurfaceChanged(runWidth, runHeight)
	ctrl.DisplayChanged(runRotation)
	if err := ctrl.CheckLaunchOptions(); err != nil {
		if errors.Is(err, controller.ErrNoServer) {
			return fmt.Errorf("%w: pass --args \"--server <ip>\" or save one in %s", err, cfg.PrefsPath)
		}
		return err
	}

	drawn, err := drive(ctx, ctrl, log)
	if err != nil {
		return err
	}

	h := ctrl.Handle()
	planes, _ := bridge.HasDetectedPlanes(h)
	anchor, _ := bridge.HasCloudXRAnchor(h)
	ip, _ := bridge.ServerIP(h)
	frame := ctrl.Frame()
	if err := ctrl.Stop(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "server:  %s\n", ip)
	fmt.Fprintf(out, "frames:  %d\n", drawn)
	fmt.Fprintf(out, "camera:  %d bytes\n", len(frame))
	fmt.Fprintf(out, "planes:  %t\n", planes)
	fmt.Fprintf(out, "anchor:  %t\n", anchor)
	return nil
}

// drive runs the render loop and, on the UI side, taps once planes are
// detected. It returns the number of frames drawn.
func drive(ctx context.Context, ctrl *controller.Controller, log logging.Logger) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	uiCtx, uiDone := context.WithCancel(gctx)
	defer uiDone()

	drawn := 0
	g.Go(func() error {
		defer uiDone()
		t := time.NewTicker(runInterval)
		defer t.Stop()
		for drawn < runFrames {
			if err := ctrl.DrawFrame(); err != nil {
				return err
			}
			drawn++
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
			}
		}
		return nil
	})

	g.Go(func() error {
		err := ctrl.WaitForPlanes(uiCtx, 100*time.Millisecond)
		if errors.Is(err, context.Canceled) {
			log.Info(ctx, "no planes detected")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info(ctx, "planes detected")
		return ctrl.Tap(float32(runWidth)/2, float32(runHeight)/2)
	})

	err := g.Wait()
	return drawn, err
}

func serveMetrics(addr string, reg *prometheus.Registry, zl *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("metrics server", zap.Error(err))
		}
	}()
	zl.Info("serving metrics", zap.String("addr", addr))
	return srv
}
