package bindings

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
	"github.com/compal/cloudxr-go/pkg/cloudxr/simengine"
)

func serve(t *testing.T, opts simengine.Options) *cloudxr.Bridge {
	t.Helper()
	b := cloudxr.New(cloudxr.Runtime{}, simengine.NewFactory(opts))
	require.NoError(t, install(b))
	t.Cleanup(func() {
		if old := reset(); old != nil {
			_ = old.Close()
		}
	})
	return b
}

func ptr(s string) *string { return &s }

func TestNoBridgeFailsClosed(t *testing.T) {
	reset()

	assert.Zero(t, create(nil, ptr("--server 10.0.0.1")))
	assert.Equal(t, cloudxr.StatusInvalidHandle, onDrawFrame(1))
	assert.Equal(t, "", serverIP(1))
	frame := cameraFrame(1)
	assert.NotNil(t, frame)
	assert.Empty(t, frame)
	assert.False(t, hasDetectedPlanes(1))
	assert.False(t, hasCloudXRAnchor(1))

	assert.NotPanics(t, func() {
		destroy(1)
		onPause(1)
		onResume(1, 0, 0)
		handleLaunchOptions(1, nil)
		setArgs(1, nil)
		onSurfaceCreated(1)
		onDisplayGeometryChanged(1, 0, 640, 480)
		onTouched(1, 1, 1, false)
	})
}

func TestInstall(t *testing.T) {
	serve(t, simengine.Options{})

	assert.ErrorIs(t, install(cloudxr.New(cloudxr.Runtime{}, simengine.NewFactory(simengine.Options{}))), ErrAlreadyInstalled)
	assert.ErrorIs(t, registerFactory(simengine.NewFactory(simengine.Options{}), nil), ErrAlreadyInstalled)
	assert.ErrorIs(t, install(nil), ErrNilBridge)
}

func TestNullStringsAreEmpty(t *testing.T) {
	b := serve(t, simengine.Options{})

	h := create(nil, nil)
	require.NotZero(t, h)
	assert.Equal(t, 1, b.Live())

	handleLaunchOptions(h, nil)
	setArgs(h, nil)
	assert.Equal(t, "", serverIP(h))

	handleLaunchOptions(h, ptr("--server 10.1.1.1"))
	assert.Equal(t, "10.1.1.1", serverIP(h))
}

func TestLifecycle(t *testing.T) {
	b := serve(t, simengine.Options{PlaneFrames: 2})

	h := create(nil, ptr("--server 192.168.0.7"))
	require.NotZero(t, h)
	assert.Equal(t, "192.168.0.7", serverIP(h))

	onSurfaceCreated(h)
	onDisplayGeometryChanged(h, 90, 640, 480)
	onResume(h, 0x10, 0x20)
	assert.Equal(t, cloudxr.StateRunning, b.State(cloudxr.Handle(h)))

	for i := 0; i < 3; i++ {
		assert.Equal(t, cloudxr.StatusOK, onDrawFrame(h))
	}
	assert.Len(t, cameraFrame(h), 80*60*4)
	assert.True(t, hasDetectedPlanes(h))
	assert.True(t, hasCloudXRAnchor(h))

	onTouched(h, 0, 0, true)
	assert.False(t, hasCloudXRAnchor(h))

	onPause(h)
	assert.Equal(t, cloudxr.StatePaused, b.State(cloudxr.Handle(h)))

	destroy(h)
	assert.Equal(t, 0, b.Live())
	assert.Equal(t, cloudxr.StatusInvalidHandle, onDrawFrame(h))
	assert.Empty(t, cameraFrame(h))
	assert.Equal(t, "", serverIP(h))
}

func TestConstructionFailureReturnsZero(t *testing.T) {
	b := serve(t, simengine.Options{FailInit: true})

	assert.Zero(t, create(nil, nil))
	assert.Equal(t, 0, b.Live())
}

func TestRegisteredFactoryBuildsBridgeOnCreate(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "error")
	reset()
	t.Cleanup(func() {
		if old := reset(); old != nil {
			_ = old.Close()
		}
	})

	require.NoError(t, registerFactory(simengine.NewFactory(simengine.Options{}), nil))
	assert.Nil(t, current())
	assert.ErrorIs(t, registerFactory(simengine.NewFactory(simengine.Options{}), nil), ErrAlreadyInstalled)

	h := create(nil, ptr(""))
	require.NotZero(t, h)
	require.NotNil(t, current())
	assert.Equal(t, 1.0, testutil.ToFloat64(envMetrics().Live))

	destroy(h)
	assert.Equal(t, 0.0, testutil.ToFloat64(envMetrics().Live))
}

func TestRuntimeFromEnv(t *testing.T) {
	t.Setenv("CLOUDXR_STRICT_ORDERING", "true")
	t.Setenv("CLOUDXR_MAX_FRAME_BYTES", "1024")
	t.Setenv("CLOUDXR_LOG_LEVEL", "bogus")

	rt := runtimeFromEnv()
	assert.True(t, rt.Config.StrictOrdering)
	assert.Equal(t, 1024, rt.Config.MaxFrameBytes)
	assert.NotNil(t, rt.Logger)
	assert.Same(t, envMetrics(), rt.Metrics)
}

func TestRuntimeFromEnvSlogBackend(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_BACKEND", "slog")
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })

	rt := runtimeFromEnv()
	assert.Equal(t, "slog", rt.Config.LogBackend)
	assert.Contains(t, buf.String(), "bridge runtime loaded")

	rt.Logger.Info(context.Background(), "embedded", "handle", 7)
	assert.Contains(t, buf.String(), "handle=7")
}

func TestNewEnvBridgeInstalls(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "error")
	t.Setenv("CLOUDXR_STRICT_ORDERING", "true")
	reset()
	t.Cleanup(func() {
		if old := reset(); old != nil {
			_ = old.Close()
		}
	})

	b := NewEnvBridge(simengine.NewFactory(simengine.Options{}))
	require.NoError(t, install(b))

	h := create(nil, ptr("--server 10.2.0.1"))
	require.NotZero(t, h)
	assert.Equal(t, "10.2.0.1", serverIP(h))
	assert.Equal(t, cloudxr.StatusNotReady, onDrawFrame(h))
	destroy(h)
	assert.Equal(t, 0, b.Live())
}
