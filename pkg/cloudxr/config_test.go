package cloudxr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := cloudxr.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cloudxr.DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "debug")
	t.Setenv("CLOUDXR_LOG_DEV", "true")
	t.Setenv("CLOUDXR_LOG_BACKEND", "slog")
	t.Setenv("CLOUDXR_STRICT_ORDERING", "true")
	t.Setenv("CLOUDXR_MAX_FRAME_BYTES", "4096")
	t.Setenv("CLOUDXR_METRICS_ADDR", ":9464")
	t.Setenv("CLOUDXR_PREFS_PATH", "/tmp/prefs.yaml")
	t.Setenv("CLOUDXR_SIMULATE", "true")

	cfg, err := cloudxr.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cloudxr.Config{
		LogLevel:       "debug",
		LogDevelopment: true,
		LogBackend:     "slog",
		StrictOrdering: true,
		MaxFrameBytes:  4096,
		MetricsAddr:    ":9464",
		PrefsPath:      "/tmp/prefs.yaml",
		Simulate:       true,
	}, cfg)
}

func TestLoadConfigOrDefaultOnBadValue(t *testing.T) {
	t.Setenv("CLOUDXR_MAX_FRAME_BYTES", "lots")

	_, err := cloudxr.LoadConfig()
	assert.Error(t, err)
	assert.Equal(t, cloudxr.DefaultConfig(), cloudxr.LoadConfigOrDefault())
}

func TestParseRotation(t *testing.T) {
	for _, in := range []int32{0, 1, 2, 3, 90, 180, 270} {
		got, err := cloudxr.ParseRotation(in)
		require.NoError(t, err, in)
		assert.Equal(t, cloudxr.Rotation(in), got, in)
	}

	for _, in := range []int32{-90, 4, 45, 360} {
		_, err := cloudxr.ParseRotation(in)
		assert.ErrorIs(t, err, cloudxr.ErrInvalidArgument, in)
	}
}

func TestRotationDegrees(t *testing.T) {
	for r, want := range map[cloudxr.Rotation]int32{
		0: 0, 1: 90, 2: 180, 3: 270, 90: 90, 180: 180, 270: 270,
	} {
		assert.Equal(t, want, r.Degrees(), r)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "created", cloudxr.StateCreated.String())
	assert.Equal(t, "running", cloudxr.StateRunning.String())
	assert.Equal(t, "destroyed", cloudxr.StateDestroyed.String())
	assert.Equal(t, "unknown", cloudxr.State(42).String())
}
