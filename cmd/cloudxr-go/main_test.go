package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cloudxr-go ")
}

func TestRunSession(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "error")
	t.Setenv("CLOUDXR_PREFS_PATH", filepath.Join(t.TempDir(), "prefs.yaml"))

	out, err := execute(t, "run", "--args", "--server 10.0.0.2", "--frames", "40", "--interval", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, "server:  10.0.0.2")
	assert.Contains(t, out, "frames:  40")
	assert.Contains(t, out, "planes:  true")
	assert.Contains(t, out, "anchor:  true")
}

func TestRunSessionWithoutServer(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "error")
	t.Setenv("CLOUDXR_PREFS_PATH", filepath.Join(t.TempDir(), "prefs.yaml"))

	_, err := execute(t, "run", "--args", "", "--frames", "1")
	assert.ErrorContains(t, err, "no server address")
}

func TestRunSessionMissingAsset(t *testing.T) {
	t.Setenv("CLOUDXR_LOG_LEVEL", "error")
	t.Setenv("CLOUDXR_PREFS_PATH", filepath.Join(t.TempDir(), "prefs.yaml"))

	_, err := execute(t, "run", "--args", "--server 10.0.0.2", "--frames", "1",
		"--assets", t.TempDir(), "--require", "models/andy.obj")
	assert.ErrorIs(t, err, cloudxr.ErrConstruction)
}
