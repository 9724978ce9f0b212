package simengine

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

type mapAssets map[string]string

func (m mapAssets) Open(name string) (io.ReadCloser, error) {
	s, ok := m[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

func TestParseLaunchOptions(t *testing.T) {
	lo, err := ParseLaunchOptions("-s 10.0.0.2 --anchor ua-1 --room r7 --mediapipe --verbose stray")
	require.NoError(t, err)
	assert.Equal(t, LaunchOptions{Server: "10.0.0.2", Anchor: "ua-1", Room: "r7", MediaPipe: true}, lo)

	lo, err = ParseLaunchOptions("")
	require.NoError(t, err)
	assert.Equal(t, LaunchOptions{}, lo)

	_, err = ParseLaunchOptions("--server")
	assert.Error(t, err)
}

func TestInitAppliesCmdline(t *testing.T) {
	e, err := New(nil, "--server 192.168.1.5", Options{})
	require.NoError(t, err)
	require.NoError(t, e.Init())
	assert.Equal(t, "192.168.1.5", e.ServerIP())
}

func TestInitRequiresAssets(t *testing.T) {
	opts := Options{RequiredAssets: []string{"models/anchor.obj"}}

	e, err := New(nil, "", opts)
	require.NoError(t, err)
	assert.Error(t, e.Init())

	e, err = New(mapAssets{}, "", opts)
	require.NoError(t, err)
	assert.Error(t, e.Init())

	e, err = New(mapAssets{"models/anchor.obj": "v 0 0 0"}, "", opts)
	require.NoError(t, err)
	assert.NoError(t, e.Init())
}

func TestFailureOptions(t *testing.T) {
	_, err := New(nil, "", Options{FailConstruct: true})
	assert.ErrorIs(t, err, ErrConstruct)

	e, err := New(nil, "", Options{FailInit: true})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Init(), ErrInit)
}

func TestDrawTracksPlanesAndAnchor(t *testing.T) {
	e, err := New(nil, "", Options{PlaneFrames: 3, FrameScale: 10})
	require.NoError(t, err)
	require.NoError(t, e.Init())

	assert.Equal(t, StatusNoSurface, e.OnDrawFrame())
	assert.Nil(t, e.CameraFrame())

	e.OnSurfaceCreated()
	e.OnDisplayGeometryChanged(cloudxr.Geometry{Rotation: cloudxr.Rotation90, Width: 100, Height: 50})
	e.OnResume(cloudxr.Platform{Context: 1, Activity: 2})

	for i := 0; i < 3; i++ {
		assert.Equal(t, int32(0), e.OnDrawFrame())
	}
	assert.True(t, e.HasDetectedPlanes())
	assert.False(t, e.HasCloudXRAnchor(), "no server yet")
	assert.Len(t, e.CameraFrame(), 10*5*4)

	e.HandleLaunchOptions("-s 10.1.1.1")
	assert.True(t, e.HasCloudXRAnchor())

	e.OnTouched(cloudxr.TouchEvent{LongPress: true})
	assert.False(t, e.HasCloudXRAnchor())
	e.OnTouched(cloudxr.TouchEvent{X: 3, Y: 4})
	assert.True(t, e.HasCloudXRAnchor())

	e.OnPause()
	assert.False(t, e.HasCloudXRAnchor())
	before := e.Snapshot().Frames
	e.OnDrawFrame()
	assert.Equal(t, before, e.Snapshot().Frames, "paused engine does not track")
}

func TestSetArgsMergesOptions(t *testing.T) {
	e, err := New(nil, "--anchor a1", Options{})
	require.NoError(t, err)
	require.NoError(t, e.Init())

	e.SetArgs("-s 1.2.3.4")
	snap := e.Snapshot()
	assert.Equal(t, []string{"-s 1.2.3.4"}, snap.Args)
	assert.Equal(t, "1.2.3.4", snap.Launch.Server)
	assert.Equal(t, "a1", snap.Launch.Anchor)
}

func TestCloseTwice(t *testing.T) {
	e, err := New(nil, "", Options{})
	require.NoError(t, err)
	require.NoError(t, e.Close())
	assert.ErrorIs(t, e.Close(), ErrClosed)
	assert.True(t, e.Snapshot().Closed)
}
