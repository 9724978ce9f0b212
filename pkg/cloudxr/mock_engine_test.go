package cloudxr_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/compal/cloudxr-go/pkg/cloudxr"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Init() error {
	return m.Called().Error(0)
}

func (m *mockEngine) OnPause() {
	m.Called()
}

func (m *mockEngine) OnResume(p cloudxr.Platform) {
	m.Called(p)
}

func (m *mockEngine) HandleLaunchOptions(options string) {
	m.Called(options)
}

func (m *mockEngine) SetArgs(args string) {
	m.Called(args)
}

func (m *mockEngine) ServerIP() string {
	return m.Called().String(0)
}

func (m *mockEngine) OnSurfaceCreated() {
	m.Called()
}

func (m *mockEngine) OnDisplayGeometryChanged(g cloudxr.Geometry) {
	m.Called(g)
}

func (m *mockEngine) OnDrawFrame() int32 {
	return m.Called().Get(0).(int32)
}

func (m *mockEngine) OnTouched(ev cloudxr.TouchEvent) {
	m.Called(ev)
}

func (m *mockEngine) HasDetectedPlanes() bool {
	return m.Called().Bool(0)
}

func (m *mockEngine) HasCloudXRAnchor() bool {
	return m.Called().Bool(0)
}

func (m *mockEngine) Close() error {
	return m.Called().Error(0)
}

func (m *mockEngine) CameraFrame() []byte {
	px, _ := m.Called().Get(0).([]byte)
	return px
}

func factoryFor(e cloudxr.Engine) cloudxr.Factory {
	return func(cloudxr.AssetStore, string) (cloudxr.Engine, error) {
		return e, nil
	}
}
