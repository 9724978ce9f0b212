package cloudxr

// State is the lifecycle state of an instance as seen by the bridge.
type State int32

const (
	StateCreated State = iota
	StateSurfaceReady
	StateRunning
	StatePaused
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSurfaceReady:
		return "surface_ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}
