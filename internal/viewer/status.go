package viewer

import "fmt"

// StatusKind is the load state of the viewer.
type StatusKind int

const (
	StatusLoading StatusKind = iota
	StatusReady
	StatusNoAnimation
	StatusFailed
)

// Status reports what the viewer is showing. Err is set only when Failed.
type Status struct {
	Kind StatusKind
	Err  error
}

func (s Status) String() string {
	switch s.Kind {
	case StatusLoading:
		return "Loading model..."
	case StatusReady:
		return "Ready"
	case StatusNoAnimation:
		return "Model has no animation"
	case StatusFailed:
		return fmt.Sprintf("Load failed: %v", s.Err)
	default:
		return "Unknown"
	}
}
