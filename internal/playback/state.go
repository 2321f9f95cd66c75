package playback

import "fmt"

// Mode is the controller's explicit state.
type Mode int

const (
	Idle Mode = iota
	SeekingForward
	SeekingBackward
)

// String returns a readable mode name.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case SeekingForward:
		return "seeking-forward"
	case SeekingBackward:
		return "seeking-backward"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// State is the tagged playback state. Target is meaningful only while seeking.
type State struct {
	Mode   Mode
	Target float64 // seconds
	Level  int
}

// Seeking reports whether a transition is in flight.
func (s State) Seeking() bool {
	return s.Mode != Idle
}

// Direction returns +1 for forward seeks, -1 for backward seeks, 0 when idle.
func (s State) Direction() int {
	switch s.Mode {
	case SeekingForward:
		return 1
	case SeekingBackward:
		return -1
	default:
		return 0
	}
}

// reached reports whether time t has crossed the target in the direction
// of travel.
func (s State) reached(t float64) bool {
	switch s.Mode {
	case SeekingForward:
		return t >= s.Target
	case SeekingBackward:
		return t <= s.Target
	default:
		return false
	}
}

// Change is delivered to listeners after every state change.
type Change struct {
	State   State
	Level   int
	Arrived bool // true when a seek just settled on its target
}
