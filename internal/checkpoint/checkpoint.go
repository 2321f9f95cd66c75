// Package checkpoint defines the named points on the animation timeline
// that the viewer can seek between.
package checkpoint

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors.
var (
	ErrEmpty      = errors.New("checkpoint list is empty")
	ErrLevelOrder = errors.New("checkpoint level does not match its position")
	ErrBadTime    = errors.New("checkpoint time must be finite and non-negative")
)

// Checkpoint is a named point in the animation timeline.
type Checkpoint struct {
	Level int     `yaml:"level"`
	Time  float64 `yaml:"time"` // seconds
	Label string  `yaml:"label"`
}

// List is an ordered set of checkpoints, indexed by level.
type List []Checkpoint

// Default returns the five stock checkpoints, three seconds apart.
func Default() List {
	return List{
		{Level: 0, Time: 0, Label: "Base (5ft)"},
		{Level: 1, Time: 3, Label: "Level 1 (10ft)"},
		{Level: 2, Time: 6, Label: "Level 2 (15ft)"},
		{Level: 3, Time: 9, Label: "Level 3 (20ft)"},
		{Level: 4, Time: 12, Label: "Level 4 (25ft)"},
	}
}

// Validate checks that levels are dense from zero and times are usable.
func (l List) Validate() error {
	if len(l) == 0 {
		return ErrEmpty
	}
	for i, cp := range l {
		if cp.Level != i {
			return fmt.Errorf("entry %d has level %d: %w", i, cp.Level, ErrLevelOrder)
		}
		if math.IsNaN(cp.Time) || math.IsInf(cp.Time, 0) || cp.Time < 0 {
			return fmt.Errorf("level %d time %v: %w", cp.Level, cp.Time, ErrBadTime)
		}
	}
	return nil
}

// At returns the checkpoint for a level.
func (l List) At(level int) (Checkpoint, bool) {
	if level < 0 || level >= len(l) {
		return Checkpoint{}, false
	}
	return l[level], true
}

// Levels returns the number of checkpoints.
func (l List) Levels() int {
	return len(l)
}

// ButtonID returns the UI element identifier bound to a level.
func ButtonID(level int) string {
	return fmt.Sprintf("level%d", level)
}
