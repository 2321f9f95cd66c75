// Package playback implements the checkpoint animation controller: it seeks a
// clip's playback handle forward or backward to a checkpoint time and stops
// exactly there.
package playback

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/levelview/internal/checkpoint"
)

// DefaultMinDelta is the smallest time difference that starts a seek.
const DefaultMinDelta = 0.1

// Request errors. Rejected requests are dropped, never queued.
var (
	ErrNotReady     = errors.New("no animation attached")
	ErrUnknownLevel = errors.New("unknown checkpoint level")
	ErrBusy         = errors.New("seek already in progress")
	ErrNoChange     = errors.New("already at checkpoint time")
)

// Handle controls a single clip's time, direction and pause state.
type Handle interface {
	Time() float64
	SetTime(t float64)
	TimeScale() float64
	SetTimeScale(s float64)
	Paused() bool
	SetPaused(p bool)
	Duration() float64
}

// Controller moves a playback handle between checkpoints.
type Controller struct {
	checkpoints checkpoint.List
	minDelta    float64
	rate        float64
	log         *zap.Logger

	handle    Handle
	state     State
	listeners []func(Change)
}

// Option configures a Controller.
type Option func(*Controller)

// WithMinDelta sets the threshold below which a request is a no-op.
func WithMinDelta(d float64) Option {
	return func(c *Controller) { c.minDelta = d }
}

// WithRate sets the playback speed magnitude; 1 is the clip's native rate.
func WithRate(r float64) Option {
	return func(c *Controller) {
		if r > 0 {
			c.rate = r
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates an idle controller at level 0 with no handle.
func NewController(checkpoints checkpoint.List, opts ...Option) *Controller {
	c := &Controller{
		checkpoints: checkpoints,
		minDelta:    DefaultMinDelta,
		rate:        1,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach binds the playback handle, parks it paused on the current level's
// time, and makes the controller ready for requests.
func (c *Controller) Attach(h Handle) {
	c.handle = h
	c.state = State{Mode: Idle, Level: c.state.Level}

	if cp, ok := c.checkpoints.At(c.state.Level); ok {
		h.SetTime(c.clampTime(cp.Time))
	}
	h.SetTimeScale(c.rate)
	h.SetPaused(true)

	for _, cp := range c.checkpoints {
		if cp.Time > h.Duration() {
			c.log.Warn("checkpoint beyond clip end, clamping",
				zap.Int("level", cp.Level),
				zap.Float64("time", cp.Time),
				zap.Float64("duration", h.Duration()),
			)
		}
	}

	c.log.Debug("playback attached", zap.Float64("duration", h.Duration()))
	c.notify(false)
}

// Ready reports whether a handle is attached.
func (c *Controller) Ready() bool {
	return c.handle != nil
}

// Request starts a seek to level. It is a no-op, reported by the returned
// error, when not ready, while another seek is in flight, or when the
// target is within the minimum delta of the current time.
func (c *Controller) Request(level int) error {
	if c.handle == nil {
		return ErrNotReady
	}
	cp, ok := c.checkpoints.At(level)
	if !ok {
		return fmt.Errorf("level %d: %w", level, ErrUnknownLevel)
	}
	if c.state.Seeking() {
		return ErrBusy
	}

	target := c.clampTime(cp.Time)
	delta := target - c.handle.Time()
	if math.Abs(delta) < c.minDelta {
		return ErrNoChange
	}

	mode := SeekingForward
	sign := 1.0
	if delta < 0 {
		mode = SeekingBackward
		sign = -1
	}

	c.state = State{Mode: mode, Target: target, Level: level}
	c.handle.SetTimeScale(sign * c.rate)
	c.handle.SetPaused(false)

	c.log.Debug("seek started",
		zap.Int("level", level),
		zap.Stringer("mode", mode),
		zap.Float64("from", c.handle.Time()),
		zap.Float64("to", target),
	)
	c.notify(false)
	return nil
}

// Settle checks for arrival after the handle has advanced. On arrival it
// snaps time exactly to the target, pauses, and returns true.
func (c *Controller) Settle() bool {
	if c.handle == nil || !c.state.reached(c.handle.Time()) {
		return false
	}

	c.handle.SetTime(c.state.Target)
	c.handle.SetPaused(true)
	c.state = State{Mode: Idle, Level: c.state.Level}

	c.log.Debug("checkpoint reached",
		zap.Int("level", c.state.Level),
		zap.Float64("time", c.handle.Time()),
	)
	c.notify(true)
	return true
}

// State returns the current playback state.
func (c *Controller) State() State {
	return c.state
}

// Level returns the requested level while seeking and the reached level
// once idle.
func (c *Controller) Level() int {
	return c.state.Level
}

// OnChange registers a listener called after every state change.
func (c *Controller) OnChange(fn func(Change)) {
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) notify(arrived bool) {
	ch := Change{State: c.state, Level: c.state.Level, Arrived: arrived}
	for _, fn := range c.listeners {
		fn(ch)
	}
}

// clampTime keeps targets inside the clip so a seek can always finish.
func (c *Controller) clampTime(t float64) float64 {
	if c.handle == nil {
		return t
	}
	return math.Max(0, math.Min(t, c.handle.Duration()))
}
