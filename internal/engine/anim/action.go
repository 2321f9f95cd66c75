package anim

import "math"

// Action is the playback handle for a single clip: it owns the clip's
// current time, direction and pause state.
type Action struct {
	clip      *Clip
	time      float64
	timeScale float64
	paused    bool

	// Loop wraps time around the clip instead of clamping at either end.
	Loop bool
}

// NewAction creates a paused action at time zero.
func NewAction(clip *Clip) *Action {
	return &Action{clip: clip, timeScale: 1, paused: true}
}

// Clip returns the animated clip.
func (a *Action) Clip() *Clip { return a.clip }

// Time returns the playback position in seconds.
func (a *Action) Time() float64 { return a.time }

// SetTime moves the playback position, clamped or wrapped into the clip.
func (a *Action) SetTime(t float64) { a.time = a.fit(t) }

// TimeScale returns the playback rate; negative plays backward.
func (a *Action) TimeScale() float64 { return a.timeScale }

// SetTimeScale sets the playback rate.
func (a *Action) SetTimeScale(s float64) { a.timeScale = s }

// Paused reports whether time is frozen.
func (a *Action) Paused() bool { return a.paused }

// SetPaused freezes or resumes playback.
func (a *Action) SetPaused(p bool) { a.paused = p }

// Duration returns the clip length in seconds.
func (a *Action) Duration() float64 { return a.clip.Duration }

// advance moves time by dt scaled seconds unless paused.
func (a *Action) advance(dt float64) {
	if a.paused || dt == 0 {
		return
	}
	a.time = a.fit(a.time + dt*a.timeScale)
}

func (a *Action) fit(t float64) float64 {
	d := a.clip.Duration
	if d <= 0 {
		return 0
	}
	if a.Loop {
		t = math.Mod(t, d)
		if t < 0 {
			t += d
		}
		return t
	}
	return math.Max(0, math.Min(t, d))
}
