package anim

// Mixer advances a set of actions and poses their targets each frame.
type Mixer struct {
	actions []*Action
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// ClipAction returns the action for clip, creating it on first use.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	for _, a := range m.actions {
		if a.clip == clip {
			return a
		}
	}
	a := NewAction(clip)
	m.actions = append(m.actions, a)
	return a
}

// Update advances all actions by dt seconds and applies their poses.
func (m *Mixer) Update(dt float64) {
	for _, a := range m.actions {
		a.advance(dt)
	}
	m.Apply()
}

// Apply poses every target at its action's current time without advancing.
func (m *Mixer) Apply() {
	for _, a := range m.actions {
		a.clip.Apply(a.time)
	}
}
