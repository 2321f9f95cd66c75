// Package anim provides keyframe clips and the playback handles that drive them.
package anim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/levelview/internal/engine/scene"
)

// Path is the node property a channel animates.
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Interpolation selects how values between keyframes are computed.
type Interpolation int

const (
	InterpLinear Interpolation = iota
	InterpStep
	InterpCubicSpline
)

// Channel animates one property of one node.
//
// Values holds one element per keyframe, or three (in-tangent, value,
// out-tangent) per keyframe for cubic splines. Translation and scale use
// X/Y/Z of each element; rotation uses all four as (x, y, z, w).
type Channel struct {
	Target        *scene.Node
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        [][4]float32
}

// Clip is a named set of channels sharing one timeline.
type Clip struct {
	Name     string
	Duration float64 // seconds
	Channels []Channel
}

// NewClip creates a clip whose duration is the last keyframe of any channel.
func NewClip(name string, channels []Channel) *Clip {
	var duration float32
	for _, ch := range channels {
		if n := len(ch.Times); n > 0 && ch.Times[n-1] > duration {
			duration = ch.Times[n-1]
		}
	}
	return &Clip{Name: name, Duration: float64(duration), Channels: channels}
}

// Apply samples every channel at t seconds and writes the result to the
// channel targets.
func (c *Clip) Apply(t float64) {
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Target == nil || len(ch.Times) == 0 {
			continue
		}
		v := ch.Sample(float32(t))
		switch ch.Path {
		case PathTranslation:
			ch.Target.Translation = mgl32.Vec3{v[0], v[1], v[2]}
		case PathScale:
			ch.Target.Scale = mgl32.Vec3{v[0], v[1], v[2]}
		case PathRotation:
			ch.Target.Rotation = toQuat(v).Normalize()
		}
	}
}

// Sample returns the channel value at time t, holding the first and last
// keyframes outside the keyed range.
func (ch *Channel) Sample(t float32) [4]float32 {
	n := len(ch.Times)
	if n == 0 {
		return [4]float32{}
	}
	if t <= ch.Times[0] || n == 1 {
		return ch.value(0)
	}
	if t >= ch.Times[n-1] {
		return ch.value(n - 1)
	}

	// First keyframe strictly after t
	next := sort.Search(n, func(i int) bool { return ch.Times[i] > t })
	prev := next - 1

	t0, t1 := ch.Times[prev], ch.Times[next]
	span := t1 - t0
	if span <= 0 {
		return ch.value(next)
	}
	u := (t - t0) / span

	switch ch.Interpolation {
	case InterpStep:
		return ch.value(prev)
	case InterpCubicSpline:
		return ch.hermite(prev, next, u, span)
	default:
		a, b := ch.value(prev), ch.value(next)
		if ch.Path == PathRotation {
			return fromQuat(mgl32.QuatSlerp(toQuat(a), toQuat(b), u))
		}
		return lerp4(a, b, u)
	}
}

// value returns the keyframe value, skipping tangents for cubic splines.
func (ch *Channel) value(key int) [4]float32 {
	if ch.Interpolation == InterpCubicSpline {
		return ch.Values[key*3+1]
	}
	return ch.Values[key]
}

func (ch *Channel) hermite(prev, next int, u, span float32) [4]float32 {
	p0 := ch.Values[prev*3+1]
	m0 := ch.Values[prev*3+2] // out-tangent
	p1 := ch.Values[next*3+1]
	m1 := ch.Values[next*3] // in-tangent

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	var out [4]float32
	for i := 0; i < 4; i++ {
		out[i] = h00*p0[i] + h10*span*m0[i] + h01*p1[i] + h11*span*m1[i]
	}
	if ch.Path == PathRotation {
		out = fromQuat(toQuat(out).Normalize())
	}
	return out
}

func lerp4(a, b [4]float32, u float32) [4]float32 {
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*u
	}
	return out
}

func toQuat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func fromQuat(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V.X(), q.V.Y(), q.V.Z(), q.W}
}
