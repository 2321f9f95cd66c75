// Package lighting provides lighting utilities for 3D rendering.
package lighting

import "github.com/go-gl/mathgl/mgl32"

// Sun is a directional light plus a flat ambient term.
type Sun struct {
	// Direction points from the light towards the scene, normalized.
	Direction mgl32.Vec3
	Ambient   float32
}

// DefaultSun lights the model from above and in front of the isometric
// camera.
func DefaultSun() Sun {
	return SunFromPosition(mgl32.Vec3{5, 10, 7.5}, 0.45)
}

// SunFromPosition builds a sun shining from pos towards the origin.
// A zero position falls back to straight down.
func SunFromPosition(pos mgl32.Vec3, ambient float32) Sun {
	if pos.Len() == 0 {
		pos = mgl32.Vec3{0, 1, 0}
	}
	return Sun{Direction: pos.Mul(-1).Normalize(), Ambient: ambient}
}
