// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/levelview/internal/engine/scene"
)

// Isometric view angles: 45° around Y, and the elevation of the cube
// diagonal, atan(1/√2) ≈ 35.26°.
var (
	IsoAzimuth   = math.Pi / 4
	IsoElevation = math.Atan(1 / math.Sqrt2)
)

// Perspective is a perspective camera looking at a fixed target.
type Perspective struct {
	FOV    float32 // Vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{0, 0, 1},
		Up:       mgl32.Vec3{0, 1, 0},
	}
}

// SetViewport recomputes the aspect ratio for a surface size.
func (c *Perspective) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Projection returns the projection matrix.
func (c *Perspective) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// View returns the view matrix.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Isometric returns the offset of length distance along the isometric
// view direction.
func Isometric(distance float32) mgl32.Vec3 {
	horiz := math.Cos(IsoElevation)
	return mgl32.Vec3{
		float32(horiz * math.Sin(IsoAzimuth)),
		float32(math.Sin(IsoElevation)),
		float32(horiz * math.Cos(IsoAzimuth)),
	}.Mul(distance)
}

// FitIsometric places the camera on the isometric diagonal at twice the
// box's largest dimension, looking at the origin. The far plane grows if
// needed to keep the whole box visible.
func (c *Perspective) FitIsometric(box scene.Box) {
	distance := 2 * box.MaxDimension()
	if distance <= 0 {
		distance = 1
	}

	c.Target = mgl32.Vec3{}
	c.Position = c.Target.Add(Isometric(distance))
	c.Up = mgl32.Vec3{0, 1, 0}

	if reach := distance + box.Size().Len(); c.Far < reach {
		c.Far = reach
	}
}

// Distance returns how far the camera sits from its target.
func (c *Perspective) Distance() float32 {
	return c.Position.Sub(c.Target).Len()
}
