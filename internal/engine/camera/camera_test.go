package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/levelview/internal/engine/scene"
)

func nearF(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestIsometricDirection(t *testing.T) {
	off := Isometric(10)

	if !nearF(float64(off.Len()), 10, 1e-4) {
		t.Errorf("offset length = %v, want 10", off.Len())
	}
	// Equal X/Y/Z components: the cube diagonal.
	if !nearF(float64(off.X()), float64(off.Y()), 1e-4) || !nearF(float64(off.Y()), float64(off.Z()), 1e-4) {
		t.Errorf("offset %v is not on the isometric diagonal", off)
	}

	elevation := math.Asin(float64(off.Y() / off.Len()))
	if !nearF(float64(mgl32.RadToDeg(float32(elevation))), 35.26, 0.01) {
		t.Errorf("elevation = %v°", mgl32.RadToDeg(float32(elevation)))
	}
	azimuth := math.Atan2(float64(off.X()), float64(off.Z()))
	if !nearF(azimuth, math.Pi/4, 1e-4) {
		t.Errorf("azimuth = %v rad", azimuth)
	}
}

func TestFitIsometric(t *testing.T) {
	box := scene.BoundsOfPoints([][3]float32{{-1, 0, -2}, {1, 6, 2}})
	c := NewPerspective(45, 1, 0.1, 10)

	c.FitIsometric(box)

	if !nearF(float64(c.Distance()), 12, 1e-3) {
		t.Errorf("distance = %v, want 2 × 6 = 12", c.Distance())
	}
	if c.Target != (mgl32.Vec3{}) {
		t.Errorf("target = %v, want origin", c.Target)
	}
	if c.Far <= 12 {
		t.Errorf("far plane %v should reach past the model", c.Far)
	}
}

func TestFitIsometricEmptyBox(t *testing.T) {
	c := NewPerspective(45, 1, 0.1, 100)
	c.FitIsometric(scene.EmptyBox())

	if c.Distance() <= 0 {
		t.Error("empty box should still leave the camera off the origin")
	}
}

func TestSetViewport(t *testing.T) {
	c := NewPerspective(45, 1, 0.1, 100)

	c.SetViewport(1920, 1080)
	if !nearF(float64(c.Aspect), 1920.0/1080.0, 1e-6) {
		t.Errorf("aspect = %v", c.Aspect)
	}

	c.SetViewport(800, 0)
	if !nearF(float64(c.Aspect), 1920.0/1080.0, 1e-6) {
		t.Error("zero height should leave aspect unchanged")
	}
}

func TestViewLooksAtTarget(t *testing.T) {
	c := NewPerspective(45, 1, 0.1, 100)
	c.FitIsometric(scene.BoundsOfPoints([][3]float32{{-1, -1, -1}, {1, 1, 1}}))

	// The target lands on the view-space -Z axis.
	p := mgl32.TransformCoordinate(c.Target, c.View())
	if !nearF(float64(p.X()), 0, 1e-4) || !nearF(float64(p.Y()), 0, 1e-4) || p.Z() >= 0 {
		t.Errorf("target in view space = %v", p)
	}
}
