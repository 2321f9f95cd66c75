package lighting

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestSunFromPosition(t *testing.T) {
	s := SunFromPosition(mgl32.Vec3{0, 10, 0}, 0.3)
	if s.Direction != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("Direction = %v, want straight down", s.Direction)
	}
	if s.Ambient != 0.3 {
		t.Errorf("Ambient = %v", s.Ambient)
	}

	zero := SunFromPosition(mgl32.Vec3{}, 0)
	if zero.Direction != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("zero position Direction = %v", zero.Direction)
	}
}

func TestDefaultSunPointsDown(t *testing.T) {
	s := DefaultSun()
	if s.Direction.Y() >= 0 {
		t.Errorf("default sun should shine downwards, got %v", s.Direction)
	}
	if !near(s.Direction.Len(), 1) {
		t.Errorf("direction not normalized: %v", s.Direction)
	}
}
