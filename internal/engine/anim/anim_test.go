package anim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/levelview/internal/engine/scene"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func liftClip(node *scene.Node) *Clip {
	return NewClip("lift", []Channel{{
		Target: node,
		Path:   PathTranslation,
		Times:  []float32{0, 6, 12},
		Values: [][4]float32{{0, 0, 0}, {0, 6, 0}, {0, 12, 0}},
	}})
}

func TestNewClipDuration(t *testing.T) {
	clip := NewClip("c", []Channel{
		{Times: []float32{0, 2}},
		{Times: []float32{1, 7.5}},
		{},
	})
	if clip.Duration != 7.5 {
		t.Errorf("Duration = %v, want 7.5", clip.Duration)
	}
}

func TestSampleLinear(t *testing.T) {
	ch := Channel{
		Path:   PathTranslation,
		Times:  []float32{1, 3},
		Values: [][4]float32{{0, 0, 0}, {10, 20, 30}},
	}

	tests := []struct {
		t    float32
		want [4]float32
	}{
		{0, [4]float32{0, 0, 0}},     // before first key
		{1, [4]float32{0, 0, 0}},     // on first key
		{2, [4]float32{5, 10, 15}},   // midpoint
		{3, [4]float32{10, 20, 30}},  // on last key
		{10, [4]float32{10, 20, 30}}, // past last key
	}

	for _, tt := range tests {
		got := ch.Sample(tt.t)
		for i := 0; i < 3; i++ {
			if !near(float64(got[i]), float64(tt.want[i])) {
				t.Errorf("Sample(%v) = %v, want %v", tt.t, got, tt.want)
				break
			}
		}
	}
}

func TestSampleStep(t *testing.T) {
	ch := Channel{
		Path:          PathScale,
		Interpolation: InterpStep,
		Times:         []float32{0, 1, 2},
		Values:        [][4]float32{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}},
	}

	if got := ch.Sample(1.9); got[0] != 2 {
		t.Errorf("Sample(1.9) = %v, want step value 2", got)
	}
	if got := ch.Sample(0.5); got[0] != 1 {
		t.Errorf("Sample(0.5) = %v, want step value 1", got)
	}
}

func TestSampleCubicSplineHitsKeys(t *testing.T) {
	// in-tangent, value, out-tangent per key
	ch := Channel{
		Path:          PathTranslation,
		Interpolation: InterpCubicSpline,
		Times:         []float32{0, 2},
		Values: [][4]float32{
			{0, 0, 0}, {0, 0, 0}, {1, 0, 0},
			{1, 0, 0}, {4, 0, 0}, {0, 0, 0},
		},
	}

	if got := ch.Sample(0); got[0] != 0 {
		t.Errorf("Sample(0) = %v", got)
	}
	if got := ch.Sample(2); got[0] != 4 {
		t.Errorf("Sample(2) = %v", got)
	}
	mid := ch.Sample(1)
	if mid[0] <= 0 || mid[0] >= 4 {
		t.Errorf("Sample(1) = %v, expected between the keys", mid)
	}
}

func TestSampleRotationSlerp(t *testing.T) {
	q0 := mgl32.QuatIdent()
	q1 := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	ch := Channel{
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: [][4]float32{fromQuat(q0), fromQuat(q1)},
	}

	got := toQuat(ch.Sample(0.5))
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	if !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("slerp midpoint = %v, want %v", got, want)
	}
}

func TestClipApply(t *testing.T) {
	node := scene.NewNode("tower")
	clip := liftClip(node)

	clip.Apply(3)
	if !near(float64(node.Translation.Y()), 3) {
		t.Errorf("translation Y = %v, want 3", node.Translation.Y())
	}
}

func TestActionAdvance(t *testing.T) {
	a := NewAction(liftClip(scene.NewNode("n")))

	if !a.Paused() {
		t.Fatal("new action should start paused")
	}
	a.advance(1)
	if a.Time() != 0 {
		t.Errorf("paused action advanced to %v", a.Time())
	}

	a.SetPaused(false)
	a.advance(2.5)
	if !near(a.Time(), 2.5) {
		t.Errorf("Time = %v, want 2.5", a.Time())
	}

	a.SetTimeScale(-1)
	a.advance(1)
	if !near(a.Time(), 1.5) {
		t.Errorf("reverse Time = %v, want 1.5", a.Time())
	}
}

func TestActionClampsWithoutLoop(t *testing.T) {
	a := NewAction(liftClip(scene.NewNode("n")))
	a.SetPaused(false)

	a.advance(100)
	if a.Time() != 12 {
		t.Errorf("Time = %v, want clamp at 12", a.Time())
	}

	a.SetTimeScale(-1)
	a.advance(100)
	if a.Time() != 0 {
		t.Errorf("Time = %v, want clamp at 0", a.Time())
	}
}

func TestActionLoops(t *testing.T) {
	a := NewAction(liftClip(scene.NewNode("n")))
	a.Loop = true
	a.SetPaused(false)

	a.advance(13)
	if !near(a.Time(), 1) {
		t.Errorf("Time = %v, want wrap to 1", a.Time())
	}

	a.SetTimeScale(-1)
	a.advance(2)
	if !near(a.Time(), 11) {
		t.Errorf("Time = %v, want wrap to 11", a.Time())
	}
}

func TestMixerUpdateAppliesPose(t *testing.T) {
	node := scene.NewNode("tower")
	clip := liftClip(node)

	m := NewMixer()
	a := m.ClipAction(clip)
	if m.ClipAction(clip) != a {
		t.Error("ClipAction should return the same action for a clip")
	}

	a.SetPaused(false)
	m.Update(6)
	if !near(float64(node.Translation.Y()), 6) {
		t.Errorf("after Update(6) Y = %v", node.Translation.Y())
	}

	// A paused action still poses its target.
	a.SetPaused(true)
	a.SetTime(9)
	m.Update(1)
	if !near(float64(node.Translation.Y()), 9) {
		t.Errorf("paused pose Y = %v, want 9", node.Translation.Y())
	}
}
