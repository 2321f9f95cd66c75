package asset

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/levelview/internal/engine/anim"
	"github.com/Faultbox/levelview/internal/engine/scene"
)

func ptr(i int) *int { return &i }

// towerDocument builds a two-node document: a base with a child triangle,
// and an animation lifting the child from y=0 to y=12 over 12 seconds.
func towerDocument(withAnimation bool) *gltf.Document {
	doc := gltf.NewDocument()

	pos := modeler.WritePosition(doc, [][3]float32{{-1, 0, -1}, {1, 0, -1}, {0, 2, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Materials = []*gltf.Material{{
		Name: "brick",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{0.5, 0.25, 0.125, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "floor",
		Primitives: []*gltf.Primitive{{
			Indices:    ptr(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   ptr(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "base", Children: []int{1}, Translation: [3]float64{10, 0, 0}},
		{Name: "floor", Mesh: ptr(0), Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}},
	}
	doc.Scenes[0].Nodes = []int{0}

	if withAnimation {
		times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 12})
		values := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{0, 0, 0}, {0, 12, 0}})
		doc.Animations = []*gltf.Animation{{
			Name:     "build",
			Samplers: []*gltf.AnimationSampler{{Input: times, Output: values}},
			Channels: []*gltf.AnimationChannel{{
				Sampler: 0,
				Target:  gltf.AnimationChannelTarget{Node: ptr(1), Path: gltf.TRSTranslation},
			}},
		}}
	}
	return doc
}

func findNode(root *scene.Node, name string) *scene.Node {
	var found *scene.Node
	root.Traverse(func(n *scene.Node, _ mgl32.Mat4) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}

func TestFromDocumentHierarchy(t *testing.T) {
	m, err := FromDocument(towerDocument(false), "tower.glb")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	base := findNode(m.Root, "base")
	floor := findNode(m.Root, "floor")
	if base == nil || floor == nil {
		t.Fatal("expected base and floor nodes")
	}
	if floor.Parent() != base {
		t.Error("floor should be a child of base")
	}
	if base.Translation != (mgl32.Vec3{10, 0, 0}) {
		t.Errorf("base translation = %v", base.Translation)
	}
	// Zero-valued rotation/scale fall back to identity.
	if base.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("base scale = %v, want identity", base.Scale)
	}

	if floor.Mesh == nil || len(floor.Mesh.Primitives) != 1 {
		t.Fatal("floor should carry one primitive")
	}
	prim := floor.Mesh.Primitives[0]
	if len(prim.Positions) != 3 || len(prim.Indices) != 3 || len(prim.Normals) != 3 {
		t.Errorf("primitive sizes: pos=%d idx=%d nrm=%d", len(prim.Positions), len(prim.Indices), len(prim.Normals))
	}
	if prim.Color != [4]float32{0.5, 0.25, 0.125, 1} {
		t.Errorf("color = %v", prim.Color)
	}

	if m.Clip() != nil {
		t.Error("document without animations should have no clip")
	}
}

func TestFromDocumentBounds(t *testing.T) {
	m, err := FromDocument(towerDocument(false), "tower.glb")
	if err != nil {
		t.Fatal(err)
	}

	box := scene.BoundsOf(m.Root)
	if box.Min != (mgl32.Vec3{9, 0, -1}) || box.Max != (mgl32.Vec3{11, 2, 1}) {
		t.Errorf("bounds = %v..%v", box.Min, box.Max)
	}
}

func TestFromDocumentAnimation(t *testing.T) {
	m, err := FromDocument(towerDocument(true), "tower.glb")
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	clip := m.Clip()
	if clip == nil {
		t.Fatal("expected a clip")
	}
	if clip.Name != "build" || clip.Duration != 12 {
		t.Errorf("clip = %q duration %v", clip.Name, clip.Duration)
	}
	if len(clip.Channels) != 1 || clip.Channels[0].Path != anim.PathTranslation {
		t.Fatalf("channels = %+v", clip.Channels)
	}

	floor := findNode(m.Root, "floor")
	if clip.Channels[0].Target != floor {
		t.Error("channel should target the floor node")
	}

	clip.Apply(6)
	if math.Abs(float64(floor.Translation.Y())-6) > 1e-4 {
		t.Errorf("floor Y at t=6 is %v", floor.Translation.Y())
	}
}

// rotationDocument animates the floor's rotation with a quantized output.
func rotationDocument(values any, normalized bool) *gltf.Document {
	doc := towerDocument(false)
	times := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	out := modeler.WriteAccessor(doc, gltf.TargetNone, values)
	doc.Accessors[out].Normalized = normalized
	doc.Animations = []*gltf.Animation{{
		Name:     "turn",
		Samplers: []*gltf.AnimationSampler{{Input: times, Output: out}},
		Channels: []*gltf.AnimationChannel{{
			Sampler: 0,
			Target:  gltf.AnimationChannelTarget{Node: ptr(1), Path: gltf.TRSRotation},
		}},
	}}
	return doc
}

func TestFromDocumentQuantizedRotation(t *testing.T) {
	// Identity at t=0, 180 degrees about Y at t=2.
	tests := []struct {
		name   string
		values any
	}{
		{"int8", [][4]int8{{0, 0, 0, 127}, {0, 127, 0, 0}}},
		{"uint8", [][4]uint8{{0, 0, 0, 255}, {0, 255, 0, 0}}},
		{"int16", [][4]int16{{0, 0, 0, 32767}, {0, 32767, 0, 0}}},
		{"uint16", [][4]uint16{{0, 0, 0, 65535}, {0, 65535, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromDocument(rotationDocument(tt.values, true), "turn.glb")
			if err != nil {
				t.Fatalf("FromDocument: %v", err)
			}
			ch := m.Clip().Channels[0]
			if ch.Path != anim.PathRotation {
				t.Fatalf("path = %v, want rotation", ch.Path)
			}
			want := [][4]float32{{0, 0, 0, 1}, {0, 1, 0, 0}}
			for k := range want {
				for j := 0; j < 4; j++ {
					if math.Abs(float64(ch.Values[k][j]-want[k][j])) > 1e-6 {
						t.Errorf("key %d = %v, want %v", k, ch.Values[k], want[k])
						break
					}
				}
			}
		})
	}
}

func TestDequantizeClampsSigned(t *testing.T) {
	got := dequantize([][4]int8{{-128, -127, 0, 127}}, 127, true)
	want := [4]float32{-1, -1, 0, 1}
	if got[0] != want {
		t.Errorf("dequantize = %v, want %v", got[0], want)
	}
}

func TestFromDocumentUnnormalizedIntegerRotation(t *testing.T) {
	doc := rotationDocument([][4]int16{{0, 0, 0, 1}, {0, 1, 0, 0}}, false)
	if _, err := FromDocument(doc, "turn.glb"); !errors.Is(err, ErrBadAccessor) {
		t.Errorf("err = %v, want ErrBadAccessor", err)
	}
}

func TestFromDocumentNoMeshes(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "empty"}}
	doc.Scenes[0].Nodes = []int{0}

	if _, err := FromDocument(doc, "empty.glb"); !errors.Is(err, ErrNoMeshes) {
		t.Errorf("err = %v, want ErrNoMeshes", err)
	}
}

func TestFromDocumentBadNodeIndex(t *testing.T) {
	doc := towerDocument(false)
	doc.Scenes[0].Nodes = []int{7}

	if _, err := FromDocument(doc, "bad.glb"); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("err = %v, want ErrNodeOutOfRange", err)
	}
}

func TestFromDocumentWithoutScenes(t *testing.T) {
	doc := towerDocument(false)
	doc.Scene = nil
	doc.Scenes = nil

	m, err := FromDocument(doc, "sceneless.glb")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Root.Children) != 1 || m.Root.Children[0].Name != "base" {
		t.Errorf("expected base as the only root, got %d roots", len(m.Root.Children))
	}
}

func TestFlatNormals(t *testing.T) {
	normals := flatNormals([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}, []uint32{0, 1, 2})
	for i, n := range normals {
		if n != [3]float32{0, 1, 0} {
			t.Errorf("normal %d = %v, want +Y", i, n)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/model.glb")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower.glb")
	if err := gltf.SaveBinary(towerDocument(true), path); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case res := <-LoadAsync(context.Background(), path, nil):
		if res.Err != nil {
			t.Fatalf("LoadAsync: %v", res.Err)
		}
		if res.Model.Clip() == nil {
			t.Error("expected clip from saved document")
		}
		if res.Model.Source != path {
			t.Errorf("source = %q", res.Model.Source)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("LoadAsync timed out")
	}
}

func TestLoadAsyncFailure(t *testing.T) {
	res := <-LoadAsync(context.Background(), "/nonexistent/model.glb", nil)
	if res.Err == nil || res.Model != nil {
		t.Errorf("expected failure result, got %+v", res)
	}
}

func TestLoadAsyncCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-LoadAsync(ctx, "/nonexistent/model.glb", nil)
	if res.Err == nil {
		t.Error("expected an error from a canceled load")
	}
}
