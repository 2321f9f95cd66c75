// Package asset loads the viewer's glTF model into a scene graph plus its
// animation clips.
package asset

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/levelview/internal/engine/anim"
	"github.com/Faultbox/levelview/internal/engine/scene"
)

// Errors returned while building a model.
var (
	ErrNoMeshes       = errors.New("asset has no renderable meshes")
	ErrBadAccessor    = errors.New("unsupported accessor layout")
	ErrNodeOutOfRange = errors.New("node index out of range")
)

// defaultColor is used for primitives without a material.
var defaultColor = [4]float32{0.8, 0.8, 0.8, 1}

// Model is a loaded asset: one node hierarchy and its clips.
type Model struct {
	Root   *scene.Node
	Clips  []*anim.Clip
	Source string
}

// Clip returns the first animation clip, or nil when the asset has none.
func (m *Model) Clip() *anim.Clip {
	if len(m.Clips) == 0 {
		return nil
	}
	return m.Clips[0]
}

// Load opens a .gltf or .glb file and builds a Model from it.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", path, err)
	}
	m, err := FromDocument(doc, path)
	if err != nil {
		return nil, fmt.Errorf("load asset %s: %w", path, err)
	}
	return m, nil
}

// FromDocument builds a Model from a parsed glTF document.
func FromDocument(doc *gltf.Document, source string) (*Model, error) {
	b := &builder{
		doc:    doc,
		nodes:  make([]*scene.Node, len(doc.Nodes)),
		meshes: make(map[int]*scene.Mesh),
	}

	root := scene.NewNode(source)
	for _, idx := range b.rootNodes() {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}
	if b.primitives == 0 {
		return nil, ErrNoMeshes
	}

	clips := make([]*anim.Clip, 0, len(doc.Animations))
	for i, a := range doc.Animations {
		clip, err := b.clip(a)
		if err != nil {
			return nil, fmt.Errorf("animation %d (%q): %w", i, a.Name, err)
		}
		clips = append(clips, clip)
	}

	return &Model{Root: root, Clips: clips, Source: source}, nil
}

type builder struct {
	doc        *gltf.Document
	nodes      []*scene.Node
	meshes     map[int]*scene.Mesh
	primitives int
}

// rootNodes returns the default scene's nodes, or every parentless node
// when the document names no scene.
func (b *builder) rootNodes() []int {
	if len(b.doc.Scenes) > 0 {
		s := 0
		if b.doc.Scene != nil && *b.doc.Scene < len(b.doc.Scenes) {
			s = *b.doc.Scene
		}
		return b.doc.Scenes[s].Nodes
	}

	isChild := make([]bool, len(b.doc.Nodes))
	for _, n := range b.doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range b.doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (b *builder) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d: %w", idx, ErrNodeOutOfRange)
	}
	if b.nodes[idx] != nil {
		return b.nodes[idx], nil
	}

	src := b.doc.Nodes[idx]
	n := scene.NewNode(src.Name)
	b.nodes[idx] = n

	applyTransform(n, src)

	if src.Mesh != nil {
		mesh, err := b.mesh(*src.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", idx, err)
		}
		n.Mesh = mesh
	}

	for _, c := range src.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// applyTransform copies a glTF node transform, treating zero-valued
// fields as their glTF defaults.
func applyTransform(n *scene.Node, src *gltf.Node) {
	if m := src.Matrix; m != [16]float64{} && m != identity {
		var mat mgl32.Mat4
		for i := range m {
			mat[i] = float32(m[i]) // both column-major
		}
		n.Matrix = &mat
		return
	}

	t := src.Translation
	n.Translation = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}

	if r := src.Rotation; r != [4]float64{} {
		n.Rotation = mgl32.Quat{
			W: float32(r[3]),
			V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])},
		}
	}
	if s := src.Scale; s != [3]float64{} {
		n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
	}
}

var identity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func (b *builder) mesh(idx int) (*scene.Mesh, error) {
	if m, ok := b.meshes[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", idx)
	}

	src := b.doc.Meshes[idx]
	mesh := &scene.Mesh{Name: src.Name}
	for i, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		prim, err := b.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, i, err)
		}
		if prim != nil {
			mesh.Primitives = append(mesh.Primitives, prim)
			b.primitives++
		}
	}
	b.meshes[idx] = mesh
	return mesh, nil
}

func (b *builder) primitive(p *gltf.Primitive) (*scene.Primitive, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := b.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(b.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var indices []uint32
	if p.Indices != nil {
		acr, err := b.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var normals [][3]float32
	if nIdx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acr, err := b.accessor(nIdx); err == nil {
			normals, _ = modeler.ReadNormal(b.doc, acr, nil)
		}
	}
	if len(normals) != len(positions) {
		normals = flatNormals(positions, indices)
	}

	return &scene.Primitive{
		Positions: positions,
		Normals:   normals,
		Indices:   indices,
		Color:     b.baseColor(p.Material),
		Bounds:    scene.BoundsOfPoints(positions),
	}, nil
}

func (b *builder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrBadAccessor)
	}
	return b.doc.Accessors[idx], nil
}

func (b *builder) baseColor(material *int) [4]float32 {
	if material == nil || *material < 0 || *material >= len(b.doc.Materials) {
		return defaultColor
	}
	pbr := b.doc.Materials[*material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return defaultColor
	}
	f := pbr.BaseColorFactor
	return [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
}

// flatNormals derives per-vertex normals by accumulating face normals.
func flatNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			continue
		}
		pa, pb, pc := mgl32.Vec3(positions[a]), mgl32.Vec3(positions[b]), mgl32.Vec3(positions[c])
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}

	out := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() > 0 {
			n = n.Normalize()
		} else {
			n = mgl32.Vec3{0, 1, 0}
		}
		out[i] = [3]float32(n)
	}
	return out
}
