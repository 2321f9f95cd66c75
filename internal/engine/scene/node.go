// Package scene provides the scene graph the viewer renders.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is one drawable triangle list.
type Primitive struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Color     [4]float32 // Base colour (RGBA)
	Bounds    Box        // Local-space bounds of Positions
}

// Mesh groups the primitives referenced by a node.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Node is a transform in the scene graph.
type Node struct {
	Name string

	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	// Matrix replaces TRS when set. Animated nodes never use it.
	Matrix *mgl32.Mat4

	Mesh     *Mesh
	Children []*Node

	parent *Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// LocalMatrix returns T * R * S, or the fixed matrix when present.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix composes local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Traverse visits n and its descendants depth-first, passing each node's
// world matrix.
func (n *Node) Traverse(fn func(node *Node, world mgl32.Mat4)) {
	var parentWorld mgl32.Mat4
	if n.parent != nil {
		parentWorld = n.parent.WorldMatrix()
	} else {
		parentWorld = mgl32.Ident4()
	}
	n.traverse(parentWorld, fn)
}

func (n *Node) traverse(parentWorld mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parentWorld.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.Children {
		c.traverse(world, fn)
	}
}
