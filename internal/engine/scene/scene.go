package scene

// Scene is the root of everything the renderer draws.
type Scene struct {
	Root *Node

	// Version increments whenever nodes are added, so renderers know to
	// upload new geometry.
	Version uint64
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Root: NewNode("root")}
}

// Add inserts a node under the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
	s.Version++
}

// Empty reports whether the scene has no nodes besides the root.
func (s *Scene) Empty() bool {
	return len(s.Root.Children) == 0
}
