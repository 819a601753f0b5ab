package scene

// Fog describes exponential-squared falloff toward Color.
type Fog struct {
	Color   Color
	Density float32
}

// Scene holds the node tree plus the global fog and clear color.
type Scene struct {
	Root       *Node
	Fog        *Fog
	Background Color
}

// New returns an empty scene with a black background.
func New() *Scene {
	return &Scene{Root: NewGroup("scene")}
}

// Add attaches nodes under the scene root.
func (s *Scene) Add(nodes ...*Node) {
	for _, n := range nodes {
		s.Root.Add(n)
	}
}

// Remove detaches n from wherever it sits in the tree.
func (s *Scene) Remove(n *Node) bool {
	if n == nil || n.parent == nil {
		return false
	}
	return n.parent.Remove(n)
}

// FindByName returns the first node named name. Names are expected to be unique.
func (s *Scene) FindByName(name string) *Node {
	return s.Root.FindByName(name)
}

// Meshes returns the visible mesh nodes. A hidden node hides its subtree.
func (s *Scene) Meshes() []*Node {
	return s.collect(KindMesh)
}

// Lights returns the visible ambient and point light nodes.
func (s *Scene) Lights() []*Node {
	return s.collect(KindAmbientLight, KindPointLight)
}

func (s *Scene) collect(kinds ...Kind) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible {
			return
		}
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, n)
				break
			}
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(s.Root)
	return out
}
