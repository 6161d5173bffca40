package scene

import (
	"image/color"
)

// Node is anything that can live in a Scene: meshes and lights.
type Node interface {
	NodeName() string
}

// Scene is a flat, ordered scene graph. Draw order is insertion order; lights are collected
// from the same list so the renderer can feed them to the lit shader each frame.
type Scene struct {
	Background color.RGBA
	nodes      []Node
}

// New returns an empty scene with a dark background.
func New() *Scene {
	return &Scene{Background: Hex(0x1e1e1e)}
}

// Add appends nodes to the scene.
func (s *Scene) Add(nodes ...Node) {
	s.nodes = append(s.nodes, nodes...)
}

// Remove deletes n from the scene. It reports whether n was present.
func (s *Scene) Remove(n Node) bool {
	for i, existing := range s.nodes {
		if existing == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// ByName returns the first node with the given name, or nil.
func (s *Scene) ByName(name string) Node {
	for _, n := range s.nodes {
		if n.NodeName() == name {
			return n
		}
	}
	return nil
}

// Traverse calls fn for each node in order until fn returns false.
func (s *Scene) Traverse(fn func(Node) bool) {
	for _, n := range s.nodes {
		if !fn(n) {
			return
		}
	}
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Meshes returns the meshes in draw order.
func (s *Scene) Meshes() []*Mesh {
	var out []*Mesh
	for _, n := range s.nodes {
		if m, ok := n.(*Mesh); ok {
			out = append(out, m)
		}
	}
	return out
}

// Lights returns the directional lights and the summed ambient term (color * intensity).
func (s *Scene) Lights() (dirs []*DirectionalLight, ambient [3]float32) {
	for _, n := range s.nodes {
		switch l := n.(type) {
		case *DirectionalLight:
			dirs = append(dirs, l)
		case *AmbientLight:
			c := l.Linear()
			ambient[0] += c[0]
			ambient[1] += c[1]
			ambient[2] += c[2]
		}
	}
	return dirs, ambient
}

// Hex converts a 0xRRGGBB value into an opaque color.
func Hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
