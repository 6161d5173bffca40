package ui

import "strings"

// Rect is a screen-space rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Node is a single UI element: panel, label, etc. It has optional classes and id for CSS matching,
// bounds (position and size) resolved by Engine.Layout, and optional text for labels.
type Node struct {
	Type   string // "panel", "label", etc.
	Class  string // space-separated, e.g. "row number" for .row and .number
	ID     string // e.g. "main" for #main
	Bounds Rect
	Text   string
	Hidden bool
}

// NewNode creates a node with type and optional class, id, and text.
func NewNode(typ, class, id, text string) *Node {
	return &Node{Type: typ, Class: class, ID: id, Text: text}
}

// HasClass reports whether c is one of the node's classes.
func (n *Node) HasClass(c string) bool {
	for _, f := range strings.Fields(n.Class) {
		if f == c {
			return true
		}
	}
	return false
}

// Matches reports whether a simple selector (.class, #id or type) applies to n.
func (n *Node) Matches(sel string) bool {
	switch {
	case sel == "":
		return false
	case sel[0] == '.':
		return n.HasClass(sel[1:])
	case sel[0] == '#':
		return n.ID == sel[1:]
	}
	return n.Type == sel
}
