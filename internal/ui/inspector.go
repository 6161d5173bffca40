package ui

import "fmt"

// Inspector is a right-side panel that shows the name, dimensions and height of the selected mesh.
// It owns its nodes; Update refreshes their text and visibility.
type Inspector struct {
	panel    *Node
	title    *Node
	name     *Node
	size     *Node
	position *Node
	texture  *Node
}

// NewInspector creates an Inspector with nodes styled by the engine's CSS (.inspector, .inspector-row).
func NewInspector() *Inspector {
	return &Inspector{
		panel:    NewNode("panel", "inspector", "", ""),
		title:    NewNode("label", "inspector-row", "inspector-title", "Inspector"),
		name:     NewNode("label", "inspector-row", "inspector-name", ""),
		size:     NewNode("label", "inspector-row", "inspector-size", ""),
		position: NewNode("label", "inspector-row", "inspector-position", ""),
		texture:  NewNode("label", "inspector-row", "inspector-texture", ""),
	}
}

// Selection holds the data shown in the inspector. Pass this from the viewer; ui does not depend on scene.
type Selection struct {
	Name    string
	Width   float32
	Depth   float32
	Height  float32 // thickness of the box
	Y       float32 // center height above the ground
	Texture string
}

// Nodes returns the inspector nodes in draw order.
func (in *Inspector) Nodes() []*Node {
	return []*Node{in.panel, in.title, in.name, in.size, in.position, in.texture}
}

// Update refreshes the labels from sel and shows or hides the panel.
func (in *Inspector) Update(visible bool, sel Selection) {
	for _, n := range in.Nodes() {
		n.Hidden = !visible
	}
	if !visible {
		return
	}
	in.name.Text = "Name: " + sel.Name
	in.size.Text = fmt.Sprintf("Size: %.2f x %.2f x %.2f", sel.Width, sel.Depth, sel.Height)
	in.position.Text = fmt.Sprintf("Y: %.2f", sel.Y)
	if sel.Texture != "" {
		in.texture.Text = "Texture: " + sel.Texture
	} else {
		in.texture.Text = "Texture: none"
	}
}
