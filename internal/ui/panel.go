package ui

import (
	_ "embed"

	"box-scene/internal/input"

	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed panel.css
var panelCSS string

// DefaultStylesheet returns the built-in panel and inspector styles.
func DefaultStylesheet() *Stylesheet {
	sheet, err := ParseCSS(panelCSS)
	if err != nil {
		panic("ui: built-in stylesheet: " + err.Error())
	}
	return sheet
}

// Panel is the top-left box control overlay: a width and a depth NumberInput, plus the
// inspector on the right. Update and Draw run on the loop goroutine.
type Panel struct {
	Width     *NumberInput
	Depth     *NumberInput
	Inspector *Inspector

	// ShowInspector toggles the right-side inspector.
	ShowInspector bool

	engine     *Engine
	frame      *Node
	widthLabel *Node
	depthLabel *Node
	widthNode  *Node
	depthNode  *Node
	selection  func() Selection

	// holding is true while a press that started on the panel is down.
	holding bool

	screenW, screenH int32
}

// NewPanel builds the overlay. selection feeds the inspector each frame and may be nil.
func NewPanel(width, depth *NumberInput, selection func() Selection) *Panel {
	p := &Panel{
		Width:         width,
		Depth:         depth,
		Inspector:     NewInspector(),
		ShowInspector: selection != nil,
		engine:        New(),
		frame:         NewNode("panel", "panel", "", ""),
		widthLabel:    NewNode("label", "", "width-label", ""),
		depthLabel:    NewNode("label", "", "depth-label", ""),
		widthNode:     NewNode("input", "number", "width-input", ""),
		depthNode:     NewNode("input", "number", "depth-input", ""),
		selection:     selection,
	}
	p.widthNode.Hidden, p.depthNode.Hidden = true, true
	nodes := []*Node{
		p.frame,
		NewNode("label", "", "panel-title", "Box"),
		p.widthLabel, p.depthLabel, p.widthNode, p.depthNode,
	}
	p.engine.SetNodes(append(nodes, p.Inspector.Nodes()...))
	p.engine.SetStylesheet(DefaultStylesheet())
	return p
}

// Engine returns the CSS engine, e.g. to load a custom stylesheet or font.
func (p *Panel) Engine() *Engine {
	return p.engine
}

// Layout positions every node for a screen of the given size.
func (p *Panel) Layout(screenW, screenH int32) {
	p.screenW, p.screenH = screenW, screenH
	p.engine.Layout(screenW, screenH)
	p.Width.Bounds = p.widthNode.Bounds
	p.Depth.Bounds = p.depthNode.Bounds

	// Inspector rows stack inside the inspector frame.
	nodes := p.Inspector.Nodes()
	frame := nodes[0].Bounds
	for i, n := range nodes[1:] {
		n.Bounds.X = frame.X + 12
		n.Bounds.Y = frame.Y + 10 + float32(i)*26
	}
}

// Update feeds the pointer to the inputs. It returns true when the panel used the pointer this frame.
func (p *Panel) Update(in input.State) bool {
	p.Layout(p.screenW, p.screenH)

	var sel Selection
	if p.selection != nil {
		sel = p.selection()
	}
	p.Inspector.Update(p.ShowInspector && p.selection != nil, sel)
	p.widthLabel.Text = p.Width.Text()
	p.depthLabel.Text = p.Depth.Text()

	captured := false
	for _, n := range []*NumberInput{p.Width, p.Depth} {
		if n.Update(in) {
			captured = true
		}
	}

	px, py := in.Pointer.X(), in.Pointer.Y()
	if (in.PrimaryPressed || in.SecondaryPressed) && p.over(px, py) {
		p.holding = true
	}
	if p.holding && !in.Primary && !in.Secondary {
		p.holding = false
	}
	if p.holding {
		captured = true
	}
	if in.Wheel != 0 && p.over(px, py) {
		captured = true
	}
	return captured
}

func (p *Panel) over(x, y float32) bool {
	if p.frame.Bounds.Contains(x, y) {
		return true
	}
	if p.ShowInspector && !p.Inspector.panel.Hidden {
		return p.Inspector.panel.Bounds.Contains(x, y)
	}
	return false
}

// Draw draws the panel and the inspector, then the inputs on top.
func (p *Panel) Draw() {
	p.Layout(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	p.engine.Draw()
	p.drawNumber(p.Width, p.engine.Style(p.widthNode))
	p.drawNumber(p.Depth, p.engine.Style(p.depthNode))
}

func (p *Panel) drawNumber(n *NumberInput, style ComputedStyle) {
	bg := rlColor(style.Background)
	for _, b := range []struct {
		r    Rect
		text string
	}{{n.minusRect(), "-"}, {n.plusRect(), "+"}} {
		rl.DrawRectangleRec(rlRect(b.r), bg)
		tw := p.engine.MeasureText(b.text, style.FontSize)
		p.engine.DrawText(b.text, int32(b.r.X+(b.r.Width-float32(tw))/2), int32(b.r.Y+(b.r.Height-float32(style.FontSize))/2), style.FontSize, style.Color)
	}

	t := n.trackRect()
	rl.DrawRectangleRec(rlRect(t), bg)
	fill := t
	fill.Width = t.Width * n.Fraction()
	rl.DrawRectangleRec(rlRect(fill), rlColor(style.Accent))
	handle := Rect{X: t.X + fill.Width - 3, Y: t.Y - 2, Width: 6, Height: t.Height + 4}
	rl.DrawRectangleRec(rlRect(handle), rlColor(style.Color))
}

func rlRect(r Rect) rl.Rectangle {
	return rl.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
