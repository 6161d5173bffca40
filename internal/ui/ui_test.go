package ui

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"box-scene/internal/input"
	"box-scene/internal/reactive"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSS(t *testing.T) {
	sheet, err := ParseCSS(`
/* comment */
.panel, #main { background: #333; left: 10px; }
label { color: #fff }
a b { color: #000 }
`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)
	assert.Equal(t, ".panel", sheet.Rules[0].Selector)
	assert.Equal(t, "#main", sheet.Rules[1].Selector)
	assert.Equal(t, "10px", sheet.Rules[1].Props["left"])
	assert.Equal(t, "label", sheet.Rules[2].Selector)
}

func TestParseCSSUnterminated(t *testing.T) {
	_, err := ParseCSS(".panel { color: #fff;")
	assert.ErrorIs(t, err, ErrCSS)
}

func TestParseCSSSkipsAtRules(t *testing.T) {
	sheet, err := ParseCSS(`@media (max-width: 600px) { .panel { left: 0; } } .panel { left: 4; }`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 1)
	assert.Equal(t, "4", sheet.Rules[0].Props["left"])
}

func TestDefaultStylesheetParses(t *testing.T) {
	assert.NotEmpty(t, DefaultStylesheet().Rules)
}

func TestParseHexColor(t *testing.T) {
	tests := map[string]struct {
		want color.RGBA
		ok   bool
	}{
		"#fff":      {color.RGBA{255, 255, 255, 255}, true},
		"#4a90e2":   {color.RGBA{0x4a, 0x90, 0xe2, 255}, true},
		"#20222580": {color.RGBA{0x20, 0x22, 0x25, 0x80}, true},
		"#12345":    {color.RGBA{A: 255}, false},
		"#ggg":      {color.RGBA{A: 255}, false},
		"red":       {color.RGBA{A: 255}, false},
	}
	for in, tt := range tests {
		got, ok := ParseHexColor(in)
		assert.Equal(t, tt.ok, ok, in)
		assert.Equal(t, tt.want, got, in)
	}
}

func TestResolveProps(t *testing.T) {
	s := ResolveProps(map[string]string{
		"left":      "50%",
		"top":       "12px",
		"width":     "100",
		"font-size": "16",
		"accent":    "#ff0000",
		"border":    "#000",
	})
	assert.Equal(t, int32(50), s.LeftPct)
	assert.Equal(t, int32(-1), s.TopPct)
	assert.Equal(t, int32(12), s.Top)
	assert.Equal(t, int32(100), s.Width)
	assert.Equal(t, int32(16), s.FontSize)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, s.Accent)
	assert.True(t, s.HasBorder)
}

func TestEngineLayoutAndSpecificity(t *testing.T) {
	sheet, err := ParseCSS(`
#box { left: 5; }
.card { left: 1; top: 2; width: 100; height: 40; color: #111; }
label { color: #222; }
.right { left: 100%; }
`)
	require.NoError(t, err)
	e := New()
	e.SetStylesheet(sheet)
	box := NewNode("label", "card", "box", "")
	right := NewNode("panel", "card right", "", "")
	e.SetNodes([]*Node{box, right})

	e.Layout(800, 600)
	assert.Equal(t, Rect{X: 5, Y: 2, Width: 100, Height: 40}, box.Bounds)
	assert.Equal(t, Rect{X: 700, Y: 2, Width: 100, Height: 40}, right.Bounds)
	// the class rule beats the type rule even though it comes first
	assert.Equal(t, color.RGBA{0x11, 0x11, 0x11, 255}, e.Style(box).Color)

	e.Layout(1000, 600)
	assert.Equal(t, float32(900), right.Bounds.X)
}

func TestLoadCSSOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.css")
	require.NoError(t, os.WriteFile(path, []byte("#width-input { top: 60; }"), 0644))

	p := NewPanel(
		NewNumberInput("Width", reactive.New[float32](2), 1, 5, 0.1),
		NewNumberInput("Depth", reactive.New[float32](4), 2, 10, 0.1),
		nil,
	)
	require.NoError(t, p.Engine().LoadCSS(path))
	p.Layout(1280, 720)
	assert.Equal(t, float32(60), p.Width.Bounds.Y)
	assert.Equal(t, float32(156), p.Width.Bounds.X)

	assert.Error(t, p.Engine().LoadCSS(filepath.Join(t.TempDir(), "missing.css")))
}

func TestNodeMatches(t *testing.T) {
	n := NewNode("label", "row number", "depth", "")
	assert.True(t, n.Matches(".row"))
	assert.True(t, n.Matches(".number"))
	assert.True(t, n.Matches("#depth"))
	assert.True(t, n.Matches("label"))
	assert.False(t, n.Matches(".num"))
	assert.False(t, n.Matches("panel"))
}

func newDepthInput() *NumberInput {
	n := NewNumberInput("Depth", reactive.New[float32](4), 2, 10, 0.1)
	n.Bounds = Rect{X: 100, Y: 50, Width: 200, Height: 20}
	return n
}

func TestNumberInputSnapAndClamp(t *testing.T) {
	n := NewNumberInput("Width", reactive.New[float32](2), 1, 5, 0.1)
	assert.Equal(t, float32(1), n.Snap(0.2))
	assert.Equal(t, float32(5), n.Snap(7))
	assert.Equal(t, float32(2.3), n.Snap(2.33))
	assert.Equal(t, float32(2.4), n.Snap(2.36))
	assert.Equal(t, float32(3), n.Clamp(3))
}

func TestNumberInputIncrement(t *testing.T) {
	n := NewNumberInput("Width", reactive.New[float32](1), 1, 5, 0.1)
	for i := 0; i < 13; i++ {
		n.Increment(1)
	}
	assert.Equal(t, float32(2.3), n.Value.Get())

	n.Increment(-100)
	assert.Equal(t, float32(1), n.Value.Get())
	n.Increment(100)
	assert.Equal(t, float32(5), n.Value.Get())
	assert.Equal(t, float32(1), n.Fraction())
}

func TestNumberInputButtons(t *testing.T) {
	n := newDepthInput()
	// plus button occupies the last buttonWidth pixels
	captured := n.Update(input.State{Pointer: mgl32.Vec2{290, 60}, Primary: true, PrimaryPressed: true})
	assert.True(t, captured)
	assert.Equal(t, float32(4.1), n.Value.Get())

	n.Update(input.State{Pointer: mgl32.Vec2{105, 60}, Primary: true, PrimaryPressed: true})
	n.Update(input.State{Pointer: mgl32.Vec2{105, 60}, Primary: true, PrimaryPressed: true})
	assert.Equal(t, float32(3.9), n.Value.Get())
}

func TestNumberInputDrag(t *testing.T) {
	n := newDepthInput()
	track := n.trackRect()

	assert.True(t, n.Update(input.State{Pointer: mgl32.Vec2{track.X, 60}, Primary: true, PrimaryPressed: true}))
	assert.True(t, n.Dragging())
	assert.Equal(t, float32(2), n.Value.Get())

	// dragging keeps going outside the row and clamps
	assert.True(t, n.Update(input.State{Pointer: mgl32.Vec2{track.X + track.Width + 500, 300}, Primary: true}))
	assert.Equal(t, float32(10), n.Value.Get())

	assert.True(t, n.Update(input.State{Pointer: mgl32.Vec2{0, 0}, PrimaryReleased: true}))
	assert.False(t, n.Dragging())
	assert.False(t, n.Update(input.State{Pointer: mgl32.Vec2{0, 0}, Primary: true}))
}

func TestNumberInputWheel(t *testing.T) {
	n := newDepthInput()
	assert.True(t, n.Update(input.State{Pointer: mgl32.Vec2{200, 60}, Wheel: 1}))
	assert.Equal(t, float32(4.1), n.Value.Get())
	assert.False(t, n.Update(input.State{Pointer: mgl32.Vec2{10, 10}, Wheel: 1}))
	assert.Equal(t, float32(4.1), n.Value.Get())
}

func TestPanelWritesReactiveValues(t *testing.T) {
	width := reactive.New[float32](2)
	depth := reactive.New[float32](4)
	var changes []float32
	depth.Subscribe(func(_, v float32) { changes = append(changes, v) })

	p := NewPanel(
		NewNumberInput("Width", width, 1, 5, 0.1),
		NewNumberInput("Depth", depth, 2, 10, 0.1),
		func() Selection {
			return Selection{Name: "box", Width: width.Get(), Depth: depth.Get(), Height: 0.1, Y: depth.Get() / 2}
		},
	)
	p.Layout(1280, 720)
	plus := p.Depth.plusRect()

	captured := p.Update(input.State{Pointer: mgl32.Vec2{plus.X + 2, plus.Y + 2}, Primary: true, PrimaryPressed: true})
	assert.True(t, captured)
	assert.Equal(t, []float32{4.1}, changes)
	assert.Equal(t, float32(2), width.Get())

	// a drag that started on the panel stays captured after leaving it
	assert.True(t, p.Update(input.State{Pointer: mgl32.Vec2{900, 500}, Primary: true}))
	assert.False(t, p.Update(input.State{Pointer: mgl32.Vec2{900, 500}}))
	assert.False(t, p.Update(input.State{Pointer: mgl32.Vec2{600, 500}, Primary: true, PrimaryPressed: true}))

	assert.Equal(t, "Depth: 4.1", p.depthLabel.Text)
	assert.Equal(t, "Y: 2.05", p.Inspector.position.Text)
}

func TestInspectorHidden(t *testing.T) {
	in := NewInspector()
	in.Update(false, Selection{Name: "box"})
	for _, n := range in.Nodes() {
		assert.True(t, n.Hidden)
	}
	in.Update(true, Selection{Name: "box", Width: 2, Depth: 4, Height: 0.1, Y: 2})
	assert.Equal(t, "Size: 2.00 x 4.00 x 0.10", in.size.Text)
	assert.Equal(t, "Texture: none", in.texture.Text)
	assert.False(t, in.panel.Hidden)
}
