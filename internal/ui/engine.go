package ui

import (
	"fmt"
	"image/color"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const defaultFontSize = 20

// Engine lays out and draws a flat list of styled nodes, in order. Resolved styles are cached
// until the stylesheet or the node list changes. Text uses the font from LoadFont, or raylib's
// built-in font.
type Engine struct {
	sheet        *Stylesheet
	nodes        []*Node
	cachedStyles []ComputedStyle
	cacheValid   bool
	font         rl.Font

	screenW, screenH int32
}

// New returns an engine with no stylesheet and no nodes.
func New() *Engine {
	return &Engine{}
}

// LoadCSS parses the CSS file at path and appends its rules, so they override the current
// stylesheet at equal specificity.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if err != nil {
		return fmt.Errorf("ui: %s: %w", path, err)
	}
	merged := &Stylesheet{}
	if e.sheet != nil {
		merged.Rules = append(merged.Rules, e.sheet.Rules...)
	}
	merged.Rules = append(merged.Rules, sheet.Rules...)
	e.SetStylesheet(merged)
	return nil
}

// SetStylesheet replaces the stylesheet.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cacheValid = false
}

// LoadFont replaces the text font with the TTF/OTF file at path. On failure the current font stays.
// Needs the window's GL context.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// Font returns the loaded font; its texture ID is zero when the default font is in use.
func (e *Engine) Font() rl.Font {
	return e.font
}

// SetNodes replaces all nodes.
func (e *Engine) SetNodes(nodes []*Node) {
	e.nodes = nodes
	e.cacheValid = false
}

// specificity orders type selectors before classes before ids.
func specificity(sel string) int {
	switch sel[0] {
	case '#':
		return 2
	case '.':
		return 1
	}
	return 0
}

// resolveProps returns merged properties for a node. Higher specificity wins; within the same
// specificity the later rule wins.
func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	for level := 0; level <= 2; level++ {
		for _, rule := range e.sheet.Rules {
			if specificity(rule.Selector) != level || !n.Matches(rule.Selector) {
				continue
			}
			for k, v := range rule.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// Layout resolves styles (cached) and positions every node for a screen of the given size.
// Percent positions place the node so that 0% touches the left/top edge and 100% the right/bottom.
func (e *Engine) Layout(screenW, screenH int32) {
	if e.cacheValid && screenW == e.screenW && screenH == e.screenH {
		return
	}
	if !e.cacheValid {
		e.cachedStyles = make([]ComputedStyle, len(e.nodes))
		for i, n := range e.nodes {
			e.cachedStyles[i] = ResolveProps(e.resolveProps(n))
		}
		e.cacheValid = true
	}
	e.screenW, e.screenH = screenW, screenH
	for i, n := range e.nodes {
		style := e.cachedStyles[i]
		if style.Width > 0 {
			n.Bounds.Width = float32(style.Width)
		}
		if style.Height > 0 {
			n.Bounds.Height = float32(style.Height)
		}
		x, y := style.Left, style.Top
		if style.LeftPct >= 0 {
			x = (screenW - int32(n.Bounds.Width)) * style.LeftPct / 100
		}
		if style.TopPct >= 0 {
			y = (screenH - int32(n.Bounds.Height)) * style.TopPct / 100
		}
		n.Bounds.X, n.Bounds.Y = float32(x), float32(y)
	}
}

// Style returns the resolved style of n, or the default style if n is not one of the engine's nodes.
// Valid after Layout.
func (e *Engine) Style(n *Node) ComputedStyle {
	if e.cacheValid {
		for i, m := range e.nodes {
			if m == n {
				return e.cachedStyles[i]
			}
		}
	}
	return DefaultComputedStyle()
}

// Draw lays nodes out for the current screen and draws background, border, and text of each visible node.
func (e *Engine) Draw() {
	e.Layout(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	for i, n := range e.nodes {
		if n.Hidden {
			continue
		}
		style := e.cachedStyles[i]
		x, y := int32(n.Bounds.X), int32(n.Bounds.Y)
		w, h := int32(n.Bounds.Width), int32(n.Bounds.Height)

		if style.Background.A > 0 {
			rl.DrawRectangle(x, y, w, h, rlColor(style.Background))
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, rlColor(style.Border))
		}
		if n.Text != "" {
			e.DrawText(n.Text, x+style.Padding, y+style.Padding, style.FontSize, style.Color)
		}
	}
}

// DrawText draws text with the loaded font, or raylib's default font.
func (e *Engine) DrawText(text string, x, y, size int32, c color.RGBA) {
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, rlColor(c))
		return
	}
	rl.DrawText(text, x, y, size, rlColor(c))
}

// MeasureText returns the width of text in pixels.
func (e *Engine) MeasureText(text string, size int32) int32 {
	if e.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(e.font, text, float32(size), 1).X)
	}
	return rl.MeasureText(text, size)
}

func rlColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
