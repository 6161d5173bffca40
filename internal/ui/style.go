package ui

import (
	"image/color"
	"strconv"
	"strings"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".panel", "#menu" or "label"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// ComputedStyle holds resolved values used for drawing.
// LeftPct/TopPct: 0–100 for percentage positioning; -1 means use Left/Top as pixels.
// Padding is the offset (in pixels) from the node's left/top when drawing text.
// Accent is the fill color of slider tracks.
type ComputedStyle struct {
	Background color.RGBA
	Color      color.RGBA
	Border     color.RGBA
	Accent     color.RGBA
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32 // -1 = not set
	TopPct     int32 // -1 = not set
	Padding    int32
	FontSize   int32
}

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border, zero size).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Color:    white,
		Border:   black,
		Accent:   color.RGBA{R: 74, G: 144, B: 226, A: 255},
		LeftPct:  -1,
		TopPct:   -1,
		Padding:  4,
		FontSize: defaultFontSize,
	}
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA. Returns black and false on parse error.
func ParseHexColor(s string) (color.RGBA, bool) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return black, false
	}
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return black, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return black, false
	}
	return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, true
}

// ParsePx parses an integer with an optional "px" suffix. Unitless values are pixels.
func ParsePx(s string) (int32, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px")), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in [0, 100].
func ParsePct(s string) (int32, bool) {
	num, ok := strings.CutSuffix(strings.TrimSpace(s), "%")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(num, 10, 32)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// position sets either the pixel or the percentage field from a left/top value.
func position(v string, px, pct *int32) {
	if n, ok := ParsePct(v); ok {
		*pct = n
	} else if n, ok := ParsePx(v); ok {
		*px = n
	}
}

// ResolveProps builds a ComputedStyle from a merged property map. Unknown properties and
// unparsable values are ignored.
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	colors := map[string]*color.RGBA{
		"background": &out.Background,
		"color":      &out.Color,
		"accent":     &out.Accent,
		"border":     &out.Border,
	}
	sizes := map[string]*int32{
		"width":     &out.Width,
		"height":    &out.Height,
		"padding":   &out.Padding,
		"font-size": &out.FontSize,
	}
	for k, v := range props {
		if dst, ok := colors[k]; ok {
			if c, ok := ParseHexColor(v); ok {
				*dst = c
				out.HasBorder = out.HasBorder || k == "border"
			}
			continue
		}
		if dst, ok := sizes[k]; ok {
			if n, ok := ParsePx(v); ok && n >= 0 && (n > 0 || k != "font-size") {
				*dst = n
			}
			continue
		}
		switch k {
		case "left", "x":
			position(v, &out.Left, &out.LeftPct)
		case "top", "y":
			position(v, &out.Top, &out.TopPct)
		}
	}
	return out
}
