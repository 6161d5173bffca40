// Package debug draws runtime overlays (FPS, memory, frame time) in the top-right corner.
package debug

import (
	"fmt"
	"runtime"

	"box-scene/internal/input"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug holds runtime debugging features. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount   uint32
	lines        []string
	memStats     runtime.MemStats

	// FPS and FrameTime are read on refresh; they default to raylib's counters.
	FPS       func() int32
	FrameTime func() float32
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{FPS: rl.GetFPS, FrameTime: rl.GetFrameTime}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
	d.frameCount = 0
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
	d.frameCount = 0
}

// SetFont sets the font used to draw the overlay. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Lines returns the text currently shown, one entry per line.
func (d *Debug) Lines() []string {
	return d.lines
}

// Update refreshes the overlay text every updateInterval frames, and on the first frame after
// an overlay is switched on. It never captures the pointer.
func (d *Debug) Update(input.State) bool {
	refresh := d.frameCount%updateInterval == 0
	d.frameCount++
	if !refresh {
		return false
	}
	d.lines = d.lines[:0]
	if d.ShowFPS {
		d.lines = append(d.lines,
			fmt.Sprintf("FPS: %d", d.FPS()),
			fmt.Sprintf("Frame: %.1f ms", d.FrameTime()*1000))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		mb := float64(d.memStats.Alloc) / (1024 * 1024)
		d.lines = append(d.lines, fmt.Sprintf("Mem: %.2f MiB", mb))
	}
	return false
}

// Draw renders the enabled overlays right-aligned at the top of the screen.
func (d *Debug) Draw() {
	screenW := int32(rl.GetScreenWidth())
	y := int32(fpsPadding)
	for _, text := range d.lines {
		if d.font.Texture.ID != 0 {
			sz := float32(fpsFontSize)
			pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-float32(fpsPadding), float32(y))
			rl.DrawTextEx(d.font, text, pos, sz, 1, rl.Green)
		} else {
			w := rl.MeasureText(text, fpsFontSize)
			rl.DrawText(text, screenW-w-fpsPadding, y, fpsFontSize, rl.Green)
		}
		y += fpsLineHeight
	}
}
