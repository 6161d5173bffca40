// Package graphics is the raylib backend: a window that implements viewer.Surface and a renderer
// that draws a scene.Scene with the lit shaders.
package graphics

import (
	"log/slog"

	"box-scene/internal/input"
	"box-scene/internal/viewer"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	_ viewer.Surface  = (*Window)(nil)
	_ viewer.Renderer = (*Renderer)(nil)
)

// Window is the raylib window. Only one can be open per process.
type Window struct {
	open bool

	// touch centroid of the previous frame, for two-finger pan deltas
	lastCentroid mgl32.Vec2
	lastTouches  int
}

// NewWindow returns a closed window.
func NewWindow() *Window {
	return &Window{}
}

// Open creates the window and GL context. ESC is left to the terminal overlay.
func (w *Window) Open(title string, width, height, targetFPS int, msaa bool) error {
	flags := uint32(rl.FlagWindowResizable | rl.FlagVsyncHint)
	if msaa {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(width), int32(height), title)
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	rl.SetExitKey(rl.KeyNull) // ESC toggles the terminal; close via window button
	rl.SetTargetFPS(int32(targetFPS))
	w.open = true
	return nil
}

// Close destroys the window and its GL context. Renderers must be disposed first.
func (w *Window) Close() {
	if !w.open {
		return
	}
	rl.CloseWindow()
	w.open = false
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Size returns the framebuffer size in pixels.
func (w *Window) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// Input polls the mouse and touch state for this frame. Two or more touches pan with the
// centroid of the touch points; a single touch behaves like the left button.
func (w *Window) Input() input.State {
	mp := rl.GetMousePosition()
	md := rl.GetMouseDelta()
	s := input.State{
		Pointer:          mgl32.Vec2{mp.X, mp.Y},
		Delta:            mgl32.Vec2{md.X, md.Y},
		Primary:          rl.IsMouseButtonDown(rl.MouseButtonLeft),
		PrimaryPressed:   rl.IsMouseButtonPressed(rl.MouseButtonLeft),
		PrimaryReleased:  rl.IsMouseButtonReleased(rl.MouseButtonLeft),
		Secondary:        rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.IsMouseButtonDown(rl.MouseButtonMiddle),
		SecondaryPressed: rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsMouseButtonPressed(rl.MouseButtonMiddle),
		Wheel:            rl.GetMouseWheelMove(),
		Touches:          int(rl.GetTouchPointCount()),
	}
	if s.Touches >= 2 {
		points := make([]mgl32.Vec2, s.Touches)
		for i := range points {
			p := rl.GetTouchPosition(int32(i))
			points[i] = mgl32.Vec2{p.X, p.Y}
		}
		c := centroid(points)
		s.Pointer = c
		s.Delta = mgl32.Vec2{}
		if w.lastTouches >= 2 {
			s.Delta = c.Sub(w.lastCentroid)
		}
		s.Primary, s.Secondary = false, true
		w.lastCentroid = c
	}
	w.lastTouches = s.Touches
	return s
}

// NewRenderer returns a renderer bound to this window's GL context.
func (w *Window) NewRenderer(log *slog.Logger) viewer.Renderer {
	return NewRenderer(log)
}

func centroid(points []mgl32.Vec2) mgl32.Vec2 {
	var c mgl32.Vec2
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float32(len(points)))
}
