// Package input carries one frame of pointer state from the window backend to the widgets
// and the camera controller, so neither depends on the backend directly.
package input

import "github.com/go-gl/mathgl/mgl32"

// State is the pointer state for a single frame, in window pixels.
type State struct {
	Pointer mgl32.Vec2
	Delta   mgl32.Vec2

	// Primary is the left button or a single touch; Secondary is the right or middle
	// button or a two-finger touch.
	Primary          bool
	PrimaryPressed   bool
	PrimaryReleased  bool
	Secondary        bool
	SecondaryPressed bool

	// Wheel is the scroll amount this frame; positive scrolls away from the user.
	Wheel float32

	Touches int
}

// Rotating reports whether this frame's drag should orbit the camera.
func (s State) Rotating() bool {
	return s.Primary && !s.Secondary
}

// Panning reports whether this frame's drag should pan the camera.
func (s State) Panning() bool {
	return s.Secondary
}

// Over reports whether the pointer lies inside the rectangle (x, y, w, h).
func (s State) Over(x, y, w, h float32) bool {
	p := s.Pointer
	return p.X() >= x && p.X() < x+w && p.Y() >= y && p.Y() < y+h
}
