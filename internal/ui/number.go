package ui

import (
	"fmt"

	"box-scene/internal/input"
	"box-scene/internal/reactive"

	"github.com/chewxy/math32"
)

// buttonWidth is the size of the - and + buttons at either end of a NumberInput.
const buttonWidth = 24

// NumberInput edits a reactive float within [Min, Max] in multiples of Step. It is laid out as
// a row: [-] [track] [+]. Bounds is set by the owning panel from the stylesheet.
type NumberInput struct {
	Label string
	Min   float32
	Max   float32
	Step  float32
	Value *reactive.Value[float32]

	Bounds Rect

	dragging bool
}

// NewNumberInput returns an input bound to v. The current value is left as is until the user edits it.
func NewNumberInput(label string, v *reactive.Value[float32], min, max, step float32) *NumberInput {
	return &NumberInput{Label: label, Min: min, Max: max, Step: step, Value: v}
}

// Clamp limits v to [Min, Max].
func (n *NumberInput) Clamp(v float32) float32 {
	return math32.Max(n.Min, math32.Min(n.Max, v))
}

// Snap rounds v to the nearest multiple of Step counted from Min, then clamps.
// The result is rounded to four decimals so 1 + 13*0.1 reads back as 2.3.
func (n *NumberInput) Snap(v float32) float32 {
	if n.Step > 0 {
		v = n.Min + math32.Round((v-n.Min)/n.Step)*n.Step
		v = math32.Round(v*1e4) / 1e4
	}
	return n.Clamp(v)
}

// Set snaps v and writes it to the bound value. It returns the value written.
func (n *NumberInput) Set(v float32) float32 {
	v = n.Snap(v)
	n.Value.Set(v)
	return v
}

// Increment moves the value by steps multiples of Step.
func (n *NumberInput) Increment(steps int) float32 {
	return n.Set(n.Value.Get() + float32(steps)*n.Step)
}

// Fraction returns the position of the current value within [Min, Max] as 0..1.
func (n *NumberInput) Fraction() float32 {
	if n.Max <= n.Min {
		return 0
	}
	return math32.Max(0, math32.Min(1, (n.Value.Get()-n.Min)/(n.Max-n.Min)))
}

// Text formats the current value for display.
func (n *NumberInput) Text() string {
	return fmt.Sprintf("%s: %.1f", n.Label, n.Value.Get())
}

func (n *NumberInput) minusRect() Rect {
	b := n.Bounds
	return Rect{X: b.X, Y: b.Y, Width: buttonWidth, Height: b.Height}
}

func (n *NumberInput) plusRect() Rect {
	b := n.Bounds
	return Rect{X: b.X + b.Width - buttonWidth, Y: b.Y, Width: buttonWidth, Height: b.Height}
}

func (n *NumberInput) trackRect() Rect {
	b := n.Bounds
	return Rect{X: b.X + buttonWidth + 4, Y: b.Y, Width: math32.Max(0, b.Width-2*buttonWidth-8), Height: b.Height}
}

// valueAt maps a pointer x inside the track to a value.
func (n *NumberInput) valueAt(x float32) float32 {
	t := n.trackRect()
	if t.Width <= 0 {
		return n.Value.Get()
	}
	f := math32.Max(0, math32.Min(1, (x-t.X)/t.Width))
	return n.Min + f*(n.Max-n.Min)
}

// Dragging reports whether the track is being dragged.
func (n *NumberInput) Dragging() bool {
	return n.dragging
}

// Update applies this frame's pointer to the input: a click on - or + steps once, a press or drag
// on the track sets the value under the pointer, the wheel over the row steps. It returns true
// when the pointer is used by the input and must not reach the camera.
func (n *NumberInput) Update(in input.State) bool {
	px, py := in.Pointer.X(), in.Pointer.Y()
	over := n.Bounds.Contains(px, py)

	if n.dragging {
		if !in.Primary {
			n.dragging = false
			return true
		}
		n.Set(n.valueAt(px))
		return true
	}
	if !over {
		return false
	}
	if in.PrimaryPressed {
		switch {
		case n.minusRect().Contains(px, py):
			n.Increment(-1)
		case n.plusRect().Contains(px, py):
			n.Increment(1)
		case n.trackRect().Contains(px, py):
			n.dragging = true
			n.Set(n.valueAt(px))
		}
	}
	if in.Wheel > 0 {
		n.Increment(1)
	} else if in.Wheel < 0 {
		n.Increment(-1)
	}
	return in.Primary || in.PrimaryPressed || in.Secondary || in.Wheel != 0
}
