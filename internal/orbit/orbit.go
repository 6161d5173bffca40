// Package orbit implements an orbit camera controller: rotate around a target, pan the target
// across the view plane and dolly towards it. It is input-agnostic; the graphics backend feeds
// it pointer deltas and wheel steps each frame.
package orbit

import (
	"math"

	"box-scene/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// polarEpsilon keeps phi away from the poles where the view basis degenerates.
const polarEpsilon = 1e-6

// spherical is a point relative to the target: radius, azimuth theta (around +Y, 0 on +Z)
// and polar phi (0 on +Y).
type spherical struct {
	radius, theta, phi float32
}

func sphericalFrom(v mgl32.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	return spherical{
		radius: r,
		theta:  math32.Atan2(v.X(), v.Z()),
		phi:    float32(math.Acos(float64(mgl32.Clamp(v.Y()/r, -1, 1)))),
	}
}

func (s spherical) vec() mgl32.Vec3 {
	sinPhi := math32.Sin(s.phi)
	return mgl32.Vec3{
		s.radius * sinPhi * math32.Sin(s.theta),
		s.radius * math32.Cos(s.phi),
		s.radius * sinPhi * math32.Cos(s.theta),
	}
}

// Controls holds orbit state. Zero-value fields are not usable; build with New.
type Controls struct {
	Enabled bool

	// Target is the point the camera orbits.
	Target mgl32.Vec3

	// Damping in (0,1] smooths motion: each Update applies that fraction of the pending
	// delta and keeps the rest for later frames. Zero applies everything at once.
	Damping float32

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	MinDistance float32
	MaxDistance float32

	// MinPolar and MaxPolar bound phi in radians (0 looks straight down).
	MinPolar float32
	MaxPolar float32

	deltaTheta float32
	deltaPhi   float32
	scale      float32
	panOffset  mgl32.Vec3

	initTarget   mgl32.Vec3
	initPosition mgl32.Vec3
}

// New returns controls orbiting the camera's current target with three.js-like defaults.
func New(cam *scene.PerspectiveCamera) *Controls {
	return &Controls{
		Enabled:      true,
		Target:       cam.Target,
		RotateSpeed:  1,
		ZoomSpeed:    1,
		PanSpeed:     1,
		MinDistance:  0,
		MaxDistance:  float32(math.Inf(1)),
		MinPolar:     0,
		MaxPolar:     math32.Pi,
		scale:        1,
		initTarget:   cam.Target,
		initPosition: cam.Position,
	}
}

// Rotate orbits by a pointer drag of (dx, dy) pixels. A drag across the full viewport
// height turns the camera by one full revolution at RotateSpeed 1.
func (c *Controls) Rotate(dx, dy, viewportHeight float32) {
	if !c.Enabled || viewportHeight <= 0 {
		return
	}
	c.deltaTheta -= 2 * math32.Pi * dx / viewportHeight * c.RotateSpeed
	c.deltaPhi -= 2 * math32.Pi * dy / viewportHeight * c.RotateSpeed
}

// Zoom dollies by wheel steps. Positive steps (wheel forward) move the camera towards the target.
func (c *Controls) Zoom(steps float32) {
	if !c.Enabled || steps == 0 {
		return
	}
	factor := math32.Pow(0.95, c.ZoomSpeed*math32.Abs(steps))
	if steps > 0 {
		c.scale *= factor
	} else {
		c.scale /= factor
	}
}

// Pan moves the target across the view plane by a pointer drag of (dx, dy) pixels, so that
// the point under the cursor follows it.
func (c *Controls) Pan(dx, dy, viewportHeight float32, cam *scene.PerspectiveCamera) {
	if !c.Enabled || viewportHeight <= 0 {
		return
	}
	offset := cam.Position.Sub(c.Target)
	targetDistance := offset.Len() * math32.Tan(mgl32.DegToRad(cam.Fov)/2)

	forward := c.Target.Sub(cam.Position)
	if forward.Len() == 0 {
		return
	}
	forward = forward.Normalize()
	right := forward.Cross(cam.Up)
	if right.Len() == 0 {
		return
	}
	right = right.Normalize()
	up := right.Cross(forward)

	left := 2 * dx * targetDistance / viewportHeight * c.PanSpeed
	upward := 2 * dy * targetDistance / viewportHeight * c.PanSpeed
	c.panOffset = c.panOffset.Add(right.Mul(-left)).Add(up.Mul(upward))
}

// Update applies pending rotate/zoom/pan to cam and reports whether the camera moved.
func (c *Controls) Update(cam *scene.PerspectiveCamera) bool {
	offset := cam.Position.Sub(c.Target)
	s := sphericalFrom(offset)

	fraction := float32(1)
	if c.Damping > 0 {
		fraction = c.Damping
	}
	s.theta += c.deltaTheta * fraction
	s.phi += c.deltaPhi * fraction

	minPolar := math32.Max(c.MinPolar, polarEpsilon)
	maxPolar := math32.Min(c.MaxPolar, math32.Pi-polarEpsilon)
	s.phi = mgl32.Clamp(s.phi, minPolar, maxPolar)

	s.radius *= c.scale
	s.radius = math32.Max(c.MinDistance, math32.Min(c.MaxDistance, s.radius))

	c.Target = c.Target.Add(c.panOffset.Mul(fraction))

	newPos := c.Target.Add(s.vec())
	moved := newPos.Sub(cam.Position).Len() > 1e-6 || cam.Target != c.Target
	cam.Position = newPos
	cam.Target = c.Target

	if c.Damping > 0 {
		c.deltaTheta *= 1 - c.Damping
		c.deltaPhi *= 1 - c.Damping
		c.panOffset = c.panOffset.Mul(1 - c.Damping)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = mgl32.Vec3{}
	}
	c.scale = 1
	return moved
}

// Reset drops pending motion and restores the target and camera position captured by New.
func (c *Controls) Reset(cam *scene.PerspectiveCamera) {
	c.deltaTheta, c.deltaPhi = 0, 0
	c.panOffset = mgl32.Vec3{}
	c.scale = 1
	c.Target = c.initTarget
	cam.Position = c.initPosition
	cam.Target = c.initTarget
}

// Distance returns the current camera distance from the target.
func (c *Controls) Distance(cam *scene.PerspectiveCamera) float32 {
	return cam.Position.Sub(c.Target).Len()
}
