package scene

import "github.com/go-gl/mathgl/mgl32"

// PerspectiveCamera is a pinhole camera. Fov is the vertical field of view in degrees.
type PerspectiveCamera struct {
	Fov      float32
	Aspect   float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

// NewPerspectiveCamera returns a camera at the origin looking down -Z with +Y up.
func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

// LookAt points the camera at target.
func (c *PerspectiveCamera) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// SetAspect updates the aspect ratio from a viewport size. A zero height (minimized window) is ignored.
func (c *PerspectiveCamera) SetAspect(width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// View returns the view matrix.
func (c *PerspectiveCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the projection matrix.
func (c *PerspectiveCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}
