package orbit

import (
	"testing"

	"box-scene/internal/scene"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func newCamera() *scene.PerspectiveCamera {
	cam := scene.NewPerspectiveCamera(75, 16.0/9, 0.1, 1000)
	cam.Position = mgl32.Vec3{0, 5, 10}
	cam.LookAt(mgl32.Vec3{})
	return cam
}

func TestUpdateWithoutInputKeepsPose(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	before := cam.Position
	c.Update(cam)
	assert.InDelta(t, 0, cam.Position.Sub(before).Len(), 1e-4)
}

func TestRotateKeepsDistance(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	d := c.Distance(cam)

	c.Rotate(120, 0, 600)
	assert.True(t, c.Update(cam))
	assert.InDelta(t, d, c.Distance(cam), 1e-4)
	assert.InDelta(t, 5, cam.Position.Y(), 1e-4, "horizontal drag keeps height")
	assert.NotEqual(t, float32(0), cam.Position.X())
}

func TestPolarClamp(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	c.MaxPolar = math32.Pi / 2

	c.Rotate(0, -100000, 600)
	c.Update(cam)
	assert.Greater(t, cam.Position.Y(), float32(-1e-4), "camera must not go below the ground")

	c.Rotate(0, 100000, 600)
	c.Update(cam)
	assert.Greater(t, cam.Position.Y(), float32(0))
	horiz := mgl32.Vec2{cam.Position.X(), cam.Position.Z()}.Len()
	assert.Less(t, horiz, float32(1e-3), "camera near the pole, never past it")
}

func TestZoomInReducesDistanceAndClamps(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	c.MinDistance = 2
	c.MaxDistance = 50
	start := c.Distance(cam)

	c.Zoom(1)
	c.Update(cam)
	assert.Less(t, c.Distance(cam), start)

	for i := 0; i < 200; i++ {
		c.Zoom(5)
		c.Update(cam)
	}
	assert.InDelta(t, 2, c.Distance(cam), 1e-4)

	for i := 0; i < 200; i++ {
		c.Zoom(-5)
		c.Update(cam)
	}
	assert.InDelta(t, 50, c.Distance(cam), 1e-3)
}

func TestPanMovesTargetAndCameraTogether(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	offset := cam.Position.Sub(cam.Target)

	c.Pan(100, 0, 600, cam)
	c.Update(cam)

	assert.Less(t, c.Target.X(), float32(0), "dragging right moves the target left")
	assert.InDelta(t, 0, cam.Position.Sub(cam.Target).Sub(offset).Len(), 1e-4)
}

func TestDampingSpreadsMotion(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	c.Damping = 0.25

	c.Rotate(150, 0, 600)
	c.Update(cam)
	first := cam.Position
	assert.True(t, c.Update(cam), "damped motion continues on the next frame")
	assert.NotEqual(t, first, cam.Position)
}

func TestDisabledIgnoresInput(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	c.Enabled = false
	before := cam.Position
	c.Rotate(300, 300, 600)
	c.Zoom(10)
	c.Pan(50, 50, 600, cam)
	c.Update(cam)
	assert.InDelta(t, 0, cam.Position.Sub(before).Len(), 1e-4)
}

func TestReset(t *testing.T) {
	cam := newCamera()
	c := New(cam)
	c.Rotate(200, 50, 600)
	c.Pan(30, 10, 600, cam)
	c.Zoom(3)
	c.Update(cam)

	c.Reset(cam)
	assert.Equal(t, mgl32.Vec3{0, 5, 10}, cam.Position)
	assert.Equal(t, mgl32.Vec3{}, cam.Target)
	assert.Equal(t, mgl32.Vec3{}, c.Target)
}
