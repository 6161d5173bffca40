package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDisposeRunsListenersOnce(t *testing.T) {
	b := NewBox(1, 2, 0.1)
	calls := 0
	b.OnDispose(func() { calls++ })
	b.OnDispose(func() { calls++ })

	assert.False(t, b.Disposed())
	b.Dispose()
	b.Dispose()
	assert.True(t, b.Disposed())
	assert.Equal(t, 2, calls)

	b.OnDispose(func() { calls++ })
	assert.Equal(t, 3, calls, "late listener runs immediately")
}

func TestBoxBounds(t *testing.T) {
	b := NewBox(5, 10, 0.1)
	assert.Equal(t, []float32{5, 10, 0.1}, b.Params())
	bb := b.BoundingBox()
	assert.InDelta(t, 5, bb.Size().X(), 1e-6)
	assert.InDelta(t, 10, bb.Size().Y(), 1e-6)
	assert.InDelta(t, 0.1, bb.Size().Z(), 1e-6)
	assert.Equal(t, mgl32.Vec3{-2.5, -5, -0.05}, bb.Min)
}

func TestNegativeBoxBoundsStayOrdered(t *testing.T) {
	bb := NewBox(-2, 4, 0.1).BoundingBox()
	assert.Less(t, bb.Min.X(), bb.Max.X())
	assert.InDelta(t, 2, bb.Size().X(), 1e-6)
}

func TestSphereAndPlaneBounds(t *testing.T) {
	s := NewSphere(0.5)
	assert.Equal(t, KindSphere, s.Kind())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, s.BoundingBox().Size())

	p := NewPlane(20, 20)
	assert.Equal(t, "plane", p.Kind().String())
	assert.Equal(t, mgl32.Vec3{20, 0, 20}, p.BoundingBox().Size())
}

func TestParams(t *testing.T) {
	cases := []struct {
		g    Geometry
		want []float32
	}{
		{NewBox(2, 4, 0.1), []float32{2, 4, 0.1}},
		{NewSphere(0.5), []float32{0.5, DefaultSphereRings, DefaultSphereSlices}},
		{NewPlane(20, 10), []float32{20, 10}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.g.Params(), c.g.Kind().String())
	}
}
