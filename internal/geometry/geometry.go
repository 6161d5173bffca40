package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the shape a Geometry describes. The renderer uses it to pick a mesh generator.
type Kind int

const (
	KindBox Kind = iota
	KindSphere
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindPlane:
		return "plane"
	}
	return "unknown"
}

// Bounds is an axis-aligned bounding box in the geometry's local space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Size returns the extent of b on each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Geometry is a parametric shape description. GPU buffers for it are owned by the renderer,
// which listens for Dispose through OnDispose and frees them.
type Geometry interface {
	Kind() Kind
	// Params returns the shape's construction parameters in constructor order.
	Params() []float32
	BoundingBox() Bounds
	OnDispose(fn func())
	Dispose()
	Disposed() bool
}

// resource carries the dispose bookkeeping shared by every geometry.
type resource struct {
	disposed  bool
	listeners []func()
}

// OnDispose registers fn to run when the geometry is disposed. If it already is, fn runs now.
func (r *resource) OnDispose(fn func()) {
	if r.disposed {
		fn()
		return
	}
	r.listeners = append(r.listeners, fn)
}

// Dispose marks the geometry as released and runs dispose listeners once.
func (r *resource) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	ls := r.listeners
	r.listeners = nil
	for _, fn := range ls {
		fn()
	}
}

// Disposed reports whether Dispose has been called.
func (r *resource) Disposed() bool {
	return r.disposed
}

// Box is a cuboid centered at the origin. Width runs along X, Height along Y, Depth along Z.
type Box struct {
	resource
	Width  float32
	Height float32
	Depth  float32
}

// NewBox returns a box geometry. Non-positive sizes are kept as given; the engine draws them degenerate.
func NewBox(width, height, depth float32) *Box {
	return &Box{Width: width, Height: height, Depth: depth}
}

func (b *Box) Kind() Kind { return KindBox }

// Params returns the box dimensions as (width, height, depth).
func (b *Box) Params() []float32 {
	return []float32{b.Width, b.Height, b.Depth}
}

func (b *Box) BoundingBox() Bounds {
	half := mgl32.Vec3{math32.Abs(b.Width) / 2, math32.Abs(b.Height) / 2, math32.Abs(b.Depth) / 2}
	return Bounds{Min: half.Mul(-1), Max: half}
}

// Sphere is a UV sphere centered at the origin.
type Sphere struct {
	resource
	Radius float32
	Rings  int
	Slices int
}

// Default tessellation, same as the engine's default primitive sphere.
const (
	DefaultSphereRings  = 16
	DefaultSphereSlices = 32
)

// NewSphere returns a sphere with the default tessellation.
func NewSphere(radius float32) *Sphere {
	return &Sphere{Radius: radius, Rings: DefaultSphereRings, Slices: DefaultSphereSlices}
}

func (s *Sphere) Kind() Kind { return KindSphere }

// Params returns (radius, rings, slices).
func (s *Sphere) Params() []float32 {
	return []float32{s.Radius, float32(s.Rings), float32(s.Slices)}
}

func (s *Sphere) BoundingBox() Bounds {
	r := math32.Abs(s.Radius)
	return Bounds{Min: mgl32.Vec3{-r, -r, -r}, Max: mgl32.Vec3{r, r, r}}
}

// Plane is a flat quad on the XZ plane (normal +Y), centered at the origin.
type Plane struct {
	resource
	Width  float32
	Length float32
}

// NewPlane returns a ground plane of the given size.
func NewPlane(width, length float32) *Plane {
	return &Plane{Width: width, Length: length}
}

func (p *Plane) Kind() Kind { return KindPlane }

func (p *Plane) Params() []float32 { return []float32{p.Width, p.Length} }

func (p *Plane) BoundingBox() Bounds {
	hw, hl := math32.Abs(p.Width)/2, math32.Abs(p.Length)/2
	return Bounds{Min: mgl32.Vec3{-hw, 0, -hl}, Max: mgl32.Vec3{hw, 0, hl}}
}
