package scene

import (
	"image/color"

	"box-scene/internal/geometry"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture names an image used as a material's albedo map. Source is a file path or an http(s) URL;
// the renderer resolves and uploads it lazily.
type Texture struct {
	Source string
}

// Material is the surface description of a mesh. Color tints the texture when one is set.
type Material struct {
	Color     color.RGBA
	Texture   *Texture
	Shininess float32
}

// Mesh is a geometry placed in the scene with a material and a transform.
// Rotation is Euler angles in radians, applied X then Y then Z.
type Mesh struct {
	Name     string
	Geometry geometry.Geometry
	Material Material
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	Visible  bool
}

// NewMesh returns a visible mesh at the origin with unit scale.
func NewMesh(name string, g geometry.Geometry, mat Material) *Mesh {
	return &Mesh{
		Name:     name,
		Geometry: g,
		Material: mat,
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

func (m *Mesh) NodeName() string { return m.Name }

// SetGeometry swaps in g and returns the previous geometry. Disposing the old one is the caller's job.
func (m *Mesh) SetGeometry(g geometry.Geometry) (old geometry.Geometry) {
	old = m.Geometry
	m.Geometry = g
	return old
}

// SetPosition sets the mesh position and returns m for chaining.
func (m *Mesh) SetPosition(x, y, z float32) *Mesh {
	m.Position = mgl32.Vec3{x, y, z}
	return m
}

// Transform returns the model matrix: translate * rotateX * rotateY * rotateZ * scale.
func (m *Mesh) Transform() mgl32.Mat4 {
	t := mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z())
	r := mgl32.HomogRotate3DX(m.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(m.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(m.Rotation.Z()))
	s := mgl32.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldBounds returns the mesh's geometry bounds translated and scaled into world space.
// Rotation is ignored; callers use this for resting-on-ground checks on unrotated meshes.
func (m *Mesh) WorldBounds() geometry.Bounds {
	b := m.Geometry.BoundingBox()
	scale := func(v mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{v.X() * m.Scale.X(), v.Y() * m.Scale.Y(), v.Z() * m.Scale.Z()}
	}
	return geometry.Bounds{Min: scale(b.Min).Add(m.Position), Max: scale(b.Max).Add(m.Position)}
}
