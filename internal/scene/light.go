package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLight shines parallel rays from Position towards Target.
type DirectionalLight struct {
	Name      string
	Color     color.RGBA
	Intensity float32
	Position  mgl32.Vec3
	Target    mgl32.Vec3
}

// NewDirectionalLight returns a light at position aimed at the origin.
func NewDirectionalLight(name string, c color.RGBA, intensity float32, position mgl32.Vec3) *DirectionalLight {
	return &DirectionalLight{Name: name, Color: c, Intensity: intensity, Position: position}
}

func (l *DirectionalLight) NodeName() string { return l.Name }

// Direction returns the normalized direction from the surface towards the light,
// which is what the lit shader's lightDir uniform expects. A light sitting on its
// target points straight down.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	d := l.Position.Sub(l.Target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

// Linear returns the light color in [0,1] components.
func (l *DirectionalLight) Linear() [3]float32 {
	return linear(l.Color)
}

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Name      string
	Color     color.RGBA
	Intensity float32
}

// NewAmbientLight returns an ambient light.
func NewAmbientLight(name string, c color.RGBA, intensity float32) *AmbientLight {
	return &AmbientLight{Name: name, Color: c, Intensity: intensity}
}

func (l *AmbientLight) NodeName() string { return l.Name }

// Linear returns color * intensity in [0,1] components.
func (l *AmbientLight) Linear() [3]float32 {
	c := linear(l.Color)
	return [3]float32{c[0] * l.Intensity, c[1] * l.Intensity, c[2] * l.Intensity}
}

func linear(c color.RGBA) [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}
