package graphics

import (
	"errors"
	"image/color"

	"box-scene/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNoWindow is returned by Open when raylib could not create a window.
	ErrNoWindow = errors.New("graphics: window could not be created")
	// ErrShader is returned when a lit shader fails to compile.
	ErrShader = errors.New("graphics: shader failed to compile")
	// ErrTexture is returned when an image could not be uploaded to the GPU.
	ErrTexture = errors.New("graphics: texture upload failed")
)

const specularStrength = 0.3

// specular maps a material shininess to the shader's power and strength.
// Zero shininess turns the highlight off.
func specular(shininess float32) (power, strength float32) {
	if shininess <= 0 {
		return 1, 0
	}
	return shininess, specularStrength
}

// toMatrix converts a column-major mgl32 matrix; element i of m maps to field Mi.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func toCamera(c *scene.PerspectiveCamera) rl.Camera3D {
	return rl.Camera3D{
		Position:   toVector3(c.Position),
		Target:     toVector3(c.Target),
		Up:         toVector3(c.Up),
		Fovy:       c.Fov,
		Projection: rl.CameraPerspective,
	}
}

// lightingFor collects the frame uniforms. The first directional light drives the diffuse
// and specular terms; every ambient light adds to the ambient term.
func lightingFor(s *scene.Scene, cam *scene.PerspectiveCamera) lighting {
	dirs, amb := s.Lights()
	l := lighting{
		viewPos: [3]float32(cam.Position),
		dir:     [3]float32{0, 1, 0},
		ambient: amb,
	}
	if len(dirs) > 0 {
		d := dirs[0]
		l.dir = [3]float32(d.Direction())
		l.color = d.Linear()
		l.intensity = d.Intensity
	}
	return l
}
