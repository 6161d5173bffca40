package viewer

import (
	"image/color"

	"box-scene/internal/engineconfig"
	"box-scene/internal/geometry"
	"box-scene/internal/reactive"
	"box-scene/internal/resize"
	"box-scene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Node names, also used by terminal commands and tests to look meshes up.
const (
	NameSun     = "sun"
	NameAmbient = "ambient"
	NameCube    = "red-cube"
	NameSphere  = "blue-sphere"
	NameBox     = "box"
	NameGround  = "ground"
)

var (
	colorRed    = scene.Hex(0xff0000)
	colorBlue   = scene.Hex(0x0000ff)
	colorGround = scene.Hex(0x808080)
	colorWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Setup builds the scene graph and the reactive box inputs from prefs. Nothing here touches
// the GPU; Mount attaches the result to a window.
func Setup(prefs engineconfig.Prefs, opts ...Option) *Viewer {
	v := &Viewer{prefs: prefs}
	for _, o := range opts {
		o(v)
	}
	v.ensureDefaults()

	s := scene.New()
	s.Add(
		scene.NewDirectionalLight(NameSun, colorWhite, 1, mgl32.Vec3{5, 10, 7.5}),
		scene.NewAmbientLight(NameAmbient, scene.Hex(0x404040), 1),
	)

	ground := scene.NewMesh(NameGround, geometry.NewPlane(20, 20), scene.Material{Color: colorGround})
	cube := scene.NewMesh(NameCube, geometry.NewBox(1, 1, 1), scene.Material{Color: colorRed, Shininess: 30}).
		SetPosition(-2, 0.5, 0)
	sphere := scene.NewMesh(NameSphere, geometry.NewSphere(0.5), scene.Material{Color: colorBlue, Shininess: 60}).
		SetPosition(2, 0.5, 0)

	v.Width = reactive.New(prefs.Box.Width)
	v.Depth = reactive.New(prefs.Box.Depth)

	boxMat := scene.Material{Color: colorWhite}
	if prefs.Texture != "" {
		boxMat.Texture = &scene.Texture{Source: prefs.Texture}
	}
	box := scene.NewMesh(NameBox, geometry.NewBox(prefs.Box.Width, prefs.Box.Depth, resize.Thickness), boxMat).
		SetPosition(0, prefs.Box.Depth/2, 0)

	s.Add(ground, cube, sphere, box)
	v.Scene = s
	v.Box = box
	return v
}

func newCamera(prefs engineconfig.Prefs) *scene.PerspectiveCamera {
	cam := scene.NewPerspectiveCamera(prefs.Camera.Fov, float32(prefs.Window.Width)/float32(prefs.Window.Height), 0.1, 1000)
	p := prefs.Camera.Position
	cam.Position = mgl32.Vec3{p[0], p[1], p[2]}
	cam.LookAt(mgl32.Vec3{})
	return cam
}
