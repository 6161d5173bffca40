package graphics

import (
	"fmt"
	"image"
	"log/slog"

	"box-scene/internal/geometry"
	"box-scene/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws scenes with raylib. GPU meshes are created lazily, one per geometry, after the
// window exists, and unloaded when the geometry is disposed. All methods must run on the
// goroutine that opened the window.
type Renderer struct {
	log      *slog.Logger
	meshes   map[geometry.Geometry]rl.Mesh
	textures map[*scene.Texture]rl.Texture2D

	lit, litTextured shader
	mtl, texturedMtl rl.Material
	shaderErr        error

	grid     bool
	disposed bool
}

// NewRenderer compiles the lit shaders. If they fail to compile the renderer falls back to
// raylib's default shader and logs the error once.
func NewRenderer(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		log:         log,
		meshes:      make(map[geometry.Geometry]rl.Mesh),
		textures:    make(map[*scene.Texture]rl.Texture2D),
		mtl:         rl.LoadMaterialDefault(),
		texturedMtl: rl.LoadMaterialDefault(),
	}
	var err error
	if r.lit, err = loadShader(litFS); err == nil {
		r.mtl.Shader = r.lit.Shader
	} else {
		r.shaderErr = err
	}
	if r.litTextured, err = loadShader(litTexturedFS); err == nil {
		r.texturedMtl.Shader = r.litTextured.Shader
	} else {
		r.shaderErr = err
	}
	if r.shaderErr != nil {
		log.Error("lit shader unavailable, using unlit default", "err", r.shaderErr)
	}
	return r
}

// SetGridVisible sets whether the reference grid is drawn.
func (r *Renderer) SetGridVisible(visible bool) {
	r.grid = visible
}

// GridVisible reports whether the reference grid is drawn.
func (r *Renderer) GridVisible() bool {
	return r.grid
}

// Meshes returns the number of GPU meshes currently loaded.
func (r *Renderer) Meshes() int {
	return len(r.meshes)
}

// mesh returns the GPU mesh for g, generating it on first use.
func (r *Renderer) mesh(g geometry.Geometry) (rl.Mesh, bool) {
	if m, ok := r.meshes[g]; ok {
		return m, true
	}
	if g.Disposed() {
		return rl.Mesh{}, false
	}
	var m rl.Mesh
	switch g := g.(type) {
	case *geometry.Box:
		m = rl.GenMeshCube(g.Width, g.Height, g.Depth)
	case *geometry.Sphere:
		m = rl.GenMeshSphere(g.Radius, g.Rings, g.Slices)
	case *geometry.Plane:
		m = rl.GenMeshPlane(g.Width, g.Length, 1, 1)
	default:
		return rl.Mesh{}, false
	}
	r.meshes[g] = m
	g.OnDispose(func() { r.release(g) })
	return m, true
}

// release unloads the mesh of a disposed geometry. A disposed renderer has nothing left to free.
func (r *Renderer) release(g geometry.Geometry) {
	m, ok := r.meshes[g]
	if !ok {
		return
	}
	delete(r.meshes, g)
	rl.UnloadMesh(&m)
	r.log.Debug("gpu mesh released", "kind", g.Kind())
}

// UploadTexture copies a decoded image to the GPU as the albedo map for tex, replacing any
// previous upload for the same texture.
func (r *Renderer) UploadTexture(tex *scene.Texture, img image.Image) error {
	if r.disposed {
		return fmt.Errorf("%w: renderer disposed", ErrTexture)
	}
	cimg := rl.NewImageFromImage(img)
	t := rl.LoadTextureFromImage(cimg)
	rl.UnloadImage(cimg)
	if !rl.IsTextureValid(t) {
		return fmt.Errorf("%w: %s", ErrTexture, tex.Source)
	}
	rl.GenTextureMipmaps(&t)
	rl.SetTextureFilter(t, rl.FilterTrilinear)
	if old, ok := r.textures[tex]; ok {
		rl.UnloadTexture(old)
	}
	r.textures[tex] = t
	return nil
}

// Render draws s from cam and then calls overlay in screen space.
func (r *Renderer) Render(s *scene.Scene, cam *scene.PerspectiveCamera, overlay func()) {
	rl.BeginDrawing()
	rl.ClearBackground(toColor(s.Background))

	rl.BeginMode3D(toCamera(cam))
	l := lightingFor(s, cam)
	r.lit.setLighting(l)
	r.litTextured.setLighting(l)
	for _, m := range s.Meshes() {
		if m.Visible {
			r.drawMesh(m)
		}
	}
	if r.grid {
		drawGrid()
	}
	rl.EndMode3D()

	if overlay != nil {
		overlay()
	}
	rl.EndDrawing()
}

func (r *Renderer) drawMesh(m *scene.Mesh) {
	gm, ok := r.mesh(m.Geometry)
	if !ok {
		return
	}
	mtl, sh := r.mtl, r.lit
	if m.Material.Texture != nil {
		if t, ok := r.textures[m.Material.Texture]; ok {
			mtl, sh = r.texturedMtl, r.litTextured
			rl.SetMaterialTexture(&mtl, rl.MapAlbedo, t)
		}
	}
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = toColor(m.Material.Color)
	}
	sh.setSurface(m.Material.Shininess)
	rl.DrawMesh(gm, mtl, toMatrix(m.Transform()))
}

// Dispose frees every mesh, texture and shader. Geometries disposed later find nothing to free.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for g, m := range r.meshes {
		rl.UnloadMesh(&m)
		delete(r.meshes, g)
	}
	for tex, t := range r.textures {
		rl.UnloadTexture(t)
		delete(r.textures, tex)
	}
	for _, sh := range []shader{r.lit, r.litTextured} {
		if sh.valid() {
			rl.UnloadShader(sh.Shader)
		}
	}
	r.log.Debug("renderer disposed")
}
