// Package viewer wires the scene, the reactive box inputs, the orbit camera and the frame loop
// onto a window. The window and GPU backend sit behind the Surface interface.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"box-scene/internal/engineconfig"
	"box-scene/internal/input"
	"box-scene/internal/loop"
	"box-scene/internal/orbit"
	"box-scene/internal/reactive"
	"box-scene/internal/resize"
	"box-scene/internal/scene"
	"box-scene/internal/texture"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrAlreadyMounted is returned by Mount when the viewer is already attached to a surface.
	ErrAlreadyMounted = errors.New("viewer: already mounted")
	// ErrNotMounted is returned by Run and Unmount before Mount.
	ErrNotMounted = errors.New("viewer: not mounted")
)

// Surface is the mount point: a window with a GPU context and pointer input.
type Surface interface {
	Open(title string, width, height, targetFPS int, msaa bool) error
	Close()
	ShouldClose() bool
	Size() (width, height int)
	Input() input.State
	NewRenderer(log *slog.Logger) Renderer
}

// Renderer draws a scene. It owns every GPU resource it creates and frees them in Dispose.
type Renderer interface {
	// Render draws one frame: scene from cam, then overlay on top in screen space.
	Render(s *scene.Scene, cam *scene.PerspectiveCamera, overlay func())
	UploadTexture(tex *scene.Texture, img image.Image) error
	SetGridVisible(visible bool)
	Dispose()
}

// Overlay is a screen-space widget drawn over the scene. Update returns true when the widget
// captured the pointer this frame, which keeps the drag from also moving the camera.
type Overlay interface {
	Update(in input.State) (captured bool)
	Draw()
}

// Service is a background task started by Run. It must return when ctx is done.
type Service func(ctx context.Context) error

// Option configures a Viewer.
type Option func(*Viewer)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) { v.log = l }
}

// WithTextureLoader replaces texture.Load, e.g. in tests.
func WithTextureLoader(fn func(ctx context.Context, src string) (image.Image, error)) Option {
	return func(v *Viewer) { v.loadTexture = fn }
}

// Viewer is the application: scene, reactive inputs and, once mounted, renderer, camera and loop.
type Viewer struct {
	Scene *scene.Scene
	Box   *scene.Mesh
	Width *reactive.Value[float32]
	Depth *reactive.Value[float32]

	prefs       engineconfig.Prefs
	log         *slog.Logger
	loadTexture func(ctx context.Context, src string) (image.Image, error)
	overlays    []Overlay
	onResize    []func(width, depth, y float32)

	surface  Surface
	renderer Renderer
	camera   *scene.PerspectiveCamera
	controls *orbit.Controls
	reactor  *resize.Reactor

	// mu guards loop and runCtx, which other goroutines read through Post and SetTexture.
	mu      sync.Mutex
	loop    *loop.Loop
	runCtx  context.Context
	fetches sync.WaitGroup
}

func (v *Viewer) ensureDefaults() {
	if v.log == nil {
		v.log = slog.Default()
	}
	if v.loadTexture == nil {
		v.loadTexture = func(ctx context.Context, src string) (image.Image, error) {
			return texture.Load(ctx, src, texture.Options{})
		}
	}
}

// Prefs returns the preferences the viewer was built with, updated with the current box size
// and texture source.
func (v *Viewer) Prefs() engineconfig.Prefs {
	p := v.prefs
	p.Box.Width = v.Width.Get()
	p.Box.Depth = v.Depth.Get()
	p.Texture = ""
	if tex := v.Box.Material.Texture; tex != nil {
		p.Texture = tex.Source
	}
	return p
}

// AddOverlay registers a widget. Overlays added later draw on top and see input first.
func (v *Viewer) AddOverlay(o Overlay) {
	v.overlays = append(v.overlays, o)
}

// OnResize registers fn to run on the loop goroutine after every box rebuild.
// Must be called before Mount.
func (v *Viewer) OnResize(fn func(width, depth, y float32)) {
	v.onResize = append(v.onResize, fn)
}

// Mounted reports whether the viewer is attached to a surface.
func (v *Viewer) Mounted() bool {
	return v.surface != nil
}

// Camera returns the mounted camera, or nil.
func (v *Viewer) Camera() *scene.PerspectiveCamera { return v.camera }

// Controls returns the mounted orbit controller, or nil.
func (v *Viewer) Controls() *orbit.Controls { return v.controls }

// Renderer returns the mounted renderer, or nil.
func (v *Viewer) Renderer() Renderer { return v.renderer }

// Loop returns the mounted frame loop, or nil.
func (v *Viewer) Loop() *loop.Loop {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loop
}

// Mount opens the surface and creates exactly one renderer, one camera, one orbit controller
// and one frame loop. The box reactor is bound and applied once so the box matches the inputs.
func (v *Viewer) Mount(s Surface) error {
	if v.Mounted() {
		return ErrAlreadyMounted
	}
	w := v.prefs.Window
	if err := s.Open(w.Title, w.Width, w.Height, w.TargetFPS, w.MSAA); err != nil {
		return fmt.Errorf("viewer: mount: %w", err)
	}
	v.surface = s
	v.renderer = s.NewRenderer(v.log)
	v.camera = newCamera(v.prefs)
	v.controls = orbit.New(v.camera)
	v.controls.Damping = v.prefs.Camera.Damping
	v.mu.Lock()
	v.loop = loop.New()
	v.mu.Unlock()

	opts := []resize.Option{resize.WithLogger(v.log)}
	for _, fn := range v.onResize {
		opts = append(opts, resize.OnResize(fn))
	}
	v.reactor = resize.Bind(v.Width, v.Depth, v.Box, opts...)
	v.reactor.Apply()
	v.renderer.SetGridVisible(false)
	v.log.Info("viewer mounted", "width", w.Width, "height", w.Height)
	return nil
}

// Unmount stops reacting to the inputs, frees GPU resources and closes the surface.
// The scene and inputs survive, so the viewer can be mounted again.
func (v *Viewer) Unmount() error {
	if !v.Mounted() {
		return ErrNotMounted
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loop.Running() {
		return fmt.Errorf("viewer: unmount while running: %w", loop.ErrRunning)
	}
	v.reactor.Stop()
	v.renderer.Dispose()
	v.surface.Close()
	v.surface, v.renderer, v.camera, v.controls, v.loop, v.reactor = nil, nil, nil, nil, nil, nil
	v.log.Info("viewer unmounted")
	return nil
}

// Post queues fn to run on the loop goroutine before the next frame and reports whether it was
// queued. Before Mount and after Unmount there is no loop and fn is dropped. Safe from any goroutine.
func (v *Viewer) Post(fn func()) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loop == nil {
		return false
	}
	v.loop.Post(fn)
	return true
}

// SetBoxSize queues a change of both inputs; the box is rebuilt once. Safe from any goroutine,
// and like Post it reports false when the viewer is not mounted.
func (v *Viewer) SetBoxSize(width, depth float32) bool {
	return v.Post(func() {
		reactive.Batch(func() {
			v.Width.Set(width)
			v.Depth.Set(depth)
		})
	})
}

// ResetCamera restores the initial camera pose.
func (v *Viewer) ResetCamera() {
	v.controls.Reset(v.camera)
}

// SetTexture swaps the box texture source. Call it on the loop goroutine. While Run is active the
// image loads in the background and is cancelled when either ctx or Run ends; otherwise the next
// Run loads it.
func (v *Viewer) SetTexture(ctx context.Context, src string) {
	tex := &scene.Texture{Source: src}
	v.Box.Material.Texture = tex

	v.mu.Lock()
	runCtx := v.runCtx
	v.mu.Unlock()
	if runCtx == nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(runCtx, cancel)
	v.startFetch(ctx, tex, func() {
		stop()
		cancel()
	})
}

// startFetch loads tex on a tracked goroutine; done, if set, runs when it returns.
func (v *Viewer) startFetch(ctx context.Context, tex *scene.Texture, done func()) {
	v.fetches.Add(1)
	go func() {
		defer v.fetches.Done()
		if done != nil {
			defer done()
		}
		v.fetchTexture(ctx, tex)
	}()
}

func (v *Viewer) fetchTexture(ctx context.Context, tex *scene.Texture) {
	img, err := v.loadTexture(ctx, tex.Source)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		v.log.Warn("texture load failed, drawing plain color", "src", tex.Source, "err", err)
		return
	}
	v.Post(func() {
		// A later SetTexture replaced this one while it was loading.
		if v.Box.Material.Texture != tex {
			v.log.Debug("texture superseded", "src", tex.Source)
			return
		}
		if err := v.renderer.UploadTexture(tex, img); err != nil {
			v.log.Warn("texture upload failed", "src", tex.Source, "err", err)
			return
		}
		v.log.Info("texture loaded", "src", tex.Source, "size", img.Bounds().Size())
	})
}

// Run starts background services and the texture load, then runs the frame loop on the calling
// goroutine until the window closes or ctx is done. A failing service stops the viewer.
// Services are waited for; texture loads still in flight are cancelled and their results dropped.
func (v *Viewer) Run(ctx context.Context, services ...Service) error {
	if !v.Mounted() {
		return ErrNotMounted
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	v.mu.Lock()
	lp := v.loop
	v.runCtx = gctx
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.runCtx = nil
		v.mu.Unlock()
	}()

	if tex := v.Box.Material.Texture; tex != nil {
		v.startFetch(gctx, tex, nil)
	}
	for _, svc := range services {
		g.Go(func() error { return svc(gctx) })
	}

	loopErr := lp.Run(gctx, v.frame)
	cancel()
	if err := g.Wait(); err != nil && !stopped(err) {
		return err
	}
	if stopped(loopErr) {
		return nil
	}
	return loopErr
}

func stopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (v *Viewer) frame(dt float32) bool {
	if v.surface.ShouldClose() {
		return false
	}
	w, h := v.surface.Size()
	v.camera.SetAspect(w, h)

	in := v.surface.Input()
	captured := false
	for i := len(v.overlays) - 1; i >= 0; i-- {
		if v.overlays[i].Update(in) {
			captured = true
		}
	}
	if !captured {
		vh := float32(h)
		if in.Rotating() {
			v.controls.Rotate(in.Delta.X(), in.Delta.Y(), vh)
		}
		if in.Panning() {
			v.controls.Pan(in.Delta.X(), in.Delta.Y(), vh, v.camera)
		}
		v.controls.Zoom(in.Wheel)
	}
	v.controls.Update(v.camera)

	v.renderer.Render(v.Scene, v.camera, v.drawOverlays)
	return true
}

func (v *Viewer) drawOverlays() {
	for _, o := range v.overlays {
		o.Draw()
	}
}
