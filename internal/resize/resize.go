// Package resize keeps the resizable box in sync with its width and depth inputs.
package resize

import (
	"log/slog"

	"box-scene/internal/geometry"
	"box-scene/internal/reactive"
	"box-scene/internal/scene"
)

// Thickness is the fixed Z extent of the resizable box.
const Thickness float32 = 0.1

// Reactor rebuilds a mesh's box geometry whenever width or depth changes.
// Depth maps to the box's vertical extent, so the mesh is lifted by depth/2 to keep its base at y = 0.
type Reactor struct {
	width  *reactive.Value[float32]
	depth  *reactive.Value[float32]
	mesh   *scene.Mesh
	log    *slog.Logger
	stop   func()
	onSize []func(width, depth, y float32)
}

// Option configures a Reactor.
type Option func(*Reactor)

// WithLogger sets the logger used for rebuild messages. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Reactor) { r.log = l }
}

// OnResize registers fn to run after every rebuild with the new size and y position.
// The remote control and the inspector use it to mirror the box state.
func OnResize(fn func(width, depth, y float32)) Option {
	return func(r *Reactor) { r.onSize = append(r.onSize, fn) }
}

// Bind starts watching width and depth and rebuilding mesh's geometry on change.
// It does not touch the mesh until the first change; call Apply to sync immediately.
func Bind(width, depth *reactive.Value[float32], mesh *scene.Mesh, opts ...Option) *Reactor {
	r := &Reactor{width: width, depth: depth, mesh: mesh, log: slog.Default()}
	for _, o := range opts {
		o(r)
	}
	r.stop = reactive.Watch([]reactive.Source{width, depth}, r.Apply)
	return r
}

// Apply rebuilds the geometry from the current values: dispose the old geometry,
// build a new box (width, depth, Thickness), assign it and set y to depth/2.
func (r *Reactor) Apply() {
	w, d := r.width.Get(), r.depth.Get()
	if old := r.mesh.Geometry; old != nil {
		old.Dispose()
	}
	r.mesh.SetGeometry(geometry.NewBox(w, d, Thickness))
	y := d / 2
	r.mesh.Position[1] = y
	r.log.Debug("box resized", "mesh", r.mesh.Name, "width", w, "depth", d, "y", y)
	for _, fn := range r.onSize {
		fn(w, d, y)
	}
}

// Stop detaches the reactor from its inputs. The mesh keeps its last geometry.
func (r *Reactor) Stop() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}
