package main

import (
	"context"
	"fmt"

	"box-scene/internal/commands"
	"box-scene/internal/debug"
	"box-scene/internal/engineconfig"
	"box-scene/internal/fonts"
	"box-scene/internal/graphics"
	"box-scene/internal/logger"
	"box-scene/internal/reactive"
	"box-scene/internal/remote"
	"box-scene/internal/resize"
	"box-scene/internal/terminal"
	"box-scene/internal/ui"
	"box-scene/internal/viewer"
)

// app connects the viewer to its overlays and to the terminal commands. Every method runs on the
// loop goroutine.
type app struct {
	ctx        context.Context
	v          *viewer.Viewer
	panel      *ui.Panel
	dbg        *debug.Debug
	term       *terminal.Terminal
	font       string
	configPath string
}

var _ commands.Viewer = (*app)(nil)

func (a *app) SetWidth(w float32) float32 { return a.panel.Width.Set(w) }
func (a *app) SetDepth(d float32) float32 { return a.panel.Depth.Set(d) }
func (a *app) SetTexture(src string)      { a.v.SetTexture(a.ctx, src) }
func (a *app) ResetCamera()               { a.v.ResetCamera() }
func (a *app) ShowFPS(show bool)          { a.dbg.SetShowFPS(show) }
func (a *app) ShowGrid(show bool)         { a.v.Renderer().SetGridVisible(show) }
func (a *app) Fonts() []string            { return fonts.List() }

// SetFont loads the font into the panel and shares it with the terminal and the debug overlay.
// It needs the window's GL context.
func (a *app) SetFont(name string) (string, error) {
	path, err := fonts.Find(name)
	if err != nil {
		return "", err
	}
	engine := a.panel.Engine()
	if err := engine.LoadFont(path); err != nil {
		return "", fmt.Errorf("font %s: %w", path, err)
	}
	a.term.SetFont(engine.Font())
	a.dbg.SetFont(engine.Font())
	a.font = name
	return path, nil
}

// Save writes the current box size, texture, font and FPS setting back to the config file.
func (a *app) Save() (string, error) {
	p := a.v.Prefs()
	p.ShowFPS = a.dbg.ShowFPS
	p.Font = a.font
	if err := engineconfig.Save(a.configPath, p); err != nil {
		return "", err
	}
	return a.configPath, nil
}

// selection feeds the inspector.
func (a *app) selection() ui.Selection {
	sel := ui.Selection{
		Name:   a.v.Box.Name,
		Width:  a.v.Width.Get(),
		Depth:  a.v.Depth.Get(),
		Height: resize.Thickness,
		Y:      a.v.Box.Position.Y(),
	}
	if tex := a.v.Box.Material.Texture; tex != nil {
		sel.Texture = tex.Source
	}
	return sel
}

// applyRemote runs on the loop goroutine. Remote values go through the panel inputs so they are
// clamped and snapped like a drag would be.
func (a *app) applyRemote(req remote.Request) {
	reactive.Batch(func() {
		if req.Width != nil {
			a.panel.Width.Set(*req.Width)
		}
		if req.Depth != nil {
			a.panel.Depth.Set(*req.Depth)
		}
	})
}

// reloadConfig runs on the loop goroutine with the preferences re-read from disk.
func (a *app) reloadConfig(p engineconfig.Prefs) {
	reactive.Batch(func() {
		a.v.Width.Set(p.Box.Width)
		a.v.Depth.Set(p.Box.Depth)
	})
	a.dbg.SetShowFPS(p.ShowFPS)
}

func loadStylesheet(e *ui.Engine, path string) error {
	path, err := engineconfig.ExpandPath(path)
	if err != nil {
		return err
	}
	return e.LoadCSS(path)
}

func run(ctx context.Context, opts *options, changed func(string) bool) error {
	prefs, err := engineconfig.Load(opts.configPath)
	if err != nil {
		return err
	}
	prefs = opts.apply(prefs, changed)

	level := logger.ParseLevel(prefs.LogLevel)
	if opts.verbose || opts.quiet {
		level = logger.LevelFromFlags(opts.verbose, opts.quiet)
	}
	lg := logger.New(logger.WithLevel(level))
	log := lg.Slog()
	log.Debug("starting", "config", opts.configPath, "texture", prefs.Texture, "width", prefs.Box.Width, "depth", prefs.Box.Depth)

	v := viewer.Setup(prefs, viewer.WithLogger(log))
	a := &app{ctx: ctx, v: v, dbg: debug.New(), configPath: opts.configPath}
	wr, dr := prefs.Box.WidthRange, prefs.Box.DepthRange
	a.panel = ui.NewPanel(
		ui.NewNumberInput("Width", v.Width, wr.Min, wr.Max, wr.Step),
		ui.NewNumberInput("Depth", v.Depth, dr.Min, dr.Max, dr.Step),
		a.selection,
	)
	a.dbg.SetShowFPS(prefs.ShowFPS)
	if prefs.Stylesheet != "" {
		if err := loadStylesheet(a.panel.Engine(), prefs.Stylesheet); err != nil {
			log.Warn("stylesheet not loaded, using built-in styles", "err", err)
		}
	}

	reg := commands.NewRegistry()
	commands.RegisterViewer(reg, a)
	a.term = terminal.New(lg, reg)

	// Later overlays draw on top and see the pointer first.
	v.AddOverlay(a.panel)
	v.AddOverlay(a.dbg)
	v.AddOverlay(a.term)

	services := []viewer.Service{func(ctx context.Context) error {
		err := engineconfig.Watch(ctx, opts.configPath, log, func(p engineconfig.Prefs) {
			v.Post(func() { a.reloadConfig(p) })
		})
		if err != nil {
			log.Warn("config live reload disabled", "err", err)
		}
		return nil
	}}
	if opts.listen != "" {
		srv := remote.NewServer(func(req remote.Request) {
			v.Post(func() { a.applyRemote(req) })
		}, log)
		v.OnResize(func(width, depth, y float32) {
			srv.Broadcast(remote.State{Width: width, Depth: depth, Y: y})
		})
		services = append(services, func(ctx context.Context) error {
			return srv.Serve(ctx, opts.listen)
		})
	}

	if err := v.Mount(graphics.NewWindow()); err != nil {
		return err
	}
	if prefs.Font != "" {
		if _, err := a.SetFont(prefs.Font); err != nil {
			log.Warn("font not loaded, using default", "font", prefs.Font, "err", err)
		}
	}
	runErr := v.Run(ctx, services...)
	if err := v.Unmount(); err != nil {
		log.Error("unmount failed", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("viewer: %w", runErr)
	}
	return nil
}
