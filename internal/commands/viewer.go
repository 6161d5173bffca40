package commands

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Viewer is what the viewer commands drive. Implementations run on the loop goroutine.
type Viewer interface {
	// SetWidth and SetDepth return the value actually applied after clamping and snapping.
	SetWidth(v float32) float32
	SetDepth(v float32) float32
	SetTexture(src string)
	ResetCamera()
	ShowFPS(show bool)
	ShowGrid(show bool)
	// SetFont loads a font by name or path and returns the file that was loaded.
	SetFont(name string) (path string, err error)
	// Fonts lists the fonts SetFont can find by name.
	Fonts() []string
	Save() (path string, err error)
}

// RegisterViewer adds the box, texture, camera, overlay, font and save commands.
func RegisterViewer(r *Registry, v Viewer) {
	r.Register("width", "<value>  set the box width", nil, sizeCommand("width", v.SetWidth))
	r.Register("depth", "<value>  set the box depth", nil, sizeCommand("depth", v.SetDepth))

	r.Register("texture", "<path|url>  load a texture onto the box", nil, func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%w: cmd texture <path|url>", ErrUsage)
		}
		v.SetTexture(args[0])
		return "loading " + args[0], nil
	})

	camFS := flag.NewFlagSet("camera", flag.ContinueOnError)
	reset := camFS.Bool("reset", false, "restore the initial camera pose")
	r.Register("camera", "--reset  restore the initial camera pose", camFS, func([]string) (string, error) {
		if !*reset {
			return "", fmt.Errorf("%w: cmd camera --reset", ErrUsage)
		}
		v.ResetCamera()
		return "camera reset", nil
	})

	fpsFS, fps := toggle("fps", v.ShowFPS)
	r.Register("fps", "--show|--hide  toggle the FPS counter", fpsFS, fps)
	gridFS, grid := toggle("grid", v.ShowGrid)
	r.Register("grid", "--show|--hide  toggle the reference grid", gridFS, grid)

	r.Register("font", "[name|path]  set the UI font, or list fonts", nil, func(args []string) (string, error) {
		switch len(args) {
		case 0:
			list := v.Fonts()
			if len(list) == 0 {
				return "no fonts found", nil
			}
			return strings.Join(list, "\n"), nil
		case 1:
			path, err := v.SetFont(args[0])
			if err != nil {
				return "", err
			}
			return "font " + path, nil
		default:
			return "", fmt.Errorf("%w: cmd font [name|path]", ErrUsage)
		}
	})

	r.Register("save", "write the current settings to the config file", nil, func([]string) (string, error) {
		path, err := v.Save()
		if err != nil {
			return "", err
		}
		return "saved " + path, nil
	})
}

func sizeCommand(name string, set func(float32) float32) RunFunc {
	return func(args []string) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%w: cmd %s <value>", ErrUsage, name)
		}
		f, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return "", fmt.Errorf("%s: %q is not a number", name, args[0])
		}
		applied := set(float32(f))
		return fmt.Sprintf("%s = %.1f", name, applied), nil
	}
}

// toggle builds a command taking exactly one of --show or --hide.
func toggle(name string, apply func(bool)) (*flag.FlagSet, RunFunc) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	show := fs.Bool("show", false, "")
	hide := fs.Bool("hide", false, "")
	return fs, func([]string) (string, error) {
		if *show == *hide {
			return "", fmt.Errorf("%w: cmd %s --show|--hide", ErrUsage, name)
		}
		apply(*show)
		if *show {
			return name + " shown", nil
		}
		return name + " hidden", nil
	}
}
