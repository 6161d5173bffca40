package main

import (
	"os"

	"box-scene/internal/engineconfig"

	"github.com/spf13/cobra"
)

// Environment variables that replace the built-in flag defaults. They may come from .env.
const (
	envConfig  = "VIEWER_CONFIG"
	envTexture = "VIEWER_TEXTURE"
)

// options are the command-line settings. Flags win over the environment, which wins over the
// config file.
type options struct {
	configPath string
	texture    string
	width      float32
	depth      float32
	listen     string
	verbose    bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Interactive 3D scene with a resizable, textured box",
		Long: `viewer opens a window with a red cube, a blue sphere, a ground plane and a box
whose width and depth follow the panel inputs. Drag to orbit, right-drag to pan,
scroll to zoom. ESC opens the terminal; type "cmd help" there.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", envOr(envConfig, engineconfig.ConfigPath), "config file (YAML)")
	f.StringVar(&opts.texture, "texture", os.Getenv(envTexture), "box texture: image path or http(s) URL")
	f.Float32Var(&opts.width, "width", 0, "initial box width")
	f.Float32Var(&opts.depth, "depth", 0, "initial box depth")
	f.StringVar(&opts.listen, "listen", "", "serve websocket remote control on this address, e.g. :8090")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}

// apply overlays the flags on prefs loaded from the config file. changed reports whether a flag
// was given on the command line.
func (o *options) apply(prefs engineconfig.Prefs, changed func(name string) bool) engineconfig.Prefs {
	if o.texture != "" {
		prefs.Texture = o.texture
	}
	if changed("width") {
		prefs.Box.Width = o.width
	}
	if changed("depth") {
		prefs.Box.Depth = o.depth
	}
	return prefs
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
