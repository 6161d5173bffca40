package engineconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file, relative to the process working directory.
const ConfigPath = "config/viewer.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Window holds the mount point settings.
type Window struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	MSAA      bool   `yaml:"msaa"`
}

// Range is the UI hint for one numeric input. The model itself never clamps.
type Range struct {
	Min  float32 `yaml:"min"`
	Max  float32 `yaml:"max"`
	Step float32 `yaml:"step"`
}

// Box holds the resizable box inputs and their UI ranges.
type Box struct {
	Width      float32 `yaml:"width"`
	Depth      float32 `yaml:"depth"`
	WidthRange Range   `yaml:"width_range"`
	DepthRange Range   `yaml:"depth_range"`
}

// Camera holds the initial perspective camera and orbit settings.
type Camera struct {
	Fov      float32    `yaml:"fov"`
	Position [3]float32 `yaml:"position"`
	Damping  float32    `yaml:"damping"`
}

// Prefs is the viewer configuration. It is persisted across runs with Save.
type Prefs struct {
	Window  Window `yaml:"window"`
	Box     Box    `yaml:"box"`
	Camera  Camera `yaml:"camera"`
	Texture string `yaml:"texture,omitempty"`
	Font    string `yaml:"font,omitempty"`
	// Stylesheet is an optional CSS file whose rules override the built-in panel styles.
	Stylesheet string `yaml:"stylesheet,omitempty"`
	ShowFPS    bool   `yaml:"show_fps"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		Window: Window{Title: "box scene", Width: 1280, Height: 720, TargetFPS: 60, MSAA: true},
		Box: Box{
			Width:      2,
			Depth:      4,
			WidthRange: Range{Min: 1, Max: 5, Step: 0.1},
			DepthRange: Range{Min: 2, Max: 10, Step: 0.1},
		},
		Camera:   Camera{Fov: 75, Position: [3]float32{0, 5, 10}, Damping: 0.1},
		Texture:  "assets/textures/box.png",
		LogLevel: "info",
	}
}

// Validate reports structural problems that would make the viewer unusable.
func (p Prefs) Validate() error {
	if p.Window.Width <= 0 || p.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, p.Window.Width, p.Window.Height)
	}
	if p.Camera.Fov <= 0 || p.Camera.Fov >= 180 {
		return fmt.Errorf("%w: camera fov %.1f outside (0, 180)", ErrInvalid, p.Camera.Fov)
	}
	if p.Camera.Damping < 0 || p.Camera.Damping > 1 {
		return fmt.Errorf("%w: camera damping %.2f outside [0, 1]", ErrInvalid, p.Camera.Damping)
	}
	for name, r := range map[string]Range{"width_range": p.Box.WidthRange, "depth_range": p.Box.DepthRange} {
		if r.Min > r.Max {
			return fmt.Errorf("%w: box.%s min %.2f > max %.2f", ErrInvalid, name, r.Min, r.Max)
		}
		if r.Step < 0 {
			return fmt.Errorf("%w: box.%s step %.2f is negative", ErrInvalid, name, r.Step)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("engineconfig: expand %q: %w", path, err)
	}
	return expanded, nil
}

// Load reads preferences from path. Keys missing from the file keep their Default() values.
// A missing file is not an error: Default() is returned and nothing is created.
func Load(path string) (Prefs, error) {
	p := Default()
	path, err := ExpandPath(path)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("engineconfig: %w", err)
	}
	return parse(path, data)
}

// parse decodes data over Default() and validates the result.
func parse(path string, data []byte) (Prefs, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating the parent directory if needed.
func Save(path string, p Prefs) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
