package engineconfig

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, Range{Min: 1, Max: 5, Step: 0.1}, p.Box.WidthRange)
	assert.Equal(t, Range{Min: 2, Max: 10, Step: 0.1}, p.Box.DepthRange)
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Load must not create the file")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "viewer.yaml")
	p := Default()
	p.Box.Width = 3.5
	p.Box.Depth = 7
	p.ShowFPS = true
	p.Texture = "https://example.com/wood.jpg"
	require.NoError(t, Save(path, p))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("box:\n  width: 4.5\n"), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(4.5), p.Box.Width)
	assert.Equal(t, Default().Box.Depth, p.Box.Depth)
	assert.Equal(t, Default().Window, p.Window)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":      "window: [",
		"zero window":   "window:\n  width: 0\n",
		"fov":           "camera:\n  fov: 200\n",
		"range":         "box:\n  depth_range:\n    min: 10\n    max: 2\n",
		"damping":       "camera:\n  damping: 3\n",
		"negative step": "box:\n  width_range:\n    step: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "viewer.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			p, err := Load(path)
			assert.Error(t, err)
			assert.Equal(t, Default(), p)
		})
	}
}

func TestValidateWrapsErrInvalid(t *testing.T) {
	p := Default()
	p.Window.Height = -1
	assert.ErrorIs(t, p.Validate(), ErrInvalid)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/viewer.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "viewer.yaml"), got)

	got, err = ExpandPath("config/viewer.yaml")
	require.NoError(t, err)
	assert.Equal(t, "config/viewer.yaml", got)
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	require.NoError(t, Save(path, Default()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	got := make(chan Prefs, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, log, func(p Prefs) {
			select {
			case got <- p:
			default:
			}
		})
	}()

	next := Default()
	next.Box.Depth = 9
	// The watcher registers asynchronously; keep rewriting until it reports.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case p := <-got:
			if p.Box.Depth != 9 {
				// A reload can observe the file mid-write.
				continue
			}
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, Save(path, next))
		case <-deadline:
			t.Fatal("watcher never reported the change")
		}
	}
}

func TestReloadSkipsEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")

	_, ok, err := reload(path)
	require.NoError(t, err)
	assert.False(t, ok, "missing file")

	for _, body := range []string{"", " \n\t\n"} {
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, ok, err = reload(path)
		require.NoError(t, err)
		assert.False(t, ok, "body %q", body)
	}

	require.NoError(t, os.WriteFile(path, []byte("box:\n  width: 3\n"), 0644))
	p, ok, err := reload(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float32(3), p.Box.Width)

	require.NoError(t, os.WriteFile(path, []byte("camera:\n  fov: 500\n"), 0644))
	_, ok, err = reload(path)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.False(t, ok)
}

func TestWatchIgnoresTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	next := Default()
	next.Box.Depth = 9
	require.NoError(t, Save(path, next))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	got := make(chan Prefs, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, log, func(p Prefs) {
			select {
			case got <- p:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case p := <-got:
			assert.Equal(t, next, p, "an empty file must not reset to defaults")
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			// Truncate, then write the real content, the way many editors save.
			require.NoError(t, os.WriteFile(path, nil, 0644))
			require.NoError(t, Save(path, next))
		case <-deadline:
			t.Fatal("watcher never reported the change")
		}
	}
}
