package main

import (
	"io"
	"testing"

	"box-scene/internal/engineconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagDefaultsFromEnv(t *testing.T) {
	t.Setenv(envConfig, "~/viewer.yaml")
	t.Setenv(envTexture, "https://example.com/crate.png")

	cmd := newRootCmd()
	cfg, err := cmd.Flags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "~/viewer.yaml", cfg)
	tex, err := cmd.Flags().GetString("texture")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/crate.png", tex)
}

func TestFlagDefaultsWithoutEnv(t *testing.T) {
	t.Setenv(envConfig, "")
	t.Setenv(envTexture, "")

	cmd := newRootCmd()
	cfg, _ := cmd.Flags().GetString("config")
	assert.Equal(t, engineconfig.ConfigPath, cfg)
	tex, _ := cmd.Flags().GetString("texture")
	assert.Empty(t, tex)
}

func TestOptionsApply(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--depth", "7.5", "--texture", "wood.jpg"}))

	opts := &options{texture: "wood.jpg", depth: 7.5}
	prefs := opts.apply(engineconfig.Default(), cmd.Flags().Changed)
	assert.Equal(t, "wood.jpg", prefs.Texture)
	assert.Equal(t, float32(7.5), prefs.Box.Depth)
	// width was not given, so the config value stays
	assert.Equal(t, engineconfig.Default().Box.Width, prefs.Box.Width)
}

func TestOptionsApplyZeroWidth(t *testing.T) {
	changed := func(name string) bool { return name == "width" }
	prefs := (&options{}).apply(engineconfig.Default(), changed)
	assert.Equal(t, float32(0), prefs.Box.Width)
	assert.Equal(t, engineconfig.Default().Texture, prefs.Texture)
}

func TestVerboseAndQuietExclusive(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"-v", "-q"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}
