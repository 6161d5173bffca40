package debug

import (
	"testing"

	"box-scene/internal/input"

	"github.com/stretchr/testify/assert"
)

func newDebug() *Debug {
	d := New()
	d.FPS = func() int32 { return 60 }
	d.FrameTime = func() float32 { return 0.0165 }
	return d
}

func TestHiddenByDefault(t *testing.T) {
	d := newDebug()
	assert.False(t, d.Update(input.State{}))
	assert.Empty(t, d.Lines())
}

func TestShowFPSRefreshesImmediately(t *testing.T) {
	d := newDebug()
	d.Update(input.State{})
	d.Update(input.State{})

	d.SetShowFPS(true)
	d.Update(input.State{})
	assert.Equal(t, []string{"FPS: 60", "Frame: 16.5 ms"}, d.Lines())

	d.FPS = func() int32 { return 30 }
	for i := 1; i < updateInterval; i++ {
		d.Update(input.State{})
	}
	assert.Equal(t, "FPS: 60", d.Lines()[0])
	d.Update(input.State{})
	assert.Equal(t, "FPS: 30", d.Lines()[0])
}

func TestMemAlloc(t *testing.T) {
	d := newDebug()
	d.SetShowMemAlloc(true)
	d.Update(input.State{})
	assert.Len(t, d.Lines(), 1)
	assert.Contains(t, d.Lines()[0], "MiB")
}
