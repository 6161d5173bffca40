package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	gridExtent     = 50
	gridMinorStep  = 1
	gridMajorStep  = 10
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
)

// drawGrid draws a reference grid on the XZ plane with major/minor lines and axis lines.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func drawGrid() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)

	var start, end rl.Vector3
	for i := -gridExtent; i <= gridExtent; i += gridMinorStep {
		c := major
		if i%gridMajorStep != 0 {
			c = minor
		}
		// slightly above y=0 so lines are not hidden by the ground plane
		start.X, start.Y, start.Z = float32(i), 0.001, -gridExtent
		end.X, end.Y, end.Z = float32(i), 0.001, gridExtent
		rl.DrawLine3D(start, end, c)
		start.X, start.Z = -gridExtent, float32(i)
		end.X, end.Z = gridExtent, float32(i)
		rl.DrawLine3D(start, end, c)
	}

	axes := [3]struct {
		dir rl.Vector3
		col rl.Color
	}{
		{rl.NewVector3(1, 0, 0), rl.NewColor(220, 80, 80, axisLineAlpha)},
		{rl.NewVector3(0, 1, 0), rl.NewColor(80, 220, 80, axisLineAlpha)},
		{rl.NewVector3(0, 0, 1), rl.NewColor(80, 80, 220, axisLineAlpha)},
	}
	for _, a := range axes {
		rl.DrawLine3D(rl.Vector3Scale(a.dir, -gridExtent), rl.Vector3Scale(a.dir, gridExtent), a.col)
	}
}
