package geometry

import "github.com/go-gl/mathgl/mgl32"

// SkyboxCube returns a unit cube drawn as a single 14-index triangle strip.
func SkyboxCube() *Geometry {
	return &Geometry{
		Positions: []mgl32.Vec3{
			{1, 1, 1},
			{-1, 1, 1},
			{1, 1, -1},
			{-1, 1, -1},
			{1, -1, 1},
			{-1, -1, 1},
			{-1, -1, -1},
			{1, -1, -1},
		},
		Indices: []uint32{3, 2, 6, 7, 4, 2, 0, 3, 1, 6, 5, 4, 1, 0},
		Restart: DefaultRestart,
		Mode:    ModeTriangleStrip,
	}
}
