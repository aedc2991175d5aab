package geometry

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrRestartCollision is returned when the grid has so many vertices that a valid
// index would equal the restart sentinel.
var ErrRestartCollision = errors.New("vertex count collides with restart index")

// HeightFunc returns the z displacement for the lattice point at world (x, y).
type HeightFunc func(x, y float32) float32

// GridConfig describes a strip-tessellated rectangular plane.
type GridConfig struct {
	SizeX, SizeY             float32 // World extents, centered at the origin
	ResolutionX, ResolutionY int     // Vertices along each axis
	Restart                  uint32  // 0 selects DefaultRestart
	Height                   HeightFunc
}

// GridIndex returns the flat vertex index of lattice point (i, j).
// i runs along Y (0..ResolutionY), j along X (0..ResolutionX).
func GridIndex(i, j, resolutionY int) uint32 {
	return uint32(i + j*resolutionY)
}

// GridIndexCount returns the number of indices BuildGrid emits.
func GridIndexCount(resolutionX, resolutionY int) int {
	if resolutionX < 2 || resolutionY < 1 {
		return 0
	}
	return (resolutionX - 1) * (2*resolutionY + 1)
}

// BuildGrid creates the vertex lattice and one triangle strip per column pair,
// each terminated by the restart sentinel.
func BuildGrid(cfg GridConfig) (*Geometry, error) {
	restart := cfg.Restart
	if restart == 0 {
		restart = DefaultRestart
	}

	g := &Geometry{Restart: restart, Mode: ModeTriangleStrip}
	nx, ny := cfg.ResolutionX, cfg.ResolutionY
	if nx <= 0 || ny <= 0 {
		return g, nil
	}
	if uint64(nx)*uint64(ny) >= uint64(restart) {
		return nil, fmt.Errorf("grid %dx%d with restart %d: %w", nx, ny, restart, ErrRestartCollision)
	}

	g.Positions = make([]mgl32.Vec3, 0, nx*ny)
	g.UVs = make([]mgl32.Vec2, 0, nx*ny)

	for j := 0; j < nx; j++ {
		tx := lerpParam(j, nx)
		for i := 0; i < ny; i++ {
			ty := lerpParam(i, ny)
			x := -cfg.SizeX/2 + tx*cfg.SizeX
			y := -cfg.SizeY/2 + ty*cfg.SizeY
			var z float32
			if cfg.Height != nil {
				z = cfg.Height(x, y)
			}
			g.Positions = append(g.Positions, mgl32.Vec3{x, y, z})
			g.UVs = append(g.UVs, mgl32.Vec2{ty, tx})
		}
	}

	g.Indices = make([]uint32, 0, GridIndexCount(nx, ny))
	for j := 0; j < nx-1; j++ {
		for i := 0; i < ny; i++ {
			g.Indices = append(g.Indices, GridIndex(i, j, ny), GridIndex(i, j+1, ny))
		}
		g.Indices = append(g.Indices, restart)
	}

	return g, nil
}

// lerpParam maps lattice step k of n onto [0, 1].
func lerpParam(k, n int) float32 {
	if n < 2 {
		return 0
	}
	return float32(k) / float32(n-1)
}

// Quad builds a flat 2x2 grid at height z, used for the water surface.
func Quad(sizeX, sizeY, z float32) *Geometry {
	g, _ := BuildGrid(GridConfig{
		SizeX:       sizeX,
		SizeY:       sizeY,
		ResolutionX: 2,
		ResolutionY: 2,
		Height:      func(float32, float32) float32 { return z },
	})
	return g
}
