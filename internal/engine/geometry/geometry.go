// Package geometry builds CPU-side vertex and index data for the scene meshes.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultRestart is the primitive restart sentinel used when none is configured.
const DefaultRestart uint32 = math.MaxUint32

// Mode is the primitive topology of a Geometry.
type Mode int

const (
	ModeTriangleStrip Mode = iota
	ModeTriangles
)

// Geometry holds vertex and index data ready for GPU upload.
type Geometry struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2 // Optional; len is 0 or len(Positions)
	Indices   []uint32
	Restart   uint32 // Strip terminator, only meaningful for ModeTriangleStrip
	Mode      Mode
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// HasUVs reports whether texture coordinates accompany every position.
func (g *Geometry) HasUVs() bool {
	return len(g.UVs) > 0 && len(g.UVs) == len(g.Positions)
}

// Interleave writes x,y,z[,u,v] per vertex into dst and returns it.
// dst is reused when it has enough capacity.
func (g *Geometry) Interleave(dst []float32) []float32 {
	stride := 3
	if g.HasUVs() {
		stride = 5
	}
	n := len(g.Positions) * stride
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]

	for i, p := range g.Positions {
		o := i * stride
		dst[o+0] = p[0]
		dst[o+1] = p[1]
		dst[o+2] = p[2]
		if stride == 5 {
			dst[o+3] = g.UVs[i][0]
			dst[o+4] = g.UVs[i][1]
		}
	}
	return dst
}

// Stride returns the interleaved vertex stride in floats.
func (g *Geometry) Stride() int {
	if g.HasUVs() {
		return 5
	}
	return 3
}
