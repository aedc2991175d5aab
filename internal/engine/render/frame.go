// Package render sequences the per-frame water passes: reflection and refraction
// into offscreen surfaces, then the main pass onto the screen.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Pass identifies one stage of the frame pipeline.
type Pass int

const (
	PassReflection Pass = iota
	PassRefraction
	PassMain
)

func (p Pass) String() string {
	switch p {
	case PassReflection:
		return "reflection"
	case PassRefraction:
		return "refraction"
	case PassMain:
		return "main"
	default:
		return "unknown"
	}
}

// ClipPlane is a half-space kept by the terrain fragment stage: points with
// dot(Normal, p) + Height >= 0 survive.
type ClipPlane struct {
	Normal mgl32.Vec3
	Height float32
}

// Vec4 packs the plane for a vec4 uniform.
func (c ClipPlane) Vec4() mgl32.Vec4 {
	return c.Normal.Vec4(c.Height)
}

// Distance returns the signed distance the shader compares against zero.
func (c ClipPlane) Distance(p mgl32.Vec3) float32 {
	return c.Normal.Dot(p) + c.Height
}

// Keeps reports whether point p survives clipping.
func (c ClipPlane) Keeps(p mgl32.Vec3) bool {
	return c.Distance(p) >= 0
}

// ReflectionClip keeps geometry above the water line.
func ReflectionClip(waterHeight float32) ClipPlane {
	return ClipPlane{Normal: mgl32.Vec3{0, 0, 1}, Height: -waterHeight}
}

// RefractionClip keeps geometry below the water line.
func RefractionClip(waterHeight float32) ClipPlane {
	return ClipPlane{Normal: mgl32.Vec3{0, 0, -1}, Height: waterHeight}
}

// DisabledClip places the plane far above the scene so nothing is discarded.
func DisabledClip(height float32) ClipPlane {
	return ClipPlane{Normal: mgl32.Vec3{0, 0, -1}, Height: height}
}

// Frame carries everything a drawable needs for one draw in one pass.
type Frame struct {
	Pass       Pass
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Eye        mgl32.Vec3
	Clip       ClipPlane
	Time       float32 // Seconds since startup
}

// Drawable issues draw calls into whichever surface is currently bound.
type Drawable interface {
	Draw(f *Frame) error
}

// DrawFunc adapts a function to Drawable.
type DrawFunc func(f *Frame) error

// Draw calls fn(f).
func (fn DrawFunc) Draw(f *Frame) error {
	return fn(f)
}

// Surface is a render target: an offscreen framebuffer or the screen.
type Surface interface {
	// BindTarget makes the surface current and returns a func restoring the
	// previous target and viewport.
	BindTarget() (unbind func())
	Clear(r, g, b, a float32)
}
