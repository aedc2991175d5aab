package scene

import (
	"fmt"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/engine/geometry"
	"github.com/Faultbox/virtual-world/internal/engine/mesh"
	"github.com/Faultbox/virtual-world/internal/engine/render"
	"github.com/Faultbox/virtual-world/internal/engine/scene/shaders"
	"github.com/Faultbox/virtual-world/internal/engine/shader"
)

type waterUniforms struct {
	Model      int32 `uniform:"M"`
	View       int32 `uniform:"V"`
	Projection int32 `uniform:"P"`
	ViewPos    int32 `uniform:"viewPos"`
	Reflection int32 `uniform:"reflectionTexture"`
	Refraction int32 `uniform:"refractionTexture"`
	Distortion int32 `uniform:"waterTexture"`
	Time       int32 `uniform:"time"`
	WaveSpeed  int32 `uniform:"waveSpeed"`
}

const (
	unitReflection = iota
	unitRefraction
	unitDistortion
)

// ColorSource is anything exposing a sampleable color texture, such as an offscreen surface.
type ColorSource interface {
	ColorTexture() uint32
}

// WaterConfig describes the water plane.
type WaterConfig struct {
	SizeX, SizeY float32
	Height       float32
	WaveSpeed    float32
	TextureDir   string
}

// Water draws the reflective quad sampling the reflection and refraction surfaces.
type Water struct {
	cfg        WaterConfig
	uniforms   waterUniforms
	program    *program
	mesh       *mesh.Mesh
	model      mgl32.Mat4
	reflection ColorSource
	refraction ColorSource
	distortion uint32
}

// NewWater builds the quad at cfg.Height and loads the distortion texture.
func NewWater(cfg WaterConfig, reflection, refraction ColorSource, lib *shaders.Library, log *zap.Logger) (*Water, error) {
	if reflection == nil || refraction == nil {
		return nil, fmt.Errorf("water needs reflection and refraction surfaces")
	}

	m, err := mesh.Upload(geometry.Quad(cfg.SizeX, cfg.SizeY, cfg.Height))
	if err != nil {
		return nil, fmt.Errorf("water mesh: %w", err)
	}

	w := &Water{
		cfg:        cfg,
		mesh:       m,
		model:      mgl32.Ident4(),
		reflection: reflection,
		refraction: refraction,
	}
	w.program = newProgram(shaders.Water, &w.uniforms, log)
	_ = w.program.load(lib)

	// Neutral normal: no distortion when the texture is missing
	w.distortion = loadTexture(cfg.TextureDir, "water.png", color.RGBA{128, 128, 255, 255}, log)
	return w, nil
}

// Reload recompiles the shader; the old program stays on failure.
func (w *Water) Reload(lib *shaders.Library) error {
	return w.program.load(lib)
}

// Draw renders the water surface. Only meaningful in the main pass.
func (w *Water) Draw(f *render.Frame) error {
	if err := w.program.use(); err != nil {
		return err
	}

	u := &w.uniforms
	shader.SetMat4(u.Model, w.model)
	shader.SetMat4(u.View, f.View)
	shader.SetMat4(u.Projection, f.Projection)
	shader.SetVec3(u.ViewPos, f.Eye)
	shader.SetFloat(u.Time, f.Time)
	shader.SetFloat(u.WaveSpeed, w.cfg.WaveSpeed)

	bindTexture(unitReflection, gl.TEXTURE_2D, w.reflection.ColorTexture())
	shader.SetSampler(u.Reflection, unitReflection)
	bindTexture(unitRefraction, gl.TEXTURE_2D, w.refraction.ColorTexture())
	shader.SetSampler(u.Refraction, unitRefraction)
	bindTexture(unitDistortion, gl.TEXTURE_2D, w.distortion)
	shader.SetSampler(u.Distortion, unitDistortion)

	w.mesh.Draw()
	return nil
}

// Destroy releases GPU resources. The surfaces belong to the caller.
func (w *Water) Destroy() {
	w.mesh.Destroy()
	w.program.destroy()
	deleteTextures(&w.distortion)
}
