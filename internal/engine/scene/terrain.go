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

type terrainUniforms struct {
	Model       int32 `uniform:"M"`
	View        int32 `uniform:"V"`
	Projection  int32 `uniform:"P"`
	ViewPos     int32 `uniform:"viewPos"`
	ClipPlane   int32 `uniform:"clipPlane"`
	WaterHeight int32 `uniform:"waterHeight"`
	SkyColor    int32 `uniform:"skyColor"`
	LightPos    int32 `uniform:"lightPos"`
	Amplitude   int32 `uniform:"amplitude"`
	Grass       int32 `uniform:"grass"`
	Rock        int32 `uniform:"rock"`
	Sand        int32 `uniform:"sand"`
	Snow        int32 `uniform:"snow"`
}

// Terrain texture units; 0 is left free for transient binds.
const (
	unitGrass = 1 + iota
	unitRock
	unitSand
	unitSnow
)

// TerrainConfig describes the terrain grid and its shading.
type TerrainConfig struct {
	Grid        geometry.GridConfig
	WaterHeight float32
	SkyColor    mgl32.Vec3
	LightPos    mgl32.Vec3
	Amplitude   float32
	TextureDir  string
}

// Terrain draws the textured height grid with the pass clip plane applied.
type Terrain struct {
	cfg      TerrainConfig
	uniforms terrainUniforms
	program  *program
	mesh     *mesh.Mesh
	model    mgl32.Mat4

	grass, rock, sand, snow uint32
}

// NewTerrain builds the grid mesh, loads textures and compiles the shader.
// A shader failure is logged and left for Reload; mesh failures are returned.
func NewTerrain(cfg TerrainConfig, lib *shaders.Library, log *zap.Logger) (*Terrain, error) {
	g, err := geometry.BuildGrid(cfg.Grid)
	if err != nil {
		return nil, fmt.Errorf("terrain grid: %w", err)
	}
	m, err := mesh.Upload(g)
	if err != nil {
		return nil, fmt.Errorf("terrain mesh: %w", err)
	}

	t := &Terrain{
		cfg:   cfg,
		mesh:  m,
		model: mgl32.Ident4(),
	}
	t.program = newProgram(shaders.Terrain, &t.uniforms, log)
	_ = t.program.load(lib)

	t.grass = loadTexture(cfg.TextureDir, "grass.png", color.RGBA{70, 120, 50, 255}, log)
	t.rock = loadTexture(cfg.TextureDir, "rock.png", color.RGBA{110, 105, 100, 255}, log)
	t.sand = loadTexture(cfg.TextureDir, "sand.png", color.RGBA{190, 175, 130, 255}, log)
	t.snow = loadTexture(cfg.TextureDir, "snow.png", color.RGBA{240, 240, 245, 255}, log)

	log.Info("terrain ready",
		zap.Int("vertices", g.VertexCount()),
		zap.Int("indices", len(g.Indices)),
	)
	return t, nil
}

// Reload recompiles the shader; the old program stays on failure.
func (t *Terrain) Reload(lib *shaders.Library) error {
	return t.program.load(lib)
}

// Draw renders the terrain into the bound surface.
func (t *Terrain) Draw(f *render.Frame) error {
	if err := t.program.use(); err != nil {
		return err
	}

	u := &t.uniforms
	shader.SetMat4(u.Model, t.model)
	shader.SetMat4(u.View, f.View)
	shader.SetMat4(u.Projection, f.Projection)
	shader.SetVec3(u.ViewPos, f.Eye)
	shader.SetVec4(u.ClipPlane, f.Clip.Vec4())
	shader.SetFloat(u.WaterHeight, t.cfg.WaterHeight)
	shader.SetVec3(u.SkyColor, t.cfg.SkyColor)
	shader.SetVec3(u.LightPos, t.cfg.LightPos)
	shader.SetFloat(u.Amplitude, t.cfg.Amplitude)

	bindTexture(unitGrass, gl.TEXTURE_2D, t.grass)
	shader.SetSampler(u.Grass, unitGrass)
	bindTexture(unitRock, gl.TEXTURE_2D, t.rock)
	shader.SetSampler(u.Rock, unitRock)
	bindTexture(unitSand, gl.TEXTURE_2D, t.sand)
	shader.SetSampler(u.Sand, unitSand)
	bindTexture(unitSnow, gl.TEXTURE_2D, t.snow)
	shader.SetSampler(u.Snow, unitSnow)

	gl.Enable(gl.CLIP_DISTANCE0)
	t.mesh.Draw()
	gl.Disable(gl.CLIP_DISTANCE0)
	return nil
}

// Destroy releases GPU resources.
func (t *Terrain) Destroy() {
	t.mesh.Destroy()
	t.program.destroy()
	deleteTextures(&t.grass, &t.rock, &t.sand, &t.snow)
}
