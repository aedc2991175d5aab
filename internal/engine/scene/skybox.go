package scene

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/engine/geometry"
	"github.com/Faultbox/virtual-world/internal/engine/mesh"
	"github.com/Faultbox/virtual-world/internal/engine/render"
	"github.com/Faultbox/virtual-world/internal/engine/scene/shaders"
	"github.com/Faultbox/virtual-world/internal/engine/shader"
	"github.com/Faultbox/virtual-world/internal/engine/texture"
)

type skyboxUniforms struct {
	View       int32 `uniform:"V"`
	Projection int32 `uniform:"P"`
	Cubemap    int32 `uniform:"noiseTex"`
	SkyColor   int32 `uniform:"skyColor"`
	UseCubemap int32 `uniform:"useCubemap"`
}

// DefaultSkyFaces are the face files in +X, -X, +Y, -Y, +Z, -Z order.
var DefaultSkyFaces = [6]string{
	"miramar_ft.png", "miramar_bk.png",
	"miramar_dn.png", "miramar_up.png",
	"miramar_rt.png", "miramar_lf.png",
}

// SkyboxConfig selects the cubemap faces.
type SkyboxConfig struct {
	TextureDir string
	Faces      [6]string
	SkyColor   mgl32.Vec3
}

// Skybox draws a cube around the eye at the far plane.
type Skybox struct {
	cfg      SkyboxConfig
	uniforms skyboxUniforms
	program  *program
	mesh     *mesh.Mesh
	cubemap  uint32
}

// NewSkybox loads the cubemap. When any face is unusable the sky is drawn with
// the flat sky color instead.
func NewSkybox(cfg SkyboxConfig, lib *shaders.Library, log *zap.Logger) (*Skybox, error) {
	m, err := mesh.Upload(geometry.SkyboxCube())
	if err != nil {
		return nil, err
	}

	s := &Skybox{cfg: cfg, mesh: m}
	s.program = newProgram(shaders.Skybox, &s.uniforms, log)
	_ = s.program.load(lib)

	if cfg.Faces == ([6]string{}) {
		cfg.Faces = DefaultSkyFaces
	}
	cm, err := texture.LoadCubemap(cfg.TextureDir, cfg.Faces)
	if err != nil {
		log.Warn("skybox unavailable, using sky color", zap.String("dir", cfg.TextureDir), zap.Error(err))
	} else {
		s.cubemap = uploadCubemap(cm)
		log.Info("skybox loaded", zap.Int("size", cm.Size))
	}
	return s, nil
}

// Reload recompiles the shader; the old program stays on failure.
func (s *Skybox) Reload(lib *shaders.Library) error {
	return s.program.load(lib)
}

// Draw renders the sky behind everything already in the depth buffer.
func (s *Skybox) Draw(f *render.Frame) error {
	if err := s.program.use(); err != nil {
		return err
	}

	u := &s.uniforms
	shader.SetMat4(u.View, f.View)
	shader.SetMat4(u.Projection, f.Projection)
	shader.SetVec3(u.SkyColor, s.cfg.SkyColor)

	if s.cubemap != 0 {
		bindTexture(0, gl.TEXTURE_CUBE_MAP, s.cubemap)
		shader.SetSampler(u.Cubemap, 0)
		shader.SetFloat(u.UseCubemap, 1)
	} else {
		shader.SetFloat(u.UseCubemap, 0)
	}

	// The cube sits at depth 1.0, which the cleared buffer only passes with LEQUAL
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)
	s.mesh.Draw()
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
	return nil
}

// Destroy releases GPU resources.
func (s *Skybox) Destroy() {
	s.mesh.Destroy()
	s.program.destroy()
	deleteTextures(&s.cubemap)
}
