package scene

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-world/internal/engine/particles"
	"github.com/Faultbox/virtual-world/internal/engine/render"
	"github.com/Faultbox/virtual-world/internal/engine/scene/shaders"
	"github.com/Faultbox/virtual-world/internal/engine/shader"
)

type snowUniforms struct {
	View       int32 `uniform:"V"`
	Projection int32 `uniform:"P"`
	PointSize  int32 `uniform:"pointSize"`
}

// Snow draws a particle system as blended point sprites.
type Snow struct {
	system    *particles.System
	uniforms  snowUniforms
	program   *program
	pointSize float32

	vao    uint32
	vbo    uint32
	buffer []float32
}

// NewSnow allocates a dynamic vertex buffer sized for the system's capacity.
func NewSnow(system *particles.System, pointSize float32, lib *shaders.Library, log *zap.Logger) *Snow {
	s := &Snow{
		system:    system,
		pointSize: pointSize,
		buffer:    make([]float32, 0, system.Cap()*4),
	}
	s.program = newProgram(shaders.Snow, &s.uniforms, log)
	_ = s.program.load(lib)

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, max(system.Cap(), 1)*4*4, nil, gl.STREAM_DRAW)

	// x, y, z, scale
	gl.VertexAttribPointerWithOffset(0, 4, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	return s
}

// Reload recompiles the shader; the old program stays on failure.
func (s *Snow) Reload(lib *shaders.Library) error {
	return s.program.load(lib)
}

// Draw streams the live particles and renders them without writing depth.
func (s *Snow) Draw(f *render.Frame) error {
	if err := s.program.use(); err != nil {
		return err
	}

	s.buffer = s.system.Positions(s.buffer)
	n := len(s.buffer) / 4
	if n == 0 {
		return nil
	}

	u := &s.uniforms
	shader.SetMat4(u.View, f.View)
	shader.SetMat4(u.Projection, f.Projection)
	shader.SetFloat(u.PointSize, s.pointSize)

	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(s.buffer)*4, unsafe.Pointer(&s.buffer[0]))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.DepthMask(false)

	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.POINTS, 0, int32(n))
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Disable(gl.PROGRAM_POINT_SIZE)
	gl.Disable(gl.BLEND)
	return nil
}

// Destroy releases GPU resources.
func (s *Snow) Destroy() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
	s.program.destroy()
}
