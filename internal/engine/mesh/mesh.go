// Package mesh uploads geometry to the GPU and draws it.
package mesh

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/virtual-world/internal/engine/geometry"
)

// Attribute locations shared by every scene shader.
const (
	AttribPosition = 0
	AttribUV       = 1
)

var errEmpty = errors.New("geometry has no vertices")

// Mesh is an opaque handle to uploaded vertex and index buffers.
type Mesh struct {
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
	mode    uint32
	restart uint32
	strip   bool
}

// Upload copies g into new GPU buffers.
func Upload(g *geometry.Geometry) (*Mesh, error) {
	if g == nil || g.VertexCount() == 0 {
		return nil, errEmpty
	}
	if len(g.Indices) == 0 {
		return nil, fmt.Errorf("geometry has %d vertices and no indices", g.VertexCount())
	}

	m := &Mesh{
		count:   int32(len(g.Indices)),
		restart: g.Restart,
	}
	switch g.Mode {
	case geometry.ModeTriangleStrip:
		m.mode = gl.TRIANGLE_STRIP
		m.strip = true
	case geometry.ModeTriangles:
		m.mode = gl.TRIANGLES
	default:
		return nil, fmt.Errorf("unsupported geometry mode %d", g.Mode)
	}

	vertices := g.Interleave(nil)
	stride := int32(g.Stride() * 4)

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, unsafe.Pointer(&g.Indices[0]), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointerWithOffset(AttribPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(AttribPosition)

	// UV attribute
	if g.HasUVs() {
		gl.VertexAttribPointerWithOffset(AttribUV, 2, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(AttribUV)
	}

	gl.BindVertexArray(0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		m.Destroy()
		return nil, fmt.Errorf("uploading mesh: GL error 0x%x", errCode)
	}
	return m, nil
}

// Draw issues the indexed draw call. Strip meshes use primitive restart.
func (m *Mesh) Draw() {
	if m.vao == 0 {
		return
	}

	if m.strip {
		gl.Enable(gl.PRIMITIVE_RESTART)
		gl.PrimitiveRestartIndex(m.restart)
	}

	gl.BindVertexArray(m.vao)
	gl.DrawElements(m.mode, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	if m.strip {
		gl.Disable(gl.PRIMITIVE_RESTART)
	}
}

// IndexCount returns the number of indices drawn.
func (m *Mesh) IndexCount() int {
	return int(m.count)
}

// Destroy releases the GPU buffers.
func (m *Mesh) Destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
}
