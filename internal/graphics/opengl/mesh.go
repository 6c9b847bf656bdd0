package opengl

import (
	"fmt"

	"mini-render/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Attribute is one float vertex attribute of an interleaved layout.
type Attribute struct {
	Location   uint32
	Components int32
}

// PositionNormal is the layout of graphics.CubeVertices and PlaneVertices.
var PositionNormal = []Attribute{{Location: 0, Components: 3}, {Location: 1, Components: 3}}

// Buffers owns the GL objects behind a mesh created by this package.
type Buffers struct {
	vaos []uint32
	vbos []uint32
}

// Delete releases every vertex array and buffer created through b.
func (b *Buffers) Delete() {
	if len(b.vaos) > 0 {
		gl.DeleteVertexArrays(int32(len(b.vaos)), &b.vaos[0])
	}
	if len(b.vbos) > 0 {
		gl.DeleteBuffers(int32(len(b.vbos)), &b.vbos[0])
	}
	b.vaos, b.vbos = nil, nil
}

// NewMesh uploads interleaved float vertices and returns a single-submesh
// mesh drawing them as triangles.
func (b *Buffers) NewMesh(vertices []float32, layout []Attribute) (*graphics.Mesh, error) {
	var stride int32
	for _, a := range layout {
		stride += a.Components
	}
	if stride == 0 || len(vertices) == 0 || len(vertices)%int(stride) != 0 {
		return nil, fmt.Errorf("vertex data of length %d does not match stride %d", len(vertices), stride)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	var offset int32
	for _, a := range layout {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, stride*4, uintptr(offset*4))
		offset += a.Components
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	b.vaos = append(b.vaos, vao)
	b.vbos = append(b.vbos, vbo)

	mesh := &graphics.Mesh{}
	mesh.AddSubmesh(&graphics.VertexArray{ID: vao}, graphics.Drawcall{
		Primitive: graphics.Triangles,
		Count:     int32(len(vertices)) / stride,
	})
	return mesh, nil
}

// NewFullscreenTriangle returns the clip-space triangle covering the screen.
func (b *Buffers) NewFullscreenTriangle() (*graphics.Mesh, error) {
	return b.NewMesh(graphics.FullscreenTriangleVertices, []Attribute{{Location: 0, Components: 3}})
}
