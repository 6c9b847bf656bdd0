package graphics

// VertexArray is a non-owning handle to a vertex array object with its
// buffers already attached.
type VertexArray struct {
	ID uint32
}

// Bind binds the vertex array
func (v *VertexArray) Bind(dev Device) {
	dev.BindVertexArray(v.ID)
}

// Drawcall describes one primitive draw over the bound vertex array.
type Drawcall struct {
	Primitive Primitive
	First     int32
	Count     int32
	Indexed   bool
	IndexType IndexType
}

// Draw issues the drawcall. For indexed drawcalls First is an index offset.
func (d Drawcall) Draw(dev Device) {
	if d.Indexed {
		dev.DrawElements(d.Primitive, d.Count, d.IndexType, int(d.First)*d.IndexType.Size())
		return
	}
	dev.DrawArrays(d.Primitive, d.First, d.Count)
}

// Submesh is a vertex array plus the range drawn from it.
type Submesh struct {
	VAO      *VertexArray
	Drawcall Drawcall
}

// Mesh is an ordered list of submeshes.
type Mesh struct {
	submeshes []Submesh
}

// AddSubmesh appends a submesh and returns its index
func (m *Mesh) AddSubmesh(vao *VertexArray, dc Drawcall) int {
	m.submeshes = append(m.submeshes, Submesh{VAO: vao, Drawcall: dc})
	return len(m.submeshes) - 1
}

// SubmeshCount returns the number of submeshes
func (m *Mesh) SubmeshCount() int {
	return len(m.submeshes)
}

// Submesh returns the i-th submesh
func (m *Mesh) Submesh(i int) *Submesh {
	return &m.submeshes[i]
}

// Model pairs a mesh with one material per submesh.
type Model struct {
	mesh      *Mesh
	materials []*Material
}

// NewModel pairs a mesh with its per-submesh materials.
func NewModel(mesh *Mesh, materials ...*Material) *Model {
	return &Model{mesh: mesh, materials: materials}
}

// Mesh returns the model geometry
func (m *Model) Mesh() *Mesh {
	return m.mesh
}

// MaterialCount returns the number of materials given to the model
func (m *Model) MaterialCount() int {
	return len(m.materials)
}

// Material returns the material of submesh i. Submeshes beyond the material
// list reuse the last material.
func (m *Model) Material(i int) *Material {
	if len(m.materials) == 0 {
		return nil
	}
	if i >= len(m.materials) {
		return m.materials[len(m.materials)-1]
	}
	return m.materials[i]
}

// SetMaterial replaces the material of submesh i
func (m *Model) SetMaterial(i int, mat *Material) {
	for len(m.materials) <= i {
		m.materials = append(m.materials, mat)
	}
	m.materials[i] = mat
}
