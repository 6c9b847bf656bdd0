package renderer

import (
	"sort"

	"mini-render/internal/graphics"
)

// DrawcallInfo is one draw-ready unit: a material, an index into the
// renderer's world-matrix table, and a geometry range. It is only valid
// during the frame it was submitted in.
type DrawcallInfo struct {
	material         *graphics.Material
	worldMatrixIndex int
	vao              *graphics.VertexArray
	drawcall         graphics.Drawcall
}

// NewDrawcallInfo creates a draw item.
func NewDrawcallInfo(material *graphics.Material, worldMatrixIndex int, vao *graphics.VertexArray, dc graphics.Drawcall) DrawcallInfo {
	return DrawcallInfo{
		material:         material,
		worldMatrixIndex: worldMatrixIndex,
		vao:              vao,
		drawcall:         dc,
	}
}

func (d DrawcallInfo) Material() *graphics.Material { return d.material }
func (d DrawcallInfo) WorldMatrixIndex() int        { return d.worldMatrixIndex }
func (d DrawcallInfo) VAO() *graphics.VertexArray   { return d.vao }
func (d DrawcallInfo) Drawcall() graphics.Drawcall  { return d.drawcall }

// WithMaterial returns a copy drawn with m instead, e.g. a depth-only
// material for shadow casters.
func (d DrawcallInfo) WithMaterial(m *graphics.Material) DrawcallInfo {
	d.material = m
	return d
}

// DrawcallFilter decides at insertion time whether a collection keeps a
// drawcall.
type DrawcallFilter func(info DrawcallInfo) bool

// DrawcallLess orders drawcalls for SortDrawcallCollection.
type DrawcallLess func(a, b DrawcallInfo) bool

// DrawcallCollection is a filtered, ordered bucket of drawcalls.
type DrawcallCollection struct {
	filter    DrawcallFilter
	drawcalls []DrawcallInfo
}

// NewDrawcallCollection creates a collection. A nil filter accepts
// everything.
func NewDrawcallCollection(filter DrawcallFilter) *DrawcallCollection {
	return &DrawcallCollection{filter: filter}
}

// Accepts reports whether the filter keeps info. A nil filter keeps all.
func (c *DrawcallCollection) Accepts(info DrawcallInfo) bool {
	return c.filter == nil || c.filter(info)
}

// SetFilter replaces the filter for future Adds
func (c *DrawcallCollection) SetFilter(filter DrawcallFilter) {
	c.filter = filter
}

// Add appends info if the filter accepts it; rejected drawcalls are dropped.
func (c *DrawcallCollection) Add(info DrawcallInfo) bool {
	if !c.Accepts(info) {
		return false
	}
	c.drawcalls = append(c.drawcalls, info)
	return true
}

// Drawcalls returns the collection in its current order. The slice is
// reused after Clear and must not be kept.
func (c *DrawcallCollection) Drawcalls() []DrawcallInfo {
	return c.drawcalls
}

// Len returns the number of drawcalls
func (c *DrawcallCollection) Len() int {
	return len(c.drawcalls)
}

// Clear empties the collection and keeps its filter
func (c *DrawcallCollection) Clear() {
	clear(c.drawcalls)
	c.drawcalls = c.drawcalls[:0]
}

// Sort reorders the collection in place. Equal elements keep their
// submission order.
func (c *DrawcallCollection) Sort(less DrawcallLess) {
	sort.SliceStable(c.drawcalls, func(i, j int) bool {
		return less(c.drawcalls[i], c.drawcalls[j])
	})
}
