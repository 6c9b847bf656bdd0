package graphics

// Texture is a non-owning handle to a driver texture object.
type Texture struct {
	ID     uint32
	Target TextureTarget
	Width  int32
	Height int32
}

// Bind makes the texture current on the given texture unit.
func (t *Texture) Bind(dev Device, unit uint32) {
	dev.ActiveTexture(unit)
	dev.BindTexture(t.Target, t.ID)
}
