package opengl

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"mini-render/internal/graphics"
	"mini-render/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

var (
	cubemapCache = make(map[string]*graphics.Texture)
	cacheMutex   sync.RWMutex
)

// GetCubemap returns the cubemap loaded from path, loading it on first use.
func GetCubemap(path string) (*graphics.Texture, error) {
	cacheMutex.RLock()
	if tex, ok := cubemapCache[path]; ok {
		cacheMutex.RUnlock()
		return tex, nil
	}
	cacheMutex.RUnlock()

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if tex, ok := cubemapCache[path]; ok {
		return tex, nil
	}

	tex, err := LoadCubemap(path)
	if err != nil {
		return nil, err
	}
	cubemapCache[path] = tex
	return tex, nil
}

// ReleaseCubemaps deletes every cached cubemap.
func ReleaseCubemaps() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	for path, tex := range cubemapCache {
		gl.DeleteTextures(1, &tex.ID)
		delete(cubemapCache, path)
	}
}

// LoadCubemap loads a cubemap stored as a horizontal cross image.
func LoadCubemap(path string) (*graphics.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cubemap file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cubemap %s: %w", path, err)
	}

	faces, err := graphics.SplitCubemapCross(img)
	if err != nil {
		return nil, fmt.Errorf("cubemap %s: %w", path, err)
	}

	tex := NewCubemap(faces)
	logger.Log.Debug("cubemap loaded", zap.String("path", path), zap.Int32("size", tex.Width))
	return tex, nil
}

// NewCubemap uploads six square faces in +X, -X, +Y, -Y, +Z, -Z order as an
// sRGB cubemap with mipmaps.
func NewCubemap(faces [6]*image.RGBA) *graphics.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)

	size := int32(faces[0].Rect.Dx())
	for i, face := range faces {
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.SRGB8_ALPHA8,
			size,
			size,
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(face.Pix),
		)
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return &graphics.Texture{ID: id, Target: graphics.TextureCubeMap, Width: size, Height: size}
}
