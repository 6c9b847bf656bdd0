package graphics

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Cubemap face order, matching GL_TEXTURE_CUBE_MAP_POSITIVE_X + i.
const (
	FacePositiveX = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// crossCells is the (column, row) of each face in a 4x3 horizontal cross:
//
//	    +Y
//	-X  +Z  +X  -Z
//	    -Y
var crossCells = [6]image.Point{
	FacePositiveX: {2, 1},
	FaceNegativeX: {0, 1},
	FacePositiveY: {1, 0},
	FaceNegativeY: {1, 2},
	FacePositiveZ: {1, 1},
	FaceNegativeZ: {3, 1},
}

// SplitCubemapCross cuts a 4x3 horizontal-cross image into its six faces.
// Faces are resampled to the largest power of two not above the cell size so
// that every face has the same square size.
func SplitCubemapCross(img image.Image) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	b := img.Bounds()
	cellW, cellH := b.Dx()/4, b.Dy()/3
	if cellW == 0 || cellH == 0 || b.Dx()%4 != 0 || b.Dy()%3 != 0 {
		return faces, fmt.Errorf("cubemap cross: %dx%d is not a 4x3 layout", b.Dx(), b.Dy())
	}
	size := floorPow2(min(cellW, cellH))

	for i, cell := range crossCells {
		src := image.Rect(cell.X*cellW, cell.Y*cellH, (cell.X+1)*cellW, (cell.Y+1)*cellH).Add(b.Min)
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		if src.Dx() == size && src.Dy() == size {
			draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
		} else {
			draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
		}
		faces[i] = dst
	}
	return faces, nil
}

func floorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
