package main

import (
	"image"
	"image/color"

	"mini-render/internal/graphics"
	"mini-render/internal/graphics/opengl"
)

const skyCell = 64

// gradientSky builds a cross-layout cubemap fading from horizon to zenith,
// used when no skybox image is given.
func gradientSky() (*graphics.Texture, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4*skyCell, 3*skyCell))
	horizon := color.RGBA{200, 215, 230, 255}
	zenith := color.RGBA{70, 110, 180, 255}
	ground := color.RGBA{60, 60, 65, 255}

	for y := 0; y < 3*skyCell; y++ {
		for x := 0; x < 4*skyCell; x++ {
			var c color.RGBA
			switch row := y / skyCell; row {
			case 0:
				c = zenith
			case 2:
				c = ground
			default:
				t := float64(y-skyCell) / skyCell
				if t < 0.5 {
					c = lerp(zenith, horizon, t*2)
				} else {
					c = lerp(horizon, ground, (t-0.5)*2)
				}
			}
			img.SetRGBA(x, y, c)
		}
	}

	faces, err := graphics.SplitCubemapCross(img)
	if err != nil {
		return nil, err
	}
	return opengl.NewCubemap(faces), nil
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}
