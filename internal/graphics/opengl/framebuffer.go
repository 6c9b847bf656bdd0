package opengl

import (
	"fmt"

	"mini-render/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// NewShadowMap creates a depth-only framebuffer of the given size with a
// depth texture usable as a comparison sampler.
func NewShadowMap(width, height int32, bias float32) (*graphics.ShadowMap, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return nil, fmt.Errorf("shadow map %dx%d: framebuffer incomplete (0x%x)", width, height, status)
	}

	return &graphics.ShadowMap{
		Framebuffer: &graphics.Framebuffer{ID: fbo, Width: width, Height: height},
		Texture:     &graphics.Texture{ID: tex, Target: graphics.Texture2D, Width: width, Height: height},
		Bias:        bias,
	}, nil
}

// DeleteShadowMap releases the framebuffer and texture of sm.
func DeleteShadowMap(sm *graphics.ShadowMap) {
	if sm == nil {
		return
	}
	if sm.Framebuffer != nil && sm.Framebuffer.ID != 0 {
		gl.DeleteFramebuffers(1, &sm.Framebuffer.ID)
	}
	if sm.Texture != nil && sm.Texture.ID != 0 {
		gl.DeleteTextures(1, &sm.Texture.ID)
	}
}
