package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/shader"
	"github.com/Faultbox/prism/internal/engine/texture"
	"github.com/Faultbox/prism/internal/logger"
)

// SetTexture binds a texture to a unit, materializing it on first
// reference and re-uploading whatever its dirty state requires. A nil
// texture unbinds the unit. Binding the same clean texture to the same
// unit is a no-op.
func (r *Renderer) SetTexture(unit int, t *texture.Texture) {
	if t == nil {
		r.backend.ActiveTexture(unit)
		r.backend.BindTexture(0)
		delete(r.units, unit)
		return
	}
	if r.units[unit] == t.ID() && t.State() == texture.Clean {
		return
	}
	r.bindTexture(unit, t)
	r.units[unit] = t.ID()
}

// bindTexture binds and resolves a texture on the given unit.
func (r *Renderer) bindTexture(unit int, t *texture.Texture) TextureHandle {
	handle, ok := r.cache.textures[t.ID()]
	if !ok {
		handle = r.backend.CreateTexture()
		r.cache.textures[t.ID()] = handle
	}

	r.backend.ActiveTexture(unit)
	r.backend.BindTexture(handle)
	r.stats.TextureSwitches++

	if !ok {
		// First reference: full specification. A nil pixel buffer
		// still allocates GPU storage, which is how render targets
		// come to exist.
		r.backend.TexImage2D(textureFormats[t.Format()], t.Width(), t.Height(), t.Pixels())
		if t.Pixels() != nil {
			r.backend.GenerateMipmap()
			if !t.KeepData() {
				t.ReleasePixels()
			}
		}
		r.applyTextureParams(t)
		t.ClearContentDirty()
		t.ClearParamsDirty()
		return handle
	}

	if t.State() == texture.ContentDirty || t.State() == texture.ContentAndParams {
		if t.Pixels() == nil {
			// Pixels were released after a keep-data=false upload and
			// nothing new was assigned; nothing to upload.
			logger.Debug("texture content dirty with no pixel data, skipping upload",
				zap.Uint64("id", uint64(t.ID())))
		} else {
			r.backend.TexImage2D(textureFormats[t.Format()], t.Width(), t.Height(), t.Pixels())
			r.backend.GenerateMipmap()
			if !t.KeepData() {
				t.ReleasePixels()
			}
		}
		t.ClearContentDirty()
	}
	if t.State() == texture.ParamsDirty {
		r.applyTextureParams(t)
		t.ClearParamsDirty()
	}
	return handle
}

func (r *Renderer) applyTextureParams(t *texture.Texture) {
	r.backend.TexParameter(TEXTURE_MIN_FILTER, textureFilters[t.MinFilter()])
	r.backend.TexParameter(TEXTURE_MAG_FILTER, textureFilters[t.MagFilter()])
	r.backend.TexParameter(TEXTURE_WRAP_S, textureWraps[t.WrapU()])
	r.backend.TexParameter(TEXTURE_WRAP_T, textureWraps[t.WrapV()])
}

// SetShaderProgram makes a program current, compiling and linking it on
// first reference. A nil program unbinds. Compile or link failure is
// fatal for the program: the error is returned, nothing is cached, and
// the previous binding stays in effect.
func (r *Renderer) SetShaderProgram(p *shader.Program) error {
	if r.bound == p {
		return nil
	}
	if p == nil {
		r.backend.UseProgram(0)
		r.stats.ShaderSwitches++
		r.bound = nil
		r.boundHandle = 0
		return nil
	}

	entry, ok := r.cache.programs[p.ID()]
	if !ok {
		var err error
		entry, err = r.compileProgram(p)
		if err != nil {
			return err
		}
		r.cache.programs[p.ID()] = entry
	}

	r.backend.UseProgram(entry.program)
	r.stats.ShaderSwitches++
	r.bound = p
	r.boundHandle = entry.program
	return nil
}

func (r *Renderer) compileProgram(p *shader.Program) (programHandles, error) {
	vert, err := r.backend.CreateShader(VERTEX_SHADER, p.VertexSource())
	if err != nil {
		return programHandles{}, fmt.Errorf("compiling vertex shader: %w", err)
	}
	frag, err := r.backend.CreateShader(FRAGMENT_SHADER, p.FragmentSource())
	if err != nil {
		r.backend.DeleteShader(vert)
		return programHandles{}, fmt.Errorf("compiling fragment shader: %w", err)
	}

	prog := r.backend.CreateProgram()
	r.backend.AttachShader(prog, vert)
	r.backend.AttachShader(prog, frag)

	// Slot bindings must precede the link to take effect. Every kind
	// is bound so all programs share one attribute layout.
	for _, attr := range geometry.Attributes() {
		r.backend.BindAttribLocation(prog, attr.Slot(), attr.Name())
	}

	if err := r.backend.LinkProgram(prog); err != nil {
		r.backend.DeleteProgram(prog)
		r.backend.DeleteShader(vert)
		r.backend.DeleteShader(frag)
		return programHandles{}, fmt.Errorf("linking shader program: %w", err)
	}

	logger.Debug("shader program linked", zap.Uint64("id", uint64(p.ID())))
	return programHandles{program: prog, vert: vert, frag: frag}, nil
}

// SetFramebuffer makes a framebuffer the render target, creating it and
// binding its attachments on first reference or when dirty. A nil
// framebuffer selects the default on-screen target. An incomplete
// framebuffer is a fatal configuration error and is not retried.
func (r *Renderer) SetFramebuffer(fb *texture.Framebuffer) error {
	if fb == nil {
		r.backend.BindFramebuffer(0)
		return nil
	}

	handle, ok := r.cache.framebuffers[fb.ID()]
	if !ok {
		handle = r.backend.CreateFramebuffer()
		r.cache.framebuffers[fb.ID()] = handle
		fb.MarkDirty()
	}

	r.backend.BindFramebuffer(handle)
	r.stats.FramebufferSwitches++

	if fb.Dirty() {
		// Resolving attachments occupies unit 0; the tracker must
		// reflect that or the next SetTexture on the unit is wrongly
		// elided.
		for i, target := range fb.Targets() {
			tex := r.bindTexture(0, target)
			r.units[0] = target.ID()
			r.backend.FramebufferTexture2D(COLOR_ATTACHMENT0+Enum(i), tex)
		}
		if depth := fb.DepthTarget(); depth != nil {
			tex := r.bindTexture(0, depth)
			r.units[0] = depth.ID()
			r.backend.FramebufferTexture2D(DEPTH_ATTACHMENT, tex)
		}
		if err := r.backend.CheckFramebufferComplete(); err != nil {
			return fmt.Errorf("framebuffer incomplete: %w", err)
		}
		fb.ClearDirty()
	}

	r.backend.DrawBuffers(len(fb.Targets()))
	return nil
}
