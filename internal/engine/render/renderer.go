package render

import (
	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/resource"
	"github.com/Faultbox/prism/internal/engine/shader"
	"github.com/Faultbox/prism/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	// DebugChecks polls the backend for errors at end of frame and
	// logs them. Diagnostic only; control flow is unaffected.
	DebugChecks bool
}

// Renderer caches GPU objects for logical resources, tracks last
// applied pipeline state, and submits draws through a Backend.
//
// All methods must be called from the thread owning the graphics
// context. Frames are strictly sequential; BeginFrame is the counter
// reset boundary.
type Renderer struct {
	backend Backend
	cfg     Config

	stats    Stats
	listener Listener

	// Last-applied pipeline state. The *Set flags distinguish "never
	// applied" from a real value so the first set always issues.
	blend        Blending
	blendSet     bool
	blendEnabled bool
	cull         Culling
	cullSet      bool
	cullEnabled  bool
	mode         RenderMode
	modeSet      bool
	depthTest    bool
	depthSet     bool
	colorMask    [4]bool
	colorMaskSet bool
	depthMask    bool
	depthMaskSet bool

	bound       *shader.Program
	boundHandle ProgramHandle
	units       map[int]resource.ID

	cache   *cache
	scratch []float32 // uniform marshaling buffer, scoped to one draw
}

// New creates a renderer over a backend. The backend's context must
// already be current on the calling thread.
func New(backend Backend, cfg Config) *Renderer {
	return &Renderer{
		backend: backend,
		cfg:     cfg,
		units:   make(map[int]resource.ID),
		cache:   newCache(),
	}
}

// SetListener installs an optional frame-boundary listener.
func (r *Renderer) SetListener(l Listener) { r.listener = l }

// Statistics returns the counters accumulated since BeginFrame.
func (r *Renderer) Statistics() Stats { return r.stats }

// BeginFrame resets per-frame counters, snapshots cache population,
// and notifies the listener.
func (r *Renderer) BeginFrame() {
	r.stats = Stats{
		AllocatedTextures:      len(r.cache.textures),
		AllocatedVertexBuffers: r.cache.vertexBuffers,
		AllocatedIndexBuffers:  r.cache.indexBuffers,
		AllocatedPrograms:      len(r.cache.programs),
		AllocatedFramebuffers:  len(r.cache.framebuffers),
	}
	if r.listener != nil {
		r.listener.FrameBegan(r)
	}
}

// EndFrame optionally validates that no backend error occurred during
// the frame, then notifies the listener.
func (r *Renderer) EndFrame() {
	if r.cfg.DebugChecks {
		if err := r.backend.Err(); err != nil {
			logger.Warn("backend error at end of frame", zap.Error(err))
		}
	}
	if r.listener != nil {
		r.listener.FrameEnded(r)
	}
}

// SetViewport sets the viewport rectangle.
func (r *Renderer) SetViewport(x, y, w, h int32) {
	r.backend.Viewport(x, y, w, h)
}

// SetClearColor sets the color used by Clear and ClearColor.
func (r *Renderer) SetClearColor(red, green, blue, alpha float32) {
	r.backend.ClearColor(red, green, blue, alpha)
}

// Clear clears the color, depth and stencil buffers.
func (r *Renderer) Clear() {
	r.backend.Clear(COLOR_BUFFER_BIT | DEPTH_BUFFER_BIT | STENCIL_BUFFER_BIT)
}

// ClearColor clears the color buffer only.
func (r *Renderer) ClearColor() {
	r.backend.Clear(COLOR_BUFFER_BIT)
}

// ClearDepth clears the depth buffer only.
func (r *Renderer) ClearDepth() {
	r.backend.Clear(DEPTH_BUFFER_BIT)
}

// SetBlending sets the blend mode. Identical modes are elided. The
// enable toggle is tracked separately from the mode: switching between
// the two enabled variants skips the toggle but must still re-issue
// the blend function, since the factors differ per variant.
func (r *Renderer) SetBlending(mode Blending) {
	if r.blendSet && r.blend == mode {
		return
	}
	r.blend = mode
	r.blendSet = true

	if mode == BlendDisabled {
		if r.blendEnabled {
			r.backend.Disable(BLEND)
			r.blendEnabled = false
		}
		return
	}
	if !r.blendEnabled {
		r.backend.Enable(BLEND)
		r.blendEnabled = true
	}
	f := blendFuncs[mode]
	r.backend.BlendFunc(f.src, f.dst)
}

// SetCulling sets the face culling mode. Identical modes are elided;
// which face is culled is independent of the enable toggle, so
// switching between enabled variants re-issues the face parameter.
func (r *Renderer) SetCulling(mode Culling) {
	if r.cullSet && r.cull == mode {
		return
	}
	r.cull = mode
	r.cullSet = true

	if mode == CullDisabled {
		if r.cullEnabled {
			r.backend.Disable(CULL_FACE)
			r.cullEnabled = false
		}
		return
	}
	if !r.cullEnabled {
		r.backend.Enable(CULL_FACE)
		r.cullEnabled = true
	}
	r.backend.CullFace(cullFaces[mode])
}

// SetRenderMode sets the polygon rasterization mode.
func (r *Renderer) SetRenderMode(mode RenderMode) {
	if r.modeSet && r.mode == mode {
		return
	}
	r.mode = mode
	r.modeSet = true
	r.backend.PolygonMode(polygonModes[mode])
}

// SetDepthTest enables or disables the depth test.
func (r *Renderer) SetDepthTest(enabled bool) {
	if r.depthSet && r.depthTest == enabled {
		return
	}
	r.depthTest = enabled
	r.depthSet = true
	if enabled {
		r.backend.Enable(DEPTH_TEST)
	} else {
		r.backend.Disable(DEPTH_TEST)
	}
}

// SetColorMask sets per-channel color write enables.
func (r *Renderer) SetColorMask(red, green, blue, alpha bool) {
	mask := [4]bool{red, green, blue, alpha}
	if r.colorMaskSet && r.colorMask == mask {
		return
	}
	r.colorMask = mask
	r.colorMaskSet = true
	r.backend.ColorMask(red, green, blue, alpha)
}

// SetDepthMask enables or disables depth writes.
func (r *Renderer) SetDepthMask(enabled bool) {
	if r.depthMaskSet && r.depthMask == enabled {
		return
	}
	r.depthMask = enabled
	r.depthMaskSet = true
	r.backend.DepthMask(enabled)
}

// Destroy deletes every cached GPU object and resets all tracked
// state. The renderer may be reused afterwards; resources resolve
// fresh handles on next reference.
func (r *Renderer) Destroy() {
	r.cache.destroy(r.backend)
	r.bound = nil
	r.boundHandle = 0
	r.units = make(map[int]resource.ID)
	r.blendSet = false
	r.blendEnabled = false
	r.cullSet = false
	r.cullEnabled = false
	r.modeSet = false
	r.depthSet = false
	r.colorMaskSet = false
	r.depthMaskSet = false
	logger.Debug("renderer caches destroyed")
}
