// Package render implements the GPU resource cache and draw-state
// tracker: it decides which GPU objects must be (re)created or
// re-uploaded each frame, elides redundant pipeline state changes, and
// translates logical draw requests into backend calls.
//
// Everything here is single-threaded by contract. All calls must come
// from the thread that owns the graphics context.
package render

// Blending selects the blend mode for subsequent draws.
type Blending int

const (
	BlendDisabled Blending = iota
	BlendAlpha
	BlendAdditive

	blendingCount
)

// Culling selects which triangle faces are discarded.
type Culling int

const (
	CullDisabled Culling = iota
	CullBackFace
	CullFrontFace

	cullingCount
)

// RenderMode selects how polygons are rasterized.
type RenderMode int

const (
	Fill RenderMode = iota
	Wireframe

	renderModeCount
)

// Stats carries per-frame counters and cache population snapshots.
// Counters reset at BeginFrame; allocation counts are snapshots of the
// handle cache taken at the same moment.
type Stats struct {
	ShaderSwitches      int
	TextureSwitches     int
	FramebufferSwitches int
	VertexBuffersBound  int
	VerticesDrawn       int

	AllocatedTextures      int
	AllocatedVertexBuffers int
	AllocatedIndexBuffers  int
	AllocatedPrograms      int
	AllocatedFramebuffers  int
}

// Listener is notified at frame boundaries.
type Listener interface {
	FrameBegan(r *Renderer)
	FrameEnded(r *Renderer)
}
