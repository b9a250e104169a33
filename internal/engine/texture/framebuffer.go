package texture

import "github.com/Faultbox/prism/internal/engine/resource"

// Framebuffer is a logical offscreen render target: zero or more color
// target textures bound to sequential color attachments in declaration
// order, plus an optional depth target. The framebuffer references its
// targets but does not own them; each is cached independently as a
// Texture. A nil Framebuffer passed to the renderer selects the default
// on-screen target.
type Framebuffer struct {
	id     resource.ID
	width  int32
	height int32

	targets []*Texture
	depth   *Texture

	dirty bool
}

// NewFramebuffer creates a framebuffer descriptor. It starts dirty so
// the first bind performs the attachment pass and completeness check.
func NewFramebuffer(width, height int32, targets []*Texture, depth *Texture) *Framebuffer {
	return &Framebuffer{
		id:      resource.NewID(),
		width:   width,
		height:  height,
		targets: targets,
		depth:   depth,
		dirty:   true,
	}
}

// ID returns the cache identity.
func (f *Framebuffer) ID() resource.ID { return f.id }

// Width returns the render target width in pixels.
func (f *Framebuffer) Width() int32 { return f.width }

// Height returns the render target height in pixels.
func (f *Framebuffer) Height() int32 { return f.height }

// Targets returns the color targets in attachment order.
func (f *Framebuffer) Targets() []*Texture { return f.targets }

// DepthTarget returns the depth target, or nil.
func (f *Framebuffer) DepthTarget() *Texture { return f.depth }

// Dirty reports whether the attachments still need to be bound.
func (f *Framebuffer) Dirty() bool { return f.dirty }

// MarkDirty requests a re-attachment pass on next bind.
func (f *Framebuffer) MarkDirty() { f.dirty = true }

// ClearDirty marks the attachments as bound and verified.
func (f *Framebuffer) ClearDirty() { f.dirty = false }
