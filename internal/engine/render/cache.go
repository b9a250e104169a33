package render

import (
	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/resource"
)

// meshBuffers holds the GPU buffers cached for one mesh identity: one
// vertex buffer per attribute kind present, plus the index buffer. The
// index element width is pinned when the index buffer is created.
type meshBuffers struct {
	attrs      [geometry.AttributeCount]BufferHandle
	index      BufferHandle
	indexWidth geometry.IndexWidth
}

// programHandles holds the linked program and its stage objects.
type programHandles struct {
	program ProgramHandle
	vert    ShaderHandle
	frag    ShaderHandle
}

// cache maps resource identities to the native handles they own.
// Entries are created on first resolve and live until destroy; there is
// no eviction, a deliberate scope limit: a resource abandoned by the
// application keeps its GPU objects allocated for the life of the
// process.
type cache struct {
	textures     map[resource.ID]TextureHandle
	meshes       map[resource.ID]*meshBuffers
	programs     map[resource.ID]programHandles
	framebuffers map[resource.ID]FramebufferHandle

	vertexBuffers int
	indexBuffers  int
}

func newCache() *cache {
	return &cache{
		textures:     make(map[resource.ID]TextureHandle),
		meshes:       make(map[resource.ID]*meshBuffers),
		programs:     make(map[resource.ID]programHandles),
		framebuffers: make(map[resource.ID]FramebufferHandle),
	}
}

// mesh returns the buffer entry for a mesh identity, creating an empty
// one on first reference.
func (c *cache) mesh(id resource.ID) *meshBuffers {
	entry, ok := c.meshes[id]
	if !ok {
		entry = &meshBuffers{}
		c.meshes[id] = entry
	}
	return entry
}

// destroy deletes every cached handle and empties the cache.
func (c *cache) destroy(b Backend) {
	for _, h := range c.textures {
		b.DeleteTexture(h)
	}
	for _, entry := range c.meshes {
		for _, vbo := range entry.attrs {
			if vbo != 0 {
				b.DeleteBuffer(vbo)
			}
		}
		if entry.index != 0 {
			b.DeleteBuffer(entry.index)
		}
	}
	for _, ph := range c.programs {
		b.DeleteProgram(ph.program)
		b.DeleteShader(ph.vert)
		b.DeleteShader(ph.frag)
	}
	for _, h := range c.framebuffers {
		b.DeleteFramebuffer(h)
	}

	c.textures = make(map[resource.ID]TextureHandle)
	c.meshes = make(map[resource.ID]*meshBuffers)
	c.programs = make(map[resource.ID]programHandles)
	c.framebuffers = make(map[resource.ID]FramebufferHandle)
	c.vertexBuffers = 0
	c.indexBuffers = 0
}
