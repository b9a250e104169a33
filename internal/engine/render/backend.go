package render

// Enum is a backend API constant. Values mirror the OpenGL numeric
// constants so the real backend passes them straight through.
type Enum uint32

// Capabilities, blend factors, faces, polygon modes.
const (
	BLEND      Enum = 0x0BE2
	CULL_FACE  Enum = 0x0B44
	DEPTH_TEST Enum = 0x0B71

	ONE                 Enum = 1
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303

	FRONT Enum = 0x0404
	BACK  Enum = 0x0405

	LINE Enum = 0x1B01
	FILL Enum = 0x1B02
)

// Clear masks.
const (
	DEPTH_BUFFER_BIT   Enum = 0x0100
	STENCIL_BUFFER_BIT Enum = 0x0400
	COLOR_BUFFER_BIT   Enum = 0x4000
)

// Texture formats, filters, wraps, parameter names.
const (
	DEPTH_COMPONENT Enum = 0x1902
	RED             Enum = 0x1903
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908

	NEAREST Enum = 0x2600
	LINEAR  Enum = 0x2601

	REPEAT        Enum = 0x2901
	CLAMP_TO_EDGE Enum = 0x812F

	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
)

// Buffer targets and usage hints.
const (
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893

	STREAM_DRAW  Enum = 0x88E0
	STATIC_DRAW  Enum = 0x88E4
	DYNAMIC_DRAW Enum = 0x88E8
)

// Shader stages.
const (
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
)

// Primitive topologies and index element types.
const (
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005

	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	UNSIGNED_INT   Enum = 0x1405
)

// Framebuffer attachments.
const (
	COLOR_ATTACHMENT0 Enum = 0x8CE0
	DEPTH_ATTACHMENT  Enum = 0x8D00
)

// Native handle types. Zero is "no object"; for framebuffers it is the
// default on-screen target and for programs the fixed-function none.
type (
	TextureHandle     uint32
	BufferHandle      uint32
	ShaderHandle      uint32
	ProgramHandle     uint32
	FramebufferHandle uint32
)

// Backend is the thin boundary to the underlying graphics API: one
// method per API entry point the renderer issues, with typed handles.
// The production implementation wraps OpenGL; tests substitute a
// recording fake.
type Backend interface {
	// Pipeline state.
	Enable(cap Enum)
	Disable(cap Enum)
	BlendFunc(src, dst Enum)
	CullFace(face Enum)
	PolygonMode(mode Enum)
	ColorMask(r, g, b, a bool)
	DepthMask(enabled bool)
	Viewport(x, y, w, h int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	// Textures.
	CreateTexture() TextureHandle
	ActiveTexture(unit int)
	BindTexture(tex TextureHandle)
	TexImage2D(format Enum, width, height int32, pixels []byte)
	TexParameter(pname, param Enum)
	GenerateMipmap()
	DeleteTexture(tex TextureHandle)

	// Buffers.
	CreateBuffer() BufferHandle
	BindBuffer(target Enum, buf BufferHandle)
	BufferData(target Enum, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)
	DeleteBuffer(buf BufferHandle)

	// Vertex attributes. Attribute buffers are tightly packed floats.
	EnableVertexAttrib(slot uint32)
	VertexAttribPointer(slot uint32, components int32)

	// Shaders and programs.
	CreateShader(stage Enum, source string) (ShaderHandle, error)
	CreateProgram() ProgramHandle
	AttachShader(prog ProgramHandle, sh ShaderHandle)
	BindAttribLocation(prog ProgramHandle, slot uint32, name string)
	LinkProgram(prog ProgramHandle) error
	UseProgram(prog ProgramHandle)
	DeleteShader(sh ShaderHandle)
	DeleteProgram(prog ProgramHandle)

	// Uniforms.
	UniformLocation(prog ProgramHandle, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, x, y float32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix3fv(loc int32, count int32, data []float32)
	UniformMatrix4fv(loc int32, count int32, data []float32)

	// Framebuffers.
	CreateFramebuffer() FramebufferHandle
	BindFramebuffer(fb FramebufferHandle)
	FramebufferTexture2D(attachment Enum, tex TextureHandle)
	DrawBuffers(n int)
	CheckFramebufferComplete() error
	DeleteFramebuffer(fb FramebufferHandle)

	// Submission.
	DrawElements(mode Enum, count int32, indexType Enum, offset int)

	// Err drains pending backend errors, returning nil if none
	// occurred since the last call. Diagnostic only.
	Err() error
}
