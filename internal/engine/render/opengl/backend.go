// Package opengl implements the render.Backend boundary with OpenGL
// 4.1 core via go-gl.
//
// IMPORTANT: New must be called AFTER the OpenGL context is created,
// and every method from the thread owning that context.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/prism/internal/engine/render"
	"github.com/Faultbox/prism/internal/logger"
)

// Backend issues render.Backend calls against the current GL context.
type Backend struct {
	vao uint32
}

// New initializes OpenGL and creates the shared vertex array object
// the core profile requires for vertex attribute state.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	b := &Backend{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	return b, nil
}

// Close releases the shared vertex array object.
func (b *Backend) Close() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}

func (b *Backend) Enable(cap render.Enum)  { gl.Enable(uint32(cap)) }
func (b *Backend) Disable(cap render.Enum) { gl.Disable(uint32(cap)) }

func (b *Backend) BlendFunc(src, dst render.Enum) { gl.BlendFunc(uint32(src), uint32(dst)) }
func (b *Backend) CullFace(face render.Enum)      { gl.CullFace(uint32(face)) }
func (b *Backend) PolygonMode(mode render.Enum)   { gl.PolygonMode(gl.FRONT_AND_BACK, uint32(mode)) }

func (b *Backend) ColorMask(r, g, bl, a bool) { gl.ColorMask(r, g, bl, a) }
func (b *Backend) DepthMask(enabled bool)     { gl.DepthMask(enabled) }

func (b *Backend) Viewport(x, y, w, h int32) { gl.Viewport(x, y, w, h) }

func (b *Backend) ClearColor(r, g, bl, a float32) { gl.ClearColor(r, g, bl, a) }
func (b *Backend) Clear(mask render.Enum)         { gl.Clear(uint32(mask)) }

func (b *Backend) CreateTexture() render.TextureHandle {
	var tex uint32
	gl.GenTextures(1, &tex)
	return render.TextureHandle(tex)
}

func (b *Backend) ActiveTexture(unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
}

func (b *Backend) BindTexture(tex render.TextureHandle) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (b *Backend) TexImage2D(format render.Enum, width, height int32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	xtype := uint32(gl.UNSIGNED_BYTE)
	if format == render.DEPTH_COMPONENT {
		xtype = gl.FLOAT
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), width, height, 0, uint32(format), xtype, ptr)
}

func (b *Backend) TexParameter(pname, param render.Enum) {
	gl.TexParameteri(gl.TEXTURE_2D, uint32(pname), int32(param))
}

func (b *Backend) GenerateMipmap() { gl.GenerateMipmap(gl.TEXTURE_2D) }

func (b *Backend) DeleteTexture(tex render.TextureHandle) {
	id := uint32(tex)
	gl.DeleteTextures(1, &id)
}

func (b *Backend) CreateBuffer() render.BufferHandle {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return render.BufferHandle(buf)
}

func (b *Backend) BindBuffer(target render.Enum, buf render.BufferHandle) {
	gl.BindBuffer(uint32(target), uint32(buf))
}

func (b *Backend) BufferData(target render.Enum, data []byte, usage render.Enum) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(uint32(target), len(data), ptr, uint32(usage))
}

func (b *Backend) BufferSubData(target render.Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(uint32(target), offset, len(data), gl.Ptr(data))
}

func (b *Backend) DeleteBuffer(buf render.BufferHandle) {
	id := uint32(buf)
	gl.DeleteBuffers(1, &id)
}

func (b *Backend) EnableVertexAttrib(slot uint32) {
	gl.EnableVertexAttribArray(slot)
}

func (b *Backend) VertexAttribPointer(slot uint32, components int32) {
	gl.VertexAttribPointer(slot, components, gl.FLOAT, false, 0, nil)
}

func (b *Backend) CreateShader(stage render.Enum, source string) (render.ShaderHandle, error) {
	shader := gl.CreateShader(uint32(stage))

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return render.ShaderHandle(shader), nil
}

func (b *Backend) CreateProgram() render.ProgramHandle {
	return render.ProgramHandle(gl.CreateProgram())
}

func (b *Backend) AttachShader(prog render.ProgramHandle, sh render.ShaderHandle) {
	gl.AttachShader(uint32(prog), uint32(sh))
}

func (b *Backend) BindAttribLocation(prog render.ProgramHandle, slot uint32, name string) {
	gl.BindAttribLocation(uint32(prog), slot, gl.Str(name+"\x00"))
}

func (b *Backend) LinkProgram(prog render.ProgramHandle) error {
	program := uint32(prog)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return fmt.Errorf("link failed: %s", log)
	}
	return nil
}

func (b *Backend) UseProgram(prog render.ProgramHandle) { gl.UseProgram(uint32(prog)) }
func (b *Backend) DeleteShader(sh render.ShaderHandle)  { gl.DeleteShader(uint32(sh)) }
func (b *Backend) DeleteProgram(prog render.ProgramHandle) {
	gl.DeleteProgram(uint32(prog))
}

func (b *Backend) UniformLocation(prog render.ProgramHandle, name string) int32 {
	return gl.GetUniformLocation(uint32(prog), gl.Str(name+"\x00"))
}

func (b *Backend) Uniform1f(loc int32, v float32)       { gl.Uniform1f(loc, v) }
func (b *Backend) Uniform1i(loc int32, v int32)         { gl.Uniform1i(loc, v) }
func (b *Backend) Uniform2f(loc int32, x, y float32)    { gl.Uniform2f(loc, x, y) }
func (b *Backend) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }
func (b *Backend) Uniform4f(loc int32, x, y, z, w float32) {
	gl.Uniform4f(loc, x, y, z, w)
}

func (b *Backend) UniformMatrix3fv(loc int32, count int32, data []float32) {
	gl.UniformMatrix3fv(loc, count, false, &data[0])
}

func (b *Backend) UniformMatrix4fv(loc int32, count int32, data []float32) {
	gl.UniformMatrix4fv(loc, count, false, &data[0])
}

func (b *Backend) CreateFramebuffer() render.FramebufferHandle {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return render.FramebufferHandle(fbo)
}

func (b *Backend) BindFramebuffer(fb render.FramebufferHandle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (b *Backend) FramebufferTexture2D(attachment render.Enum, tex render.TextureHandle) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, uint32(attachment), gl.TEXTURE_2D, uint32(tex), 0)
}

func (b *Backend) DrawBuffers(n int) {
	if n == 0 {
		bufs := []uint32{gl.NONE}
		gl.DrawBuffers(1, &bufs[0])
		return
	}
	bufs := make([]uint32, n)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(n), &bufs[0])
}

func (b *Backend) CheckFramebufferComplete() error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("status 0x%x", status)
	}
	return nil
}

func (b *Backend) DeleteFramebuffer(fb render.FramebufferHandle) {
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func (b *Backend) DrawElements(mode render.Enum, count int32, indexType render.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), count, uint32(indexType), uintptr(offset))
}

// Err drains the GL error queue, returning the accumulated codes.
func (b *Backend) Err() error {
	var codes []string
	for {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		codes = append(codes, fmt.Sprintf("0x%x", code))
	}
	if len(codes) == 0 {
		return nil
	}
	return fmt.Errorf("GL errors: %s", strings.Join(codes, ", "))
}
