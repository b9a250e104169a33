package render

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/shader"
	"github.com/Faultbox/prism/internal/logger"
)

// f32Bytes views a float slice as raw bytes without copying.
func f32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}

// RenderMesh submits one indexed draw for the mesh using the bound
// program: uniforms are marshaled, each attribute the program consumes
// is resolved and bound, the index buffer is resolved, and the draw is
// issued with the index type matching the mesh's element width.
//
// Without a bound program there is nothing meaningful to draw, so the
// call is a no-op. A mesh missing data for a required attribute is
// tolerated: that attribute is skipped and rendering degrades instead
// of failing.
func (r *Renderer) RenderMesh(m *geometry.Mesh) {
	if r.bound == nil {
		return
	}

	r.applyUniforms()

	entry := r.cache.mesh(m.ID())

	for _, attr := range r.bound.Attributes() {
		data := m.Data(attr)
		vbo := entry.attrs[attr]
		if vbo == 0 {
			if data == nil {
				logger.Debug("mesh missing attribute data",
					zap.Stringer("attribute", attr),
					zap.Uint64("mesh", uint64(m.ID())))
				continue
			}
			vbo = r.backend.CreateBuffer()
			entry.attrs[attr] = vbo
			r.cache.vertexBuffers++
			r.backend.BindBuffer(ARRAY_BUFFER, vbo)
			r.backend.BufferData(ARRAY_BUFFER, f32Bytes(data), bufferUsages[m.Usage()])
			if !m.KeepData() {
				m.ReleaseData(attr)
			}
		} else {
			r.backend.BindBuffer(ARRAY_BUFFER, vbo)
			if rng := m.VertexDirty(); m.Dirty() && data != nil && rng.Count > 0 {
				comps := int(attr.Components())
				first := rng.First * comps
				end := (rng.First + rng.Count) * comps
				if end > len(data) {
					end = len(data)
				}
				if first < end {
					r.backend.BufferSubData(ARRAY_BUFFER, first*4, f32Bytes(data[first:end]))
				}
			}
		}

		r.backend.EnableVertexAttrib(attr.Slot())
		r.backend.VertexAttribPointer(attr.Slot(), attr.Components())
		r.stats.VertexBuffersBound++
	}

	indices := m.Indices()
	if entry.index == 0 {
		if indices == nil {
			logger.Debug("mesh has no index data, skipping draw",
				zap.Uint64("mesh", uint64(m.ID())))
			return
		}
		entry.index = r.backend.CreateBuffer()
		entry.indexWidth = m.IndexWidth()
		r.cache.indexBuffers++
		r.backend.BindBuffer(ELEMENT_ARRAY_BUFFER, entry.index)
		r.backend.BufferData(ELEMENT_ARRAY_BUFFER, indices, bufferUsages[m.Usage()])
		if !m.KeepData() {
			m.ReleaseIndices()
		}
	} else {
		r.backend.BindBuffer(ELEMENT_ARRAY_BUFFER, entry.index)
		if rng := m.IndexDirty(); m.Dirty() && indices != nil && rng.Count > 0 {
			w := int(entry.indexWidth)
			first := rng.First * w
			end := (rng.First + rng.Count) * w
			if end > len(indices) {
				end = len(indices)
			}
			if first < end {
				r.backend.BufferSubData(ELEMENT_ARRAY_BUFFER, first, indices[first:end])
			}
		}
	}

	m.ClearDirty()

	// The index type is pinned by the cached buffer's element width,
	// not whatever the descriptor currently claims.
	width := entry.indexWidth
	r.backend.DrawElements(
		primitives[m.Primitive()],
		int32(m.Count()),
		indexTypes[width],
		m.Offset()*int(width),
	)
	r.stats.VerticesDrawn += m.Count()
}

// applyUniforms marshals every uniform set on the bound program.
// Matrix arrays are flattened contiguously, in declared order, into a
// scratch buffer scoped to this draw.
func (r *Renderer) applyUniforms() {
	for _, u := range r.bound.Uniforms() {
		loc := r.backend.UniformLocation(r.boundHandle, u.Name)
		if loc < 0 {
			continue
		}
		switch u.Type {
		case shader.Float:
			r.backend.Uniform1f(loc, u.Float32())
		case shader.Int, shader.Sampler2D:
			r.backend.Uniform1i(loc, u.Int32())
		case shader.Vec2:
			v := u.AsVec2()
			r.backend.Uniform2f(loc, v.X, v.Y)
		case shader.Vec3:
			v := u.AsVec3()
			r.backend.Uniform3f(loc, v.X, v.Y, v.Z)
		case shader.Vec4:
			v := u.AsVec4()
			r.backend.Uniform4f(loc, v.X, v.Y, v.Z, v.W)
		case shader.Mat3:
			mat := u.AsMat3()
			r.backend.UniformMatrix3fv(loc, 1, mat[:])
		case shader.Mat4:
			mat := u.AsMat4()
			r.backend.UniformMatrix4fv(loc, 1, mat[:])
		case shader.Mat3Array:
			arr := u.AsMat3Array()
			r.scratch = r.scratch[:0]
			for _, mat := range arr {
				r.scratch = append(r.scratch, mat[:]...)
			}
			r.backend.UniformMatrix3fv(loc, int32(len(arr)), r.scratch)
		case shader.Mat4Array:
			arr := u.AsMat4Array()
			r.scratch = r.scratch[:0]
			for _, mat := range arr {
				r.scratch = append(r.scratch, mat[:]...)
			}
			r.backend.UniformMatrix4fv(loc, int32(len(arr)), r.scratch)
		}
	}
}
