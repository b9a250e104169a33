// Package geometry provides the mesh descriptor consumed by the renderer.
//
// A Mesh is a passive, CPU-side description of vertex data. The renderer
// caches GPU buffers for it keyed by its identity and reacts to its dirty
// ranges at draw time; the mesh itself never talks to the GPU.
package geometry

import (
	"unsafe"

	"github.com/Faultbox/prism/internal/engine/resource"
)

// Primitive is the topology used to assemble indices into shapes.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip

	primitiveCount
)

// PrimitiveCount is the number of primitive topologies.
const PrimitiveCount = int(primitiveCount)

// Usage hints how often the mesh data will be updated.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw

	usageCount
)

// UsageCount is the number of usage hints.
const UsageCount = int(usageCount)

// IndexWidth is the byte width of one index element. It is chosen when
// indices are assigned and must stay fixed for the lifetime of the
// mesh's cached GPU buffer, since it determines the draw call encoding.
type IndexWidth int

const (
	Index8  IndexWidth = 1
	Index16 IndexWidth = 2
	Index32 IndexWidth = 4
)

// Range is a dirty sub-range in elements (vertices or indices).
// A zero Count means empty.
type Range struct {
	First, Count int
}

// merge widens r to also cover other.
func (r Range) merge(other Range) Range {
	if r.Count == 0 {
		return other
	}
	if other.Count == 0 {
		return r
	}
	first := r.First
	if other.First < first {
		first = other.First
	}
	end := r.First + r.Count
	if e := other.First + other.Count; e > end {
		end = e
	}
	return Range{First: first, Count: end - first}
}

// Mesh maps vertex attribute kinds to float buffers plus one index
// buffer. The application owns and mutates it freely between frames;
// the renderer only reads it at resolve time.
type Mesh struct {
	id        resource.ID
	primitive Primitive
	usage     Usage
	keepData  bool

	data [attributeCount][]float32

	indices    []byte // native-order view of the caller's index slice
	indexWidth IndexWidth
	indexCount int

	offset, count int // draw sub-range, in index elements

	dirty       bool
	vertexDirty Range
	indexDirty  Range
}

// NewMesh creates an empty mesh with the given topology and usage hint.
// Host-side data is kept after upload unless SetKeepData(false).
func NewMesh(primitive Primitive, usage Usage) *Mesh {
	return &Mesh{
		id:        resource.NewID(),
		primitive: primitive,
		usage:     usage,
		keepData:  true,
	}
}

// ID returns the cache identity of the mesh.
func (m *Mesh) ID() resource.ID { return m.id }

// Primitive returns the topology.
func (m *Mesh) Primitive() Primitive { return m.primitive }

// Usage returns the update-frequency hint.
func (m *Mesh) Usage() Usage { return m.usage }

// KeepData reports whether host buffers survive their first upload.
func (m *Mesh) KeepData() bool { return m.keepData }

// SetKeepData controls whether host buffers are released after upload.
func (m *Mesh) SetKeepData(keep bool) { m.keepData = keep }

// SetData assigns the float buffer for an attribute kind and marks the
// whole buffer dirty. Passing nil drops the host buffer only, same as
// ReleaseData: a GPU buffer already uploaded for the attribute keeps
// its previous contents and stays in use on subsequent draws.
func (m *Mesh) SetData(attr Attribute, data []float32) {
	m.data[attr] = data
	if data == nil {
		return
	}
	m.dirty = true
	m.vertexDirty = m.vertexDirty.merge(Range{0, len(data) / int(attr.Components())})
}

// Data returns the host buffer for an attribute kind, or nil.
func (m *Mesh) Data(attr Attribute) []float32 { return m.data[attr] }

// ReleaseData drops the host buffer for an attribute without touching
// dirty state. Called by the renderer after upload when keep-data is
// off; the buffer cannot be restored, only replaced via SetData.
func (m *Mesh) ReleaseData(attr Attribute) { m.data[attr] = nil }

// SetIndices8 assigns 8-bit indices. Changing the element width of a
// mesh that already had indices re-keys its identity, so the cache
// treats it as a new resource.
func (m *Mesh) SetIndices8(indices []uint8) {
	m.setIndices(indices, Index8, len(indices))
}

// SetIndices16 assigns 16-bit indices.
func (m *Mesh) SetIndices16(indices []uint16) {
	var view []byte
	if len(indices) > 0 {
		view = unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*2)
	}
	m.setIndices(view, Index16, len(indices))
}

// SetIndices32 assigns 32-bit indices.
func (m *Mesh) SetIndices32(indices []uint32) {
	var view []byte
	if len(indices) > 0 {
		view = unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
	}
	m.setIndices(view, Index32, len(indices))
}

func (m *Mesh) setIndices(view []byte, width IndexWidth, count int) {
	if m.indexWidth != 0 && m.indexWidth != width {
		// Element width determines the draw call encoding; a widened
		// mesh is a different resource as far as the cache is concerned.
		m.id = resource.NewID()
		m.vertexDirty = Range{}
	}
	m.indices = view
	m.indexWidth = width
	m.indexCount = count
	m.offset = 0
	m.count = count
	m.dirty = true
	m.indexDirty = m.indexDirty.merge(Range{0, count})
}

// Indices returns the raw index bytes in native element layout.
func (m *Mesh) Indices() []byte { return m.indices }

// ReleaseIndices drops the host index buffer after upload.
func (m *Mesh) ReleaseIndices() { m.indices = nil }

// IndexWidth returns the element width, or 0 if no indices were set.
func (m *Mesh) IndexWidth() IndexWidth { return m.indexWidth }

// IndexCount returns the number of index elements assigned.
func (m *Mesh) IndexCount() int { return m.indexCount }

// SetDrawRange restricts drawing to count indices starting at offset.
func (m *Mesh) SetDrawRange(offset, count int) {
	m.offset = offset
	m.count = count
}

// Offset returns the first index element drawn.
func (m *Mesh) Offset() int { return m.offset }

// Count returns the number of index elements drawn.
func (m *Mesh) Count() int { return m.count }

// MarkVerticesDirty records that count vertices starting at first have
// changed in the attribute buffers and need re-upload.
func (m *Mesh) MarkVerticesDirty(first, count int) {
	if count <= 0 {
		return
	}
	m.dirty = true
	m.vertexDirty = m.vertexDirty.merge(Range{first, count})
}

// MarkIndicesDirty records that count index elements starting at first
// have changed and need re-upload.
func (m *Mesh) MarkIndicesDirty(first, count int) {
	if count <= 0 {
		return
	}
	m.dirty = true
	m.indexDirty = m.indexDirty.merge(Range{first, count})
}

// Dirty reports whether any re-upload is pending.
func (m *Mesh) Dirty() bool { return m.dirty }

// VertexDirty returns the pending vertex sub-range.
func (m *Mesh) VertexDirty() Range { return m.vertexDirty }

// IndexDirty returns the pending index sub-range.
func (m *Mesh) IndexDirty() Range { return m.indexDirty }

// ClearDirty resets all dirty state. Called by the renderer after the
// pending ranges have been uploaded.
func (m *Mesh) ClearDirty() {
	m.dirty = false
	m.vertexDirty = Range{}
	m.indexDirty = Range{}
}
