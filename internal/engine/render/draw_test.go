package render

import (
	"fmt"
	"testing"

	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/shader"
	"github.com/Faultbox/prism/pkg/math"
)

func TestRenderMeshWithoutProgramIsNoop(t *testing.T) {
	r, fb := newTestRenderer(t)

	r.RenderMesh(triangleMesh())

	if len(fb.calls) != 0 {
		t.Errorf("expected no calls without a bound program, got %v", fb.calls)
	}
}

func TestRenderMeshTriangle(t *testing.T) {
	r, fb := newTestRenderer(t)
	r.BeginFrame()
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	fb.reset()

	r.RenderMesh(triangleMesh())

	// One vertex buffer plus one index buffer.
	if got := fb.count("CreateBuffer"); got != 2 {
		t.Errorf("expected 2 buffer creates, got %d", got)
	}
	// 3 vertices x 3 components x 4 bytes.
	vbo := fmt.Sprintf("BufferData(target=%#x,len=36,usage=%#x)", uint32(ARRAY_BUFFER), uint32(STATIC_DRAW))
	if got := fb.count(vbo); got != 1 {
		t.Errorf("expected vertex upload %s, got calls %v", vbo, fb.calls)
	}
	// 3 indices x 2 bytes.
	ibo := fmt.Sprintf("BufferData(target=%#x,len=6,usage=%#x)", uint32(ELEMENT_ARRAY_BUFFER), uint32(STATIC_DRAW))
	if got := fb.count(ibo); got != 1 {
		t.Errorf("expected index upload %s, got calls %v", ibo, fb.calls)
	}

	draw := fmt.Sprintf("DrawElements(mode=%#x,count=3,type=%#x,offset=0)",
		uint32(TRIANGLES), uint32(UNSIGNED_SHORT))
	if got := fb.count(draw); got != 1 {
		t.Errorf("expected draw %s, got calls %v", draw, fb.calls)
	}

	stats := r.Statistics()
	if stats.VerticesDrawn != 3 {
		t.Errorf("expected 3 vertices drawn, got %d", stats.VerticesDrawn)
	}
	if stats.VertexBuffersBound != 1 {
		t.Errorf("expected 1 vertex buffer bound, got %d", stats.VertexBuffersBound)
	}
}

func TestRenderMeshCleanSkipsUploads(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()

	r.RenderMesh(mesh)
	fb.reset()
	r.RenderMesh(mesh)

	if got := fb.count("CreateBuffer"); got != 0 {
		t.Errorf("expected no buffer creates on clean mesh, got %d", got)
	}
	if got := fb.count("BufferData"); got != 0 {
		t.Errorf("expected no full uploads on clean mesh, got %d", got)
	}
	if got := fb.count("BufferSubData"); got != 0 {
		t.Errorf("expected no partial uploads on clean mesh, got %d", got)
	}
	if got := fb.count("DrawElements"); got != 1 {
		t.Errorf("expected draw to still issue, got %d", got)
	}
}

func TestRenderMeshPartialVertexUpdate(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()
	r.RenderMesh(mesh)
	fb.reset()

	// Move the second vertex only.
	mesh.Data(geometry.Position)[3] = -0.7
	mesh.MarkVerticesDirty(1, 1)
	r.RenderMesh(mesh)

	// 1 vertex at offset 1: 3 components x 4 bytes, starting at byte 12.
	want := fmt.Sprintf("BufferSubData(target=%#x,offset=12,len=12)", uint32(ARRAY_BUFFER))
	if got := fb.count(want); got != 1 {
		t.Errorf("expected partial upload %s, got calls %v", want, fb.calls)
	}
	if got := fb.count("BufferData"); got != 0 {
		t.Errorf("expected no full upload, got %d", got)
	}

	// Dirty state was consumed.
	fb.reset()
	r.RenderMesh(mesh)
	if got := fb.count("BufferSubData"); got != 0 {
		t.Errorf("expected dirty range cleared after upload, got %d", got)
	}
}

func TestRenderMeshPartialIndexUpdate(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()
	r.RenderMesh(mesh)
	fb.reset()

	mesh.MarkIndicesDirty(1, 2)
	r.RenderMesh(mesh)

	// 2 elements x 2 bytes starting at byte 2.
	want := fmt.Sprintf("BufferSubData(target=%#x,offset=2,len=4)", uint32(ELEMENT_ARRAY_BUFFER))
	if got := fb.count(want); got != 1 {
		t.Errorf("expected partial index upload %s, got calls %v", want, fb.calls)
	}

	// Element width stays 16-bit across partial updates.
	if got := fb.last("DrawElements"); got != fmt.Sprintf(
		"DrawElements(mode=%#x,count=3,type=%#x,offset=0)",
		uint32(TRIANGLES), uint32(UNSIGNED_SHORT)) {
		t.Errorf("unexpected draw encoding: %s", got)
	}
}

func TestRenderMeshDirtyRangeClampedToData(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()
	r.RenderMesh(mesh)
	fb.reset()

	// Range extends past the buffer; the upload clamps to what exists.
	mesh.MarkVerticesDirty(2, 5)
	r.RenderMesh(mesh)

	want := fmt.Sprintf("BufferSubData(target=%#x,offset=24,len=12)", uint32(ARRAY_BUFFER))
	if got := fb.count(want); got != 1 {
		t.Errorf("expected clamped upload %s, got calls %v", want, fb.calls)
	}
}

func TestRenderMeshMissingAttributeSkipped(t *testing.T) {
	r, fb := newTestRenderer(t)
	prog := shader.NewProgram(testVertexSrc, testFragmentSrc, geometry.Position, geometry.UV)
	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh() // position only, no UVs
	fb.reset()

	r.RenderMesh(mesh)

	// Only the position buffer exists; UV degrades silently.
	if got := fb.count("CreateBuffer"); got != 2 {
		t.Errorf("expected position VBO + IBO only, got %d creates", got)
	}
	if got := fb.count("DrawElements"); got != 1 {
		t.Errorf("expected draw despite missing attribute, got %d", got)
	}
	if got := r.Statistics().VertexBuffersBound; got != 1 {
		t.Errorf("expected 1 attribute bound, got %d", got)
	}
}

func TestRenderMeshWithoutIndicesSkipsDraw(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := geometry.NewMesh(geometry.Triangles, geometry.StaticDraw)
	mesh.SetData(geometry.Position, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	fb.reset()

	r.RenderMesh(mesh)

	if got := fb.count("DrawElements"); got != 0 {
		t.Errorf("expected no draw without indices, got %d", got)
	}
}

func TestRenderMeshKeepDataRelease(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()
	mesh.SetKeepData(false)

	r.RenderMesh(mesh)

	if mesh.Data(geometry.Position) != nil {
		t.Error("expected vertex data released after upload")
	}
	if mesh.Indices() != nil {
		t.Error("expected index data released after upload")
	}

	// Rendering from the GPU copy still works, with nothing re-uploaded.
	fb.reset()
	r.RenderMesh(mesh)
	if got := fb.count("BufferData"); got != 0 {
		t.Errorf("expected no re-upload of released data, got %d", got)
	}
	if got := fb.count("DrawElements"); got != 1 {
		t.Errorf("expected draw from cached buffers, got %d", got)
	}
}

func TestRenderMeshNilDataKeepsCachedBuffer(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()
	r.RenderMesh(mesh)

	// Dropping the host buffer leaves the uploaded copy in place; the
	// next draw binds it unchanged.
	mesh.SetData(geometry.Position, nil)
	fb.reset()
	r.RenderMesh(mesh)

	if got := fb.count("CreateBuffer"); got != 0 {
		t.Errorf("expected no new buffers, got %d creates", got)
	}
	if got := fb.count("BufferData"); got != 0 {
		t.Errorf("expected no upload without host data, got %d", got)
	}
	if got := fb.count("BufferSubData"); got != 0 {
		t.Errorf("expected no partial upload without host data, got %d", got)
	}
	want := fmt.Sprintf("BindBuffer(%#x,1)", uint32(ARRAY_BUFFER))
	if got := fb.count(want); got != 1 {
		t.Errorf("expected cached vertex buffer rebound, got calls %v", fb.calls)
	}
	if got := fb.count("DrawElements"); got != 1 {
		t.Errorf("expected draw from cached buffer, got %d", got)
	}
}

func TestRenderMeshDrawRange(t *testing.T) {
	r, fb := newTestRenderer(t)
	if err := r.SetShaderProgram(positionProgram()); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()
	mesh.SetDrawRange(1, 2)

	r.RenderMesh(mesh)

	// Offset is in elements, converted to bytes by the element width.
	want := fmt.Sprintf("DrawElements(mode=%#x,count=2,type=%#x,offset=2)",
		uint32(TRIANGLES), uint32(UNSIGNED_SHORT))
	if got := fb.last("DrawElements"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if got := r.Statistics().VerticesDrawn; got != 2 {
		t.Errorf("expected 2 vertices drawn, got %d", got)
	}
}

func TestRenderMeshIndexWidths(t *testing.T) {
	tests := []struct {
		name     string
		set      func(m *geometry.Mesh)
		wantType Enum
		wantOff  int
	}{
		{
			name:     "8-bit",
			set:      func(m *geometry.Mesh) { m.SetIndices8([]uint8{0, 1, 2}) },
			wantType: UNSIGNED_BYTE,
			wantOff:  1,
		},
		{
			name:     "16-bit",
			set:      func(m *geometry.Mesh) { m.SetIndices16([]uint16{0, 1, 2}) },
			wantType: UNSIGNED_SHORT,
			wantOff:  2,
		},
		{
			name:     "32-bit",
			set:      func(m *geometry.Mesh) { m.SetIndices32([]uint32{0, 1, 2}) },
			wantType: UNSIGNED_INT,
			wantOff:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := newTestRenderer(t)
			if err := r.SetShaderProgram(positionProgram()); err != nil {
				t.Fatalf("SetShaderProgram: %v", err)
			}
			mesh := geometry.NewMesh(geometry.Triangles, geometry.StaticDraw)
			mesh.SetData(geometry.Position, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
			tt.set(mesh)
			mesh.SetDrawRange(1, 2)

			r.RenderMesh(mesh)

			want := fmt.Sprintf("DrawElements(mode=%#x,count=2,type=%#x,offset=%d)",
				uint32(TRIANGLES), uint32(tt.wantType), tt.wantOff)
			if got := fb.last("DrawElements"); got != want {
				t.Errorf("expected %s, got %s", want, got)
			}
		})
	}
}

func TestUniformDispatch(t *testing.T) {
	r, fb := newTestRenderer(t)
	prog := positionProgram()
	prog.SetFloat("time", 1.5)
	prog.SetSampler("tex", 2)
	prog.SetVec2("resolution", math.Vec2{X: 640, Y: 480})
	prog.SetVec3("lightDir", math.Vec3{X: 0, Y: 1, Z: 0})
	prog.SetVec4("tint", math.Vec4{X: 1, Y: 1, Z: 1, W: 0.5})
	prog.SetMat3("normalMat", math.Identity3())
	prog.SetMat4("mvp", math.Identity())
	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	fb.reset()

	r.RenderMesh(triangleMesh())

	for _, want := range []struct {
		prefix string
		n      int
	}{
		{"Uniform1f", 1},
		{"Uniform1i", 1},
		{"Uniform2f", 1},
		{"Uniform3f", 1},
		{"Uniform4f", 1},
		{"UniformMatrix3fv", 1},
		{"UniformMatrix4fv", 1},
	} {
		if got := fb.count(want.prefix); got != want.n {
			t.Errorf("expected %d %s calls, got %d", want.n, want.prefix, got)
		}
	}
}

func TestUniformMat4ArrayFlattened(t *testing.T) {
	r, fb := newTestRenderer(t)
	prog := positionProgram()

	first := math.Identity()
	second := math.Translate(1, 2, 3)
	prog.SetMat4Array("bones", []math.Mat4{first, second})

	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	r.RenderMesh(triangleMesh())

	if fb.lastCount != 2 {
		t.Fatalf("expected matrix count 2, got %d", fb.lastCount)
	}
	if len(fb.lastMatrix) != 32 {
		t.Fatalf("expected 32 contiguous floats, got %d", len(fb.lastMatrix))
	}
	for i := 0; i < 16; i++ {
		if fb.lastMatrix[i] != first[i] {
			t.Errorf("matrix 0 float %d: expected %g, got %g", i, first[i], fb.lastMatrix[i])
		}
		if fb.lastMatrix[16+i] != second[i] {
			t.Errorf("matrix 1 float %d: expected %g, got %g", i, second[i], fb.lastMatrix[16+i])
		}
	}
}

func TestUniformValuesRefreshEachDraw(t *testing.T) {
	r, fb := newTestRenderer(t)
	prog := positionProgram()
	prog.SetFloat("time", 1)
	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	mesh := triangleMesh()

	r.RenderMesh(mesh)
	prog.SetFloat("time", 2)
	r.RenderMesh(mesh)

	if got := fb.count("Uniform1f"); got != 2 {
		t.Fatalf("expected uniform re-applied per draw, got %d calls", got)
	}
	if got := fb.last("Uniform1f"); got != fmt.Sprintf("Uniform1f(loc=%d,2)", fb.locations["1/time"]) {
		t.Errorf("expected updated value, got %s", got)
	}
}
