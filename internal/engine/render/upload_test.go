package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Faultbox/prism/internal/engine/texture"
)

func rgbaTexture(size int32) *texture.Texture {
	t := texture.NewTexture(size, size, texture.RGBA)
	t.SetPixels(make([]byte, size*size*4))
	return t
}

func TestSetTextureResolveIdempotent(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)

	r.SetTexture(0, tex)
	r.SetTexture(0, tex)

	if got := fb.count("CreateTexture"); got != 1 {
		t.Errorf("expected 1 texture create, got %d", got)
	}
	if got := fb.count("TexImage2D"); got != 1 {
		t.Errorf("expected 1 upload, got %d", got)
	}
	if got := fb.count("GenerateMipmap"); got != 1 {
		t.Errorf("expected 1 mipmap generation, got %d", got)
	}
	if got := fb.count("TexParameter"); got != 4 {
		t.Errorf("expected 4 parameter calls, got %d", got)
	}
	if tex.State() != texture.Clean {
		t.Errorf("expected clean state after resolve, got %v", tex.State())
	}
	// Re-binding the same clean texture to the same unit is fully elided.
	if got := fb.count("BindTexture"); got != 1 {
		t.Errorf("expected 1 bind, got %d", got)
	}
}

func TestSetTextureSecondUnitRebindsWithoutUpload(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)

	r.SetTexture(0, tex)
	fb.reset()
	r.SetTexture(1, tex)

	if got := fb.count("TexImage2D"); got != 0 {
		t.Errorf("expected no upload on second unit, got %d", got)
	}
	if got := fb.count("ActiveTexture(1)"); got != 1 {
		t.Errorf("expected bind on unit 1, got calls %v", fb.calls)
	}
}

func TestSetTextureNilUnbinds(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)

	r.SetTexture(0, tex)
	fb.reset()
	r.SetTexture(0, nil)

	if got := fb.count("BindTexture(0)"); got != 1 {
		t.Errorf("expected unbind, got calls %v", fb.calls)
	}

	// The texture re-binds afterwards without re-uploading.
	fb.reset()
	r.SetTexture(0, tex)
	if got := fb.count("TexImage2D"); got != 0 {
		t.Errorf("expected no upload on re-bind, got %d", got)
	}
	if got := fb.count("BindTexture"); got != 1 {
		t.Errorf("expected 1 bind, got %d", got)
	}
}

func TestSetTextureContentDirtyReuploads(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)

	r.SetTexture(0, tex)
	fb.reset()

	tex.SetPixels(make([]byte, 4*4*4))
	r.SetTexture(0, tex)

	if got := fb.count("TexImage2D"); got != 1 {
		t.Errorf("expected 1 re-upload, got %d", got)
	}
	if got := fb.count("CreateTexture"); got != 0 {
		t.Errorf("expected no new texture object, got %d", got)
	}
	if got := fb.count("TexParameter"); got != 0 {
		t.Errorf("expected no parameter re-apply, got %d", got)
	}
}

func TestSetTextureParamsDirtyOnly(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)

	r.SetTexture(0, tex)
	fb.reset()

	tex.SetFilter(texture.Nearest, texture.Nearest)
	r.SetTexture(0, tex)

	if got := fb.count("TexImage2D"); got != 0 {
		t.Errorf("expected no pixel upload for param change, got %d", got)
	}
	if got := fb.count("TexParameter"); got != 4 {
		t.Errorf("expected 4 parameter calls, got %d", got)
	}
}

func TestSetTextureKeepDataRelease(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)
	tex.SetKeepData(false)

	r.SetTexture(0, tex)

	if tex.Pixels() != nil {
		t.Error("expected pixels released after upload with keep-data off")
	}

	// Without a new pixel assignment there is nothing to upload again:
	// marking dirty is ignored and resolve stays quiet.
	tex.MarkContentDirty()
	if tex.State() != texture.Clean {
		t.Errorf("expected dirty mark ignored without pixels, got %v", tex.State())
	}
	fb.reset()
	r.SetTexture(1, tex)
	if got := fb.count("TexImage2D"); got != 0 {
		t.Errorf("expected no upload without pixel data, got %d", got)
	}
}

func TestSetTextureNilPixelsAllocatesStorage(t *testing.T) {
	r, fb := newTestRenderer(t)
	target := texture.NewTexture(64, 64, texture.Depth)

	r.SetTexture(0, target)

	want := fmt.Sprintf("TexImage2D(format=%#x,w=64,h=64,pixels=0)", uint32(DEPTH_COMPONENT))
	if got := fb.count(want); got != 1 {
		t.Errorf("expected storage allocation %s, got calls %v", want, fb.calls)
	}
	// No pixel data, so no mipmaps either.
	if got := fb.count("GenerateMipmap"); got != 0 {
		t.Errorf("expected no mipmap generation for empty storage, got %d", got)
	}
}

func TestSetShaderProgramCompilesOnce(t *testing.T) {
	r, fb := newTestRenderer(t)
	prog := positionProgram()

	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}

	if got := fb.count("CreateShader"); got != 2 {
		t.Errorf("expected 2 stage compiles, got %d", got)
	}
	if got := fb.count("CreateProgram"); got != 1 {
		t.Errorf("expected 1 program, got %d", got)
	}
	// Every attribute kind is bound to its slot before the link.
	if got := fb.count("BindAttribLocation"); got != 4 {
		t.Errorf("expected 4 attribute bindings, got %d", got)
	}
	if got := fb.count("LinkProgram"); got != 1 {
		t.Errorf("expected 1 link, got %d", got)
	}

	// Same program again: fully elided.
	fb.reset()
	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	if len(fb.calls) != 0 {
		t.Errorf("expected no calls re-binding current program, got %v", fb.calls)
	}

	// Unbind and re-bind: cached handle is reused, no recompile.
	if err := r.SetShaderProgram(nil); err != nil {
		t.Fatalf("SetShaderProgram(nil): %v", err)
	}
	fb.reset()
	if err := r.SetShaderProgram(prog); err != nil {
		t.Fatalf("SetShaderProgram: %v", err)
	}
	if got := fb.count("CreateShader"); got != 0 {
		t.Errorf("expected no recompile, got %d", got)
	}
	if got := fb.count("UseProgram"); got != 1 {
		t.Errorf("expected 1 UseProgram, got %d", got)
	}
}

func TestSetShaderProgramCompileError(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.compileErr[FRAGMENT_SHADER] = errors.New("syntax error")
	prog := positionProgram()

	err := r.SetShaderProgram(prog)
	if err == nil {
		t.Fatal("expected compile error")
	}
	// The vertex stage that did compile is cleaned up.
	if got := fb.count("DeleteShader"); got != 1 {
		t.Errorf("expected orphaned stage deleted, got %d deletes", got)
	}
	if got := fb.count("UseProgram"); got != 0 {
		t.Errorf("expected no bind on failure, got %d", got)
	}

	// Nothing was cached; a fixed source would recompile. Here the
	// error is still injected, so it fails again rather than silently
	// reusing a broken entry.
	if err := r.SetShaderProgram(prog); err == nil {
		t.Fatal("expected repeat compile error, got cached success")
	}
}

func TestSetShaderProgramLinkError(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.linkErr = errors.New("link failed")
	prog := positionProgram()

	if err := r.SetShaderProgram(prog); err == nil {
		t.Fatal("expected link error")
	}
	if got := fb.count("DeleteShader"); got != 2 {
		t.Errorf("expected both stages deleted, got %d", got)
	}
	if got := fb.count("DeleteProgram"); got != 1 {
		t.Errorf("expected program object deleted, got %d", got)
	}
}

func newTestFramebuffer() (*texture.Framebuffer, *texture.Texture, *texture.Texture) {
	color := texture.NewTexture(128, 128, texture.RGBA)
	depth := texture.NewTexture(128, 128, texture.Depth)
	fbo := texture.NewFramebuffer(128, 128, []*texture.Texture{color}, depth)
	return fbo, color, depth
}

func TestSetFramebufferAttachesOnce(t *testing.T) {
	r, fb := newTestRenderer(t)
	fbo, _, _ := newTestFramebuffer()

	if err := r.SetFramebuffer(fbo); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}
	if err := r.SetFramebuffer(fbo); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}

	if got := fb.count("CreateFramebuffer"); got != 1 {
		t.Errorf("expected 1 framebuffer create, got %d", got)
	}
	if got := fb.count("CheckFramebufferComplete"); got != 1 {
		t.Errorf("expected 1 completeness check, got %d", got)
	}
	// One color plus one depth attachment, first bind only.
	if got := fb.count("FramebufferTexture2D"); got != 2 {
		t.Errorf("expected 2 attachments, got %d", got)
	}
	// The bind itself and the draw buffer selection repeat per call.
	if got := fb.count("BindFramebuffer"); got != 2 {
		t.Errorf("expected 2 binds, got %d", got)
	}
	if got := fb.count("DrawBuffers(1)"); got != 2 {
		t.Errorf("expected DrawBuffers each bind, got %d", got)
	}

	color := fmt.Sprintf("FramebufferTexture2D(%#x,", uint32(COLOR_ATTACHMENT0))
	depth := fmt.Sprintf("FramebufferTexture2D(%#x,", uint32(DEPTH_ATTACHMENT))
	if fb.count(color) != 1 || fb.count(depth) != 1 {
		t.Errorf("unexpected attachment points: %v", fb.calls)
	}
}

func TestSetFramebufferAllocatesAttachmentStorage(t *testing.T) {
	r, fb := newTestRenderer(t)
	fbo, _, _ := newTestFramebuffer()

	if err := r.SetFramebuffer(fbo); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}

	// Both render targets have no pixel data; storage is still allocated.
	if got := fb.count("TexImage2D"); got != 2 {
		t.Errorf("expected storage for color and depth targets, got %d", got)
	}
}

func TestSetFramebufferNilSelectsDefault(t *testing.T) {
	r, fb := newTestRenderer(t)

	if err := r.SetFramebuffer(nil); err != nil {
		t.Fatalf("SetFramebuffer(nil): %v", err)
	}
	if got := fb.count("BindFramebuffer(0)"); got != 1 {
		t.Errorf("expected default target bind, got calls %v", fb.calls)
	}
}

func TestSetFramebufferIncomplete(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.completenessErr = errors.New("missing attachment")
	fbo, _, _ := newTestFramebuffer()

	if err := r.SetFramebuffer(fbo); err == nil {
		t.Fatal("expected incompleteness error")
	}
	// The configuration stays dirty; it was never validated.
	if !fbo.Dirty() {
		t.Error("expected framebuffer to remain dirty after failed validation")
	}
}

func TestSetTextureAfterFramebufferAttachmentPass(t *testing.T) {
	r, fb := newTestRenderer(t)
	tex := rgbaTexture(4)
	fbo, color, _ := newTestFramebuffer()

	r.SetTexture(0, tex)

	// The attachment pass binds the targets on unit 0.
	if err := r.SetFramebuffer(fbo); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}

	// Unit 0 no longer holds tex; re-requesting it must re-bind even
	// though the texture itself is clean.
	fb.reset()
	r.SetTexture(0, tex)
	if got := fb.count("BindTexture"); got != 1 {
		t.Errorf("expected re-bind after attachment pass, got %d bind calls", got)
	}
	if got := fb.count("TexImage2D"); got != 0 {
		t.Errorf("expected no re-upload of clean texture, got %d", got)
	}

	// The tracker stays truthful the other way too: the last attached
	// target counts as bound on unit 0 and is elided.
	if err := r.SetFramebuffer(nil); err != nil {
		t.Fatalf("SetFramebuffer(nil): %v", err)
	}
	fbo2 := texture.NewFramebuffer(128, 128, []*texture.Texture{color}, nil)
	if err := r.SetFramebuffer(fbo2); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}
	fb.reset()
	r.SetTexture(0, color)
	if len(fb.calls) != 0 {
		t.Errorf("expected elision of the texture just bound on unit 0, got %v", fb.calls)
	}
}

func TestSetFramebufferMarkDirtyReattaches(t *testing.T) {
	r, fb := newTestRenderer(t)
	fbo, _, _ := newTestFramebuffer()

	if err := r.SetFramebuffer(fbo); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}
	fb.reset()

	fbo.MarkDirty()
	if err := r.SetFramebuffer(fbo); err != nil {
		t.Fatalf("SetFramebuffer: %v", err)
	}
	if got := fb.count("FramebufferTexture2D"); got != 2 {
		t.Errorf("expected re-attachment after MarkDirty, got %d", got)
	}
	if got := fb.count("CheckFramebufferComplete"); got != 1 {
		t.Errorf("expected re-validation after MarkDirty, got %d", got)
	}
}
