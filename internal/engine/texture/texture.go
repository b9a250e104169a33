// Package texture provides the texture and framebuffer descriptors
// consumed by the renderer. Both are passive data holders; the renderer
// caches GPU objects for them keyed by identity.
package texture

import "github.com/Faultbox/prism/internal/engine/resource"

// Format is the pixel format of a texture.
type Format int

const (
	Red Format = iota // single channel
	RGB
	RGBA
	Depth

	formatCount
)

// FormatCount is the number of pixel formats.
const FormatCount = int(formatCount)

// Filter selects the sampling filter.
type Filter int

const (
	Nearest Filter = iota
	Linear

	filterCount
)

// FilterCount is the number of filter modes.
const FilterCount = int(filterCount)

// Wrap selects the sampling wrap mode for one axis.
type Wrap int

const (
	Clamp Wrap = iota
	Repeat

	wrapCount
)

// WrapCount is the number of wrap modes.
const WrapCount = int(wrapCount)

// UploadState tracks what must be pushed to the GPU at next resolve.
// Content and params dirtiness are independent axes folded into one
// closed set, so invalid flag combinations cannot exist.
type UploadState uint8

const (
	Clean UploadState = iota
	ContentDirty
	ParamsDirty
	ContentAndParams
)

func (s UploadState) content() bool { return s == ContentDirty || s == ContentAndParams }
func (s UploadState) params() bool  { return s == ParamsDirty || s == ContentAndParams }

func (s UploadState) markContent() UploadState {
	if s.params() {
		return ContentAndParams
	}
	return ContentDirty
}

func (s UploadState) markParams() UploadState {
	if s.content() {
		return ContentAndParams
	}
	return ParamsDirty
}

func (s UploadState) clearContent() UploadState {
	if s.params() {
		return ParamsDirty
	}
	return Clean
}

func (s UploadState) clearParams() UploadState {
	if s.content() {
		return ContentDirty
	}
	return Clean
}

// Texture is a logical 2D texture. Pixels may be nil: a texture created
// without data (a render target) gets GPU storage allocated on first
// resolve, and a texture whose pixels were released after upload keeps
// rendering from the GPU copy.
type Texture struct {
	id     resource.ID
	width  int32
	height int32
	format Format

	pixels   []byte
	keepData bool

	minFilter Filter
	magFilter Filter
	wrapU     Wrap
	wrapV     Wrap

	state UploadState
}

// NewTexture creates a texture descriptor. A new texture is fully dirty
// so its first resolve performs a complete upload; filter defaults to
// Linear and wrap to Clamp on both axes.
func NewTexture(width, height int32, format Format) *Texture {
	return &Texture{
		id:        resource.NewID(),
		width:     width,
		height:    height,
		format:    format,
		keepData:  true,
		minFilter: Linear,
		magFilter: Linear,
		wrapU:     Clamp,
		wrapV:     Clamp,
		state:     ContentAndParams,
	}
}

// ID returns the cache identity.
func (t *Texture) ID() resource.ID { return t.id }

// Width returns the texture width in pixels.
func (t *Texture) Width() int32 { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int32 { return t.height }

// Format returns the pixel format.
func (t *Texture) Format() Format { return t.format }

// SetPixels assigns raw pixel data and marks the content dirty.
func (t *Texture) SetPixels(pixels []byte) {
	t.pixels = pixels
	if pixels != nil {
		t.state = t.state.markContent()
	}
}

// Pixels returns the host pixel buffer, or nil if absent or released.
func (t *Texture) Pixels() []byte { return t.pixels }

// ReleasePixels drops the host pixel buffer without touching dirty
// state. The buffer cannot be restored; re-upload requires SetPixels.
func (t *Texture) ReleasePixels() { t.pixels = nil }

// KeepData reports whether pixels survive their first upload.
func (t *Texture) KeepData() bool { return t.keepData }

// SetKeepData controls whether pixels are released after upload.
func (t *Texture) SetKeepData(keep bool) { t.keepData = keep }

// SetFilter sets the minification and magnification filters.
func (t *Texture) SetFilter(min, mag Filter) {
	if t.minFilter == min && t.magFilter == mag {
		return
	}
	t.minFilter = min
	t.magFilter = mag
	t.state = t.state.markParams()
}

// MinFilter returns the minification filter.
func (t *Texture) MinFilter() Filter { return t.minFilter }

// MagFilter returns the magnification filter.
func (t *Texture) MagFilter() Filter { return t.magFilter }

// SetWrap sets the wrap mode per axis.
func (t *Texture) SetWrap(u, v Wrap) {
	if t.wrapU == u && t.wrapV == v {
		return
	}
	t.wrapU = u
	t.wrapV = v
	t.state = t.state.markParams()
}

// WrapU returns the horizontal wrap mode.
func (t *Texture) WrapU() Wrap { return t.wrapU }

// WrapV returns the vertical wrap mode.
func (t *Texture) WrapV() Wrap { return t.wrapV }

// State returns the pending upload state.
func (t *Texture) State() UploadState { return t.state }

// MarkContentDirty requests a pixel re-upload. Ignored when no pixel
// buffer is assigned, since there would be nothing to upload.
func (t *Texture) MarkContentDirty() {
	if t.pixels == nil {
		return
	}
	t.state = t.state.markContent()
}

// ClearContentDirty marks the pixel data as uploaded.
func (t *Texture) ClearContentDirty() { t.state = t.state.clearContent() }

// ClearParamsDirty marks the sampling parameters as applied.
func (t *Texture) ClearParamsDirty() { t.state = t.state.clearParams() }
