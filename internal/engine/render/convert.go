package render

import (
	"fmt"

	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/texture"
)

// Translation tables from the closed descriptor enums to backend
// constants. Array-indexed so an unmapped tag is a zero entry, which
// the init check below turns into a startup panic instead of a silent
// wrong draw.

var blendFuncs = [blendingCount]struct{ src, dst Enum }{
	BlendAlpha:    {SRC_ALPHA, ONE_MINUS_SRC_ALPHA},
	BlendAdditive: {SRC_ALPHA, ONE},
}

var cullFaces = [cullingCount]Enum{
	CullBackFace:  BACK,
	CullFrontFace: FRONT,
}

var polygonModes = [renderModeCount]Enum{
	Fill:      FILL,
	Wireframe: LINE,
}

var textureFormats = [texture.FormatCount]Enum{
	texture.Red:   RED,
	texture.RGB:   RGB,
	texture.RGBA:  RGBA,
	texture.Depth: DEPTH_COMPONENT,
}

var textureFilters = [texture.FilterCount]Enum{
	texture.Nearest: NEAREST,
	texture.Linear:  LINEAR,
}

var textureWraps = [texture.WrapCount]Enum{
	texture.Clamp:  CLAMP_TO_EDGE,
	texture.Repeat: REPEAT,
}

var bufferUsages = [geometry.UsageCount]Enum{
	geometry.StaticDraw:  STATIC_DRAW,
	geometry.DynamicDraw: DYNAMIC_DRAW,
	geometry.StreamDraw:  STREAM_DRAW,
}

var primitives = [geometry.PrimitiveCount]Enum{
	geometry.Triangles:     TRIANGLES,
	geometry.TriangleStrip: TRIANGLE_STRIP,
}

// Index widths are byte sizes (1, 2, 4), not contiguous tags.
var indexTypes = [5]Enum{
	geometry.Index8:  UNSIGNED_BYTE,
	geometry.Index16: UNSIGNED_SHORT,
	geometry.Index32: UNSIGNED_INT,
}

func init() {
	check := func(table []Enum, name string) {
		for tag, e := range table {
			if e == 0 {
				panic(fmt.Sprintf("render: %s table has no mapping for tag %d", name, tag))
			}
		}
	}
	for tag := BlendAlpha; tag < blendingCount; tag++ {
		if blendFuncs[tag].src == 0 {
			panic(fmt.Sprintf("render: blend func table has no mapping for tag %d", tag))
		}
	}
	for tag := CullBackFace; tag < cullingCount; tag++ {
		if cullFaces[tag] == 0 {
			panic(fmt.Sprintf("render: cull face table has no mapping for tag %d", tag))
		}
	}
	check(polygonModes[:], "polygon mode")
	check(textureFormats[:], "texture format")
	check(textureFilters[:], "texture filter")
	check(textureWraps[:], "texture wrap")
	check(bufferUsages[:], "buffer usage")
	check(primitives[:], "primitive")
	for _, w := range []geometry.IndexWidth{geometry.Index8, geometry.Index16, geometry.Index32} {
		if indexTypes[w] == 0 {
			panic(fmt.Sprintf("render: index type table has no mapping for width %d", w))
		}
	}
}
