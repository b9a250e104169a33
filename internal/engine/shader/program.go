// Package shader provides the shader program descriptor consumed by
// the renderer: GLSL stage sources, the ordered set of vertex
// attributes the program consumes, and its current uniform values.
package shader

import (
	"github.com/Faultbox/prism/internal/engine/geometry"
	"github.com/Faultbox/prism/internal/engine/resource"
	"github.com/Faultbox/prism/pkg/math"
)

// Program is a logical shader program. The compiled GPU representation
// is cached once per identity and is immutable; only uniform values
// change afterwards.
type Program struct {
	id resource.ID

	vertexSrc   string
	fragmentSrc string
	attributes  []geometry.Attribute

	uniforms []Uniform
	index    map[string]int
}

// NewProgram creates a program descriptor from stage sources and the
// vertex attributes the program consumes, in declaration order.
func NewProgram(vertexSrc, fragmentSrc string, attributes ...geometry.Attribute) *Program {
	return &Program{
		id:          resource.NewID(),
		vertexSrc:   vertexSrc,
		fragmentSrc: fragmentSrc,
		attributes:  attributes,
		index:       make(map[string]int),
	}
}

// ID returns the cache identity.
func (p *Program) ID() resource.ID { return p.id }

// VertexSource returns the vertex stage GLSL source.
func (p *Program) VertexSource() string { return p.vertexSrc }

// FragmentSource returns the fragment stage GLSL source.
func (p *Program) FragmentSource() string { return p.fragmentSrc }

// Attributes returns the consumed attribute kinds in declaration order.
func (p *Program) Attributes() []geometry.Attribute { return p.attributes }

// Uniforms returns the current uniform values in declaration order.
func (p *Program) Uniforms() []Uniform { return p.uniforms }

// Uniform returns the uniform with the given name, if set.
func (p *Program) Uniform(name string) (Uniform, bool) {
	i, ok := p.index[name]
	if !ok {
		return Uniform{}, false
	}
	return p.uniforms[i], true
}

func (p *Program) set(name string, typ UniformType, value any) {
	if i, ok := p.index[name]; ok {
		p.uniforms[i].Type = typ
		p.uniforms[i].Value = value
		return
	}
	p.index[name] = len(p.uniforms)
	p.uniforms = append(p.uniforms, Uniform{Name: name, Type: typ, Value: value})
}

// SetFloat sets a scalar float uniform.
func (p *Program) SetFloat(name string, v float32) { p.set(name, Float, v) }

// SetInt sets an integer uniform.
func (p *Program) SetInt(name string, v int32) { p.set(name, Int, v) }

// SetSampler sets a sampler uniform to a texture unit index.
func (p *Program) SetSampler(name string, unit int32) { p.set(name, Sampler2D, unit) }

// SetVec2 sets a 2-component vector uniform.
func (p *Program) SetVec2(name string, v math.Vec2) { p.set(name, Vec2, v) }

// SetVec3 sets a 3-component vector uniform.
func (p *Program) SetVec3(name string, v math.Vec3) { p.set(name, Vec3, v) }

// SetVec4 sets a 4-component vector uniform.
func (p *Program) SetVec4(name string, v math.Vec4) { p.set(name, Vec4, v) }

// SetMat3 sets a 3x3 matrix uniform.
func (p *Program) SetMat3(name string, m math.Mat3) { p.set(name, Mat3, m) }

// SetMat4 sets a 4x4 matrix uniform.
func (p *Program) SetMat4(name string, m math.Mat4) { p.set(name, Mat4, m) }

// SetMat3Array sets a 3x3 matrix array uniform.
func (p *Program) SetMat3Array(name string, m []math.Mat3) { p.set(name, Mat3Array, m) }

// SetMat4Array sets a 4x4 matrix array uniform.
func (p *Program) SetMat4Array(name string, m []math.Mat4) { p.set(name, Mat4Array, m) }
