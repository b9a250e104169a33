package shader

import "github.com/Faultbox/prism/pkg/math"

// UniformType is the closed set of value shapes a uniform can carry.
// The draw pipeline dispatches on it to marshal the value into the
// layout the graphics API expects.
type UniformType int

const (
	Float UniformType = iota
	Int
	Sampler2D
	Vec2
	Vec3
	Vec4
	Mat3
	Mat4
	Mat3Array
	Mat4Array

	uniformTypeCount
)

// UniformTypeCount is the number of uniform type tags.
const UniformTypeCount = int(uniformTypeCount)

// Uniform is a named, typed value held by a shader program. Values
// change per draw without invalidating the cached compiled program.
type Uniform struct {
	Name  string
	Type  UniformType
	Value any
}

// Float32 returns the scalar value of a Float uniform.
func (u Uniform) Float32() float32 { return u.Value.(float32) }

// Int32 returns the integer value of an Int or Sampler2D uniform.
func (u Uniform) Int32() int32 { return u.Value.(int32) }

// AsVec2 returns the value of a Vec2 uniform.
func (u Uniform) AsVec2() math.Vec2 { return u.Value.(math.Vec2) }

// AsVec3 returns the value of a Vec3 uniform.
func (u Uniform) AsVec3() math.Vec3 { return u.Value.(math.Vec3) }

// AsVec4 returns the value of a Vec4 uniform.
func (u Uniform) AsVec4() math.Vec4 { return u.Value.(math.Vec4) }

// AsMat3 returns the value of a Mat3 uniform.
func (u Uniform) AsMat3() math.Mat3 { return u.Value.(math.Mat3) }

// AsMat4 returns the value of a Mat4 uniform.
func (u Uniform) AsMat4() math.Mat4 { return u.Value.(math.Mat4) }

// AsMat3Array returns the value of a Mat3Array uniform.
func (u Uniform) AsMat3Array() []math.Mat3 { return u.Value.([]math.Mat3) }

// AsMat4Array returns the value of a Mat4Array uniform.
func (u Uniform) AsMat4Array() []math.Mat4 { return u.Value.([]math.Mat4) }
