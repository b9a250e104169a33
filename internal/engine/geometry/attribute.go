package geometry

// Attribute identifies a per-vertex data channel. Each kind has a fixed
// shader slot, component count and GLSL attribute name; slots are bound
// before program link so every program sees the same layout.
type Attribute int

const (
	Position Attribute = iota
	Normal
	UV
	Color

	attributeCount
)

// AttributeCount is the number of attribute kinds.
const AttributeCount = int(attributeCount)

var attributeInfo = [attributeCount]struct {
	slot       uint32
	components int32
	name       string
}{
	Position: {0, 3, "position"},
	Normal:   {1, 3, "normal"},
	UV:       {2, 2, "uv"},
	Color:    {3, 4, "color"},
}

// Attributes returns every attribute kind in slot order.
func Attributes() []Attribute {
	return []Attribute{Position, Normal, UV, Color}
}

// Slot returns the fixed vertex attribute slot for this kind.
func (a Attribute) Slot() uint32 {
	return attributeInfo[a].slot
}

// Components returns the number of float components per vertex.
func (a Attribute) Components() int32 {
	return attributeInfo[a].components
}

// Name returns the GLSL attribute name bound to the slot.
func (a Attribute) Name() string {
	return attributeInfo[a].name
}

func (a Attribute) String() string {
	return attributeInfo[a].name
}
