package tectonic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBrushCloneDeepCopiesSlicesAndMaps(t *testing.T) {
	b := Brush{
		Classname:  "func_detail",
		Properties: map[string]string{"material": "concrete"},
		Vertices:   []BrushVertex{{Pos: mgl32.Vec3{0, 0, 0}}},
		Faces: []BrushFace{
			{VertexIndices: []int{0, 1, 2}, Layers: []MaterialLayer{{MaterialPath: "tex/a"}}},
		},
	}

	c := b.Clone()
	c.Properties["material"] = "wood"
	c.Vertices[0].Pos[0] = 99
	c.Faces[0].VertexIndices[0] = 5
	c.Faces[0].Layers[0].MaterialPath = "tex/b"

	assert.Equal(t, "concrete", b.Properties["material"], "mutating the clone's property map must not affect the original")
	assert.Equal(t, float32(0), b.Vertices[0].Pos[0], "mutating the clone's vertices must not affect the original")
	assert.Equal(t, 0, b.Faces[0].VertexIndices[0])
	assert.Equal(t, "tex/a", b.Faces[0].Layers[0].MaterialPath)
}

func TestLogicCloneDeepCopiesPropertyMap(t *testing.T) {
	l := Logic{Classname: "logic_relay", Properties: map[string]string{"key": "orig"}}

	c := l.Clone()
	c.Properties["key"] = "changed"

	assert.Equal(t, "orig", l.Properties["key"], "mutating the clone's property map must not affect the original")
}
