package mapfile

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002"
)

func TestTextSerializerRoundTrip(t *testing.T) {
	src := tectonic.NewScene(tectonic.Collaborators{}, nil)
	src.Sun.Enabled = true
	src.Sun.Direction = mgl32.Vec3{0, -1, 0}
	src.Sun.Intensity = 3.5
	src.HasPlayerStart = true
	src.PlayerStart.Position = mgl32.Vec3{1, 2, 3}
	src.PlayerStart.Yaw = 90

	_, err := src.AddBrush(tectonic.Brush{
		Common:     tectonic.Common{Targetname: "wall1", Pos: mgl32.Vec3{1, 0, 0}},
		Classname:  "func_wall",
		Properties: map[string]string{"material": "concrete"},
		Vertices: []tectonic.BrushVertex{
			{Pos: mgl32.Vec3{0, 0, 0}},
			{Pos: mgl32.Vec3{1, 0, 0}},
			{Pos: mgl32.Vec3{1, 1, 0}},
		},
		Faces: []tectonic.BrushFace{
			{VertexIndices: []int{0, 1, 2}, Layers: []tectonic.MaterialLayer{{MaterialPath: "tex/wall"}}},
		},
	})
	require.NoError(t, err)

	_, err = src.AddLogic(tectonic.Logic{
		Common:     tectonic.Common{Targetname: "timer1"},
		Classname:  "logic_timer",
		Properties: map[string]string{"delay": "0.5"},
		Active:     true,
		FloatA:     0.25,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.map")
	ser := NewTextSerializer()
	require.NoError(t, ser.Save(path, src))

	dst := tectonic.NewScene(tectonic.Collaborators{}, nil)
	require.NoError(t, ser.Load(path, dst))

	assert.True(t, dst.Sun.Enabled)
	assert.InDelta(t, 3.5, dst.Sun.Intensity, 1e-4)
	assert.True(t, dst.HasPlayerStart)
	assert.InDelta(t, 90, dst.PlayerStart.Yaw, 1e-4)

	require.Len(t, dst.Brushes, 1)
	b := dst.Brushes[0]
	assert.Equal(t, "wall1", b.Targetname)
	assert.Equal(t, "func_wall", b.Classname)
	assert.Equal(t, "concrete", b.Properties["material"])
	require.Len(t, b.Vertices, 3)
	require.Len(t, b.Faces, 1)
	assert.Equal(t, []int{0, 1, 2}, b.Faces[0].VertexIndices)
	require.Len(t, b.Faces[0].Layers, 1)
	assert.Equal(t, "tex/wall", b.Faces[0].Layers[0].MaterialPath)

	require.Len(t, dst.LogicEntities, 1)
	l := dst.LogicEntities[0]
	assert.Equal(t, "logic_timer", l.Classname)
	assert.Equal(t, "0.5", l.Properties["delay"])
	assert.True(t, l.Active)
	assert.InDelta(t, 0.25, l.FloatA, 1e-4)
}
