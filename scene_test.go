package tectonic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVideoPlayerEnforcesCapacity(t *testing.T) {
	s := NewScene(Collaborators{}, nil)
	for i := 0; i < maxVideoPlayers; i++ {
		_, err := s.AddVideoPlayer(VideoPlayer{})
		require.NoError(t, err)
	}

	_, err := s.AddVideoPlayer(VideoPlayer{})
	assert.Error(t, err, "the 33rd video player must be rejected")
	assert.Len(t, s.VideoPlayers, maxVideoPlayers)
}

func TestAddBrushTrimsClassnameWhitespace(t *testing.T) {
	s := NewScene(Collaborators{}, nil)
	ref, err := s.AddBrush(Brush{Classname: "  func_button  "})
	require.NoError(t, err)
	assert.Equal(t, "func_button", s.Brushes[ref.Index].Classname)
}

func TestDeleteBrushSwapRemoveDoesNotPreserveOrder(t *testing.T) {
	s := NewScene(Collaborators{}, nil)
	addTestBrush(t, s, "b0", 0)
	addTestBrush(t, s, "b1", 1)
	addTestBrush(t, s, "b2", 2)

	s.DeleteBrush(0)

	require.Len(t, s.Brushes, 2)
	assert.Equal(t, "b2", s.Brushes[0].Targetname, "swap-remove moves the last element into the deleted slot")
	assert.Equal(t, "b1", s.Brushes[1].Targetname)
}

func TestDeleteLightShiftRemovePreservesOrder(t *testing.T) {
	s := NewScene(Collaborators{}, nil)
	_, err := s.AddLight(Light{Common: Common{Targetname: "l0"}})
	require.NoError(t, err)
	_, err = s.AddLight(Light{Common: Common{Targetname: "l1"}})
	require.NoError(t, err)
	_, err = s.AddLight(Light{Common: Common{Targetname: "l2"}})
	require.NoError(t, err)

	s.DeleteLight(0)

	require.Len(t, s.Lights, 2)
	assert.Equal(t, "l1", s.Lights[0].Targetname, "shift-remove preserves the relative order of survivors")
	assert.Equal(t, "l2", s.Lights[1].Targetname)
}

func TestFindTargetnameSearchesAcrossKinds(t *testing.T) {
	s := NewScene(Collaborators{}, nil)
	_, err := s.AddLight(Light{Common: Common{Targetname: "alight", Pos: mgl32.Vec3{1, 2, 3}}})
	require.NoError(t, err)

	ref, pos, _, ok := s.FindTargetname("alight")
	require.True(t, ok)
	assert.Equal(t, EntityRef{KindLight, 0}, ref)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pos)

	_, _, _, ok = s.FindTargetname("missing")
	assert.False(t, ok)
}

func TestClearResetsEveryContainer(t *testing.T) {
	s := NewScene(Collaborators{}, nil)
	addTestBrush(t, s, "b0", 0)
	_, err := s.AddLight(Light{})
	require.NoError(t, err)
	_, err = s.AddLogic(Logic{})
	require.NoError(t, err)
	s.HasPlayerStart = true

	s.Clear()

	assert.Empty(t, s.Brushes)
	assert.Empty(t, s.Lights)
	assert.Empty(t, s.LogicEntities)
	assert.False(t, s.HasPlayerStart)
}
