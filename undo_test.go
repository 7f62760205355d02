package tectonic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTestBrush(t *testing.T, s *Scene, name string, x float32) EntityRef {
	t.Helper()
	ref, err := s.AddBrush(Brush{Common: Common{Targetname: name, Pos: mgl32.Vec3{x, 0, 0}}, Classname: "func_detail"})
	require.NoError(t, err)
	return ref
}

// TestUndoMultiBrushDelete exercises scenario 5: deleting B0 and B2 together
// through a begin_multi/end_multi bundle, then undoing and redoing it, must
// restore/remove them at their original indices each time.
func TestUndoMultiBrushDelete(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	addTestBrush(t, e.Scene, "b0", 0)
	addTestBrush(t, e.Scene, "b1", 1)
	addTestBrush(t, e.Scene, "b2", 2)

	before0 := e.Undo.Snapshot(EntityRef{KindBrush, 0})
	before2 := e.Undo.Snapshot(EntityRef{KindBrush, 2})

	e.Undo.BeginMulti()
	e.Undo.PushDelete(EntityRef{KindBrush, 2}, before2)
	e.Undo.PushDelete(EntityRef{KindBrush, 0}, before0)
	e.Undo.EndMulti()

	e.Scene.DeleteBrush(2)
	e.Scene.DeleteBrush(0)

	require.Len(t, e.Scene.Brushes, 1)
	assert.Equal(t, "b1", e.Scene.Brushes[0].Targetname)

	require.True(t, e.Undo.Undo())
	require.Len(t, e.Scene.Brushes, 3)
	assert.Equal(t, "b0", e.Scene.Brushes[0].Targetname)
	assert.Equal(t, "b1", e.Scene.Brushes[1].Targetname)
	assert.Equal(t, "b2", e.Scene.Brushes[2].Targetname)

	require.True(t, e.Undo.Redo())
	require.Len(t, e.Scene.Brushes, 1)
	assert.Equal(t, "b1", e.Scene.Brushes[0].Targetname)
}

func TestUndoModifyRoundTrip(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref := addTestBrush(t, e.Scene, "b0", 0)

	before := e.Undo.Snapshot(ref)
	e.Scene.Brushes[ref.Index].Pos = mgl32.Vec3{5, 0, 0}
	e.Undo.PushModify(ref, before)

	require.True(t, e.Undo.Undo())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, e.Scene.Brushes[ref.Index].Pos)

	require.True(t, e.Undo.Redo())
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, e.Scene.Brushes[ref.Index].Pos)
}

func TestUndoMergeCoalescesConsecutiveDrags(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref := addTestBrush(t, e.Scene, "b0", 0)

	before := e.Undo.Snapshot(ref)
	e.Scene.Brushes[ref.Index].Pos = mgl32.Vec3{1, 0, 0}
	e.Undo.PushMerge(ref, before)

	e.Scene.Brushes[ref.Index].Pos = mgl32.Vec3{2, 0, 0}
	e.Undo.PushMerge(ref, before)

	e.Scene.Brushes[ref.Index].Pos = mgl32.Vec3{3, 0, 0}
	e.Undo.PushMerge(ref, before)

	assert.True(t, e.Undo.CanUndo())
	require.True(t, e.Undo.Undo(), "a held drag collapses to exactly one undo step")
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, e.Scene.Brushes[ref.Index].Pos)
	assert.False(t, e.Undo.CanUndo())
}

func TestUndoCreateThenUndoRedo(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref := addTestBrush(t, e.Scene, "b0", 0)
	e.Undo.PushCreate(ref)

	require.True(t, e.Undo.Undo())
	assert.Empty(t, e.Scene.Brushes, "undoing a create removes the entity again")

	require.True(t, e.Undo.Redo())
	require.Len(t, e.Scene.Brushes, 1)
	assert.Equal(t, "b0", e.Scene.Brushes[0].Targetname)
}
