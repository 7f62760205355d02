package tectonic

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxBrush(classname string, props map[string]string) Brush {
	return Brush{
		Classname:  classname,
		Properties: props,
		Vertices: []BrushVertex{
			{Pos: mgl32.Vec3{-5, -5, -5}},
			{Pos: mgl32.Vec3{5, 5, 5}},
		},
	}
}

func TestTriggerOnceFiresOnlyOnce(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddBrush(boxBrush("trigger_once", nil))
	require.NoError(t, err)
	_, err = e.AddConnection(KindBrush, ref.Index, "OnStartTouch", "unused", "Unused", "", 0, false)
	require.NoError(t, err)

	e.Camera.Position = mgl32.Vec3{100, 100, 100}
	e.updateTriggers(0.1)
	assert.Empty(t, e.pending)

	e.Camera.Position = mgl32.Vec3{0, 0, 0}
	e.updateTriggers(0.1)
	require.Len(t, e.pending, 1, "entering must fire OnStartTouch")

	e.pending = nil
	e.Camera.Position = mgl32.Vec3{100, 100, 100}
	e.updateTriggers(0.1)
	e.Camera.Position = mgl32.Vec3{0, 1, 0}
	e.updateTriggers(0.1)
	assert.Empty(t, e.pending, "a trigger_once brush never re-fires after HasFired")
}

func TestTriggerMultipleFiresEnterAndLeave(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddBrush(boxBrush("trigger_multiple", nil))
	require.NoError(t, err)
	_, err = e.AddConnection(KindBrush, ref.Index, "OnStartTouch", "unused", "Unused", "", 0, false)
	require.NoError(t, err)
	_, err = e.AddConnection(KindBrush, ref.Index, "OnEndTouch", "unused_end", "Unused", "", 0, false)
	require.NoError(t, err)

	e.Camera.Position = mgl32.Vec3{0, 0, 0}
	e.updateTriggers(0.1)
	require.Len(t, e.pending, 1)
	assert.Equal(t, "OnStartTouch", connectionOutputFor(e, e.pending[0]))

	e.pending = nil
	e.Camera.Position = mgl32.Vec3{100, 0, 0}
	e.updateTriggers(0.1)
	require.Len(t, e.pending, 1)
	assert.Equal(t, "OnEndTouch", connectionOutputFor(e, e.pending[0]))
}

func TestTriggerHurtAppliesDamagePerSecondUnlessGod(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	e.Cvars.EngineSet("health", "100")
	_, err := e.Scene.AddBrush(boxBrush("trigger_hurt", map[string]string{"damage": "20"}))
	require.NoError(t, err)

	e.Camera.Position = mgl32.Vec3{0, 0, 0}
	e.updateTriggers(0.5)
	assert.Equal(t, float32(90), e.Cvars.GetFloat("health"))

	e.Cvars.EngineSet("god", "1")
	e.updateTriggers(0.5)
	assert.Equal(t, float32(90), e.Cvars.GetFloat("health"), "god mode must stop trigger_hurt damage")
}

func TestUpdateRotatingSnapsWithoutAccdcc(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	b := &Brush{Runtime: BrushRuntime{TargetAngularVelocity: 90}}
	e.updateRotating(b, 1.0)
	assert.Equal(t, float32(90), b.Runtime.CurrentAngularVelocity)
	assert.Equal(t, float32(90), b.Rot[1])
}

func TestUpdateRotatingWrapsPastFullCircle(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	b := &Brush{Rot: mgl32.Vec3{0, 350, 0}, Runtime: BrushRuntime{TargetAngularVelocity: 36}}
	e.updateRotating(b, 1.0)
	assert.InDelta(t, 26, b.Rot[1], 1e-4)
}

func TestUpdatePendulumSwingsAroundRestPosition(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	b := &Brush{Common: Common{Pos: mgl32.Vec3{0, 0, 0}}, Properties: map[string]string{"speed": "0.25", "distance": "10"}}
	e.updatePendulum(b, 1.0) // quarter period -> sin(pi/2) == 1
	assert.InDelta(t, 10, b.Pos.X(), 0.01)
}

func TestUpdateWeightButtonEdgeTriggers(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddBrush(Brush{Classname: "func_weight_button", Properties: map[string]string{"weight": "50"}})
	require.NoError(t, err)
	_, err = e.AddConnection(KindBrush, ref.Index, "OnPressed", "unused", "Unused", "", 0, false)
	require.NoError(t, err)
	_, err = e.AddConnection(KindBrush, ref.Index, "OnReleased", "unused_released", "Unused", "", 0, false)
	require.NoError(t, err)

	b := &e.Scene.Brushes[ref.Index]
	b.Runtime.SupportedMass = 60
	e.updateWeightButton(ref.Index, b)
	require.Len(t, e.pending, 1)
	assert.Equal(t, "OnPressed", connectionOutputFor(e, e.pending[0]))

	e.pending = nil
	e.updateWeightButton(ref.Index, b)
	assert.Empty(t, e.pending, "staying above threshold must not refire OnPressed")

	b.Runtime.SupportedMass = 0
	e.updateWeightButton(ref.Index, b)
	require.Len(t, e.pending, 1)
	assert.Equal(t, "OnReleased", connectionOutputFor(e, e.pending[0]))
}

func TestUpdateWaterSetsUnderwaterFromCameraPosition(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	b := boxBrush("func_water", nil)
	e.Camera.Position = mgl32.Vec3{0, 0, 0}
	e.updateWater(&b, e.Camera.Position)
	assert.True(t, e.Scene.Post.Underwater)

	e.updateWater(&b, mgl32.Vec3{100, 100, 100})
	assert.False(t, e.Scene.Post.Underwater)
}

func TestUpdatePlatRisesOnTouchThenReturns(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	b := &Brush{Classname: "func_plat", Properties: map[string]string{"height": "10", "speed": "50", "wait": "0"}}
	b.Vertices = []BrushVertex{{Pos: mgl32.Vec3{-1, -1, -1}}, {Pos: mgl32.Vec3{1, 1, 1}}}

	e.updatePlat(b, 0.1, mgl32.Vec3{0, 0, 0})
	assert.Equal(t, PlatUp, b.Runtime.PlatState)

	e.updatePlat(b, 1.0, mgl32.Vec3{0, 0, 0})
	assert.Equal(t, PlatTop, b.Runtime.PlatState)
	assert.InDelta(t, 10, b.Pos.Y(), 0.01)

	e.updatePlat(b, 0.01, mgl32.Vec3{100, 100, 100})
	assert.Equal(t, PlatDown, b.Runtime.PlatState)

	e.updatePlat(b, 1.0, mgl32.Vec3{100, 100, 100})
	assert.Equal(t, PlatBottom, b.Runtime.PlatState)
	assert.InDelta(t, 0, b.Pos.Y(), 0.01)
}
