package tectonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterFiresOnHitMaxOnlyOnEdgeCross(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddLogic(Logic{
		Common:     Common{Targetname: "counter1"},
		Classname:  "math_counter",
		Properties: map[string]string{"min": "0", "max": "10"},
	})
	require.NoError(t, err)

	_, err = e.AddConnection(KindLogic, ref.Index, "OnHitMax", "unused", "Unused", "", 0, false)
	require.NoError(t, err)

	e.executeCounterInput(ref.Index, &e.Scene.LogicEntities[ref.Index], "Add", "10")
	require.Len(t, e.pending, 1, "crossing into max must fire OnHitMax")
	assert.Equal(t, float32(10), e.Scene.LogicEntities[ref.Index].FloatA)

	e.pending = nil
	e.executeCounterInput(ref.Index, &e.Scene.LogicEntities[ref.Index], "Add", "1")
	assert.Empty(t, e.pending, "staying pinned at max must not refire OnHitMax")
	assert.Equal(t, float32(10), e.Scene.LogicEntities[ref.Index].FloatA, "value stays clamped to max")
}

func TestCounterDivideByZeroLeavesValueUnchanged(t *testing.T) {
	log := NewCapturingLogger()
	e := NewEngine(Collaborators{}, log)
	ref, err := e.Scene.AddLogic(Logic{Common: Common{Targetname: "counter1"}, Classname: "math_counter"})
	require.NoError(t, err)

	e.Scene.LogicEntities[ref.Index].FloatA = 5
	e.executeCounterInput(ref.Index, &e.Scene.LogicEntities[ref.Index], "Div", "0")

	assert.Equal(t, float32(5), e.Scene.LogicEntities[ref.Index].FloatA)
	assert.NotEmpty(t, log.Lines)
}

func TestRandomEnableArmsWithinRange(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddLogic(Logic{
		Common:     Common{Targetname: "rand1"},
		Classname:  "logic_random",
		Properties: map[string]string{"min_time": "2", "max_time": "5"},
	})
	require.NoError(t, err)

	e.executeRandomInput(&e.Scene.LogicEntities[ref.Index], "Enable")

	l := e.Scene.LogicEntities[ref.Index]
	assert.True(t, l.Active)
	assert.GreaterOrEqual(t, l.FloatA, float32(2))
	assert.LessOrEqual(t, l.FloatA, float32(5))

	e.executeRandomInput(&e.Scene.LogicEntities[ref.Index], "Disable")
	assert.False(t, e.Scene.LogicEntities[ref.Index].Active)
}

func TestFadeInputsDriveStateMachine(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddLogic(Logic{Common: Common{Targetname: "fade1"}, Classname: "env_fade"})
	require.NoError(t, err)
	l := &e.Scene.LogicEntities[ref.Index]

	e.executeFadeInput(l, "FadeIn")
	assert.Equal(t, int32(FadeIn), l.IntA)

	l.Runtime.FadeAlpha = 0.8
	e.executeFadeInput(l, "FadeOut")
	assert.Equal(t, int32(FadeOut), l.IntA)
	assert.Equal(t, float32(0.8), l.Runtime.FadeFrom)
}

func TestShakeStartRespectsGlobalFlag(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddLogic(Logic{
		Common:    Common{Targetname: "shake1"},
		Classname: "env_shake",
		Properties: map[string]string{
			"globalshake": "1",
			"amplitude":   "2.5",
			"frequency":   "1.5",
			"duration":    "3",
		},
	})
	require.NoError(t, err)

	e.executeShakeInput(&e.Scene.LogicEntities[ref.Index], "StartShake")
	assert.Equal(t, float32(2.5), e.ShakeAmplitude)
	assert.Equal(t, float32(3), e.ShakeDurationTimer)

	e.executeShakeInput(&e.Scene.LogicEntities[ref.Index], "StopShake")
	assert.Equal(t, float32(0), e.ShakeAmplitude)
	assert.Equal(t, float32(0), e.ShakeDurationTimer)
}

func TestGameEndFiresDisconnect(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	_, err := e.Scene.AddLogic(Logic{Common: Common{Targetname: "end1"}, Classname: "game_end"})
	require.NoError(t, err)
	_, err = e.Scene.AddLogic(Logic{Common: Common{Targetname: "other"}, Classname: "logic_relay"})
	require.NoError(t, err)

	e.executeGameEndInput(&e.Scene.LogicEntities[0], "EndGame")
	assert.Empty(t, e.Scene.LogicEntities, "disconnect must clear the scene")
}

func TestModelPlayAnimationParsesNoloopSuffix(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref := e.Scene.AddModel(Model{Common: Common{Targetname: "model1"}, ModelPath: "models/test.glb"})

	e.executeModelInput(ref.Index, "PlayAnimation", "walk noloop")
	m := e.Scene.Models[ref.Index]
	assert.True(t, m.Anim.Playing)
	assert.False(t, m.Anim.Looping)

	e.executeModelInput(ref.Index, "PlayAnimation", "run")
	m = e.Scene.Models[ref.Index]
	assert.True(t, m.Anim.Looping)
}
