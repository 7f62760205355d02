package tectonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTimerRelayCommandChain exercises scenario 1: a logic_timer's OnTimer
// drives a logic_relay's Trigger, which drives a point_servercommand's
// Command, all same-tick, and the console ends up with the literal line
// produced by "echo hello".
func TestTimerRelayCommandChain(t *testing.T) {
	log := NewCapturingLogger()
	e := NewEngine(Collaborators{}, log)

	timerRef, err := e.Scene.AddLogic(Logic{
		Common:     Common{Targetname: "timer1"},
		Classname:  "logic_timer",
		Properties: map[string]string{"delay": "0.5"},
	})
	require.NoError(t, err)

	relayRef, err := e.Scene.AddLogic(Logic{
		Common:    Common{Targetname: "relay1"},
		Classname: "logic_relay",
		Active:    true,
	})
	require.NoError(t, err)

	_, err = e.Scene.AddLogic(Logic{
		Common:     Common{Targetname: "cmd1"},
		Classname:  "point_servercommand",
		Properties: map[string]string{"command": "echo hello"},
	})
	require.NoError(t, err)

	_, err = e.AddConnection(KindLogic, timerRef.Index, "OnTimer", "relay1", "Trigger", "", 0, false)
	require.NoError(t, err)
	_, err = e.AddConnection(KindLogic, relayRef.Index, "OnTrigger", "cmd1", "Command", "", 0, false)
	require.NoError(t, err)

	e.executeLogicInput(timerRef.Index, "StartTimer", "")

	// Two quarter-second frames land exactly on the timer's 0.5s delay.
	e.Tick(0.25)
	assert.Empty(t, log.Lines, "the timer must not fire before its delay elapses")
	e.Tick(0.25)

	require.Len(t, e.pending, 0, "the chain must fully drain within the tick that crosses the delay")
	require.Contains(t, log.Lines, "hello")
}

func TestLogicRelayNeverFiresWhileDisabled(t *testing.T) {
	log := NewCapturingLogger()
	e := NewEngine(Collaborators{}, log)

	relayRef, err := e.Scene.AddLogic(Logic{
		Common:    Common{Targetname: "relay1"},
		Classname: "logic_relay",
		Active:    false,
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		e.executeLogicInput(relayRef.Index, "Trigger", "")
	}
	assert.Empty(t, e.pending, "a disabled relay must swallow every Trigger")
}

func TestLogicCompareFiresConsistentSubset(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	ref, err := e.Scene.AddLogic(Logic{
		Common:     Common{Targetname: "cmp1"},
		Classname:  "logic_compare",
		Properties: map[string]string{"compare_value": "5"},
	})
	require.NoError(t, err)

	_, err = e.AddConnection(KindLogic, ref.Index, "OnGreaterThan", "cmp1", "Compare", "", 0, false)
	require.NoError(t, err)
	_, err = e.AddConnection(KindLogic, ref.Index, "OnNotEqualTo", "cmp1", "Compare", "ne", 0, false)
	require.NoError(t, err)
	_, err = e.AddConnection(KindLogic, ref.Index, "OnLessThan", "cmp1", "Compare", "lt", 0, false)
	require.NoError(t, err)
	_, err = e.AddConnection(KindLogic, ref.Index, "OnEqualTo", "cmp1", "Compare", "eq", 0, false)
	require.NoError(t, err)

	e.executeLogicInput(ref.Index, "SetValue", "7")
	e.executeLogicInput(ref.Index, "Compare", "")

	// 7 > 5, so both OnGreaterThan and OnNotEqualTo are expected to fire
	// (see DESIGN.md): independent-if semantics, not a mutually exclusive chain.
	l := &e.Scene.LogicEntities[ref.Index]
	assert.Equal(t, float32(7), l.FloatA)
	require.Len(t, e.pending, 2)
	assert.Equal(t, "", e.pending[0].Parameter, "OnGreaterThan fires first")
	assert.Equal(t, "ne", e.pending[1].Parameter, "OnNotEqualTo fires alongside it")
}
