package tectonic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandDispatchesToHandler(t *testing.T) {
	cvars := NewCvarStore(nil)
	table := NewCommandTable(cvars, nil)

	var gotArgv []string
	table.Register("echo_test", func(e *Engine, argv []string) error {
		gotArgv = argv
		return nil
	}, "test command", CommandNone)

	table.Execute(nil, []string{"echo_test", "a", "b"})
	assert.Equal(t, []string{"echo_test", "a", "b"}, gotArgv)
}

func TestCommandFallsBackToCvarStore(t *testing.T) {
	log := NewCapturingLogger()
	cvars := NewCvarStore(log)
	cvars.Register("fov_vertical", "55", "vertical fov", CvarNone)
	table := NewCommandTable(cvars, log)

	table.Execute(nil, []string{"fov_vertical", "90"})
	assert.Equal(t, float32(90), cvars.GetFloat("fov_vertical"))

	table.Execute(nil, []string{"fov_vertical"})
	require.NotEmpty(t, log.Lines)
	assert.Contains(t, log.Lines[len(log.Lines)-1], "fov_vertical = 90")
}

func TestCommandCheatGating(t *testing.T) {
	log := NewCapturingLogger()
	cvars := NewCvarStore(log)
	cvars.Register("g_cheats", "0", "", CvarNone)
	table := NewCommandTable(cvars, log)

	called := false
	table.Register("noclip_toggle", func(e *Engine, argv []string) error {
		called = true
		return nil
	}, "", CommandCheat)

	table.Execute(nil, []string{"noclip_toggle"})
	assert.False(t, called, "a cheat-flagged command must not run while cheats are disabled")

	cvars.Set("g_cheats", "1")
	table.Execute(nil, []string{"noclip_toggle"})
	assert.True(t, called)
}

func TestCommandHandlerErrorIsLoggedNotPanicked(t *testing.T) {
	log := NewCapturingLogger()
	cvars := NewCvarStore(log)
	table := NewCommandTable(cvars, log)

	table.Register("broken", func(e *Engine, argv []string) error {
		return errors.New("boom")
	}, "", CommandNone)

	assert.NotPanics(t, func() {
		table.Execute(nil, []string{"broken"})
	})
	require.NotEmpty(t, log.Lines)
	assert.Contains(t, log.Lines[len(log.Lines)-1], "boom")
}

func TestCommandUnknownNameLogsError(t *testing.T) {
	log := NewCapturingLogger()
	table := NewCommandTable(NewCvarStore(log), log)

	table.Execute(nil, []string{"does_not_exist"})
	require.NotEmpty(t, log.Lines)
	assert.Contains(t, log.Lines[len(log.Lines)-1], "unknown command or cvar")
}
