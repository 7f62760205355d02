package tectonic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRunningTracksEngineRunningCvar(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	assert.True(t, e.Running())

	e.Commands.Execute(e, []string{"quit"})
	assert.False(t, e.Running())
}

func TestEngineTickScalesByTimescale(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	e.Cvars.EngineSet("timescale", "2.0")

	e.Tick(0.1)
	assert.InDelta(t, 0.2, e.Now(), 1e-6, "scaledDt must apply the timescale cvar")
}

func TestEngineTickIgnoresNonPositiveTimescale(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	e.Cvars.EngineSet("timescale", "0")

	e.Tick(0.1)
	assert.InDelta(t, 0.1, e.Now(), 1e-6, "timescale <= 0 must fall back to 1.0")
}

func TestSubmitCommandLineDrainsOnNextTick(t *testing.T) {
	log := NewCapturingLogger()
	e := NewEngine(Collaborators{}, log)

	e.SubmitCommandLine("echo queued")
	e.Tick(0)

	require.NotEmpty(t, log.Lines)
	assert.Equal(t, "queued", log.Lines[len(log.Lines)-1])
}

func TestFrameLimiterSleep(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameLimiterSleep(0, 0), "fps_max <= 0 disables the limiter")

	target := time.Second / 100
	assert.Equal(t, target, frameLimiterSleep(100, 0))
	assert.Equal(t, time.Duration(0), frameLimiterSleep(100, target*2), "never sleep once the frame already overran the target")
}
