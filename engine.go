package tectonic

import (
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002/external"
)

// Engine is the single, explicitly-constructed aggregate every subsystem operates
// through (Design Notes §9: no module-level state, no global singletons). It owns
// the cvar store, command table, scene, I/O graph, undo stacks and the scaled
// clock that drives the per-frame tick described in spec.md §5.
type Engine struct {
	Cvars    *CvarStore
	Commands *CommandTable
	Scene    *Scene
	Undo     *UndoEngine
	Logger   Logger

	// MapSerializer backs the "map"/"save"/"load" commands. It is left nil by
	// NewEngine (the text grammar lives in the external tectonic/mapfile package,
	// which imports this package, so this package cannot import it back without a
	// cycle); callers wire a concrete Serializer in after construction.
	MapSerializer MapSerializer

	connections []Connection
	nextConnID  ConnectionID
	pending     []PendingEvent

	rng *rand.Rand

	// Clock, in scaled seconds since engine start.
	lastFrame  float32
	unscaledDt float32
	scaledDt   float32

	Camera CameraState

	// Shake state env_shake writes directly into, per spec.md §4.4.
	ShakeAmplitude     float32
	ShakeFrequency     float32
	ShakeDurationTimer float32

	ipcQueue chan string
}

// CameraState is the minimal camera state the trigger/logic runtime needs (full
// camera control belongs to the out-of-scope renderer/input modules).
type CameraState struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
}

// NewEngine builds an Engine with fresh subsystems. collabs may be the zero value;
// untouched fields fall back to stub implementations so tests never need GL/OpenAL.
func NewEngine(collabs Collaborators, log Logger) *Engine {
	if log == nil {
		log = NewNopLogger()
	}
	if collabs.Renderer == nil {
		collabs.Renderer = external.NewStubRenderer()
	}
	if collabs.Physics == nil {
		collabs.Physics = external.NewStubPhysics()
	}
	if collabs.Video == nil {
		collabs.Video = external.NewStubVideoDecoder()
	}
	if collabs.Sound == nil {
		collabs.Sound = external.NewStubSoundEngine()
	}

	cvars := NewCvarStore(log)
	e := &Engine{
		Cvars:    cvars,
		Logger:   log,
		rng:      rand.New(rand.NewPCG(1, 2)),
		ipcQueue: make(chan string, 64),
	}
	e.Commands = NewCommandTable(cvars, log)
	e.Scene = NewScene(collabs, log)
	e.Undo = NewUndoEngine(e.Scene)

	registerRequiredCvars(cvars)
	registerRequiredCommands(e.Commands)
	return e
}

// SeedRNG replaces the engine's PRNG source; used by deterministic tests that
// exercise logic_random/rand_uniform.
func (e *Engine) SeedRNG(seed1, seed2 uint64) {
	e.rng = rand.New(rand.NewPCG(seed1, seed2))
}

// randUniform returns a uniform float in [lo, hi). Grounded on rand_float_range in
// the original engine/io_system.c; math/rand/v2 is the grounded choice because
// nothing in the example pack supplies a gameplay PRNG.
func (e *Engine) randUniform(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + e.rng.Float32()*(hi-lo)
}

// Tick advances the engine by one frame: IPC drain, logic tick, trigger tick,
// pending I/O dispatch. Physics/animation/render steps are external collaborators
// and are not invoked here; callers wire them around Tick per spec.md §5.
func (e *Engine) Tick(unscaledDt float32) {
	e.drainIPC()

	timescale := e.Cvars.GetFloat("timescale")
	if timescale <= 0 {
		timescale = 1
	}
	e.unscaledDt = unscaledDt
	e.scaledDt = unscaledDt * timescale
	e.lastFrame += e.scaledDt

	e.updateLogic(e.scaledDt)
	e.updateTriggers(e.scaledDt)
	e.ProcessPending(e.lastFrame)
}

// Now returns the engine's scaled clock, used as the "now" argument to FireOutput
// and ProcessPending by callers outside Tick (e.g. tests).
func (e *Engine) Now() float32 { return e.lastFrame }

// SetNow overrides the scaled clock; used by deterministic tests (spec.md §8
// scenarios reason about exact simulation times).
func (e *Engine) SetNow(t float32) { e.lastFrame = t }

// drainIPC pulls any buffered newline-delimited commands from the non-blocking
// IPC/stdin channel and executes them, per spec.md §5 step 2.
func (e *Engine) drainIPC() {
	for {
		select {
		case line := <-e.ipcQueue:
			e.Commands.Execute(e, tokenize(line))
		default:
			return
		}
	}
}

// SubmitCommandLine enqueues a raw command line from the IPC listener or stdin
// reader. Never blocks: a full queue drops the line with a logged error, matching
// the "engine invariant error" policy in spec.md §7.
func (e *Engine) SubmitCommandLine(line string) {
	select {
	case e.ipcQueue <- line:
	default:
		e.Logger.Errorf("command queue full, dropping: %s", line)
	}
}

// Running reports whether the frame loop should continue; observes the
// "engine_running" cvar, which quit/exit set to 0 (spec.md §5 Cancellation).
func (e *Engine) Running() bool { return e.Cvars.GetBool("engine_running") }

// frameLimiterSleep computes the sleep duration spec.md §5 specifies when v-sync
// is off and fps_max > 0: max(0, 1000/fps_max - frame_ms).
func frameLimiterSleep(fpsMax int32, frameTime time.Duration) time.Duration {
	if fpsMax <= 0 {
		return 0
	}
	target := time.Second / time.Duration(fpsMax)
	if frameTime >= target {
		return 0
	}
	return target - frameTime
}
