package external

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// DefaultSoundEngine implements SoundEngine on top of gopxl/beep, the only audio
// collaborator stack present anywhere in the retrieved example pack. It decodes WAV
// buffers eagerly on LoadBuffer (the original engine's OpenAL mixer also loads
// samples fully into a buffer object rather than streaming), then plays/stops a
// beep.Ctrl per source.
type DefaultSoundEngine struct {
	mu         sync.Mutex
	speakerUp  bool
	buffers    map[BufferHandle]*beep.Buffer
	bufferOf   map[SourceHandle]BufferHandle
	ctrls      map[SourceHandle]*beep.Ctrl
	nextBuffer uint64
	nextSource uint64
	dsp        string
}

func NewDefaultSoundEngine() *DefaultSoundEngine {
	return &DefaultSoundEngine{
		buffers:  make(map[BufferHandle]*beep.Buffer),
		bufferOf: make(map[SourceHandle]BufferHandle),
		ctrls:    make(map[SourceHandle]*beep.Ctrl),
	}
}

func (e *DefaultSoundEngine) ensureSpeaker(rate beep.SampleRate) {
	if e.speakerUp {
		return
	}
	// Mirrors the vi-fighter audio engine's tolerant init: a second Init on an
	// already-initialized speaker is treated as a warning, not a fatal error.
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		fmt.Fprintf(os.Stderr, "sound: speaker init: %v\n", err)
	}
	e.speakerUp = true
}

// LoadBuffer decodes a WAV file fully into memory and returns a handle to it.
func (e *DefaultSoundEngine) LoadBuffer(path string) (BufferHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureSpeaker(format.SampleRate)

	buf := beep.NewBuffer(format)
	buf.Append(streamer)

	e.nextBuffer++
	handle := BufferHandle(e.nextBuffer)
	e.buffers[handle] = buf
	return handle, nil
}

func (e *DefaultSoundEngine) FreeBuffer(h BufferHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.buffers, h)
}

// Bind associates a source handle with a loaded buffer; call before Play.
func (e *DefaultSoundEngine) Bind(src SourceHandle, buf BufferHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bufferOf[src] = buf
}

// NextSource allocates a new, unbound source handle.
func (e *DefaultSoundEngine) NextSource() SourceHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextSource++
	return SourceHandle(e.nextSource)
}

func (e *DefaultSoundEngine) Play(src SourceHandle) {
	e.mu.Lock()
	buf, ok := e.buffers[e.bufferOf[src]]
	e.mu.Unlock()
	if !ok {
		return
	}

	streamer := buf.Streamer(0, buf.Len())
	ctrl := &beep.Ctrl{Streamer: streamer, Paused: false}

	e.mu.Lock()
	e.ctrls[src] = ctrl
	e.mu.Unlock()

	speaker.Play(ctrl)
}

func (e *DefaultSoundEngine) Stop(src SourceHandle) {
	e.mu.Lock()
	ctrl, ok := e.ctrls[src]
	e.mu.Unlock()
	if !ok {
		return
	}
	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
}

// SetDSPPreset records the active reverb preset name. Actual DSP processing is the
// mixer's job and stays out of scope; the core only needs to be able to select one.
func (e *DefaultSoundEngine) SetDSPPreset(name string) {
	e.mu.Lock()
	e.dsp = name
	e.mu.Unlock()
}
