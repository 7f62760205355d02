package external

import "github.com/go-gl/mathgl/mgl32"

// StubRenderer is a deterministic, allocation-free Renderer used by tests and by
// headless engine runs (dedicated servers, the editor's undo-path test harness).
// It hands out monotonically increasing handles and never touches the GPU.
type StubRenderer struct {
	next uint64
}

func NewStubRenderer() *StubRenderer { return &StubRenderer{} }

func (r *StubRenderer) nextHandle() uint64 {
	r.next++
	return r.next
}

func (r *StubRenderer) LoadModel(path string) (ModelHandle, error) {
	return ModelHandle(r.nextHandle()), nil
}
func (r *StubRenderer) FreeModel(ModelHandle) {}
func (r *StubRenderer) CreateShadowMap() ShadowMapHandle {
	return ShadowMapHandle(r.nextHandle())
}
func (r *StubRenderer) FreeShadowMap(ShadowMapHandle) {}
func (r *StubRenderer) CreateCubemap() CubemapHandle {
	return CubemapHandle(r.nextHandle())
}
func (r *StubRenderer) FreeCubemap(CubemapHandle) {}

// StubPhysics is a deterministic Physics collaborator used by tests.
type StubPhysics struct {
	next    uint64
	Gravity mgl32.Vec3
}

func NewStubPhysics() *StubPhysics { return &StubPhysics{Gravity: mgl32.Vec3{0, -9.81, 0}} }

func (p *StubPhysics) nextHandle() uint64 {
	p.next++
	return p.next
}

func (p *StubPhysics) CreateDynamicBody(mesh MeshData, mass float32, scale mgl32.Vec3) BodyHandle {
	return BodyHandle(p.nextHandle())
}
func (p *StubPhysics) CreateStaticBody(mesh MeshData, scale mgl32.Vec3) BodyHandle {
	return BodyHandle(p.nextHandle())
}
func (p *StubPhysics) FreeBody(BodyHandle)        {}
func (p *StubPhysics) SetGravity(v mgl32.Vec3)    { p.Gravity = v }

// StubSoundEngine is a deterministic SoundEngine collaborator used by tests; it
// never touches an audio device.
type StubSoundEngine struct {
	next uint64
	dsp  string
}

func NewStubSoundEngine() *StubSoundEngine { return &StubSoundEngine{} }

func (s *StubSoundEngine) LoadBuffer(path string) (BufferHandle, error) {
	s.next++
	return BufferHandle(s.next), nil
}
func (s *StubSoundEngine) FreeBuffer(BufferHandle)     {}
func (s *StubSoundEngine) Play(SourceHandle)           {}
func (s *StubSoundEngine) Stop(SourceHandle)           {}
func (s *StubSoundEngine) SetDSPPreset(name string)    { s.dsp = name }

// StubVideoDecoder is a deterministic VideoDecoder collaborator used by tests.
type StubVideoDecoder struct {
	next uint64
}

func NewStubVideoDecoder() *StubVideoDecoder { return &StubVideoDecoder{} }

func (v *StubVideoDecoder) Open(path string) (VideoHandle, error) {
	v.next++
	return VideoHandle(v.next), nil
}
func (v *StubVideoDecoder) Close(VideoHandle)                {}
func (v *StubVideoDecoder) Seek(h VideoHandle, seconds float32) {}
