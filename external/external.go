// Package external declares the narrow interfaces the core depends on for the
// collaborators spec.md §1 and §6 keep explicitly out of scope: the OpenGL renderer,
// the Bullet physics wrapper, the OpenAL sound mixer, the pl_mpeg video decoder, and
// GLTF model loading. The core never imports GL/Bullet/OpenAL/pl_mpeg bindings
// directly — it only calls through these interfaces.
package external

import "github.com/go-gl/mathgl/mgl32"

// ModelHandle, ShadowMapHandle, CubemapHandle, BodyHandle, BufferHandle,
// SourceHandle, ParticleSystemHandle and VideoHandle are opaque identifiers for
// externally-owned native resources. The zero value of each means "no handle."
type (
	ModelHandle           uint64
	ShadowMapHandle        uint64
	CubemapHandle          uint64
	BodyHandle             uint64
	BufferHandle           uint64
	SourceHandle           uint64
	ParticleSystemHandle   uint64
)

// MeshData is the flattened vertex/index data handed to the physics collaborator
// when building a collider from a loaded model or brush.
type MeshData struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// Renderer creates and frees GPU-resident resources (model render data, shadow
// maps, cubemaps). The concrete implementation is the OpenGL renderer, which is
// genuinely out of scope for this module.
type Renderer interface {
	LoadModel(path string) (ModelHandle, error)
	FreeModel(ModelHandle)
	CreateShadowMap() ShadowMapHandle
	FreeShadowMap(ShadowMapHandle)
	CreateCubemap() CubemapHandle
	FreeCubemap(CubemapHandle)
}

// Physics creates and frees rigid bodies. The concrete implementation is the
// Bullet wrapper, out of scope here.
type Physics interface {
	CreateDynamicBody(mesh MeshData, mass float32, scale mgl32.Vec3) BodyHandle
	CreateStaticBody(mesh MeshData, scale mgl32.Vec3) BodyHandle
	FreeBody(BodyHandle)
	SetGravity(v mgl32.Vec3)
}

// SoundEngine loads sample buffers and plays/stops sources. The concrete
// implementation used outside tests is DefaultSoundEngine (sound.go), backed by
// gopxl/beep; OpenAL mixing internals remain out of scope.
type SoundEngine interface {
	LoadBuffer(path string) (BufferHandle, error)
	FreeBuffer(BufferHandle)
	Play(src SourceHandle)
	Stop(src SourceHandle)
	SetDSPPreset(name string)
}

// VideoDecoder opens, seeks and closes a decoded video stream. The concrete
// implementation is a pl_mpeg binding, out of scope here.
type VideoDecoder interface {
	Open(path string) (VideoHandle, error)
	Close(VideoHandle)
	Seek(h VideoHandle, seconds float32)
}

// VideoHandle identifies an open video decoder instance.
type VideoHandle uint64
