package tectonic

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002/external"
)

// Entity container capacities, spec.md §4.3.
const (
	maxLights           = 256
	maxBrushes          = 8192
	maxDecals           = 8192
	maxSounds           = 2048
	maxParticleEmitters = 2048
	maxSprites          = 8192
	maxVideoPlayers     = 32
	maxParallaxRooms    = 128
	maxLogicEntities    = 8192
)

// Sun is the scene's single directional light source.
type Sun struct {
	Enabled             bool
	Direction           mgl32.Vec3
	Color               mgl32.Vec3
	Intensity           float32
	VolumetricIntensity float32
	WindDirection       mgl32.Vec3
	WindStrength        float32
}

// Fog holds the scene's fog parameters.
type Fog struct {
	Enabled bool
	Color   mgl32.Vec3
	Density float32
	Start   float32
	End     float32
}

// PostProcess holds post-processing toggles the logic runtime writes to directly
// (env_fade, env_shake, underwater, etc).
type PostProcess struct {
	FadeActive    bool
	FadeAlpha     float32
	ShakeAmount   float32
	ShakeDuration float32
	Underwater    bool
}

// ColorCorrection holds the active color-grading LUT reference.
type ColorCorrection struct {
	LUTPath string
	Enabled bool
}

// Skybox is either a cubemap path or a procedural sky descriptor.
type Skybox struct {
	Path    string
	Cubemap external.CubemapHandle
}

// Collaborators bundles the external, out-of-scope systems Scene calls into when
// freeing or re-hydrating entity resources (spec.md §1, §6).
type Collaborators struct {
	Renderer external.Renderer
	Physics  external.Physics
	Sound    external.SoundEngine
	Video    external.VideoDecoder
}

// Scene is the Scene aggregate of spec.md §4.3: every typed entity array, plus
// environment state, the PlayerStart singleton and the map path.
type Scene struct {
	Models           []Model
	Brushes          []Brush
	Lights           []Light
	Decals           []Decal
	Sounds           []Sound
	ParticleEmitters []ParticleEmitter
	Sprites          []Sprite
	VideoPlayers     []VideoPlayer
	ParallaxRooms    []ParallaxRoom
	LogicEntities    []Logic

	PlayerStart    PlayerStart
	HasPlayerStart bool

	MapPath string
	Sun     Sun
	Fog     Fog
	Post    PostProcess
	ColorCorrection ColorCorrection
	Skybox  Skybox

	Collabs Collaborators
	logger  Logger
}

// NewScene builds an empty scene bound to the given collaborators (use zero-value
// Collaborators{} plus external stub implementations in tests).
func NewScene(collabs Collaborators, log Logger) *Scene {
	if log == nil {
		log = NewNopLogger()
	}
	return &Scene{Collabs: collabs, logger: log}
}

// --- Model -----------------------------------------------------------------

// AddModel appends a model (unbounded capacity per spec.md §4.3) and returns its ref.
func (s *Scene) AddModel(m Model) EntityRef {
	s.Models = append(s.Models, m)
	return EntityRef{KindModel, len(s.Models) - 1}
}

// freeModel releases a model's externally-owned render/physics handles.
func (s *Scene) freeModel(m *Model) {
	if s.Collabs.Renderer != nil && m.RenderHandle != 0 {
		s.Collabs.Renderer.FreeModel(m.RenderHandle)
	}
	if s.Collabs.Physics != nil && m.PhysicsBody != 0 {
		s.Collabs.Physics.FreeBody(m.PhysicsBody)
	}
}

// DeleteModel frees the model's handles and compacts by swapping the last element
// into index i (spec.md §3).
func (s *Scene) DeleteModel(i int) {
	if i < 0 || i >= len(s.Models) {
		return
	}
	s.freeModel(&s.Models[i])
	s.Models = swapRemoveAt(s.Models, i)
}

// --- Brush -------------------------------------------------------------------

// AddBrush appends a brush, enforcing maxBrushes (spec.md §4.3 capacity table).
func (s *Scene) AddBrush(b Brush) (EntityRef, error) {
	if len(s.Brushes) >= maxBrushes {
		s.logger.Errorf("scene: max brushes (%d) reached", maxBrushes)
		return EntityRef{}, errCapacity("brushes", maxBrushes)
	}
	// Classname is trigger/runtime dispatch's comparison key (dispatch.go,
	// trigger.go): a stray leading/trailing space from a hand-edited map file
	// would silently disable the entity (spec.md §9 Open Questions). Normalize
	// once here rather than at every comparison site.
	b.Classname = strings.TrimSpace(b.Classname)
	s.Brushes = append(s.Brushes, b)
	return EntityRef{KindBrush, len(s.Brushes) - 1}, nil
}

func (s *Scene) freeBrush(b *Brush) {
	if s.Collabs.Physics != nil && b.PhysicsBody != 0 {
		s.Collabs.Physics.FreeBody(b.PhysicsBody)
	}
	if s.Collabs.Renderer != nil {
		if b.CubemapHandle != 0 {
			s.Collabs.Renderer.FreeCubemap(b.CubemapHandle)
		}
		for _, h := range b.LightmapAtlases {
			s.Collabs.Renderer.FreeShadowMap(h)
		}
	}
}

// DeleteBrush frees the brush's handles and compacts by swap-last.
func (s *Scene) DeleteBrush(i int) {
	if i < 0 || i >= len(s.Brushes) {
		return
	}
	s.freeBrush(&s.Brushes[i])
	s.Brushes = swapRemoveAt(s.Brushes, i)
}

// --- Light ---------------------------------------------------------------

func (s *Scene) AddLight(l Light) (EntityRef, error) {
	if len(s.Lights) >= maxLights {
		s.logger.Errorf("scene: max lights (%d) reached", maxLights)
		return EntityRef{}, errCapacity("lights", maxLights)
	}
	s.Lights = append(s.Lights, l)
	return EntityRef{KindLight, len(s.Lights) - 1}, nil
}

func (s *Scene) freeLight(l *Light) {
	if s.Collabs.Renderer != nil && l.ShadowMap != 0 {
		s.Collabs.Renderer.FreeShadowMap(l.ShadowMap)
	}
}

func (s *Scene) DeleteLight(i int) {
	if i < 0 || i >= len(s.Lights) {
		return
	}
	s.freeLight(&s.Lights[i])
	s.Lights = shiftRemoveAt(s.Lights, i)
}

// --- Decal -----------------------------------------------------------------

func (s *Scene) AddDecal(d Decal) (EntityRef, error) {
	if len(s.Decals) >= maxDecals {
		s.logger.Errorf("scene: max decals (%d) reached", maxDecals)
		return EntityRef{}, errCapacity("decals", maxDecals)
	}
	s.Decals = append(s.Decals, d)
	return EntityRef{KindDecal, len(s.Decals) - 1}, nil
}

func (s *Scene) freeDecal(d *Decal) {
	if s.Collabs.Renderer != nil {
		for _, h := range d.LightmapAtlases {
			s.Collabs.Renderer.FreeShadowMap(h)
		}
	}
}

func (s *Scene) DeleteDecal(i int) {
	if i < 0 || i >= len(s.Decals) {
		return
	}
	s.freeDecal(&s.Decals[i])
	s.Decals = shiftRemoveAt(s.Decals, i)
}

// --- Sound -------------------------------------------------------------------

func (s *Scene) AddSound(snd Sound) (EntityRef, error) {
	if len(s.Sounds) >= maxSounds {
		s.logger.Errorf("scene: max sounds (%d) reached", maxSounds)
		return EntityRef{}, errCapacity("sounds", maxSounds)
	}
	s.Sounds = append(s.Sounds, snd)
	return EntityRef{KindSound, len(s.Sounds) - 1}, nil
}

func (s *Scene) freeSound(snd *Sound) {
	if s.Collabs.Sound != nil && snd.Buffer != 0 {
		s.Collabs.Sound.FreeBuffer(snd.Buffer)
	}
}

func (s *Scene) DeleteSound(i int) {
	if i < 0 || i >= len(s.Sounds) {
		return
	}
	s.freeSound(&s.Sounds[i])
	s.Sounds = shiftRemoveAt(s.Sounds, i)
}

// --- ParticleEmitter -----------------------------------------------------

func (s *Scene) AddParticleEmitter(p ParticleEmitter) (EntityRef, error) {
	if len(s.ParticleEmitters) >= maxParticleEmitters {
		s.logger.Errorf("scene: max particle emitters (%d) reached", maxParticleEmitters)
		return EntityRef{}, errCapacity("particle emitters", maxParticleEmitters)
	}
	s.ParticleEmitters = append(s.ParticleEmitters, p)
	return EntityRef{KindParticleEmitter, len(s.ParticleEmitters) - 1}, nil
}

func (s *Scene) freeParticleEmitter(p *ParticleEmitter) {
	// The particle system handle identifies an externally-owned emitter instance;
	// there is no free-standing free op in external.Physics/Renderer for it because
	// spec.md keeps particle system ownership entirely inside the (out of scope)
	// particle subsystem - the handle going to zero is the contract.
	p.System = 0
}

func (s *Scene) DeleteParticleEmitter(i int) {
	if i < 0 || i >= len(s.ParticleEmitters) {
		return
	}
	s.freeParticleEmitter(&s.ParticleEmitters[i])
	s.ParticleEmitters = shiftRemoveAt(s.ParticleEmitters, i)
}

// --- Sprite ------------------------------------------------------------------

func (s *Scene) AddSprite(sp Sprite) (EntityRef, error) {
	if len(s.Sprites) >= maxSprites {
		s.logger.Errorf("scene: max sprites (%d) reached", maxSprites)
		return EntityRef{}, errCapacity("sprites", maxSprites)
	}
	s.Sprites = append(s.Sprites, sp)
	return EntityRef{KindSprite, len(s.Sprites) - 1}, nil
}

func (s *Scene) DeleteSprite(i int) {
	if i < 0 || i >= len(s.Sprites) {
		return
	}
	s.Sprites = shiftRemoveAt(s.Sprites, i)
}

// --- VideoPlayer -----------------------------------------------------------

func (s *Scene) AddVideoPlayer(v VideoPlayer) (EntityRef, error) {
	if len(s.VideoPlayers) >= maxVideoPlayers {
		s.logger.Errorf("scene: max video players (%d) reached", maxVideoPlayers)
		return EntityRef{}, errCapacity("video players", maxVideoPlayers)
	}
	s.VideoPlayers = append(s.VideoPlayers, v)
	return EntityRef{KindVideoPlayer, len(s.VideoPlayers) - 1}, nil
}

func (s *Scene) freeVideoPlayer(v *VideoPlayer) {
	if s.Collabs.Video != nil && v.Decoder != 0 {
		s.Collabs.Video.Close(v.Decoder)
	}
}

func (s *Scene) DeleteVideoPlayer(i int) {
	if i < 0 || i >= len(s.VideoPlayers) {
		return
	}
	s.freeVideoPlayer(&s.VideoPlayers[i])
	s.VideoPlayers = shiftRemoveAt(s.VideoPlayers, i)
}

// --- ParallaxRoom ------------------------------------------------------------

func (s *Scene) AddParallaxRoom(p ParallaxRoom) (EntityRef, error) {
	if len(s.ParallaxRooms) >= maxParallaxRooms {
		s.logger.Errorf("scene: max parallax rooms (%d) reached", maxParallaxRooms)
		return EntityRef{}, errCapacity("parallax rooms", maxParallaxRooms)
	}
	s.ParallaxRooms = append(s.ParallaxRooms, p)
	return EntityRef{KindParallaxRoom, len(s.ParallaxRooms) - 1}, nil
}

func (s *Scene) freeParallaxRoom(p *ParallaxRoom) {
	if s.Collabs.Renderer != nil && p.Cubemap != 0 {
		s.Collabs.Renderer.FreeCubemap(p.Cubemap)
	}
}

func (s *Scene) DeleteParallaxRoom(i int) {
	if i < 0 || i >= len(s.ParallaxRooms) {
		return
	}
	s.freeParallaxRoom(&s.ParallaxRooms[i])
	s.ParallaxRooms = shiftRemoveAt(s.ParallaxRooms, i)
}

// --- Logic -------------------------------------------------------------------

func (s *Scene) AddLogic(l Logic) (EntityRef, error) {
	if len(s.LogicEntities) >= maxLogicEntities {
		s.logger.Errorf("scene: max logic entities (%d) reached", maxLogicEntities)
		return EntityRef{}, errCapacity("logic entities", maxLogicEntities)
	}
	l.Classname = strings.TrimSpace(l.Classname)
	s.LogicEntities = append(s.LogicEntities, l)
	return EntityRef{KindLogic, len(s.LogicEntities) - 1}, nil
}

func (s *Scene) DeleteLogic(i int) {
	if i < 0 || i >= len(s.LogicEntities) {
		return
	}
	s.LogicEntities = shiftRemoveAt(s.LogicEntities, i)
}

// --- Clear -------------------------------------------------------------------

// Clear walks every array and frees per-kind external handles in the order
// spec.md §4.3 specifies: particle emitters, parallax cubemaps, lights' shadow
// maps, brushes (cubemaps + physics bodies), models (render + physics), sounds.
func (s *Scene) Clear() {
	for i := range s.ParticleEmitters {
		s.freeParticleEmitter(&s.ParticleEmitters[i])
	}
	for i := range s.ParallaxRooms {
		s.freeParallaxRoom(&s.ParallaxRooms[i])
	}
	for i := range s.Lights {
		s.freeLight(&s.Lights[i])
	}
	for i := range s.Brushes {
		s.freeBrush(&s.Brushes[i])
	}
	for i := range s.Models {
		s.freeModel(&s.Models[i])
	}
	for i := range s.Sounds {
		s.freeSound(&s.Sounds[i])
	}
	for i := range s.Decals {
		s.freeDecal(&s.Decals[i])
	}
	for i := range s.VideoPlayers {
		s.freeVideoPlayer(&s.VideoPlayers[i])
	}

	s.Models = nil
	s.Brushes = nil
	s.Lights = nil
	s.Decals = nil
	s.Sounds = nil
	s.ParticleEmitters = nil
	s.Sprites = nil
	s.VideoPlayers = nil
	s.ParallaxRooms = nil
	s.LogicEntities = nil
	s.HasPlayerStart = false
}

// FindTargetname returns the EntityRef and world position/rotation of the first
// live entity (across all kinds) whose Common.Targetname matches name, used by the
// I/O graph and trigger_teleport (spec.md §4.4, §4.6).
func (s *Scene) FindTargetname(name string) (EntityRef, mgl32.Vec3, mgl32.Vec3, bool) {
	for i := range s.Models {
		if s.Models[i].Targetname == name {
			return EntityRef{KindModel, i}, s.Models[i].Pos, s.Models[i].Rot, true
		}
	}
	for i := range s.Brushes {
		if s.Brushes[i].Targetname == name {
			return EntityRef{KindBrush, i}, s.Brushes[i].Pos, s.Brushes[i].Rot, true
		}
	}
	for i := range s.Lights {
		if s.Lights[i].Targetname == name {
			return EntityRef{KindLight, i}, s.Lights[i].Pos, s.Lights[i].Rot, true
		}
	}
	for i := range s.Decals {
		if s.Decals[i].Targetname == name {
			return EntityRef{KindDecal, i}, s.Decals[i].Pos, s.Decals[i].Rot, true
		}
	}
	for i := range s.Sounds {
		if s.Sounds[i].Targetname == name {
			return EntityRef{KindSound, i}, s.Sounds[i].Pos, s.Sounds[i].Rot, true
		}
	}
	for i := range s.ParticleEmitters {
		if s.ParticleEmitters[i].Targetname == name {
			return EntityRef{KindParticleEmitter, i}, s.ParticleEmitters[i].Pos, s.ParticleEmitters[i].Rot, true
		}
	}
	for i := range s.Sprites {
		if s.Sprites[i].Targetname == name {
			return EntityRef{KindSprite, i}, s.Sprites[i].Pos, s.Sprites[i].Rot, true
		}
	}
	for i := range s.VideoPlayers {
		if s.VideoPlayers[i].Targetname == name {
			return EntityRef{KindVideoPlayer, i}, s.VideoPlayers[i].Pos, s.VideoPlayers[i].Rot, true
		}
	}
	for i := range s.ParallaxRooms {
		if s.ParallaxRooms[i].Targetname == name {
			return EntityRef{KindParallaxRoom, i}, s.ParallaxRooms[i].Pos, s.ParallaxRooms[i].Rot, true
		}
	}
	for i := range s.LogicEntities {
		if s.LogicEntities[i].Targetname == name {
			return EntityRef{KindLogic, i}, s.LogicEntities[i].Pos, s.LogicEntities[i].Rot, true
		}
	}
	return EntityRef{}, mgl32.Vec3{}, mgl32.Vec3{}, false
}

// FindLogicByClassname returns the first logic entity of the given classname.
func (s *Scene) FindLogicByClassname(classname string) (int, *Logic, bool) {
	for i := range s.LogicEntities {
		if s.LogicEntities[i].Classname == classname {
			return i, &s.LogicEntities[i], true
		}
	}
	return -1, nil, false
}

type capacityError struct {
	container string
	max       int
}

func (e *capacityError) Error() string {
	return "scene: " + e.container + " at capacity (" + strconv.Itoa(e.max) + ")"
}

func errCapacity(container string, max int) error {
	return &capacityError{container, max}
}
