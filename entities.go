package tectonic

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002/external"
)

// EntityKind tags the closed union of world object types the Scene can hold.
type EntityKind int

const (
	KindModel EntityKind = iota
	KindBrush
	KindLight
	KindDecal
	KindSound
	KindParticleEmitter
	KindSprite
	KindVideoPlayer
	KindParallaxRoom
	KindLogic
	KindPlayerStart
)

// EntityRef is an entity's identity: a kind plus its current index within that
// kind's array. Indices are not stable across deletes.
type EntityRef struct {
	Kind  EntityKind
	Index int
}

const maxTargetnameLen = 63
const maxPropertiesPerEntity = 32

// clampName truncates a targetname/property key to the engine's fixed buffer size,
// matching the original fixed-size char arrays.
func clampName(s string) string {
	if len(s) > maxTargetnameLen {
		return s[:maxTargetnameLen]
	}
	return s
}

// Common holds the fields every entity kind carries.
type Common struct {
	Targetname string     `json:"targetname"`
	Pos        mgl32.Vec3 `json:"pos"`
	Rot        mgl32.Vec3 `json:"rot"` // euler degrees
}

// AnimationState is the per-model animation cursor.
type AnimationState struct {
	CurrentAnimation      int32      `json:"current_animation"`
	Time                  float32    `json:"time"`
	Playing               bool       `json:"playing"`
	Looping               bool       `json:"looping"`
	AnimatedLocalTransform mgl32.Mat4 `json:"animated_local_transform"`
	BoneMatrices          []mgl32.Mat4 `json:"bone_matrices,omitempty"`
}

// Model is a rendered, optionally physics-driven mesh instance.
type Model struct {
	Common

	ModelPath         string     `json:"model_path"`
	Scale             mgl32.Vec3 `json:"scale"`
	Mass              float32    `json:"mass"`
	FadeStart         float32    `json:"fade_start"`
	FadeEnd           float32    `json:"fade_end"`
	Sway              bool       `json:"sway"`
	IsPhysicsEnabled  bool       `json:"is_physics_enabled"`
	ModelMatrix       mgl32.Mat4 `json:"model_matrix"`
	Anim              AnimationState `json:"anim"`

	// Externally-owned handles, never (de)serialized: re-hydrated on load/undo-apply.
	RenderHandle external.ModelHandle `json:"-"`
	PhysicsBody  external.BodyHandle  `json:"-"`
}

// IsDynamic reports whether the model has a positive mass and therefore owns a
// dynamic rigid body rather than a static one.
func (m *Model) IsDynamic() bool { return m.Mass > 0 }

// Clone deep-copies a Model for undo snapshotting. Externally-owned handles are
// copied by value (they identify, but do not own in the Go sense, native resources)
// and a Modify undo/redo writes them back as captured; reviving a deleted Model
// reloads its render handle only.
func (m *Model) Clone() Model {
	c := *m
	if m.Anim.BoneMatrices != nil {
		c.Anim.BoneMatrices = append([]mgl32.Mat4(nil), m.Anim.BoneMatrices...)
	}
	return c
}

// DoorState is func_door's small state machine.
type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

// PlatState is func_plat's small state machine.
type PlatState int

const (
	PlatBottom PlatState = iota
	PlatUp
	PlatTop
	PlatDown
)

// BrushVertex is a single polyhedron vertex.
type BrushVertex struct {
	Pos mgl32.Vec3 `json:"pos"`
}

// MaterialLayer is one of up to four stacked face materials.
type MaterialLayer struct {
	MaterialPath string     `json:"material_path"`
	UVOffset     mgl32.Vec2 `json:"uv_offset"`
	UVScale      mgl32.Vec2 `json:"uv_scale"`
	UVRotation   float32    `json:"uv_rotation"`
}

// BrushFace references vertex indices and up to four stacked material layers.
type BrushFace struct {
	VertexIndices []int           `json:"vertex_indices"`
	Layers        []MaterialLayer `json:"layers"` // len <= 4
	BlendmapPath  string          `json:"blendmap_path,omitempty"`
}

// BrushRuntime is the volatile, class-specific state brushes accumulate at play time.
type BrushRuntime struct {
	Active          bool    `json:"active"`
	PlayerIsTouching bool   `json:"player_is_touching"`
	IsVisible       bool    `json:"is_visible"`
	HasFired        bool    `json:"has_fired"`
	WasPressed      bool    `json:"was_pressed"`

	DoorState             DoorState  `json:"door_state"`
	DoorStartPos          mgl32.Vec3 `json:"door_start_pos"`
	DoorEndPos            mgl32.Vec3 `json:"door_end_pos"`
	DoorMoveDir           mgl32.Vec3 `json:"door_move_dir"`

	PlatState  PlatState  `json:"plat_state"`
	PlatBottom mgl32.Vec3 `json:"plat_bottom"`
	PlatTop    mgl32.Vec3 `json:"plat_top"`
	PlatHoldT  float32    `json:"plat_hold_t"`

	CurrentAngularVelocity float32 `json:"current_angular_velocity"`
	TargetAngularVelocity  float32 `json:"target_angular_velocity"`

	PendulumTime    float32    `json:"pendulum_time"`
	PendulumRestPos mgl32.Vec3 `json:"pendulum_rest_pos"`

	SupportedMass float32 `json:"supported_mass"`
}

// Brush is a convex/concave polyhedron whose classname selects runtime behavior.
type Brush struct {
	Common

	Classname  string            `json:"classname"`
	Vertices   []BrushVertex     `json:"vertices"`
	Faces      []BrushFace       `json:"faces"`
	Properties map[string]string `json:"properties"`

	Runtime BrushRuntime `json:"runtime"`

	LightmapAtlases []external.ShadowMapHandle `json:"-"`
	CubemapHandle   external.CubemapHandle     `json:"-"`
	PhysicsBody     external.BodyHandle        `json:"-"`
}

// Clone deep-copies a Brush, including owned vertex/face/property slices and maps,
// per the Design Notes ban on byte-copying heap-owning containers.
func (b *Brush) Clone() Brush {
	c := *b
	c.Vertices = append([]BrushVertex(nil), b.Vertices...)
	c.Faces = make([]BrushFace, len(b.Faces))
	for i, f := range b.Faces {
		c.Faces[i] = BrushFace{
			VertexIndices: append([]int(nil), f.VertexIndices...),
			Layers:        append([]MaterialLayer(nil), f.Layers...),
			BlendmapPath:  f.BlendmapPath,
		}
	}
	c.Properties = make(map[string]string, len(b.Properties))
	for k, v := range b.Properties {
		c.Properties[k] = v
	}
	c.LightmapAtlases = append([]external.ShadowMapHandle(nil), b.LightmapAtlases...)
	return c
}

// PropertyString returns the brush's class-specific property, or def if absent.
func (b *Brush) PropertyString(key, def string) string {
	if v, ok := b.Properties[key]; ok {
		return v
	}
	return def
}

// PropertyF32 parses the named property as a float32, or returns def.
func (b *Brush) PropertyF32(key string, def float32) float32 {
	return propertyF32(b.Properties, key, def)
}

// PropertyVec3 parses "x y z" space-separated euler/vector properties.
func (b *Brush) PropertyVec3(key string, def mgl32.Vec3) mgl32.Vec3 {
	return propertyVec3(b.Properties, key, def)
}

// PropertyBool parses "0"/"1" boolean properties.
func (b *Brush) PropertyBool(key string, def bool) bool {
	return propertyBool(b.Properties, key, def)
}

// LightType distinguishes Point and Spot lights.
type LightType int

const (
	LightPoint LightType = iota
	LightSpot
)

// Light is a point or spot light with an optional named style animation.
type Light struct {
	Common

	Type           LightType  `json:"type"`
	Color          mgl32.Vec3 `json:"color"`
	Intensity      float32    `json:"intensity"`
	BaseIntensity  float32    `json:"base_intensity"`
	IsOn           bool       `json:"is_on"`
	IsStatic       bool       `json:"is_static"`
	Radius         float32    `json:"radius"`
	Cutoff         float32    `json:"cutoff"`
	OuterCutoff    float32    `json:"outer_cutoff"`

	StylePreset int    `json:"style_preset"` // 0=steady, 1..12=named, 13=custom
	CustomStyle string `json:"custom_style,omitempty"`

	PresetTime  float32 `json:"preset_time"`
	PresetIndex int     `json:"preset_index"`

	ShadowMap external.ShadowMapHandle `json:"-"`
}

// Clone deep-copies a Light.
func (l *Light) Clone() Light { return *l }

// Decal is a box-projected decal texture.
type Decal struct {
	Common

	Size            mgl32.Vec3 `json:"size"`
	MaterialPath    string     `json:"material_path"`
	LightmapAtlases []external.ShadowMapHandle `json:"-"`
}

// Clone deep-copies a Decal.
func (d *Decal) Clone() Decal {
	c := *d
	c.LightmapAtlases = append([]external.ShadowMapHandle(nil), d.LightmapAtlases...)
	return c
}

// Sound is a positional or ambient audio source.
type Sound struct {
	Common

	SoundPath   string  `json:"sound_path"`
	Volume      float32 `json:"volume"`
	Pitch       float32 `json:"pitch"`
	MaxDistance float32 `json:"max_distance"`
	IsLooping   bool    `json:"is_looping"`
	PlayOnStart bool    `json:"play_on_start"`

	Buffer external.BufferHandle `json:"-"`
	Source external.SourceHandle `json:"-"`
}

// Clone deep-copies a Sound.
func (s *Sound) Clone() Sound { return *s }

// ParticleEmitter owns an externally-managed particle system instance.
type ParticleEmitter struct {
	Common

	ParFile     string `json:"par_file"`
	OnByDefault bool   `json:"on_by_default"`
	IsOn        bool   `json:"is_on"`

	System external.ParticleSystemHandle `json:"-"`
}

// Clone deep-copies a ParticleEmitter.
func (p *ParticleEmitter) Clone() ParticleEmitter { return *p }

// Sprite is a billboarded material quad.
type Sprite struct {
	Common

	MaterialPath string     `json:"material_path"`
	Scale        mgl32.Vec3 `json:"scale"`
	Visible      bool       `json:"visible"`
}

// Clone deep-copies a Sprite.
func (s *Sprite) Clone() Sprite { return *s }

// VideoPlayerState is the playback state machine for VideoPlayer.
type VideoPlayerState int

const (
	VideoStopped VideoPlayerState = iota
	VideoPlaying
	VideoPaused
)

// VideoPlayer projects a decoded video stream onto a quad.
type VideoPlayer struct {
	Common

	Path        string           `json:"path"`
	Size        mgl32.Vec2       `json:"size"`
	PlayOnStart bool             `json:"play_on_start"`
	Loop        bool             `json:"loop"`
	State       VideoPlayerState `json:"state"`

	Decoder external.VideoHandle `json:"-"`
}

// Clone deep-copies a VideoPlayer.
func (v *VideoPlayer) Clone() VideoPlayer { return *v }

// ParallaxRoom is a cubemap-backed fake-interior volume.
type ParallaxRoom struct {
	Common

	Size      mgl32.Vec2 `json:"size"`
	RoomDepth float32    `json:"room_depth"`

	Cubemap external.CubemapHandle `json:"-"`
}

// Clone deep-copies a ParallaxRoom. The cubemap handle is carried by value: spec.md
// §4.7 notes it does not need re-creation on undo apply.
func (p *ParallaxRoom) Clone() ParallaxRoom { return *p }

// FadeState is the substate int_a encodes for env_fade (spec.md §4.5).
type FadeState int32

const (
	FadeInactive   FadeState = 0
	FadeIn         FadeState = 1
	FadeOut        FadeState = 2
	FadeHoldIn     FadeState = 3
	FadeCycleStart FadeState = 4
	FadeHoldPeak   FadeState = 5
)

// LogicRuntime is the volatile, classname-specific scratch state a logic entity
// needs beyond the generic active/float_a/int_a scalars spec.md §3 calls out:
// env_fade's ramp timer and alpha. env_blackhole instead writes its rotation
// straight into Common.Rot, since that is already the entity's world rotation.
type LogicRuntime struct {
	FadeAlpha float32 `json:"fade_alpha"`
	FadeTimer float32 `json:"fade_timer"`
	FadeHoldT float32 `json:"fade_hold_t"`
	FadeFrom  float32 `json:"fade_from"`
}

// Logic is a non-spatial gameplay scripting entity (logic_timer, math_counter, ...).
// active/float_a/int_a are the generic scalar scratch fields spec.md §3 describes
// as class-specific in meaning (logic_timer's countdown, math_counter's
// accumulator, env_fade's substate, ...).
type Logic struct {
	Common

	Classname  string            `json:"classname"`
	Properties map[string]string `json:"properties"`

	Active bool    `json:"active"`
	FloatA float32 `json:"float_a"`
	IntA   int32   `json:"int_a"`

	Runtime LogicRuntime `json:"runtime"`
}

// Clone deep-copies a Logic entity's property map.
func (l *Logic) Clone() Logic {
	c := *l
	c.Properties = make(map[string]string, len(l.Properties))
	for k, v := range l.Properties {
		c.Properties[k] = v
	}
	return c
}

// PropertyString returns the logic entity's class-specific property, or def if absent.
func (l *Logic) PropertyString(key, def string) string {
	if v, ok := l.Properties[key]; ok {
		return v
	}
	return def
}

// PropertyF32 parses the named property as a float32, or returns def.
func (l *Logic) PropertyF32(key string, def float32) float32 {
	return propertyF32(l.Properties, key, def)
}

// PropertyBool parses "0"/"1" boolean properties.
func (l *Logic) PropertyBool(key string, def bool) bool {
	return propertyBool(l.Properties, key, def)
}

// PropertyInt parses the named property as an int, or returns def.
func (l *Logic) PropertyInt(key string, def int) int {
	return propertyInt(l.Properties, key, def)
}

// PlayerStart is the singleton spawn point.
type PlayerStart struct {
	Position mgl32.Vec3 `json:"position"`
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
}
