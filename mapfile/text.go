package mapfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002"
)

const mapVersion = 11

// TextSerializer implements Serializer as the MAPVERSION 11 text grammar spec.md
// §4.8 calls out: a version line, keyed sections for sun/fog/post/color
// correction/skybox/player start, then one block per entity. Each block is a
// classname header, a brace-delimited body of `key "value"` pairs, and for
// brushes a nested vertex/face list. The exact token shapes are this file's own
// choice (spec.md §4.8: "the exact grammar is considered an external
// collaborator detail") — the contract is only that Save/Load round-trip every
// field the core touches.
type TextSerializer struct{}

func NewTextSerializer() *TextSerializer { return &TextSerializer{} }

// --- writing -------------------------------------------------------------------

func vec3(v mgl32.Vec3) string {
	return fmt.Sprintf("%s %s %s", f32(v[0]), f32(v[1]), f32(v[2]))
}

func vec2(v mgl32.Vec2) string {
	return fmt.Sprintf("%s %s", f32(v[0]), f32(v[1]))
}

func f32(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

type blockWriter struct {
	w      *bufio.Writer
	indent int
}

func (bw *blockWriter) line(format string, args ...any) {
	bw.w.WriteString(strings.Repeat("    ", bw.indent))
	fmt.Fprintf(bw.w, format, args...)
	bw.w.WriteByte('\n')
}

func (bw *blockWriter) kv(key, value string) { bw.line("%s %q", key, value) }

func (bw *blockWriter) open(header string) {
	bw.line("%s {", header)
	bw.indent++
}

func (bw *blockWriter) close() {
	bw.indent--
	bw.line("}")
}

func (bw *blockWriter) properties(props map[string]string) {
	bw.open("properties")
	for k, v := range props {
		bw.kv(k, v)
	}
	bw.close()
}

// Save writes s to path in the MAPVERSION 11 grammar.
func (t *TextSerializer) Save(path string, s *tectonic.Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := &blockWriter{w: bufio.NewWriter(f)}
	bw.line("MAPVERSION %d", mapVersion)
	bw.line("")

	bw.open("sun")
	bw.kv("enabled", boolStr(s.Sun.Enabled))
	bw.kv("direction", vec3(s.Sun.Direction))
	bw.kv("color", vec3(s.Sun.Color))
	bw.kv("intensity", f32(s.Sun.Intensity))
	bw.kv("volumetric_intensity", f32(s.Sun.VolumetricIntensity))
	bw.kv("wind_direction", vec3(s.Sun.WindDirection))
	bw.kv("wind_strength", f32(s.Sun.WindStrength))
	bw.close()

	bw.open("fog")
	bw.kv("enabled", boolStr(s.Fog.Enabled))
	bw.kv("color", vec3(s.Fog.Color))
	bw.kv("density", f32(s.Fog.Density))
	bw.kv("start", f32(s.Fog.Start))
	bw.kv("end", f32(s.Fog.End))
	bw.close()

	bw.open("post")
	bw.kv("fade_active", boolStr(s.Post.FadeActive))
	bw.kv("fade_alpha", f32(s.Post.FadeAlpha))
	bw.kv("shake_amount", f32(s.Post.ShakeAmount))
	bw.kv("shake_duration", f32(s.Post.ShakeDuration))
	bw.kv("underwater", boolStr(s.Post.Underwater))
	bw.close()

	bw.open("colorcorrection")
	bw.kv("lut_path", s.ColorCorrection.LUTPath)
	bw.kv("enabled", boolStr(s.ColorCorrection.Enabled))
	bw.close()

	bw.open("skybox")
	bw.kv("path", s.Skybox.Path)
	bw.close()

	bw.open("playerstart")
	bw.kv("has", boolStr(s.HasPlayerStart))
	bw.kv("position", vec3(s.PlayerStart.Position))
	bw.kv("yaw", f32(s.PlayerStart.Yaw))
	bw.kv("pitch", f32(s.PlayerStart.Pitch))
	bw.close()

	for i := range s.Models {
		t.writeModel(bw, &s.Models[i])
	}
	for i := range s.Brushes {
		t.writeBrush(bw, &s.Brushes[i])
	}
	for i := range s.Lights {
		t.writeLight(bw, &s.Lights[i])
	}
	for i := range s.Decals {
		t.writeDecal(bw, &s.Decals[i])
	}
	for i := range s.Sounds {
		t.writeSound(bw, &s.Sounds[i])
	}
	for i := range s.ParticleEmitters {
		t.writeParticleEmitter(bw, &s.ParticleEmitters[i])
	}
	for i := range s.Sprites {
		t.writeSprite(bw, &s.Sprites[i])
	}
	for i := range s.VideoPlayers {
		t.writeVideoPlayer(bw, &s.VideoPlayers[i])
	}
	for i := range s.ParallaxRooms {
		t.writeParallaxRoom(bw, &s.ParallaxRooms[i])
	}
	for i := range s.LogicEntities {
		t.writeLogic(bw, &s.LogicEntities[i])
	}

	return bw.w.Flush()
}

func (bw *blockWriter) common(c *tectonic.Common) {
	bw.kv("targetname", c.Targetname)
	bw.kv("pos", vec3(c.Pos))
	bw.kv("rot", vec3(c.Rot))
}

func (t *TextSerializer) writeModel(bw *blockWriter, m *tectonic.Model) {
	bw.open("model")
	bw.common(&m.Common)
	bw.kv("model_path", m.ModelPath)
	bw.kv("scale", vec3(m.Scale))
	bw.kv("mass", f32(m.Mass))
	bw.kv("fade_start", f32(m.FadeStart))
	bw.kv("fade_end", f32(m.FadeEnd))
	bw.kv("sway", boolStr(m.Sway))
	bw.kv("is_physics_enabled", boolStr(m.IsPhysicsEnabled))
	bw.close()
}

func (t *TextSerializer) writeBrush(bw *blockWriter, b *tectonic.Brush) {
	bw.open("brush")
	bw.common(&b.Common)
	bw.kv("classname", b.Classname)
	bw.properties(b.Properties)

	bw.open("vertices")
	for _, v := range b.Vertices {
		bw.kv("v", vec3(v.Pos))
	}
	bw.close()

	bw.open("faces")
	for _, face := range b.Faces {
		idx := make([]string, len(face.VertexIndices))
		for i, vi := range face.VertexIndices {
			idx[i] = strconv.Itoa(vi)
		}
		layers := make([]string, len(face.Layers))
		for i, l := range face.Layers {
			layers[i] = fmt.Sprintf("%s:%s:%s:%s:%s:%s", l.MaterialPath, f32(l.UVOffset[0]), f32(l.UVOffset[1]), f32(l.UVScale[0]), f32(l.UVScale[1]), f32(l.UVRotation))
		}
		bw.line("f %q %q %q", strings.Join(idx, ","), strings.Join(layers, "|"), face.BlendmapPath)
	}
	bw.close()

	bw.close()
}

func (t *TextSerializer) writeLight(bw *blockWriter, l *tectonic.Light) {
	bw.open("light")
	bw.common(&l.Common)
	bw.kv("type", strconv.Itoa(int(l.Type)))
	bw.kv("color", vec3(l.Color))
	bw.kv("intensity", f32(l.Intensity))
	bw.kv("base_intensity", f32(l.BaseIntensity))
	bw.kv("is_on", boolStr(l.IsOn))
	bw.kv("is_static", boolStr(l.IsStatic))
	bw.kv("radius", f32(l.Radius))
	bw.kv("cutoff", f32(l.Cutoff))
	bw.kv("outer_cutoff", f32(l.OuterCutoff))
	bw.kv("style_preset", strconv.Itoa(l.StylePreset))
	bw.kv("custom_style", l.CustomStyle)
	bw.close()
}

func (t *TextSerializer) writeDecal(bw *blockWriter, d *tectonic.Decal) {
	bw.open("decal")
	bw.common(&d.Common)
	bw.kv("size", vec3(d.Size))
	bw.kv("material_path", d.MaterialPath)
	bw.close()
}

func (t *TextSerializer) writeSound(bw *blockWriter, snd *tectonic.Sound) {
	bw.open("sound")
	bw.common(&snd.Common)
	bw.kv("sound_path", snd.SoundPath)
	bw.kv("volume", f32(snd.Volume))
	bw.kv("pitch", f32(snd.Pitch))
	bw.kv("max_distance", f32(snd.MaxDistance))
	bw.kv("is_looping", boolStr(snd.IsLooping))
	bw.kv("play_on_start", boolStr(snd.PlayOnStart))
	bw.close()
}

func (t *TextSerializer) writeParticleEmitter(bw *blockWriter, p *tectonic.ParticleEmitter) {
	bw.open("particle_emitter")
	bw.common(&p.Common)
	bw.kv("par_file", p.ParFile)
	bw.kv("on_by_default", boolStr(p.OnByDefault))
	bw.close()
}

func (t *TextSerializer) writeSprite(bw *blockWriter, sp *tectonic.Sprite) {
	bw.open("sprite")
	bw.common(&sp.Common)
	bw.kv("material_path", sp.MaterialPath)
	bw.kv("scale", vec3(sp.Scale))
	bw.kv("visible", boolStr(sp.Visible))
	bw.close()
}

func (t *TextSerializer) writeVideoPlayer(bw *blockWriter, v *tectonic.VideoPlayer) {
	bw.open("video_player")
	bw.common(&v.Common)
	bw.kv("path", v.Path)
	bw.kv("size", vec2(v.Size))
	bw.kv("play_on_start", boolStr(v.PlayOnStart))
	bw.kv("loop", boolStr(v.Loop))
	bw.close()
}

func (t *TextSerializer) writeParallaxRoom(bw *blockWriter, p *tectonic.ParallaxRoom) {
	bw.open("parallax_room")
	bw.common(&p.Common)
	bw.kv("size", vec2(p.Size))
	bw.kv("room_depth", f32(p.RoomDepth))
	bw.close()
}

func (t *TextSerializer) writeLogic(bw *blockWriter, l *tectonic.Logic) {
	bw.open("logic")
	bw.common(&l.Common)
	bw.kv("classname", l.Classname)
	bw.properties(l.Properties)
	bw.kv("active", boolStr(l.Active))
	bw.kv("float_a", f32(l.FloatA))
	bw.kv("int_a", strconv.Itoa(int(l.IntA)))
	bw.close()
}
