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

// lineReader scans non-blank, non-comment lines one at a time, the way
// script.go's Exec reads a command script: "//" and "#" start a comment.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(f *os.File) *lineReader {
	return &lineReader{sc: bufio.NewScanner(f)}
}

// next returns the next non-blank, non-comment line's tokens, or false at EOF.
func (lr *lineReader) next() ([]string, bool) {
	for lr.sc.Scan() {
		lr.line++
		text := strings.TrimSpace(lr.sc.Text())
		if text == "" || strings.HasPrefix(text, "//") || strings.HasPrefix(text, "#") {
			continue
		}
		return splitQuoted(text), true
	}
	return nil, false
}

// splitQuoted tokenizes a line, treating "..." runs as single tokens (their
// quotes stripped) and everything else as whitespace-separated bare tokens.
func splitQuoted(line string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range line {
		switch {
		case r == '"':
			if inQuotes {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func parseF32(s string) float32 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(f)
}

func parseBool(s string) bool { return s == "1" || strings.EqualFold(s, "true") }

func parseVec3(s string) mgl32.Vec3 {
	f := strings.Fields(s)
	if len(f) != 3 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{parseF32(f[0]), parseF32(f[1]), parseF32(f[2])}
}

func parseVec2(s string) mgl32.Vec2 {
	f := strings.Fields(s)
	if len(f) != 2 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{parseF32(f[0]), parseF32(f[1])}
}

// readFlatBlock reads `key "value"` lines until a bare "}", returning the
// accumulated key/value pairs. The opening "NAME {" line must already be
// consumed by the caller.
func readFlatBlock(lr *lineReader) (map[string]string, error) {
	kv := make(map[string]string)
	for {
		tok, ok := lr.next()
		if !ok {
			return nil, fmt.Errorf("mapfile: unexpected eof inside block at line %d", lr.line)
		}
		if len(tok) == 1 && tok[0] == "}" {
			return kv, nil
		}
		if len(tok) < 2 {
			return nil, fmt.Errorf("mapfile: malformed key/value line %d", lr.line)
		}
		kv[tok[0]] = tok[1]
	}
}

// Load reads path into s, appending entities via Scene's Add* methods. s should
// be freshly Clear()-ed by the caller (the "map" command does this).
func (t *TextSerializer) Load(path string, s *tectonic.Scene) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	lr := newLineReader(f)
	header, ok := lr.next()
	if !ok || len(header) != 2 || header[0] != "MAPVERSION" {
		return fmt.Errorf("mapfile: missing MAPVERSION header")
	}
	if v, err := strconv.Atoi(header[1]); err != nil || v != mapVersion {
		return fmt.Errorf("mapfile: unsupported MAPVERSION %q", header[1])
	}

	for {
		tok, ok := lr.next()
		if !ok {
			return nil
		}
		if len(tok) != 2 || tok[1] != "{" {
			return fmt.Errorf("mapfile: expected a block header at line %d, got %v", lr.line, tok)
		}
		if err := t.loadBlock(lr, tok[0], s); err != nil {
			return err
		}
	}
}

func (t *TextSerializer) loadBlock(lr *lineReader, kind string, s *tectonic.Scene) error {
	switch kind {
	case "sun":
		kv, err := readFlatBlock(lr)
		if err != nil {
			return err
		}
		s.Sun = tectonic.Sun{
			Enabled:             parseBool(kv["enabled"]),
			Direction:           parseVec3(kv["direction"]),
			Color:               parseVec3(kv["color"]),
			Intensity:           parseF32(kv["intensity"]),
			VolumetricIntensity: parseF32(kv["volumetric_intensity"]),
			WindDirection:       parseVec3(kv["wind_direction"]),
			WindStrength:        parseF32(kv["wind_strength"]),
		}
	case "fog":
		kv, err := readFlatBlock(lr)
		if err != nil {
			return err
		}
		s.Fog = tectonic.Fog{
			Enabled: parseBool(kv["enabled"]),
			Color:   parseVec3(kv["color"]),
			Density: parseF32(kv["density"]),
			Start:   parseF32(kv["start"]),
			End:     parseF32(kv["end"]),
		}
	case "post":
		kv, err := readFlatBlock(lr)
		if err != nil {
			return err
		}
		s.Post = tectonic.PostProcess{
			FadeActive:    parseBool(kv["fade_active"]),
			FadeAlpha:     parseF32(kv["fade_alpha"]),
			ShakeAmount:   parseF32(kv["shake_amount"]),
			ShakeDuration: parseF32(kv["shake_duration"]),
			Underwater:    parseBool(kv["underwater"]),
		}
	case "colorcorrection":
		kv, err := readFlatBlock(lr)
		if err != nil {
			return err
		}
		s.ColorCorrection = tectonic.ColorCorrection{LUTPath: kv["lut_path"], Enabled: parseBool(kv["enabled"])}
	case "skybox":
		kv, err := readFlatBlock(lr)
		if err != nil {
			return err
		}
		s.Skybox = tectonic.Skybox{Path: kv["path"]}
	case "playerstart":
		kv, err := readFlatBlock(lr)
		if err != nil {
			return err
		}
		s.HasPlayerStart = parseBool(kv["has"])
		s.PlayerStart = tectonic.PlayerStart{
			Position: parseVec3(kv["position"]),
			Yaw:      parseF32(kv["yaw"]),
			Pitch:    parseF32(kv["pitch"]),
		}
	case "model":
		return t.loadModel(lr, s)
	case "brush":
		return t.loadBrush(lr, s)
	case "light":
		return t.loadLight(lr, s)
	case "decal":
		return t.loadDecal(lr, s)
	case "sound":
		return t.loadSound(lr, s)
	case "particle_emitter":
		return t.loadParticleEmitter(lr, s)
	case "sprite":
		return t.loadSprite(lr, s)
	case "video_player":
		return t.loadVideoPlayer(lr, s)
	case "parallax_room":
		return t.loadParallaxRoom(lr, s)
	case "logic":
		return t.loadLogic(lr, s)
	default:
		return fmt.Errorf("mapfile: unknown block %q at line %d", kind, lr.line)
	}
	return nil
}

func commonOf(kv map[string]string) tectonic.Common {
	return tectonic.Common{Targetname: kv["targetname"], Pos: parseVec3(kv["pos"]), Rot: parseVec3(kv["rot"])}
}

func (t *TextSerializer) loadModel(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	s.AddModel(tectonic.Model{
		Common:           commonOf(kv),
		ModelPath:        kv["model_path"],
		Scale:            parseVec3(kv["scale"]),
		Mass:             parseF32(kv["mass"]),
		FadeStart:        parseF32(kv["fade_start"]),
		FadeEnd:          parseF32(kv["fade_end"]),
		Sway:             parseBool(kv["sway"]),
		IsPhysicsEnabled: parseBool(kv["is_physics_enabled"]),
	})
	return nil
}

// loadBrush reads targetname/classname/pos/rot as flat keys interleaved with the
// nested properties/vertices/faces blocks.
func (t *TextSerializer) loadBrush(lr *lineReader, s *tectonic.Scene) error {
	kv := make(map[string]string)
	var props map[string]string
	var verts []tectonic.BrushVertex
	var faces []tectonic.BrushFace

	for {
		tok, ok := lr.next()
		if !ok {
			return fmt.Errorf("mapfile: unexpected eof inside brush at line %d", lr.line)
		}
		if len(tok) == 1 && tok[0] == "}" {
			break
		}
		switch {
		case len(tok) == 2 && tok[1] == "{" && tok[0] == "properties":
			p, err := readFlatBlock(lr)
			if err != nil {
				return err
			}
			props = p
		case len(tok) == 2 && tok[1] == "{" && tok[0] == "vertices":
			v, err := readVertices(lr)
			if err != nil {
				return err
			}
			verts = v
		case len(tok) == 2 && tok[1] == "{" && tok[0] == "faces":
			fc, err := readFaces(lr)
			if err != nil {
				return err
			}
			faces = fc
		case len(tok) >= 2:
			kv[tok[0]] = tok[1]
		default:
			return fmt.Errorf("mapfile: malformed brush line %d", lr.line)
		}
	}

	_, err := s.AddBrush(tectonic.Brush{
		Common:     commonOf(kv),
		Classname:  kv["classname"],
		Vertices:   verts,
		Faces:      faces,
		Properties: props,
	})
	return err
}

func readVertices(lr *lineReader) ([]tectonic.BrushVertex, error) {
	var out []tectonic.BrushVertex
	for {
		tok, ok := lr.next()
		if !ok {
			return nil, fmt.Errorf("mapfile: unexpected eof inside vertices at line %d", lr.line)
		}
		if len(tok) == 1 && tok[0] == "}" {
			return out, nil
		}
		if len(tok) != 2 || tok[0] != "v" {
			return nil, fmt.Errorf("mapfile: malformed vertex line %d", lr.line)
		}
		out = append(out, tectonic.BrushVertex{Pos: parseVec3(tok[1])})
	}
}

func readFaces(lr *lineReader) ([]tectonic.BrushFace, error) {
	var out []tectonic.BrushFace
	for {
		tok, ok := lr.next()
		if !ok {
			return nil, fmt.Errorf("mapfile: unexpected eof inside faces at line %d", lr.line)
		}
		if len(tok) == 1 && tok[0] == "}" {
			return out, nil
		}
		if len(tok) != 4 || tok[0] != "f" {
			return nil, fmt.Errorf("mapfile: malformed face line %d", lr.line)
		}
		var idx []int
		if tok[1] != "" {
			for _, s := range strings.Split(tok[1], ",") {
				i, _ := strconv.Atoi(s)
				idx = append(idx, i)
			}
		}
		var layers []tectonic.MaterialLayer
		if tok[2] != "" {
			for _, l := range strings.Split(tok[2], "|") {
				parts := strings.Split(l, ":")
				if len(parts) != 6 {
					continue
				}
				layers = append(layers, tectonic.MaterialLayer{
					MaterialPath: parts[0],
					UVOffset:     parseVec2(parts[1] + " " + parts[2]),
					UVScale:      parseVec2(parts[3] + " " + parts[4]),
					UVRotation:   parseF32(parts[5]),
				})
			}
		}
		out = append(out, tectonic.BrushFace{VertexIndices: idx, Layers: layers, BlendmapPath: tok[3]})
	}
}

func (t *TextSerializer) loadLight(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	typ, _ := strconv.Atoi(kv["type"])
	preset, _ := strconv.Atoi(kv["style_preset"])
	_, err = s.AddLight(tectonic.Light{
		Common:        commonOf(kv),
		Type:          tectonic.LightType(typ),
		Color:         parseVec3(kv["color"]),
		Intensity:     parseF32(kv["intensity"]),
		BaseIntensity: parseF32(kv["base_intensity"]),
		IsOn:          parseBool(kv["is_on"]),
		IsStatic:      parseBool(kv["is_static"]),
		Radius:        parseF32(kv["radius"]),
		Cutoff:        parseF32(kv["cutoff"]),
		OuterCutoff:   parseF32(kv["outer_cutoff"]),
		StylePreset:   preset,
		CustomStyle:   kv["custom_style"],
	})
	return err
}

func (t *TextSerializer) loadDecal(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	_, err = s.AddDecal(tectonic.Decal{
		Common:       commonOf(kv),
		Size:         parseVec3(kv["size"]),
		MaterialPath: kv["material_path"],
	})
	return err
}

func (t *TextSerializer) loadSound(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	_, err = s.AddSound(tectonic.Sound{
		Common:      commonOf(kv),
		SoundPath:   kv["sound_path"],
		Volume:      parseF32(kv["volume"]),
		Pitch:       parseF32(kv["pitch"]),
		MaxDistance: parseF32(kv["max_distance"]),
		IsLooping:   parseBool(kv["is_looping"]),
		PlayOnStart: parseBool(kv["play_on_start"]),
	})
	return err
}

func (t *TextSerializer) loadParticleEmitter(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	_, err = s.AddParticleEmitter(tectonic.ParticleEmitter{
		Common:      commonOf(kv),
		ParFile:     kv["par_file"],
		OnByDefault: parseBool(kv["on_by_default"]),
	})
	return err
}

func (t *TextSerializer) loadSprite(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	_, err = s.AddSprite(tectonic.Sprite{
		Common:       commonOf(kv),
		MaterialPath: kv["material_path"],
		Scale:        parseVec3(kv["scale"]),
		Visible:      parseBool(kv["visible"]),
	})
	return err
}

func (t *TextSerializer) loadVideoPlayer(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	_, err = s.AddVideoPlayer(tectonic.VideoPlayer{
		Common:      commonOf(kv),
		Path:        kv["path"],
		Size:        parseVec2(kv["size"]),
		PlayOnStart: parseBool(kv["play_on_start"]),
		Loop:        parseBool(kv["loop"]),
	})
	return err
}

func (t *TextSerializer) loadParallaxRoom(lr *lineReader, s *tectonic.Scene) error {
	kv, err := readFlatBlock(lr)
	if err != nil {
		return err
	}
	_, err = s.AddParallaxRoom(tectonic.ParallaxRoom{
		Common:    commonOf(kv),
		Size:      parseVec2(kv["size"]),
		RoomDepth: parseF32(kv["room_depth"]),
	})
	return err
}

func (t *TextSerializer) loadLogic(lr *lineReader, s *tectonic.Scene) error {
	kv := make(map[string]string)
	var props map[string]string
	for {
		tok, ok := lr.next()
		if !ok {
			return fmt.Errorf("mapfile: unexpected eof inside logic at line %d", lr.line)
		}
		if len(tok) == 1 && tok[0] == "}" {
			break
		}
		if len(tok) == 2 && tok[1] == "{" && tok[0] == "properties" {
			p, err := readFlatBlock(lr)
			if err != nil {
				return err
			}
			props = p
			continue
		}
		if len(tok) < 2 {
			return fmt.Errorf("mapfile: malformed logic line %d", lr.line)
		}
		kv[tok[0]] = tok[1]
	}
	intA, _ := strconv.Atoi(kv["int_a"])
	_, err := s.AddLogic(tectonic.Logic{
		Common:     commonOf(kv),
		Classname:  kv["classname"],
		Properties: props,
		Active:     parseBool(kv["active"]),
		FloatA:     parseF32(kv["float_a"]),
		IntA:       int32(intA),
	})
	return err
}
