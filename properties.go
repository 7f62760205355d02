package tectonic

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// propertyF32 parses a property bag entry as float32, falling back to def on a
// missing key or a malformed value. This is the typed-accessor pattern Design Notes
// calls for over the open-ended map<string,string> property bag: the bag stays the
// canonical storage so new classnames can introduce new keys without recompiling
// readers, but callers never hand-parse strings themselves.
func propertyF32(props map[string]string, key string, def float32) float32 {
	v, ok := props[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// propertyInt parses a property bag entry as int, falling back to def.
func propertyInt(props map[string]string, key string, def int) int {
	v, ok := props[key]
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

// propertyBool parses "0"/"1" (and "false"/"true") property bag entries.
func propertyBool(props map[string]string, key string, def bool) bool {
	v, ok := props[key]
	if !ok {
		return def
	}
	switch strings.TrimSpace(v) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}

// formatFloat32 renders f without trailing zeros, for writing derived cvar/
// property values back out as strings.
func formatFloat32(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// propertyVec3 parses a "x y z" space-separated property as a Vec3.
func propertyVec3(props map[string]string, key string, def mgl32.Vec3) mgl32.Vec3 {
	v, ok := props[key]
	if !ok {
		return def
	}
	fields := strings.Fields(v)
	if len(fields) != 3 {
		return def
	}
	var out mgl32.Vec3
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return def
		}
		out[i] = float32(x)
	}
	return out
}
