package tectonic

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-map", "testmap"})
	require.NoError(t, err)
	assert.Equal(t, "testmap", cfg.MapName)
	assert.False(t, cfg.Dedicated)
	assert.Equal(t, "127.0.0.1:27015", cfg.IPCAddr)
}

func TestLoadOverlayMergesCvars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tectonic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("map: overlaymap\ncvars:\n  sensitivity: \"3.0\"\n"), 0o644))

	cfg := EngineConfig{ConfigPath: path}
	require.NoError(t, cfg.LoadOverlay())

	assert.Equal(t, "overlaymap", cfg.MapName)
	assert.Equal(t, "3.0", cfg.Cvars["sensitivity"])
}

func TestLoadOverlayMissingFileIsNotAnError(t *testing.T) {
	cfg := EngineConfig{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}
	assert.NoError(t, cfg.LoadOverlay())
}

func TestApplyToPushesCvarOverrides(t *testing.T) {
	e := NewEngine(Collaborators{}, nil)
	cfg := EngineConfig{Cvars: map[string]string{"sensitivity": "4.5"}}
	cfg.ApplyTo(e)

	assert.Equal(t, float32(4.5), e.Cvars.GetFloat("sensitivity"))
}
