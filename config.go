package tectonic

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the flag/file-parsed bootstrap configuration spec.md §6's
// command-line surface and the added config file (SPEC_FULL.md §6) describe.
// No flag-parsing library appears anywhere in the retrieved example pack, so the
// stdlib flag package is the grounded choice (see DESIGN.md).
type EngineConfig struct {
	MapName    string            `yaml:"map"`
	ConfigPath string            `yaml:"-"`
	Dedicated  bool              `yaml:"dedicated"`
	IPCAddr    string            `yaml:"ipc_addr"`
	Cvars      map[string]string `yaml:"cvars"`
}

// ParseFlags builds an EngineConfig from argv with the stdlib flag package:
// "-map <name>" to autostart a map, "-dedicated" for a
// headless server, "-config <path>" for a tectonic.yaml override file.
func ParseFlags(fs *flag.FlagSet, argv []string) (EngineConfig, error) {
	cfg := EngineConfig{IPCAddr: "127.0.0.1:27015"}
	fs.StringVar(&cfg.MapName, "map", "", "autostart map name")
	fs.BoolVar(&cfg.Dedicated, "dedicated", false, "run without a renderer, as a headless server")
	fs.StringVar(&cfg.ConfigPath, "config", "tectonic.yaml", "path to the optional yaml config overlay")
	fs.StringVar(&cfg.IPCAddr, "ipc", cfg.IPCAddr, "loopback address the IPC command listener binds")
	if err := fs.Parse(argv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOverlay merges a tectonic.yaml file's cvar overrides into cfg.Cvars, if the
// file exists. A missing file is not an error: the overlay is optional.
func (cfg *EngineConfig) LoadOverlay() error {
	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var overlay EngineConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}
	if overlay.MapName != "" {
		cfg.MapName = overlay.MapName
	}
	if overlay.IPCAddr != "" {
		cfg.IPCAddr = overlay.IPCAddr
	}
	if cfg.Cvars == nil {
		cfg.Cvars = make(map[string]string, len(overlay.Cvars))
	}
	for k, v := range overlay.Cvars {
		cfg.Cvars[k] = v
	}
	return nil
}

// ApplyTo pushes the config's cvar overrides into the engine via EngineSet, the
// same path a "set" console command would use, before the first Tick.
func (cfg *EngineConfig) ApplyTo(e *Engine) {
	for name, value := range cfg.Cvars {
		e.Cvars.EngineSet(name, value)
	}
}
