package tectonic

import (
	"github.com/go-gl/mathgl/mgl32"
)

// registerRequiredCvars registers the cvar set spec.md §6 calls out by name as
// part of the contract (names/defaults/flags), plus "g_cheats" (the predicate
// CheatsEnabled defaults to reading — spec.md §8 scenario 2 exercises it
// directly) and the small set of gameplay cvars the trigger runtime needs
// (health, player_paralyzed) that the original engine keeps on the player
// entity rather than as cvars; hoisting them to cvars keeps this module's
// player model to "camera position" without inventing a Player type the spec
// never asks for (see DESIGN.md).
func registerRequiredCvars(s *CvarStore) {
	s.Register("g_cheats", "0", "enable cheat-protected cvars and commands", CvarNone)
	s.Register("developer", "0", "enable developer console spew", CvarCheat)
	s.Register("volume", "2.5", "master volume", CvarNone)
	s.Register("noclip", "0", "disable player collision", CvarCheat)
	s.Register("god", "0", "player takes no damage", CvarCheat)
	s.Register("gravity", "9.81", "world gravity, m/s^2", CvarNone)
	s.Register("engine_running", "1", "main loop continuation flag", CvarHidden)
	s.Register("fov_vertical", "55", "vertical field of view, degrees", CvarNone)
	s.Register("g_speed", "6.0", "player ground speed", CvarNone)
	s.Register("g_sprint_speed", "8.0", "player sprint speed", CvarNone)
	s.Register("g_accel", "15.0", "player acceleration", CvarNone)
	s.Register("g_friction", "2.0", "player ground friction", CvarNone)
	s.Register("g_jump_force", "350.0", "player jump impulse", CvarNone)
	s.Register("g_bob", "0.01", "view bob amplitude", CvarNone)
	s.Register("g_bobcycle", "0.8", "view bob cycle length", CvarNone)
	s.Register("sensitivity", "1.0", "mouse look sensitivity", CvarNone)
	s.Register("timescale", "1.0", "simulation clock scale", CvarCheat)
	s.Register("fps_max", "300", "frame rate limiter target, 0 disables", CvarNone)
	s.Register("r_vsync", "1", "vertical sync", CvarNone)
	s.Register("crosshair", "1", "draw the crosshair", CvarNone)

	s.Register("health", "100", "player health", CvarNone)
	s.Register("player_paralyzed", "0", "player input disabled", CvarNone)

	// Renderer quality set (spec.md §6: "plus the full renderer quality set").
	s.Register("r_shadow_quality", "2", "shadow map resolution tier", CvarNone)
	s.Register("r_texture_quality", "2", "texture mip bias tier", CvarNone)
	s.Register("r_ssao", "1", "screen-space ambient occlusion", CvarNone)
	s.Register("r_bloom", "1", "bloom post-process", CvarNone)
	s.Register("r_motionblur", "0", "motion blur post-process", CvarNone)
	s.Register("r_anisotropic", "8", "anisotropic filtering level", CvarNone)
}

// registerRequiredCommands registers the handlers spec.md §6 lists "for
// parity". Command bodies that genuinely belong to out-of-scope collaborators
// (networking, screenshot capture, lighting bake) do the minimal bookkeeping
// this module owns and log what a full implementation would do next.
func registerRequiredCommands(t *CommandTable) {
	t.Register("help", cmdHelp, "list registered commands", CommandNone)
	t.Register("cmdlist", cmdHelp, "alias for help", CommandNone)
	t.Register("quit", cmdQuit, "exit the engine", CommandNone)
	t.Register("exit", cmdQuit, "alias for quit", CommandNone)
	t.Register("disconnect", cmdDisconnect, "leave the current map", CommandNone)
	t.Register("setpos", cmdSetpos, "teleport the camera to x y z", CommandCheat)
	t.Register("screenshake", cmdScreenshake, "screenshake amp freq dur", CommandCheat)
	t.Register("map", cmdMap, "load a map by name", CommandNone)
	t.Register("maps", cmdMaps, "list available maps", CommandNone)
	t.Register("save", cmdSave, "save the current map state under saves/<name>.sav", CommandNone)
	t.Register("load", cmdLoad, "load saves/<name>.sav", CommandNone)
	t.Register("exec", cmdExec, "execute a script file", CommandNone)
	t.Register("echo", cmdEcho, "print the remaining arguments", CommandNone)
	t.Register("clear", cmdClear, "clear the console", CommandNone)
	t.Register("bind", cmdBind, "bind key command", CommandNone)
	t.Register("unbind", cmdUnbind, "unbind key", CommandNone)
	t.Register("unbindall", cmdUnbindAll, "clear all key bindings", CommandNone)
	t.Register("edit", cmdEdit, "enter/leave the editor", CommandNone)
	t.Register("build_lighting", cmdBuildLighting, "build_lighting [res] [bounces]", CommandNone)
	t.Register("build_cubemaps", cmdBuildCubemaps, "build_cubemaps [res]", CommandNone)
	t.Register("screenshot", cmdScreenshot, "capture a screenshot", CommandNone)
	t.Register("download", cmdDownload, "download <url>", CommandNone)
	t.Register("ping", cmdPing, "ping <host>", CommandNone)
}

func cmdHelp(e *Engine, argv []string) error {
	for _, entry := range e.Commands.Entries() {
		e.Logger.Infof("%-20s %s", entry.Name, entry.Description)
	}
	return nil
}

func cmdQuit(e *Engine, argv []string) error {
	e.Cvars.EngineSet("engine_running", "0")
	return nil
}

func cmdDisconnect(e *Engine, argv []string) error {
	e.Scene.Clear()
	e.connections = nil
	e.pending = nil
	return nil
}

func cmdSetpos(e *Engine, argv []string) error {
	if len(argv) != 4 {
		return ErrCommandUsage("usage: setpos x y z")
	}
	x := parseFloatOr(argv[1], e.Camera.Position[0])
	y := parseFloatOr(argv[2], e.Camera.Position[1])
	z := parseFloatOr(argv[3], e.Camera.Position[2])
	e.Camera.Position = mgl32.Vec3{x, y, z}
	return nil
}

func cmdScreenshake(e *Engine, argv []string) error {
	if len(argv) != 4 {
		return ErrCommandUsage("usage: screenshake amp freq dur")
	}
	e.ShakeAmplitude = parseFloatOr(argv[1], 1)
	e.ShakeFrequency = parseFloatOr(argv[2], 1)
	e.ShakeDurationTimer = parseFloatOr(argv[3], 1)
	return nil
}

func cmdMap(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: map <name>")
	}
	if e.MapSerializer == nil {
		e.Logger.Infof("map: no MapSerializer wired, cannot load %q", argv[1])
		return nil
	}
	path := "maps/" + argv[1] + ".map"
	e.Scene.Clear()
	if err := e.MapSerializer.Load(path, e.Scene); err != nil {
		e.Logger.Errorf("map: %v", err)
		return err
	}
	e.Scene.MapPath = argv[1]
	e.Logger.Infof("map: loaded %s", path)
	return nil
}

func cmdMaps(e *Engine, argv []string) error {
	e.Logger.Infof("maps: listing the maps/ directory is left to the out-of-scope filesystem/asset browser")
	return nil
}

func cmdSave(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: save <name>")
	}
	if e.MapSerializer == nil {
		e.Logger.Infof("save: no MapSerializer wired, cannot save %q", argv[1])
		return nil
	}
	path := "saves/" + argv[1] + ".sav"
	if err := e.MapSerializer.Save(path, e.Scene); err != nil {
		e.Logger.Errorf("save: %v", err)
		return err
	}
	e.Logger.Infof("save: wrote %s", path)
	return nil
}

func cmdLoad(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: load <name>")
	}
	if e.MapSerializer == nil {
		e.Logger.Infof("load: no MapSerializer wired, cannot load %q", argv[1])
		return nil
	}
	path := "saves/" + argv[1] + ".sav"
	e.Scene.Clear()
	if err := e.MapSerializer.Load(path, e.Scene); err != nil {
		e.Logger.Errorf("load: %v", err)
		return err
	}
	e.Logger.Infof("load: read %s", path)
	return nil
}

func cmdExec(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: exec <file>")
	}
	e.Commands.Exec(e, argv[1])
	return nil
}

func cmdEcho(e *Engine, argv []string) error {
	e.Logger.Infof("%s", joinArgs(argv[1:]))
	return nil
}

func cmdClear(e *Engine, argv []string) error {
	if cl, ok := e.Logger.(*CapturingLogger); ok {
		cl.Clear()
	}
	return nil
}

func cmdBind(e *Engine, argv []string) error {
	if len(argv) < 3 {
		return ErrCommandUsage("usage: bind key command")
	}
	e.Logger.Infof("bind: input binding table is owned by the out-of-scope input collaborator")
	return nil
}

func cmdUnbind(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: unbind key")
	}
	return nil
}

func cmdUnbindAll(e *Engine, argv []string) error {
	return nil
}

func cmdEdit(e *Engine, argv []string) error {
	e.Logger.Infof("edit: editor mode toggling is owned by the out-of-scope editor frontend")
	return nil
}

func cmdBuildLighting(e *Engine, argv []string) error {
	e.Logger.Infof("build_lighting: lightmap baking is owned by the out-of-scope renderer")
	return nil
}

func cmdBuildCubemaps(e *Engine, argv []string) error {
	e.Logger.Infof("build_cubemaps: cubemap baking is owned by the out-of-scope renderer")
	return nil
}

func cmdScreenshot(e *Engine, argv []string) error {
	e.Logger.Infof("screenshot: framebuffer capture is owned by the out-of-scope renderer")
	return nil
}

func cmdDownload(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: download <url>")
	}
	e.Logger.Infof("download: asset fetching is owned by the out-of-scope networking collaborator")
	return nil
}

func cmdPing(e *Engine, argv []string) error {
	if len(argv) != 2 {
		return ErrCommandUsage("usage: ping <host>")
	}
	e.Logger.Infof("ping: network probing is owned by the out-of-scope networking collaborator")
	return nil
}

func joinArgs(argv []string) string {
	out := ""
	for i, a := range argv {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
