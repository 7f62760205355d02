// Command tectonic is the engine's command-line bootstrap: flag/config parsing,
// the single-instance lock, the IPC listener and the main frame loop. Per
// spec.md §1's Non-goals, it stops at flag parsing — no window, no renderer, no
// GL context. A dedicated server or a real client embeds a Renderer/Physics/
// Sound/Video collaborator set of its own and drives Engine.Tick the same way.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002"
	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002/mapfile"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tectonic:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	cfg, err := tectonic.ParseFlags(flag.NewFlagSet("tectonic", flag.ExitOnError), argv)
	if err != nil {
		return err
	}
	if err := cfg.LoadOverlay(); err != nil {
		return fmt.Errorf("loading %s: %w", cfg.ConfigPath, err)
	}

	lock, err := tectonic.AcquireInstanceLock("tectonic.lock")
	if err != nil {
		return err
	}
	defer lock.Release()

	log := tectonic.NewDefaultLogger("tectonic", false)
	engine := tectonic.NewEngine(tectonic.Collaborators{}, log)
	engine.MapSerializer = mapfile.NewTextSerializer()
	cfg.ApplyTo(engine)

	ipc, err := tectonic.ListenIPC(cfg.IPCAddr, engine)
	if err != nil {
		return fmt.Errorf("starting ipc listener: %w", err)
	}
	defer ipc.Close()
	log.Infof("ipc listening on %s", ipc.Addr())

	if cfg.MapName != "" {
		engine.Commands.Execute(engine, []string{"map", cfg.MapName})
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	last := time.Now()
	for engine.Running() {
		select {
		case <-sig:
			engine.Commands.Execute(engine, []string{"quit"})
			continue
		default:
		}

		now := time.Now()
		dt := now.Sub(last)
		last = now
		engine.Tick(float32(dt.Seconds()))

		fpsMax := engine.Cvars.GetInt("fps_max")
		time.Sleep(frameLimiterSleepFor(fpsMax, time.Since(now)))
	}
	return nil
}

// frameLimiterSleepFor mirrors Engine's unexported frameLimiterSleep (spec.md §5):
// max(0, 1000/fps_max - frame_ms), skipped entirely when fps_max is unset.
func frameLimiterSleepFor(fpsMax int32, frameTime time.Duration) time.Duration {
	if fpsMax <= 0 {
		return 0
	}
	target := time.Second / time.Duration(fpsMax)
	if frameTime >= target {
		return 0
	}
	return target - frameTime
}
