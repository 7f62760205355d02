//go:build unix

package tectonic

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// InstanceLock is an advisory single-instance lock backed by flock(2), the way
// the pack's terminal-backend code reaches into golang.org/x/sys/unix directly
// for raw syscalls this module needs and the stdlib doesn't expose (see
// DESIGN.md) rather than inventing a pidfile convention of its own.
type InstanceLock struct {
	f *os.File
}

// AcquireInstanceLock takes an exclusive, non-blocking flock on path, creating it
// if needed. It returns an error if another process already holds the lock —
// the engine's main entrypoint treats that as fatal (spec.md §7's "engine
// invariant" class, since two instances sharing a save directory would corrupt
// state).
func AcquireInstanceLock(path string) (*InstanceLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another instance already holds %s: %w", path, err)
	}
	return &InstanceLock{f: f}, nil
}

// Release drops the flock and closes the lock file.
func (l *InstanceLock) Release() error {
	unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	return l.f.Close()
}
