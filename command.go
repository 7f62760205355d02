package tectonic

import (
	"fmt"
	"strings"
	"sync"
)

// CommandFlag bit-combines a command's gating policy, mirroring CvarFlag.
type CommandFlag int

const (
	CommandNone  CommandFlag = 0
	CommandCheat CommandFlag = 1 << iota
)

// CommandHandler is the closed sum Design Notes asks for in place of raw callback
// pointers: a single named func type, dispatched by name through CommandTable.
type CommandHandler func(e *Engine, argv []string) error

type commandEntry struct {
	name        string
	handler     CommandHandler
	description string
	flags       CommandFlag
}

const maxCommands = 256

// CommandTable is the name -> handler registry described in spec.md §4.2. A miss
// against the command table falls through to the cvar store: executing "name value"
// sets the cvar of that name even when no command shares it.
type CommandTable struct {
	mu      sync.RWMutex
	byName  map[string]*commandEntry
	order   []string
	cvars   *CvarStore
	logger  Logger
}

// NewCommandTable creates an empty table bound to cvars for the fallback path.
func NewCommandTable(cvars *CvarStore, log Logger) *CommandTable {
	if log == nil {
		log = NewNopLogger()
	}
	return &CommandTable{
		byName: make(map[string]*commandEntry),
		cvars:  cvars,
		logger: log,
	}
}

// Register adds a command. Re-registration under an existing name replaces the
// handler/description/flags (same idempotent-update shape as Cvar.Register).
func (t *CommandTable) Register(name string, handler CommandHandler, description string, flags CommandFlag) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := strings.ToLower(name)
	if _, exists := t.byName[key]; !exists {
		if len(t.byName) >= maxCommands {
			t.logger.Errorf("command registration failed for %q: max commands reached", name)
			return
		}
		t.order = append(t.order, key)
	}
	t.byName[key] = &commandEntry{
		name:        name,
		handler:     handler,
		description: description,
		flags:       flags,
	}
}

// Execute dispatches argv[0] against the command table, then the cvar store, per
// spec.md §4.2. An empty argv is a silent no-op.
func (t *CommandTable) Execute(e *Engine, argv []string) {
	if len(argv) == 0 {
		return
	}
	name := argv[0]

	t.mu.RLock()
	entry, ok := t.byName[strings.ToLower(name)]
	t.mu.RUnlock()

	if ok {
		if entry.flags&CommandCheat != 0 && t.cvars != nil && !t.cvars.cheatsEnabled() {
			t.logger.Errorf("command %q is cheat protected", name)
			return
		}
		if err := entry.handler(e, argv); err != nil {
			t.logger.Errorf("%v", err)
		}
		return
	}

	if t.cvars != nil {
		if c := t.cvars.Find(name); c != nil {
			if len(argv) >= 2 {
				t.cvars.Set(name, argv[1])
			} else {
				t.logger.Infof("%s = %s // %s", c.Name, c.StringValue, c.Help)
			}
			return
		}
	}

	t.logger.Errorf("unknown command or cvar: %s", name)
}

// Entries returns the registered commands in registration order, for help/cmdlist.
func (t *CommandTable) Entries() []struct {
	Name        string
	Description string
	Flags       CommandFlag
} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]struct {
		Name        string
		Description string
		Flags       CommandFlag
	}, 0, len(t.order))
	for _, key := range t.order {
		e := t.byName[key]
		out = append(out, struct {
			Name        string
			Description string
			Flags       CommandFlag
		}{e.name, e.description, e.flags})
	}
	return out
}

// ErrCommandUsage is returned by handlers reporting a usage mistake; Execute logs it
// as a user-input error per spec.md §7.
func ErrCommandUsage(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
