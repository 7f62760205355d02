package tectonic

// ConnectionID is a monotonically increasing identifier for an I/O connection.
// Using an ID instead of a slice index (Design Notes §9 re-architecture
// directive) means removing a connection never invalidates another connection's
// identity — the original engine/io_system.c's IO_RemoveConnection instead
// shifted the whole tail down, which this module deliberately does not imitate.
type ConnectionID uint64

const (
	maxIOConnections = 1024
	maxPendingEvents = 256
)

// Connection is one "my output fires -> call that input" wire in the I/O graph
// (spec.md §4.4). A tombstoned connection (Removed == true) is skipped by every
// walk and physically compacted out by compactConnections, which FireOutput runs
// and which only acts once the table holds maxIOConnections entries.
type Connection struct {
	ID ConnectionID

	SourceKind EntityKind
	SourceIdx  int
	OutputName string

	TargetName string
	InputName  string
	Parameter  string
	Delay      float32
	FireOnce   bool
	HasFired   bool

	Removed bool
}

// PendingEvent is a fired-but-not-yet-delivered input call, queued by delay.
type PendingEvent struct {
	Target        string
	Input         string
	Parameter     string
	ExecutionTime float32
	seq           uint64 // insertion order, used as the FIFO tie-break
}

// AddConnection registers one output->input wire, enforcing maxIOConnections
// (spec.md §4.4 capacity table). Returns the connection's stable ID.
func (e *Engine) AddConnection(sourceKind EntityKind, sourceIdx int, outputName, targetName, inputName, parameter string, delay float32, fireOnce bool) (ConnectionID, error) {
	if e.liveConnectionCount() >= maxIOConnections {
		e.Logger.Errorf("io: max connections (%d) reached", maxIOConnections)
		return 0, errCapacity("io connections", maxIOConnections)
	}
	e.nextConnID++
	c := Connection{
		ID:         e.nextConnID,
		SourceKind: sourceKind,
		SourceIdx:  sourceIdx,
		OutputName: outputName,
		TargetName: targetName,
		InputName:  inputName,
		Parameter:  parameter,
		Delay:      delay,
		FireOnce:   fireOnce,
	}
	e.connections = append(e.connections, c)
	return c.ID, nil
}

// RemoveConnection tombstones a connection by ID; it is no longer matched by
// FireOutput but its storage slot is not reclaimed until compactConnections runs.
func (e *Engine) RemoveConnection(id ConnectionID) {
	for i := range e.connections {
		if e.connections[i].ID == id {
			e.connections[i].Removed = true
			return
		}
	}
}

// RemoveConnectionsForSource tombstones every connection sourced from the given
// entity, used when that entity is deleted from the scene.
func (e *Engine) RemoveConnectionsForSource(kind EntityKind, idx int) {
	for i := range e.connections {
		if !e.connections[i].Removed && e.connections[i].SourceKind == kind && e.connections[i].SourceIdx == idx {
			e.connections[i].Removed = true
		}
	}
}

func (e *Engine) liveConnectionCount() int {
	n := 0
	for i := range e.connections {
		if !e.connections[i].Removed {
			n++
		}
	}
	return n
}

// compactConnections physically drops tombstoned entries once the live table
// would otherwise overflow; amortizes the O(n) cost instead of paying it on every
// remove, unlike the original's immediate array-shift.
func (e *Engine) compactConnections() {
	if len(e.connections) < maxIOConnections {
		return
	}
	live := e.connections[:0]
	for _, c := range e.connections {
		if !c.Removed {
			live = append(live, c)
		}
	}
	e.connections = live
}

// FireOutput walks every live connection sourced from (sourceKind, sourceIdx,
// outputName) and enqueues a PendingEvent for each, honoring fire-once gating and
// per-connection parameter overrides (spec.md §4.4; grounded on IO_FireOutput in
// engine/io_system.c). now is the engine's current scaled-clock time.
func (e *Engine) FireOutput(sourceKind EntityKind, sourceIdx int, outputName string, now float32, defaultParameter string) {
	for i := range e.connections {
		c := &e.connections[i]
		if c.Removed || c.SourceKind != sourceKind || c.SourceIdx != sourceIdx || c.OutputName != outputName {
			continue
		}
		if c.FireOnce && c.HasFired {
			continue
		}

		param := defaultParameter
		if c.Parameter != "" {
			param = c.Parameter
		}

		if len(e.pending) >= maxPendingEvents {
			e.Logger.Errorf("io: max pending events (%d) reached, dropping fire of %q", maxPendingEvents, outputName)
			continue
		}

		e.pending = append(e.pending, PendingEvent{
			Target:        c.TargetName,
			Input:         c.InputName,
			Parameter:     param,
			ExecutionTime: now + c.Delay,
			seq:           uint64(len(e.pending)) + e.pendingSeqBase(),
		})
		c.HasFired = true
	}
	e.compactConnections()
}

// pendingSeqBase keeps seq monotonic across ProcessPending calls that drain and
// re-append to the same backing slice.
func (e *Engine) pendingSeqBase() uint64 {
	var max uint64
	for _, p := range e.pending {
		if p.seq > max {
			max = p.seq
		}
	}
	if len(e.pending) == 0 {
		return 0
	}
	return max + 1
}

// maxPendingChainDepth bounds how many same-call delivery rounds ProcessPending
// will run: a delay=0 connection fired by an input that ProcessPending itself
// just delivered (e.g. a logic_timer -> logic_relay -> point_servercommand
// chain, spec.md §8 scenario 1) must be delivered within the same call rather
// than waiting a full extra frame, since its ExecutionTime is already <= now.
// The cap only guards against an authored connection cycle spinning forever.
const maxPendingChainDepth = 64

// ProcessPending delivers every event whose ExecutionTime has arrived, in
// execution-time order with stable insertion-order tie-breaking. Each round first
// compacts the ready events out of e.pending with a two-pointer pass and then
// executes them (grounded on IO_ProcessPendingEvents in engine/io_system.c).
// Delivering an input can itself fire new delay=0 outputs; those land back in
// e.pending with ExecutionTime == now and are picked up by the next round
// within this same call, so a same-tick dispatch chain fully drains before
// ProcessPending returns.
func (e *Engine) ProcessPending(now float32) {
	for depth := 0; depth < maxPendingChainDepth; depth++ {
		if len(e.pending) == 0 {
			return
		}

		ready := make([]int, 0, len(e.pending))
		for i, p := range e.pending {
			if p.ExecutionTime <= now {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			return
		}

		// Stable sort by (ExecutionTime, seq) so same-tick fires deliver in the
		// order they were queued.
		for a := 1; a < len(ready); a++ {
			for b := a; b > 0; b-- {
				pi, pj := e.pending[ready[b-1]], e.pending[ready[b]]
				if pi.ExecutionTime < pj.ExecutionTime || (pi.ExecutionTime == pj.ExecutionTime && pi.seq <= pj.seq) {
					break
				}
				ready[b-1], ready[b] = ready[b], ready[b-1]
			}
		}

		readySet := make(map[int]bool, len(ready))
		toExecute := make([]PendingEvent, len(ready))
		for k, i := range ready {
			readySet[i] = true
			toExecute[k] = e.pending[i]
		}

		// Compact the delivered events out before executing them, so any output
		// they fire lands cleanly in e.pending for the next round.
		write := 0
		for i, p := range e.pending {
			if readySet[i] {
				continue
			}
			e.pending[write] = p
			write++
		}
		e.pending = e.pending[:write]

		for _, p := range toExecute {
			e.ExecuteInput(p.Target, p.Input, p.Parameter)
		}
	}
	e.Logger.Errorf("io: pending event chain exceeded %d hops at t=%.3f, breaking to avoid a cyclic connection graph hanging the frame", maxPendingChainDepth, now)
}
