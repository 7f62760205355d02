package tectonic

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Soft-Sprint-Studios/Tectonic-Engine-sub002/external"
)

// ActionKind distinguishes the editor edit shapes spec.md §4.7 tracks.
type ActionKind int

const (
	ActionModify ActionKind = iota
	ActionCreate
	ActionDelete
)

const undoStackCapacity = 128

// EntitySnapshot is one entity's complete value at a point in time, tagged by
// kind+index so Apply can write it straight back into the right Scene slice slot.
// Value holds the entity's own Clone() result (Model, Brush, Light, ...).
type EntitySnapshot struct {
	Ref   EntityRef
	Value any
}

// ActionItem is one entity's contribution to an Action: its own Kind, plus
// whichever of Before/After that Kind needs (Modify uses both, Create only
// After, Delete only Before). Giving each entity its own Kind, rather than one
// Kind per Action, is what lets begin_multi/end_multi bundle a mixed batch (e.g.
// deleting B0 and B2 while simultaneously repositioning B1) into one atomic step
// without misclassifying the deletes as modifies.
type ActionItem struct {
	Kind   ActionKind
	Before EntitySnapshot
	After  EntitySnapshot
}

// Action is a single undo/redo stack entry: one ActionItem per entity touched.
// len(Items) > 1 only for a begin_multi/end_multi bundle. A single-item Modify
// is the only shape PushMerge will ever coalesce into (see DESIGN.md for why
// multi-entity bundles are never merge targets).
type Action struct {
	Items []ActionItem
}

// UndoEngine owns the bounded undo/redo stacks and the begin_multi/end_multi
// session used to bundle edits to several entities into one atomic step.
type UndoEngine struct {
	scene *Scene

	undoStack []Action
	redoStack []Action

	multiDepth int
	session    []Action
}

// NewUndoEngine binds an UndoEngine to the scene whose entities it snapshots and
// rewrites on Undo/Redo.
func NewUndoEngine(scene *Scene) *UndoEngine {
	return &UndoEngine{scene: scene}
}

// BeginMulti opens a bundling session: every Push* call until the matching
// EndMulti accumulates into one Action instead of landing on the stack
// individually, so a single Undo reverts the whole gesture (e.g. dragging a
// multi-selection) atomically.
func (u *UndoEngine) BeginMulti() {
	u.multiDepth++
}

// EndMulti closes the bundling session. A session holding exactly one Action is
// pushed as-is (no pointless one-entity "bundle" wrapper); a session holding
// several is flattened into a single multi-entity Action.
func (u *UndoEngine) EndMulti() {
	if u.multiDepth == 0 {
		return
	}
	u.multiDepth--
	if u.multiDepth > 0 || len(u.session) == 0 {
		return
	}

	session := u.session
	u.session = nil

	if len(session) == 1 {
		u.pushStack(session[0])
		return
	}

	var bundle Action
	for _, a := range session {
		bundle.Items = append(bundle.Items, a.Items...)
	}
	u.pushStack(bundle)
}

// pushStack lands a finished Action on the undo stack, evicting the oldest entry
// past undoStackCapacity, and clears the redo stack (a fresh edit invalidates any
// previously undone future).
func (u *UndoEngine) pushStack(a Action) {
	if u.multiDepth > 0 {
		u.session = append(u.session, a)
		return
	}
	u.undoStack = append(u.undoStack, a)
	if len(u.undoStack) > undoStackCapacity {
		u.undoStack = u.undoStack[len(u.undoStack)-undoStackCapacity:]
	}
	u.redoStack = nil
}

// PushModify records a property/position edit. before is the entity's snapshot
// captured by the caller prior to mutating it; the after-snapshot is captured
// here, from the scene's current (already-mutated) state.
func (u *UndoEngine) PushModify(ref EntityRef, before EntitySnapshot) {
	u.pushStack(Action{Items: []ActionItem{{Kind: ActionModify, Before: before, After: u.Snapshot(ref)}}})
}

// PushMerge behaves like PushModify, except that when the topmost undo entry is a
// single-item Modify of the same entity (whether PushModify or PushMerge made it),
// it only refreshes that entry's after-snapshot instead of growing the stack. This is
// what keeps a continuous gizmo drag or a held-down property spinner to one undo
// step (spec.md §4.7).
func (u *UndoEngine) PushMerge(ref EntityRef, before EntitySnapshot) {
	if u.multiDepth == 0 && len(u.undoStack) > 0 {
		top := &u.undoStack[len(u.undoStack)-1]
		if len(top.Items) == 1 && top.Items[0].Kind == ActionModify && top.Items[0].After.Ref == ref {
			top.Items[0].After = u.Snapshot(ref)
			return
		}
	}
	u.PushModify(ref, before)
}

// PushCreate records that ref was just added to the scene (via one of Scene's
// Add* methods). Undo deletes it again; Redo recreates it.
func (u *UndoEngine) PushCreate(ref EntityRef) {
	u.pushStack(Action{Items: []ActionItem{{Kind: ActionCreate, After: u.Snapshot(ref)}}})
}

// PushDelete records that ref is about to be removed. before must be captured
// (via Snapshot) before the caller actually deletes the entity.
func (u *UndoEngine) PushDelete(ref EntityRef, before EntitySnapshot) {
	u.pushStack(Action{Items: []ActionItem{{Kind: ActionDelete, Before: before}}})
}

// Snapshot deep-copies the live entity at ref via its own Clone method.
func (u *UndoEngine) Snapshot(ref EntityRef) EntitySnapshot {
	s := u.scene
	var v any
	switch ref.Kind {
	case KindModel:
		v = s.Models[ref.Index].Clone()
	case KindBrush:
		v = s.Brushes[ref.Index].Clone()
	case KindLight:
		v = s.Lights[ref.Index].Clone()
	case KindDecal:
		v = s.Decals[ref.Index].Clone()
	case KindSound:
		v = s.Sounds[ref.Index].Clone()
	case KindParticleEmitter:
		v = s.ParticleEmitters[ref.Index].Clone()
	case KindSprite:
		v = s.Sprites[ref.Index].Clone()
	case KindVideoPlayer:
		v = s.VideoPlayers[ref.Index].Clone()
	case KindParallaxRoom:
		v = s.ParallaxRooms[ref.Index].Clone()
	case KindLogic:
		v = s.LogicEntities[ref.Index].Clone()
	}
	return EntitySnapshot{Ref: ref, Value: v}
}

// writeSnapshot overwrites the live slot at snap.Ref with snap.Value, in place.
// Used directly for Modify (the entity stays alive throughout; any external
// handle the snapshot carries is whatever was valid when it was captured).
func (u *UndoEngine) writeSnapshot(snap EntitySnapshot) {
	s := u.scene
	switch snap.Ref.Kind {
	case KindModel:
		s.Models[snap.Ref.Index] = snap.Value.(Model)
	case KindBrush:
		s.Brushes[snap.Ref.Index] = snap.Value.(Brush)
	case KindLight:
		s.Lights[snap.Ref.Index] = snap.Value.(Light)
	case KindDecal:
		s.Decals[snap.Ref.Index] = snap.Value.(Decal)
	case KindSound:
		s.Sounds[snap.Ref.Index] = snap.Value.(Sound)
	case KindParticleEmitter:
		s.ParticleEmitters[snap.Ref.Index] = snap.Value.(ParticleEmitter)
	case KindSprite:
		s.Sprites[snap.Ref.Index] = snap.Value.(Sprite)
	case KindVideoPlayer:
		s.VideoPlayers[snap.Ref.Index] = snap.Value.(VideoPlayer)
	case KindParallaxRoom:
		s.ParallaxRooms[snap.Ref.Index] = snap.Value.(ParallaxRoom)
	case KindLogic:
		s.LogicEntities[snap.Ref.Index] = snap.Value.(Logic)
	}
}

// banishEntity removes a live entity through the scene's normal Delete path,
// freeing its externally-owned handles. Used whenever an Undo/Redo step makes an
// entity stop existing (Redo of a Create's inverse never happens; Undo of Create
// and Redo of Delete both land here).
func (u *UndoEngine) banishEntity(ref EntityRef) {
	s := u.scene
	switch ref.Kind {
	case KindModel:
		s.DeleteModel(ref.Index)
	case KindBrush:
		s.DeleteBrush(ref.Index)
	case KindLight:
		s.DeleteLight(ref.Index)
	case KindDecal:
		s.DeleteDecal(ref.Index)
	case KindSound:
		s.DeleteSound(ref.Index)
	case KindParticleEmitter:
		s.DeleteParticleEmitter(ref.Index)
	case KindSprite:
		s.DeleteSprite(ref.Index)
	case KindVideoPlayer:
		s.DeleteVideoPlayer(ref.Index)
	case KindParallaxRoom:
		s.DeleteParallaxRoom(ref.Index)
	case KindLogic:
		s.DeleteLogic(ref.Index)
	}
}

// reviveEntity raw-inserts snap's value back at its original index (bypassing the
// capacity-checked Add* path, since it previously lived there) and reconstructs
// its externally-owned handles from the path/descriptor fields the snapshot
// carries. Used whenever an Undo/Redo step brings an entity back into existence
// (Undo of Delete, Redo of Create).
func (u *UndoEngine) reviveEntity(snap EntitySnapshot) {
	s := u.scene
	i := snap.Ref.Index
	switch snap.Ref.Kind {
	case KindModel:
		s.Models = insertAt(s.Models, i, snap.Value.(Model))
	case KindBrush:
		s.Brushes = insertAt(s.Brushes, i, snap.Value.(Brush))
	case KindLight:
		s.Lights = insertAt(s.Lights, i, snap.Value.(Light))
	case KindDecal:
		s.Decals = insertAt(s.Decals, i, snap.Value.(Decal))
	case KindSound:
		s.Sounds = insertAt(s.Sounds, i, snap.Value.(Sound))
	case KindParticleEmitter:
		s.ParticleEmitters = insertAt(s.ParticleEmitters, i, snap.Value.(ParticleEmitter))
	case KindSprite:
		s.Sprites = insertAt(s.Sprites, i, snap.Value.(Sprite))
	case KindVideoPlayer:
		s.VideoPlayers = insertAt(s.VideoPlayers, i, snap.Value.(VideoPlayer))
	case KindParallaxRoom:
		s.ParallaxRooms = insertAt(s.ParallaxRooms, i, snap.Value.(ParallaxRoom))
	case KindLogic:
		s.LogicEntities = insertAt(s.LogicEntities, i, snap.Value.(Logic))
	}
	u.rehydrateHandles(snap.Ref)
}

// brushMeshData flattens a brush's vertex/face geometry into the external
// physics collaborator's wire format.
func brushMeshData(b *Brush) external.MeshData {
	verts := make([]mgl32.Vec3, len(b.Vertices))
	for i, v := range b.Vertices {
		verts[i] = v.Pos
	}
	var indices []uint32
	for _, f := range b.Faces {
		for _, vi := range f.VertexIndices {
			indices = append(indices, uint32(vi))
		}
	}
	return external.MeshData{Vertices: verts, Indices: indices}
}

// rehydrateHandles recreates the externally-owned handles a just-revived entity
// needs, from the path/descriptor fields that do get (de)serialized. ParallaxRoom
// is the one exception spec.md §4.7 calls out: across ordinary Modify edits its
// cubemap carries over by value (see writeSnapshot), but a full Create/Delete
// cycle still allocates/frees it like any other handle, since the room's render
// target genuinely stops existing while the entity is gone.
func (u *UndoEngine) rehydrateHandles(ref EntityRef) {
	c := u.scene.Collabs
	switch ref.Kind {
	case KindModel:
		m := &u.scene.Models[ref.Index]
		if c.Renderer != nil && m.ModelPath != "" {
			if h, err := c.Renderer.LoadModel(m.ModelPath); err == nil {
				m.RenderHandle = h
			}
		}
		// Rebuilding the physics body needs the collision mesh the GLTF loader
		// produces, which Model does not retain; physics re-attaches on the next
		// EnablePhysics input instead of here.
	case KindBrush:
		b := &u.scene.Brushes[ref.Index]
		if c.Physics != nil && len(b.Vertices) > 0 {
			b.PhysicsBody = c.Physics.CreateStaticBody(brushMeshData(b), mgl32.Vec3{1, 1, 1})
		}
	case KindLight:
		l := &u.scene.Lights[ref.Index]
		if c.Renderer != nil {
			l.ShadowMap = c.Renderer.CreateShadowMap()
		}
	case KindSound:
		snd := &u.scene.Sounds[ref.Index]
		if c.Sound != nil && snd.SoundPath != "" {
			if h, err := c.Sound.LoadBuffer(snd.SoundPath); err == nil {
				snd.Buffer = h
			}
		}
	case KindVideoPlayer:
		v := &u.scene.VideoPlayers[ref.Index]
		if c.Video != nil && v.Path != "" {
			if h, err := c.Video.Open(v.Path); err == nil {
				v.Decoder = h
				c.Video.Seek(h, 0)
			}
		}
	case KindParallaxRoom:
		p := &u.scene.ParallaxRooms[ref.Index]
		if c.Renderer != nil {
			p.Cubemap = c.Renderer.CreateCubemap()
		}
	case KindDecal, KindParticleEmitter, KindSprite, KindLogic:
		// No externally-owned handles.
	}
}

// revivalOrder returns a copy of snaps sorted ascending by their original
// Ref.Index. Reviving in
// ascending order is what makes repeated plain inserts reconstruct the
// original array: by the time item i's original index is reached, every
// lower original index has already been re-inserted ahead of it.
func revivalOrder(snaps []EntitySnapshot) []EntitySnapshot {
	out := append([]EntitySnapshot(nil), snaps...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Ref.Index < out[j-1].Ref.Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// banishDescending removes refs through Scene's Delete path in descending
// index order, so deleting one entity never shifts the still-pending index of
// another entity also being banished in the same Action.
func banishDescending(refs []EntityRef, banish func(EntityRef)) {
	out := append([]EntityRef(nil), refs...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Index > out[j-1].Index; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	for _, r := range out {
		banish(r)
	}
}

// applyUndo reverses a single Action in place.
func (u *UndoEngine) applyUndo(a Action) {
	var revive []EntitySnapshot
	var banish []EntityRef
	for _, it := range a.Items {
		switch it.Kind {
		case ActionModify:
			u.writeSnapshot(it.Before)
		case ActionCreate:
			banish = append(banish, it.After.Ref)
		case ActionDelete:
			revive = append(revive, it.Before)
		}
	}
	banishDescending(banish, u.banishEntity)
	for _, snap := range revivalOrder(revive) {
		u.reviveEntity(snap)
	}
}

// applyRedo re-applies a single Action in place.
func (u *UndoEngine) applyRedo(a Action) {
	var revive []EntitySnapshot
	var banish []EntityRef
	for _, it := range a.Items {
		switch it.Kind {
		case ActionModify:
			u.writeSnapshot(it.After)
		case ActionCreate:
			revive = append(revive, it.After)
		case ActionDelete:
			banish = append(banish, it.Before.Ref)
		}
	}
	banishDescending(banish, u.banishEntity)
	for _, snap := range revivalOrder(revive) {
		u.reviveEntity(snap)
	}
}

// Undo pops and reverses the most recent action, pushing it onto the redo stack.
// Reports false if the undo stack is empty.
func (u *UndoEngine) Undo() bool {
	n := len(u.undoStack)
	if n == 0 {
		return false
	}
	a := u.undoStack[n-1]
	u.undoStack = u.undoStack[:n-1]
	u.applyUndo(a)
	u.redoStack = append(u.redoStack, a)
	if len(u.redoStack) > undoStackCapacity {
		u.redoStack = u.redoStack[len(u.redoStack)-undoStackCapacity:]
	}
	return true
}

// Redo pops and re-applies the most recently undone action. Reports false if the
// redo stack is empty.
func (u *UndoEngine) Redo() bool {
	n := len(u.redoStack)
	if n == 0 {
		return false
	}
	a := u.redoStack[n-1]
	u.redoStack = u.redoStack[:n-1]
	u.applyRedo(a)
	u.undoStack = append(u.undoStack, a)
	if len(u.undoStack) > undoStackCapacity {
		u.undoStack = u.undoStack[len(u.undoStack)-undoStackCapacity:]
	}
	return true
}

// CanUndo/CanRedo report stack occupancy, for editor UI graying-out.
func (u *UndoEngine) CanUndo() bool { return len(u.undoStack) > 0 }
func (u *UndoEngine) CanRedo() bool { return len(u.redoStack) > 0 }
