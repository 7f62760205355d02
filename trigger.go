package tectonic

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// aabbFromVertices returns the axis-aligned bounding box of a brush's local
// vertices, offset by its world position. Brushes carry no separate collision
// mesh in this module (the physics collaborator owns exact collision); the AABB
// is what trigger/volume containment tests against, matching the original
// engine's broad-phase box check ahead of a narrow-phase physics query.
func aabbFromVertices(b *Brush) (min, max mgl32.Vec3) {
	if len(b.Vertices) == 0 {
		return b.Pos, b.Pos
	}
	min = b.Vertices[0].Pos
	max = b.Vertices[0].Pos
	for _, v := range b.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Pos[i] < min[i] {
				min[i] = v.Pos[i]
			}
			if v.Pos[i] > max[i] {
				max[i] = v.Pos[i]
			}
		}
	}
	return min.Add(b.Pos), max.Add(b.Pos)
}

func aabbContains(min, max, p mgl32.Vec3) bool {
	return p[0] >= min[0] && p[0] <= max[0] &&
		p[1] >= min[1] && p[1] <= max[1] &&
		p[2] >= min[2] && p[2] <= max[2]
}

// aabbExtentAlong returns the AABB's extent projected onto a (normalized)
// direction, used by func_door to default its travel distance (spec.md §4.6).
func aabbExtentAlong(min, max mgl32.Vec3, dir mgl32.Vec3) float32 {
	size := max.Sub(min)
	return float32(math.Abs(float64(size[0]*dir[0])) +
		math.Abs(float64(size[1]*dir[1])) +
		math.Abs(float64(size[2]*dir[2])))
}

// updateTriggers runs the per-frame trigger/volume pass: AABB containment checks
// for trigger_* classes against the camera position (this module's stand-in for
// a player entity — see DESIGN.md), and continuous motion for func_* solid
// volumes (doors, platforms, rotators, pendulums, weight buttons, water).
func (e *Engine) updateTriggers(dt float32) {
	playerPos := e.Camera.Position

	for i := range e.Scene.Brushes {
		b := &e.Scene.Brushes[i]
		switch b.Classname {
		case "trigger_once", "trigger_multiple", "trigger_teleport", "trigger_camera",
			"trigger_hurt", "trigger_killplayer", "trigger_paralyzeplayer",
			"trigger_autosave", "trigger_gravity", "trigger_dspzone":
			e.updateTriggerVolume(i, b, playerPos, dt)
		case "func_door":
			e.updateDoor(i, b, dt)
		case "func_plat":
			e.updatePlat(b, dt, playerPos)
		case "func_rotating":
			e.updateRotating(b, dt)
		case "func_pendulum":
			e.updatePendulum(b, dt)
		case "func_weight_button":
			e.updateWeightButton(i, b)
		case "func_water":
			e.updateWater(b, playerPos)
		case "func_conveyor", "func_ladder", "func_friction":
			// Purely descriptive volumes: the physics/movement collaborator reads
			// these properties directly (surface speed, climbability, friction
			// scale); there is no per-frame state to advance here.
		}
	}
}

// updateTriggerVolume fires the touch/untouch outputs for one trigger_* brush
// based on whether playerPos has entered or left its AABB this frame, and
// applies the "inside per frame" classes (trigger_hurt/killplayer/paralyze).
func (e *Engine) updateTriggerVolume(idx int, b *Brush, playerPos mgl32.Vec3, dt float32) {
	min, max := aabbFromVertices(b)
	inside := aabbContains(min, max, playerPos)
	now := e.Now()

	if inside && !b.Runtime.PlayerIsTouching {
		b.Runtime.PlayerIsTouching = true
		e.fireTriggerEnter(idx, b, now)
	} else if !inside && b.Runtime.PlayerIsTouching {
		b.Runtime.PlayerIsTouching = false
		e.fireTriggerLeave(idx, b, now)
	}

	if inside {
		switch b.Classname {
		case "trigger_hurt":
			if !e.Cvars.GetBool("god") {
				damage := b.PropertyF32("damage", 10)
				e.Cvars.EngineSet("health", formatFloat32(e.Cvars.GetFloat("health")-damage*dt))
			}
		case "trigger_killplayer":
			e.Cvars.EngineSet("health", "0")
		case "trigger_paralyzeplayer":
			e.Cvars.EngineSet("player_paralyzed", "1")
		case "trigger_gravity":
			if e.Scene.Collabs.Physics != nil {
				e.Scene.Collabs.Physics.SetGravity(mgl32.Vec3{0, -b.PropertyF32("gravity", 9.81), 0})
			}
		case "trigger_dspzone":
			if e.Scene.Collabs.Sound != nil {
				e.Scene.Collabs.Sound.SetDSPPreset(b.PropertyString("dsp_preset", ""))
			}
		}
	}
}

func (e *Engine) fireTriggerEnter(idx int, b *Brush, now float32) {
	switch b.Classname {
	case "trigger_once":
		if b.Runtime.HasFired {
			return
		}
		b.Runtime.HasFired = true
		e.FireOutput(KindBrush, idx, "OnStartTouch", now, "")
	case "trigger_multiple":
		e.FireOutput(KindBrush, idx, "OnStartTouch", now, "")
	case "trigger_teleport":
		e.FireOutput(KindBrush, idx, "OnStartTouch", now, "")
		e.applyTeleport(b)
	case "trigger_camera":
		e.FireOutput(KindBrush, idx, "OnStartTouch", now, "")
	case "trigger_autosave":
		if !b.Runtime.HasFired {
			b.Runtime.HasFired = true
			e.Commands.Execute(e, []string{"save", "autosave"})
		}
	case "trigger_gravity":
		e.FireOutput(KindBrush, idx, "OnStartTouch", now, "")
	}
}

func (e *Engine) fireTriggerLeave(idx int, b *Brush, now float32) {
	switch b.Classname {
	case "trigger_multiple", "trigger_camera", "trigger_gravity":
		e.FireOutput(KindBrush, idx, "OnEndTouch", now, "")
	}
}

// applyTeleport relocates the camera to the brush's "target" entity's position,
// matching trigger_teleport's original behavior.
func (e *Engine) applyTeleport(b *Brush) {
	targetName := b.PropertyString("target", "")
	if targetName == "" {
		return
	}
	_, pos, rot, ok := e.Scene.FindTargetname(targetName)
	if !ok {
		e.Logger.Errorf("io: trigger_teleport %s: target %q not found", b.Targetname, targetName)
		return
	}
	e.Camera.Position = pos
	e.Camera.Yaw = rot[1]
}

// doorDirection turns the yaw (Y) component of the euler "direction" property
// ("pitch yaw roll"; a bare number is read as the yaw) into the horizontal unit
// vector (sin yaw, 0, cos yaw). Pitch and roll are ignored.
func doorDirection(b *Brush) mgl32.Vec3 {
	yaw := b.PropertyVec3("direction", mgl32.Vec3{0, b.PropertyF32("direction", 0), 0})[1]
	rad := float64(yaw) * math.Pi / 180
	return mgl32.Vec3{float32(math.Sin(rad)), 0, float32(math.Cos(rad))}
}

// ensureDoorEndpoints lazily computes start/end positions the first time a door
// is touched: distance defaults to the AABB extent projected onto the travel
// direction (spec.md §4.6), and "StartOpen" selects the initial state.
func ensureDoorEndpoints(b *Brush) {
	if b.Runtime.DoorMoveDir != (mgl32.Vec3{}) {
		return
	}
	dir := doorDirection(b)
	min, max := aabbFromVertices(b)
	distance := b.PropertyF32("distance", aabbExtentAlong(min, max, dir))

	b.Runtime.DoorMoveDir = dir
	b.Runtime.DoorStartPos = b.Pos
	b.Runtime.DoorEndPos = b.Pos.Add(dir.Mul(distance))

	if b.PropertyBool("startopen", false) {
		b.Pos = b.Runtime.DoorEndPos
		b.Runtime.DoorState = DoorOpen
	}
}

// updateDoor advances func_door's open/close state machine by dt, translating
// between DoorStartPos and DoorEndPos at "speed" units/second, firing
// OnOpened/OnClosed on arrival and auto-closing after "wait" seconds.
func (e *Engine) updateDoor(idx int, b *Brush, dt float32) {
	ensureDoorEndpoints(b)
	speed := b.PropertyF32("speed", 100)
	now := e.Now()

	switch b.Runtime.DoorState {
	case DoorOpening:
		if moveToward(&b.Pos, b.Runtime.DoorEndPos, speed*dt) {
			b.Runtime.DoorState = DoorOpen
			b.Runtime.PlatHoldT = 0
			e.FireOutput(KindBrush, idx, "OnOpened", now, "")
		}
	case DoorOpen:
		wait := b.PropertyF32("wait", -1)
		if wait >= 0 {
			b.Runtime.PlatHoldT += dt
			if b.Runtime.PlatHoldT >= wait {
				b.Runtime.DoorState = DoorClosing
			}
		}
	case DoorClosing:
		if moveToward(&b.Pos, b.Runtime.DoorStartPos, speed*dt) {
			b.Runtime.DoorState = DoorClosed
			e.FireOutput(KindBrush, idx, "OnClosed", now, "")
		}
	}
}

// updatePlat advances func_plat's bottom/top elevator state machine; player
// touch triggers Up unless "is_trigger" mode is set (spec.md §4.6).
func (e *Engine) updatePlat(b *Brush, dt float32, playerPos mgl32.Vec3) {
	if b.Runtime.PlatTop == (mgl32.Vec3{}) && b.Runtime.PlatBottom == (mgl32.Vec3{}) {
		b.Runtime.PlatBottom = b.Pos
		height := b.PropertyF32("height", 100)
		b.Runtime.PlatTop = b.Pos.Add(mgl32.Vec3{0, height, 0})
	}

	if !b.PropertyBool("is_trigger", false) && b.Runtime.PlatState == PlatBottom {
		min, max := aabbFromVertices(b)
		if aabbContains(min, max, playerPos) {
			b.Runtime.PlatState = PlatUp
		}
	}

	speed := b.PropertyF32("speed", 100)
	switch b.Runtime.PlatState {
	case PlatUp:
		if moveToward(&b.Pos, b.Runtime.PlatTop, speed*dt) {
			b.Runtime.PlatState = PlatTop
			b.Runtime.PlatHoldT = 0
		}
	case PlatTop:
		wait := b.PropertyF32("wait", 3)
		b.Runtime.PlatHoldT += dt
		if b.Runtime.PlatHoldT >= wait {
			b.Runtime.PlatState = PlatDown
		}
	case PlatDown:
		if moveToward(&b.Pos, b.Runtime.PlatBottom, speed*dt) {
			b.Runtime.PlatState = PlatBottom
		}
	}
}

// moveToward steps *pos linearly toward target by at most maxDelta units,
// reporting whether it arrived exactly this call.
func moveToward(pos *mgl32.Vec3, target mgl32.Vec3, maxDelta float32) bool {
	diff := target.Sub(*pos)
	dist := diff.Len()
	if dist <= maxDelta || dist == 0 {
		*pos = target
		return true
	}
	*pos = pos.Add(diff.Normalize().Mul(maxDelta))
	return false
}

// updateRotating advances a brush's angular velocity toward its target. With
// "accdcc" set, velocity lerps at a rate "fanfriction" (0..100) maps to
// (10..2 degrees/sec^2, inverted: higher friction, slower acceleration);
// otherwise velocity snaps immediately (spec.md §4.6).
func (e *Engine) updateRotating(b *Brush, dt float32) {
	rt := &b.Runtime
	if !b.PropertyBool("accdcc", false) {
		rt.CurrentAngularVelocity = rt.TargetAngularVelocity
	} else {
		friction := clamp01(b.PropertyF32("fanfriction", 0) / 100)
		rate := 10 - friction*8
		diff := rt.TargetAngularVelocity - rt.CurrentAngularVelocity
		maxStep := rate * dt
		if diff > maxStep {
			rt.CurrentAngularVelocity += maxStep
		} else if diff < -maxStep {
			rt.CurrentAngularVelocity -= maxStep
		} else {
			rt.CurrentAngularVelocity = rt.TargetAngularVelocity
		}
	}

	b.Rot[1] += rt.CurrentAngularVelocity * dt
	for b.Rot[1] >= 360 {
		b.Rot[1] -= 360
	}
	for b.Rot[1] < 0 {
		b.Rot[1] += 360
	}
}

// updatePendulum swings a brush's position sinusoidally along "swing_dir"
// around its rest position, per spec.md §4.6: pos = start + dir*sin(t*speed*2pi)*distance.
func (e *Engine) updatePendulum(b *Brush, dt float32) {
	speed := b.PropertyF32("speed", 0.5)
	distance := b.PropertyF32("distance", 30)
	dir := b.PropertyVec3("swing_dir", mgl32.Vec3{1, 0, 0})

	if b.Runtime.PendulumRestPos == (mgl32.Vec3{}) {
		b.Runtime.PendulumRestPos = b.Pos
	}
	b.Runtime.PendulumTime += dt
	offset := dir.Mul(distance * float32(math.Sin(float64(b.Runtime.PendulumTime)*float64(speed)*2*math.Pi)))
	b.Pos = b.Runtime.PendulumRestPos.Add(offset)
}

// updateWeightButton edge-triggers OnPressed/OnReleased when the total mass
// supported by the button crosses its "weight" threshold (spec.md §4.6). The
// physics collaborator is responsible for accumulating SupportedMass each
// frame; this only observes the crossing.
func (e *Engine) updateWeightButton(idx int, b *Brush) {
	threshold := b.PropertyF32("weight", 1)
	now := e.Now()
	pressed := b.Runtime.SupportedMass >= threshold
	if pressed && !b.Runtime.WasPressed {
		e.FireOutput(KindBrush, idx, "OnPressed", now, "")
	} else if !pressed && b.Runtime.WasPressed {
		e.FireOutput(KindBrush, idx, "OnReleased", now, "")
	}
	b.Runtime.WasPressed = pressed
}

// updateWater engages the underwater post-effect when the camera is inside the
// volume (spec.md §4.6); buoyancy forces themselves are the physics
// collaborator's responsibility.
func (e *Engine) updateWater(b *Brush, playerPos mgl32.Vec3) {
	min, max := aabbFromVertices(b)
	e.Scene.Post.Underwater = aabbContains(min, max, playerPos)
}
