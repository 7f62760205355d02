package tectonic

import "strings"

// ExecuteInput resolves target by targetname and dispatches input to the
// classname-specific handler for whatever kind of entity it turns out to be.
// Dispatch is a two-level match, first on the target's kind/classname, then on
// the input name, grounded on ExecuteInput in engine/io_system.c and spec.md §4.4.
func (e *Engine) ExecuteInput(target, input, parameter string) {
	ref, _, _, ok := e.Scene.FindTargetname(target)
	if !ok {
		e.Logger.Errorf("io: input %q sent to unknown target %q", input, target)
		return
	}

	switch ref.Kind {
	case KindLogic:
		e.executeLogicInput(ref.Index, input, parameter)
	case KindModel:
		e.executeModelInput(ref.Index, input, parameter)
	case KindBrush:
		e.executeBrushInput(ref.Index, input, parameter)
	case KindLight:
		e.executeLightInput(ref.Index, input, parameter)
	case KindSound:
		e.executeSoundInput(ref.Index, input, parameter)
	case KindParticleEmitter:
		e.executeParticleInput(ref.Index, input, parameter)
	case KindVideoPlayer:
		e.executeVideoInput(ref.Index, input, parameter)
	case KindSprite:
		e.executeSpriteInput(ref.Index, input, parameter)
	default:
		e.Logger.Errorf("io: target %q does not accept inputs", target)
	}
}

// --- logic entities (spec.md §4.4 dispatch table) -----------------------------

func (e *Engine) executeLogicInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.LogicEntities) {
		return
	}
	l := &e.Scene.LogicEntities[idx]

	switch l.Classname {
	case "logic_timer":
		e.executeTimerInput(l, input)
	case "math_counter":
		e.executeCounterInput(idx, l, input, parameter)
	case "logic_random":
		e.executeRandomInput(l, input)
	case "logic_relay":
		e.executeRelayInput(idx, l, input)
	case "logic_compare":
		e.executeCompareInput(idx, l, input, parameter)
	case "point_servercommand":
		e.executeServerCommandInput(l, input, parameter)
	case "env_fade":
		e.executeFadeInput(l, input)
	case "env_shake":
		e.executeShakeInput(l, input)
	case "game_end":
		e.executeGameEndInput(l, input)
	default:
		// env_blackhole, env_fog, env_overlay, env_glow, env_beam, env_cable,
		// env_reflectionprobe, keypad, ...: Enable/Disable[/Toggle] on `active`.
		e.executeGenericLogicInput(l, input)
	}
}

func (e *Engine) executeGenericLogicInput(l *Logic, input string) {
	switch input {
	case "Enable":
		l.Active = true
	case "Disable":
		l.Active = false
	case "Toggle":
		l.Active = !l.Active
	default:
		e.Logger.Errorf("io: %s does not understand input %q", l.Classname, input)
	}
}

// logic_timer: StartTimer arms float_a from the "delay" property and sets
// active; StopTimer clears active; ToggleTimer flips active and, when
// re-enabling with float_a already <= 0, re-initializes from delay.
func (e *Engine) executeTimerInput(l *Logic, input string) {
	switch input {
	case "StartTimer":
		l.Active = true
		l.FloatA = l.PropertyF32("delay", 1.0)
	case "StopTimer":
		l.Active = false
	case "ToggleTimer":
		l.Active = !l.Active
		if l.Active && l.FloatA <= 0 {
			l.FloatA = l.PropertyF32("delay", 1.0)
		}
	default:
		e.Logger.Errorf("io: logic_timer does not understand input %q", input)
	}
}

// math_counter: Add/Sub/Mul/Div parse parameter (default 1) and apply to
// float_a; Div by zero reports an error and leaves float_a unchanged.
// OnHitMax/OnHitMin fire on the edge crossed into "max"/"min", not every tick
// the value remains there.
func (e *Engine) executeCounterInput(idx int, l *Logic, input, parameter string) {
	max := l.PropertyF32("max", 0)
	min := l.PropertyF32("min", 0)
	hasBounds := max > min

	before := l.FloatA
	operand := parseFloatOr(parameter, 1)

	switch input {
	case "Add":
		l.FloatA += operand
	case "Sub":
		l.FloatA -= operand
	case "Mul":
		l.FloatA *= operand
	case "Div":
		if operand == 0 {
			e.Logger.Errorf("io: math_counter %s: division by zero", l.Targetname)
			return
		}
		l.FloatA /= operand
	default:
		e.Logger.Errorf("io: math_counter does not understand input %q", input)
		return
	}

	if hasBounds {
		if l.FloatA > max {
			l.FloatA = max
		}
		if l.FloatA < min {
			l.FloatA = min
		}
		if before < max && l.FloatA >= max {
			e.FireOutput(KindLogic, idx, "OnHitMax", e.Now(), "")
		}
		if before > min && l.FloatA <= min {
			e.FireOutput(KindLogic, idx, "OnHitMin", e.Now(), "")
		}
	}
}

// logic_random: Enable arms float_a to rand_uniform(min_time, max_time) and
// sets active; Disable clears active.
func (e *Engine) executeRandomInput(l *Logic, input string) {
	switch input {
	case "Enable":
		min := l.PropertyF32("min_time", 1)
		max := l.PropertyF32("max_time", min)
		l.FloatA = e.randUniform(min, max)
		l.Active = true
	case "Disable":
		l.Active = false
	default:
		e.Logger.Errorf("io: logic_random does not understand input %q", input)
	}
}

// logic_relay: a disabled relay swallows Trigger silently; Enable/Disable/Toggle
// control whether Trigger fires OnTrigger.
func (e *Engine) executeRelayInput(idx int, l *Logic, input string) {
	switch input {
	case "Trigger":
		if l.Active {
			e.FireOutput(KindLogic, idx, "OnTrigger", e.Now(), "")
		}
	case "Enable":
		l.Active = true
	case "Disable":
		l.Active = false
	case "Toggle":
		l.Active = !l.Active
	default:
		e.Logger.Errorf("io: logic_relay does not understand input %q", input)
	}
}

// logic_compare: SetValue/SetCompareValue store into float_a or the
// compare_value property; Compare fires exactly the subset of {OnLessThan,
// OnEqualTo, OnNotEqualTo, OnGreaterThan} consistent with the current values —
// OnGreaterThan and OnNotEqualTo (or OnLessThan and OnNotEqualTo) both fire
// together when applicable, matching independent-if semantics confirmed against
// the original engine/io_system.c rather than a mutually-exclusive else-if chain
// (see DESIGN.md). SetValueCompare stores float_a from the parameter and then
// runs Compare in the same call.
func (e *Engine) executeCompareInput(idx int, l *Logic, input, parameter string) {
	switch input {
	case "SetValue":
		l.FloatA = parseFloatOr(parameter, l.FloatA)
	case "SetCompareValue":
		l.Properties["compare_value"] = parameter
	case "SetValueCompare":
		l.FloatA = parseFloatOr(parameter, l.FloatA)
		fallthrough
	case "Compare":
		target := l.PropertyF32("compare_value", 0)
		v := l.FloatA
		now := e.Now()
		if v == target {
			e.FireOutput(KindLogic, idx, "OnEqualTo", now, "")
		}
		if v > target {
			e.FireOutput(KindLogic, idx, "OnGreaterThan", now, "")
		}
		if v < target {
			e.FireOutput(KindLogic, idx, "OnLessThan", now, "")
		}
		if v != target {
			e.FireOutput(KindLogic, idx, "OnNotEqualTo", now, "")
		}
	default:
		e.Logger.Errorf("io: logic_compare does not understand input %q", input)
	}
}

// point_servercommand: Command tokenizes parameter and feeds it to the command
// table, falling back to the entity's own "command" property when parameter
// is empty.
func (e *Engine) executeServerCommandInput(l *Logic, input, parameter string) {
	if input != "Command" {
		e.Logger.Errorf("io: point_servercommand does not understand input %q", input)
		return
	}
	line := parameter
	if line == "" {
		line = l.PropertyString("command", "")
	}
	if line == "" {
		return
	}
	e.Commands.Execute(e, tokenize(line))
}

// env_fade: FadeIn/FadeOut/Fade start env_fade's int_a-encoded state machine,
// ticked per-frame in logic.go's tickFade.
func (e *Engine) executeFadeInput(l *Logic, input string) {
	switch input {
	case "FadeIn":
		l.IntA = int32(FadeIn)
		l.Runtime.FadeTimer = 0
	case "FadeOut":
		l.IntA = int32(FadeOut)
		l.Runtime.FadeFrom = l.Runtime.FadeAlpha
		l.Runtime.FadeTimer = 0
	case "Fade":
		l.IntA = int32(FadeCycleStart)
		l.Runtime.FadeTimer = 0
		l.Runtime.FadeHoldT = 0
	default:
		e.Logger.Errorf("io: env_fade does not understand input %q", input)
	}
}

// env_shake: StartShake writes the engine's global shake fields when the
// "globalshake" property is set (the default) or, with globalshake off, when the
// camera is within "radius" of the entity's position; StopShake clears them.
func (e *Engine) executeShakeInput(l *Logic, input string) {
	switch input {
	case "StartShake":
		if l.PropertyBool("globalshake", true) || l.Pos.Sub(e.Camera.Position).Len() <= l.PropertyF32("radius", 0) {
			e.ShakeAmplitude = l.PropertyF32("amplitude", 1)
			e.ShakeFrequency = l.PropertyF32("frequency", 1)
			e.ShakeDurationTimer = l.PropertyF32("duration", 1)
		}
	case "StopShake":
		e.ShakeAmplitude = 0
		e.ShakeDurationTimer = 0
	default:
		e.Logger.Errorf("io: env_shake does not understand input %q", input)
	}
}

// game_end: EndGame invokes the disconnect command.
func (e *Engine) executeGameEndInput(l *Logic, input string) {
	if input != "EndGame" {
		e.Logger.Errorf("io: game_end does not understand input %q", input)
		return
	}
	e.Commands.Execute(e, []string{"disconnect"})
}

// --- spatial entities (spec.md §4.4 "for non-logic targets") -----------------

// Model: EnablePhysics/DisablePhysics toggle IsPhysicsEnabled; PlayAnimation
// "<name[ noloop]>" starts an animation, looping unless "noloop" is given.
func (e *Engine) executeModelInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.Models) {
		return
	}
	m := &e.Scene.Models[idx]
	switch input {
	case "EnablePhysics":
		m.IsPhysicsEnabled = true
	case "DisablePhysics":
		m.IsPhysicsEnabled = false
	case "PlayAnimation":
		name := parameter
		loop := true
		if rest, ok := strings.CutSuffix(parameter, " noloop"); ok {
			name = rest
			loop = false
		}
		_ = name // animation name resolution is the out-of-scope renderer's job
		m.Anim.Playing = true
		m.Anim.Looping = loop
		m.Anim.Time = 0
	default:
		e.Logger.Errorf("io: model does not understand input %q", input)
	}
}

// executeBrushInput applies the generic Enable/Disable/Toggle convention, then
// overlays classname-specific inputs (spec.md §4.4).
func (e *Engine) executeBrushInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.Brushes) {
		return
	}
	b := &e.Scene.Brushes[idx]

	switch input {
	case "Enable":
		b.Runtime.Active = true
		return
	case "Disable":
		b.Runtime.Active = false
		return
	}

	switch b.Classname {
	case "func_button", "func_healthcharger":
		e.executeButtonInput(idx, b, input)
	case "func_rotating":
		e.executeRotatingInput(b, input)
	case "func_plat":
		e.executePlatInput(b, input)
	case "func_door":
		e.executeDoorInput(b, input)
	case "func_wall_toggle":
		e.executeWallToggleInput(b, input)
	default:
		if input == "Toggle" {
			b.Runtime.Active = !b.Runtime.Active
			return
		}
		e.Logger.Errorf("io: %s does not understand input %q", b.Classname, input)
	}
}

// func_button/func_healthcharger: Lock/Unlock gate whether Press has any
// effect; Press fires OnPressed (or OnUseLocked while locked).
func (e *Engine) executeButtonInput(idx int, b *Brush, input string) {
	switch input {
	case "Lock":
		b.Runtime.Active = false
	case "Unlock":
		b.Runtime.Active = true
	case "Press":
		if !b.Runtime.Active {
			e.FireOutput(KindBrush, idx, "OnUseLocked", e.Now(), "")
			return
		}
		e.FireOutput(KindBrush, idx, "OnPressed", e.Now(), "")
		e.FireOutput(KindBrush, idx, "OnUsed", e.Now(), "")
	default:
		e.Logger.Errorf("io: %s does not understand input %q", b.Classname, input)
	}
}

func (e *Engine) executeRotatingInput(b *Brush, input string) {
	switch input {
	case "Start":
		b.Runtime.TargetAngularVelocity = b.PropertyF32("speed", 90)
	case "Stop":
		b.Runtime.TargetAngularVelocity = 0
	case "Toggle":
		if b.Runtime.TargetAngularVelocity != 0 {
			b.Runtime.TargetAngularVelocity = 0
		} else {
			b.Runtime.TargetAngularVelocity = b.PropertyF32("speed", 90)
		}
	default:
		e.Logger.Errorf("io: func_rotating does not understand input %q", input)
	}
}

func (e *Engine) executePlatInput(b *Brush, input string) {
	switch input {
	case "Raise":
		if b.Runtime.PlatState == PlatBottom {
			b.Runtime.PlatState = PlatUp
		}
	case "Lower":
		if b.Runtime.PlatState == PlatTop {
			b.Runtime.PlatState = PlatDown
		}
	case "Toggle":
		switch b.Runtime.PlatState {
		case PlatBottom:
			b.Runtime.PlatState = PlatUp
		case PlatTop:
			b.Runtime.PlatState = PlatDown
		}
	default:
		e.Logger.Errorf("io: func_plat does not understand input %q", input)
	}
}

func (e *Engine) executeDoorInput(b *Brush, input string) {
	switch input {
	case "Open":
		if b.Runtime.DoorState == DoorClosed {
			b.Runtime.DoorState = DoorOpening
		}
	case "Close":
		if b.Runtime.DoorState == DoorOpen {
			b.Runtime.DoorState = DoorClosing
		}
	case "Toggle":
		switch b.Runtime.DoorState {
		case DoorClosed:
			b.Runtime.DoorState = DoorOpening
		case DoorOpen:
			b.Runtime.DoorState = DoorClosing
		}
	default:
		e.Logger.Errorf("io: func_door does not understand input %q", input)
	}
}

// func_wall_toggle: Toggle/Show/Hide set runtime_is_visible; the brush's physics
// body is not created or freed here, so collision is unchanged by these inputs.
func (e *Engine) executeWallToggleInput(b *Brush, input string) {
	switch input {
	case "Toggle":
		b.Runtime.IsVisible = !b.Runtime.IsVisible
	case "Show":
		b.Runtime.IsVisible = true
	case "Hide":
		b.Runtime.IsVisible = false
	default:
		e.Logger.Errorf("io: func_wall_toggle does not understand input %q", input)
	}
}

// Light: TurnOn/TurnOff/Toggle set is_on.
func (e *Engine) executeLightInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.Lights) {
		return
	}
	l := &e.Scene.Lights[idx]
	switch input {
	case "TurnOn":
		l.IsOn = true
	case "TurnOff":
		l.IsOn = false
	case "Toggle":
		l.IsOn = !l.IsOn
	default:
		e.Logger.Errorf("io: light does not understand input %q", input)
	}
}

// Sound: PlaySound/StopSound, EnableLoop/DisableLoop/ToggleLoop.
func (e *Engine) executeSoundInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.Sounds) {
		return
	}
	s := &e.Scene.Sounds[idx]
	switch input {
	case "PlaySound":
		if e.Scene.Collabs.Sound != nil && s.Source != 0 {
			e.Scene.Collabs.Sound.Play(s.Source)
		}
	case "StopSound":
		if e.Scene.Collabs.Sound != nil && s.Source != 0 {
			e.Scene.Collabs.Sound.Stop(s.Source)
		}
	case "EnableLoop":
		s.IsLooping = true
	case "DisableLoop":
		s.IsLooping = false
	case "ToggleLoop":
		s.IsLooping = !s.IsLooping
	default:
		e.Logger.Errorf("io: sound does not understand input %q", input)
	}
}

// ParticleEmitter: TurnOn/TurnOff/Toggle set is_on.
func (e *Engine) executeParticleInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.ParticleEmitters) {
		return
	}
	p := &e.Scene.ParticleEmitters[idx]
	switch input {
	case "TurnOn":
		p.IsOn = true
	case "TurnOff":
		p.IsOn = false
	case "Toggle":
		p.IsOn = !p.IsOn
	default:
		e.Logger.Errorf("io: particle emitter does not understand input %q", input)
	}
}

// VideoPlayer: startvideo/stopvideo/restartvideo.
func (e *Engine) executeVideoInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.VideoPlayers) {
		return
	}
	v := &e.Scene.VideoPlayers[idx]
	switch input {
	case "startvideo":
		v.State = VideoPlaying
	case "stopvideo":
		v.State = VideoStopped
	case "restartvideo":
		v.State = VideoPlaying
		if e.Scene.Collabs.Video != nil && v.Decoder != 0 {
			e.Scene.Collabs.Video.Seek(v.Decoder, 0)
		}
	default:
		e.Logger.Errorf("io: video player does not understand input %q", input)
	}
}

// Sprite: TurnOn/TurnOff/Toggle set visible.
func (e *Engine) executeSpriteInput(idx int, input, parameter string) {
	if idx < 0 || idx >= len(e.Scene.Sprites) {
		return
	}
	s := &e.Scene.Sprites[idx]
	switch input {
	case "TurnOn":
		s.Visible = true
	case "TurnOff":
		s.Visible = false
	case "Toggle":
		s.Visible = !s.Visible
	default:
		e.Logger.Errorf("io: sprite does not understand input %q", input)
	}
}

// --- small parsing helpers ----------------------------------------------------

func parseFloatOr(s string, def float32) float32 {
	return propertyF32(map[string]string{"v": s}, "v", def)
}

func parseIntOr(s string, def int) int {
	return propertyInt(map[string]string{"v": s}, "v", def)
}
