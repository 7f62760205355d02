package tectonic

// updateLogic advances every logic entity's per-frame scratch state by dt scaled
// seconds: logic_timer/logic_random countdowns, env_fade's state machine,
// env_blackhole's rotation, and light style animation. Grounded on
// LogicSystem_Update in engine/io_system.c and spec.md §4.5.
func (e *Engine) updateLogic(dt float32) {
	now := e.Now()
	for i := range e.Scene.LogicEntities {
		l := &e.Scene.LogicEntities[i]
		switch l.Classname {
		case "logic_timer":
			e.tickTimer(i, l, dt, now)
		case "logic_random":
			e.tickRandom(i, l, dt, now)
		case "env_fade":
			e.tickFade(l, dt)
		case "env_blackhole":
			e.tickBlackhole(l, dt)
		}
	}

	for i := range e.Scene.Lights {
		e.tickLightStyle(&e.Scene.Lights[i], dt)
	}

	if e.ShakeDurationTimer > 0 {
		e.ShakeDurationTimer -= dt
		if e.ShakeDurationTimer < 0 {
			e.ShakeDurationTimer = 0
			e.ShakeAmplitude = 0
		}
	}
}

// tickTimer counts float_a down to zero and fires OnTimer on reaching it. A
// "repeat" property of exactly -1 (the default) re-arms from "delay"; any other
// value clears active after firing once (spec.md §4.5).
func (e *Engine) tickTimer(idx int, l *Logic, dt, now float32) {
	if !l.Active {
		return
	}
	l.FloatA -= dt
	if l.FloatA <= 0 {
		e.FireOutput(KindLogic, idx, "OnTimer", now, "")
		if l.PropertyF32("repeat", -1) == -1 {
			l.FloatA = l.PropertyF32("delay", 1)
		} else {
			l.Active = false
		}
	}
}

// tickRandom counts float_a down and fires OnRandom, re-arming with a fresh
// rand_uniform(min_time, max_time) draw (spec.md §4.5).
func (e *Engine) tickRandom(idx int, l *Logic, dt, now float32) {
	if !l.Active {
		return
	}
	l.FloatA -= dt
	if l.FloatA <= 0 {
		e.FireOutput(KindLogic, idx, "OnRandom", now, "")
		min := l.PropertyF32("min_time", 1)
		max := l.PropertyF32("max_time", min)
		l.FloatA = e.randUniform(min, max)
	}
}

// tickFade advances env_fade's int_a-encoded state machine (spec.md §4.5):
//
//	FadeIn (1)         ramp 0 -> target over "duration", then -> HoldIn (3)
//	FadeOut (2)        ramp current -> 0 over "duration", then -> Inactive (0)
//	HoldIn (3)         hold at target until an explicit FadeOut input arrives
//	CycleStart (4)     same ramp as FadeIn, then -> HoldPeak (5)
//	HoldPeak (5)       hold for "holdtime", then -> FadeOut (2)
//
// target is renderamt/255, matching the original's 0-255 render-amount field.
// Writes scene.Post.FadeActive/FadeAlpha every tick it runs, per spec.md §4.5.
func (e *Engine) tickFade(l *Logic, dt float32) {
	duration := l.PropertyF32("duration", 1)
	holdTime := l.PropertyF32("holdtime", 0)
	target := l.PropertyF32("renderamt", 255) / 255

	switch FadeState(l.IntA) {
	case FadeInactive:
		return
	case FadeIn, FadeCycleStart:
		l.Runtime.FadeTimer += dt
		l.Runtime.FadeAlpha = target * clamp01(ratio(l.Runtime.FadeTimer, duration))
		if l.Runtime.FadeTimer >= duration {
			l.Runtime.FadeTimer = 0
			if FadeState(l.IntA) == FadeIn {
				l.IntA = int32(FadeHoldIn)
			} else {
				l.IntA = int32(FadeHoldPeak)
			}
		}
	case FadeHoldIn, FadeHoldPeak:
		if FadeState(l.IntA) == FadeHoldPeak {
			l.Runtime.FadeHoldT += dt
			if l.Runtime.FadeHoldT >= holdTime {
				l.Runtime.FadeHoldT = 0
				l.Runtime.FadeFrom = l.Runtime.FadeAlpha
				l.Runtime.FadeTimer = 0
				l.IntA = int32(FadeOut)
			}
		}
		// HoldIn persists until an explicit FadeOut input; nothing to advance.
	case FadeOut:
		l.Runtime.FadeTimer += dt
		l.Runtime.FadeAlpha = l.Runtime.FadeFrom * (1 - clamp01(ratio(l.Runtime.FadeTimer, duration)))
		if l.Runtime.FadeTimer >= duration {
			l.IntA = int32(FadeInactive)
			l.Runtime.FadeAlpha = 0
			l.Runtime.FadeTimer = 0
		}
	}

	e.Scene.Post.FadeActive = FadeState(l.IntA) != FadeInactive
	e.Scene.Post.FadeAlpha = l.Runtime.FadeAlpha
}

func ratio(t, duration float32) float32 {
	if duration <= 0 {
		return 1
	}
	return t / duration
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// tickBlackhole advances env_blackhole's rot.y by "rotationspeed" degrees/sec
// while active, wrapping at 360 (spec.md §4.5).
func (e *Engine) tickBlackhole(l *Logic, dt float32) {
	if !l.Active {
		return
	}
	speed := l.PropertyF32("rotationspeed", 45)
	l.Rot[1] += speed * dt
	for l.Rot[1] >= 360 {
		l.Rot[1] -= 360
	}
	for l.Rot[1] < 0 {
		l.Rot[1] += 360
	}
}

// lightStylePresets mirrors the small set of named, built-in flicker/pulse
// patterns the original engine ships (style index 1..12); 0 is steady-on and 13
// is a user-supplied CustomStyle string.
var lightStylePresets = map[int]string{
	1:  "mmnmmommommnonmmonqnmmo",
	2:  "nmonqnmomnmomomno",
	3:  "mmmmmaaaaammmmmaaaaaabcdefgabcdefg",
	4:  "mamamamamama",
	5:  "jklmnopqrstuvwxyzyxwvutsrqponmlkj",
	6:  "nmonqnmomnmomomno",
	7:  "mmmaaaabcdefgmmmaaaabcdefg",
	8:  "mmmaaammmaaa",
	9:  "mmmmmaaaaa",
	10: "abcdefghijklmnopqrstuvwxyzyxwvutsrqponmlkjihgfedcba",
	11: "mmmmmmnnmmmm",
	12: "mnmnmnmn",
}

// tickLightStyle advances a light's style animation cursor every 0.1 simulated
// seconds and derives an intensity multiplier from the current character: 'a' is
// 0.0 and 'm' is 1.0 (spec.md §4.5).
func (e *Engine) tickLightStyle(l *Light, dt float32) {
	if l.StylePreset == 0 {
		l.Intensity = l.BaseIntensity
		return
	}

	style := l.CustomStyle
	if l.StylePreset != 13 {
		style = lightStylePresets[l.StylePreset]
	}
	if style == "" {
		l.Intensity = l.BaseIntensity
		return
	}

	l.PresetTime += dt
	const stepSeconds = 0.1
	for l.PresetTime >= stepSeconds {
		l.PresetTime -= stepSeconds
		l.PresetIndex = (l.PresetIndex + 1) % len(style)
	}

	ch := style[l.PresetIndex]
	mult := float32(ch-'a') / float32('m'-'a')
	if mult < 0 {
		mult = 0
	}
	l.Intensity = l.BaseIntensity * mult
}
