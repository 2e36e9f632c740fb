// Package duty implements the duty synthesizer (§4.B): converts the active
// mode and sampled state into a PWM duty word and the inferred voltage drop.
package duty

import (
	"math"

	"vapecore-go/types"
	"vapecore-go/x/mathx"
)

const smoothAlpha = 0.1 // secondary ramp pipeline, §4.B

// Synth holds the smoothing pipeline that ramps the MOSFET instead of
// step-commanding it between ticks.
type Synth struct {
	window [3]uint16
	out    float32
}

// New returns a Synth with an empty smoothing window.
func New() *Synth { return &Synth{} }

// Result is what one synthesis tick produces, prior to gate arbitration.
type Result struct {
	VoltageDropMV int32
	PWM           uint16 // filtered, 0 unless the mode drives PWM
	FullOn        bool   // Hell: MOSFET driven continuously, no PWM word
}

// Update computes (voltage_drop, pwm) for mode given the current filtered
// voltage and the previous tick's voltage_drop (the dynamic clamp bound in
// VariVolt/VariWatt is expressed against the last-known drop, per §4.B),
// clamping and quantizing the active fire-mode set-point in place
// (invariant 4). voltageMV and voltage_drop are both non-negative by
// construction (invariant 3).
func (s *Synth) Update(mode types.Mode, sp *types.SetPoints, voltageMV, prevDropMV int32) Result {
	switch mode {
	case types.VariVolt:
		return s.variVolt(sp, voltageMV, prevDropMV)
	case types.VariWatt:
		return s.variWatt(sp, voltageMV, prevDropMV)
	case types.Hell:
		return Result{VoltageDropMV: hellDrop(sp, voltageMV), FullOn: true}
	default:
		// Not a fire mode: no drop, no PWM, and the smoothing pipeline idles
		// (it will re-settle from zero next time a fire mode resumes).
		s.window = [3]uint16{}
		s.out = 0
		return Result{}
	}
}

func (s *Synth) variVolt(sp *types.SetPoints, voltageMV, prevDropMV int32) Result {
	if sp.Ohm <= 0 {
		sp.Volt = 0
		return Result{}
	}
	upper := float32(voltageMV-prevDropMV) / 1000.0
	if upper < 0 {
		upper = 0
	}
	// The dynamic cap itself is snapped down to the 0.05V grid: invariant 6
	// (volt stays a multiple of its step) must hold even when a sag forces
	// the set-point down, not just after an explicit user edit.
	upper = snapDown(upper, types.VoltStep)
	sp.Volt = mathx.Clamp(sp.Volt, 0, upper)

	drop := round(sp.Volt * sp.BattRes * 1000.0 / (sp.Ohm + sp.BattRes))

	raw := uint16(0)
	if voltageMV > 0 {
		raw = clampPWM(round(sp.Volt * 1000.0 * float32(types.PWMMax) / float32(voltageMV)))
	}
	return Result{VoltageDropMV: int32(drop), PWM: s.smooth(raw)}
}

func (s *Synth) variWatt(sp *types.SetPoints, voltageMV, prevDropMV int32) Result {
	if sp.Ohm <= 0 {
		sp.Watt = 0
		return Result{}
	}
	cap := wattCap(voltageMV, prevDropMV, sp.Ohm)
	if sp.Watt > cap {
		sp.Watt = cap
	}

	ampsVolt := sqrt32(sp.Ohm * float32(sp.Watt))
	drop := round(ampsVolt * sp.BattRes * 1000.0 / sp.Ohm)

	raw := uint16(0)
	if voltageMV > 0 {
		raw = clampPWM(round(ampsVolt * 1000.0 * float32(types.PWMMax) / float32(voltageMV)))
	}
	return Result{VoltageDropMV: int32(drop), PWM: s.smooth(raw)}
}

func wattCap(voltageMV, dropMV int32, ohm float32) uint8 {
	headroom := float32(voltageMV - dropMV)
	if headroom < 0 || ohm <= 0 {
		return 0
	}
	cap := (headroom * headroom) / ohm / 1_000_000.0
	if cap < 0 {
		cap = 0
	}
	if cap > 255 {
		cap = 255
	}
	return uint8(round(cap)) // round, per §4.B's dynamic clamp (distinct from §3's floored static bound)
}

func hellDrop(sp *types.SetPoints, voltageMV int32) int32 {
	if sp.Ohm+sp.BattRes <= 0 {
		return 0
	}
	return int32(round(float32(voltageMV) * sp.BattRes / (sp.Ohm + sp.BattRes)))
}

// snapDown rounds v to the nearest step that does not exceed it.
func snapDown(v, step float32) float32 {
	if step <= 0 {
		return v
	}
	return float32(math.Floor(float64(v/step))) * step
}

func clampPWM(v float32) uint16 {
	if v < 0 {
		return 0
	}
	if v > types.PWMMax {
		return types.PWMMax
	}
	return uint16(v)
}

// smooth runs the raw duty through the median-of-3 + EWMA(alpha=0.1) ramp.
func (s *Synth) smooth(raw uint16) uint16 {
	s.window[0], s.window[1], s.window[2] = s.window[1], s.window[2], raw
	m := median3(s.window[0], s.window[1], s.window[2])
	s.out += smoothAlpha * (float32(m) - s.out)
	return clampPWM(s.out)
}

func median3(a, b, c uint16) uint16 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}

// round is half-away-from-zero, matching the banker-agnostic policy in §4.B.
func round(x float32) float32 {
	if x >= 0 {
		return float32(int64(x + 0.5))
	}
	return float32(int64(x - 0.5))
}

// sqrt32 is a float32 Newton-Raphson square root, avoiding a float64 detour
// on hardware without double-precision FPU support.
func sqrt32(x float32) float32 {
	if x <= 0 {
		return 0
	}
	guess := x
	for i := 0; i < 8; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}
