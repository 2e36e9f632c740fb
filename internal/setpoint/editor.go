// Package setpoint implements the set-point editor (§4.D): quantized
// increment/decrement of the mode-specific set-point, clamped to the
// mode's dynamic safety bounds.
package setpoint

import (
	"vapecore-go/types"
	"vapecore-go/x/mathx"
)

// Dir is a signed single-step direction: +1 for up, -1 for down.
type Dir int8

const (
	Down Dir = -1
	Up   Dir = 1
)

// Apply applies one quantized step to the set-point named by mode, snaps it
// to its step grid, then clamps to the mode's dynamic bound (§4.D steps
// 1-2). It is a no-op for modes with nothing to edit (Hell). It returns
// nothing; callers reset the idle timer themselves after calling it (step 3,
// through the lifecycle manager's RefreshIdle).
func Apply(mode types.Mode, sp *types.SetPoints, dir Dir, voltageMV int32) {
	switch mode {
	case types.VariVolt:
		applyVolt(sp, dir, voltageMV)
	case types.VariWatt:
		applyWatt(sp, dir, voltageMV)
	case types.Hell:
		// Unregulated: nothing to edit.
	case types.Amp:
		applyAmp(sp, dir)
	case types.Ohm:
		applyOhm(sp, dir)
	case types.BattRes:
		applyBattRes(sp, dir)
	case types.VccConst:
		applyVccConst(sp, dir)
	}
}

func applyVolt(sp *types.SetPoints, dir Dir, voltageMV int32) {
	if sp.Ohm <= 0 {
		sp.Volt = 0
		return
	}
	// The cap is floored to the 50mV (0.05V) grid so volt stays on its step.
	upper := float32(voltageMV-voltageMV%50) / 1000.0
	if upper < 0 {
		upper = 0
	}
	sp.Volt = snap(sp.Volt+float32(dir)*types.VoltStep, types.VoltStep)
	sp.Volt = mathx.Clamp(sp.Volt, 0, upper)
}

func applyWatt(sp *types.SetPoints, dir Dir, voltageMV int32) {
	if sp.Ohm <= 0 {
		sp.Watt = 0
		return
	}
	v := float32(voltageMV) / 1000.0
	cap := uint8(0)
	if v > 0 {
		c := (v * v) / sp.Ohm
		if c > 255 {
			c = 255
		}
		cap = uint8(c) // floor
	}
	sp.Watt = clampU8(stepU8(sp.Watt, dir), 0, cap)
}

func applyAmp(sp *types.SetPoints, dir Dir) {
	sp.Amp = clampU8(stepU8(sp.Amp, dir), 0, 100)
	if sp.Amp == 0 {
		sp.Ohm = 0
	}
}

func applyOhm(sp *types.SetPoints, dir Dir) {
	if sp.Amp == 0 {
		sp.Ohm = 0
		return
	}
	lower := types.BatteryMaxMV / (float32(sp.Amp) * 1000.0)
	sp.Ohm = snap(sp.Ohm+float32(dir)*types.OhmStep, types.OhmStep)
	sp.Ohm = mathx.Clamp(sp.Ohm, lower, types.OhmMax)
}

func applyBattRes(sp *types.SetPoints, dir Dir) {
	sp.BattRes = snap(sp.BattRes+float32(dir)*types.BattResStep, types.BattResStep)
	sp.BattRes = mathx.Clamp(sp.BattRes, 0, types.BattResMax)
}

func applyVccConst(sp *types.SetPoints, dir Dir) {
	sp.VccConst = snap(sp.VccConst+float32(dir)*types.VccStep, types.VccStep)
	sp.VccConst = mathx.Clamp(sp.VccConst, types.VccMin, types.VccMax)
}

// snap rounds v to the nearest multiple of step (half away from zero).
func snap(v, step float32) float32 {
	if step <= 0 {
		return v
	}
	n := v / step
	if n >= 0 {
		n = float32(int64(n + 0.5))
	} else {
		n = float32(int64(n - 0.5))
	}
	return n * step
}

func stepU8(v uint8, dir Dir) uint8 {
	if dir > 0 {
		if v == 255 {
			return v
		}
		return v + 1
	}
	if v == 0 {
		return v
	}
	return v - 1
}

func clampU8(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
