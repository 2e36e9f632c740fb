// Package firegate implements the fire-button debounce and arm/disarm state
// machine (§4.C), including the max-burn timeout.
package firegate

import (
	"vapecore-go/errcode"
	"vapecore-go/hal"
	"vapecore-go/types"
	"vapecore-go/x/timex"
)

type state uint8

const (
	stateIdle state = iota
	stateArmed
	stateCooldown
)

const fireLimitMs = uint32(5000)

// Gate owns the single disarm primitive: disabling the PWM peripheral and
// clearing allow_fire always happen together, so invariant 1 (no drive
// without allow_fire) can never be split across two call sites.
type Gate struct {
	pwm     hal.PWM
	profile types.DebounceProfile

	state state

	rawLevel    bool
	stableLevel bool
	lastChange  uint32

	burnStart uint32
	allowFire bool

	// reason is the bus-facing diagnostic for why the gate isn't armed; it
	// carries no control-flow weight of its own (§7: guard rejection is a
	// silent no-op), it only gives a caller something to surface on request.
	reason errcode.Code
}

// New builds a Gate that commands pwm directly on disarm.
func New(pwm hal.PWM, profile types.DebounceProfile) *Gate {
	return &Gate{pwm: pwm, profile: profile}
}

// Result reports the gate's output for one tick.
type Result struct {
	AllowFire bool
	Armed     bool
	// ResetIdle is true whenever the tick should refresh the lifecycle idle
	// timer — every tick spent Armed, per §4.C's last line.
	ResetIdle bool
}

// Update runs one debounce + state-machine tick against the raw (undebounced)
// fire line, the coil resistance and the currently filtered battery voltage.
func (g *Gate) Update(nowMs uint32, raw bool, ohm float32, voltageMV int32) Result {
	stable, changed := g.debounce(nowMs, raw)

	switch g.state {
	case stateIdle:
		if changed && stable {
			switch {
			case ohm <= 0:
				g.reason = errcode.NoCoil
			case voltageMV < types.BatteryMinMV:
				g.reason = errcode.CellLow
			default:
				g.burnStart = nowMs
				g.allowFire = true
				g.state = stateArmed
				g.reason = errcode.OK
			}
		}
	case stateArmed:
		switch {
		case changed && !stable:
			g.disarm()
			g.state = stateIdle
		case timex.Since(nowMs, g.burnStart, fireLimitMs):
			g.disarm()
			g.reason = errcode.BurnTimeout
			g.state = stateCooldown
		}
	case stateCooldown:
		if changed && !stable {
			g.state = stateIdle
		}
	}

	return Result{
		AllowFire: g.allowFire,
		Armed:     g.state == stateArmed,
		ResetIdle: g.state == stateArmed,
	}
}

// Drive commands the output for the current tick once the gate is known to
// be armed: VariVolt/VariWatt command the filtered duty word when non-zero,
// Hell drives the gate continuously, and every other armed sub-case leaves
// the MOSFET low — an intentional dead-zone, not a disarm.
func (g *Gate) Drive(mode types.Mode, pwmDuty uint16) {
	if g.state != stateArmed {
		return
	}
	switch mode {
	case types.VariVolt, types.VariWatt:
		if pwmDuty > 0 {
			g.pwm.Set(pwmDuty)
		} else {
			g.pwm.Disable()
		}
	case types.Hell:
		g.pwm.FullOn()
	default:
		g.pwm.Disable()
	}
}

// IsArmed reports whether the state machine is currently Armed.
func (g *Gate) IsArmed() bool { return g.state == stateArmed }

// Reason reports the bus-facing diagnostic code: the empty Code before any
// arm attempt, errcode.OK once the gate has armed, and the most recent guard
// rejection or burn-timeout code after one occurs. A normal release leaves
// the previous code in place.
func (g *Gate) Reason() errcode.Code { return g.reason }

// ForceDisarm runs the disarm primitive and forces the state machine back to
// Idle, used by the lifecycle manager's low-battery trip (§4.F.2), which
// must disarm regardless of what the debounced fire line is doing.
func (g *Gate) ForceDisarm() {
	g.disarm()
	g.state = stateIdle
}

func (g *Gate) disarm() {
	g.allowFire = false
	g.pwm.Disable()
}

func (g *Gate) debounce(nowMs uint32, raw bool) (stable bool, changed bool) {
	if raw != g.rawLevel {
		g.rawLevel = raw
		g.lastChange = nowMs
	}
	if g.rawLevel != g.stableLevel && timex.Since(nowMs, g.lastChange, debounceMs(g.profile)) {
		g.stableLevel = g.rawLevel
		return g.stableLevel, true
	}
	return g.stableLevel, false
}

func debounceMs(p types.DebounceProfile) uint32 {
	return uint32(p.Debounce().Milliseconds())
}
