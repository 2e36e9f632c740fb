// Package lifecycle implements the idle timer, low-battery trip, and
// lock/unlock puzzle named in §4.F. Persistence-on-sleep and wake
// restoration are driven through caller-supplied hooks so this package
// never needs to know about the EEPROM layout or the voltage estimator's
// internals directly.
package lifecycle

import (
	"vapecore-go/bus"
	"vapecore-go/hal"
	"vapecore-go/types"
	"vapecore-go/x/timex"
)

func ByeTopic() bus.Topic        { return bus.T("ui", "bye") }
func LowBatteryTopic() bus.Topic { return bus.T("ui", "lowb") }
func PuzzleGlyphTopic() bus.Topic { return bus.T("ui", "puzzle_glyph") }

const unlockMs = uint32(3000)

// puzzleState is the local shadow the unlock puzzle decides against before
// committing through EnterSleep/Wake — it never mutates SampledState.Sleeping
// directly (§9: "self-shadowing of sleeping").
type puzzleState struct {
	active      bool
	forWake     bool
	windowStart uint32
	count       uint8
}

// Lifecycle owns the idle deadline and the puzzle shadow state.
type Lifecycle struct {
	profile  types.DebounceProfile
	deadline uint32
	sleeper  hal.Sleeper
	conn     *bus.Connection
	resetVoltage func()

	puzzle puzzleState
}

// New builds a Lifecycle. resetVoltage is called on every wake commit (§4.A
// Reset, invariant 5); conn may be nil to suppress UI-slide notifications.
func New(profile types.DebounceProfile, sleeper hal.Sleeper, conn *bus.Connection, resetVoltage func()) *Lifecycle {
	return &Lifecycle{profile: profile, sleeper: sleeper, conn: conn, resetVoltage: resetVoltage}
}

// RefreshIdle pushes the standby deadline out from now; called on every user
// interaction and on every tick spent Armed (§4.C's last line).
func (l *Lifecycle) RefreshIdle(nowMs uint32) { l.deadline = nowMs }

// CheckIdle reports whether the idle timeout has elapsed and, if so, shows
// the bye slide and commits to sleep via persist.
func (l *Lifecycle) CheckIdle(nowMs uint32, s *types.SampledState, persist func()) bool {
	if s.Sleeping {
		return false
	}
	if !timex.Since(nowMs, l.deadline, standbyMs(l.profile)) {
		return false
	}
	l.publish(ByeTopic(), nil)
	l.EnterSleep(nowMs, s, persist)
	return true
}

// CheckLowBattery reports whether voltageMV has tripped BATTERY_MIN and, if
// so, disarms via the caller-supplied hook, shows the LOWb slide, and
// commits to sleep.
func (l *Lifecycle) CheckLowBattery(nowMs uint32, voltageMV int32, s *types.SampledState, disarm func(), persist func()) bool {
	if s.Sleeping {
		return false
	}
	if voltageMV >= types.BatteryMinMV {
		return false
	}
	disarm()
	l.publish(LowBatteryTopic(), nil)
	l.EnterSleep(nowMs, s, persist)
	return true
}

// EnterSleep flushes persist, marks Sleeping, and parks the CPU behind the
// deep-sleep primitive; it returns once the fire-button falling-edge
// interrupt has woken the MCU (§4.F.4). The caller is still responsible for
// routing subsequent ticks to the wake-puzzle while Sleeping stays true.
func (l *Lifecycle) EnterSleep(nowMs uint32, s *types.SampledState, persist func()) {
	persist()
	s.Sleeping = true
	l.sleeper.PowerDown()
}

// BeginAwakePuzzle opens the unlock window after a double-press on the fire
// button while awake; the triggering double-press does not itself count
// toward the commit threshold.
func (l *Lifecycle) BeginAwakePuzzle(nowMs uint32) {
	l.puzzle = puzzleState{active: true, forWake: false, windowStart: nowMs}
}

// BeginWakePuzzle opens the unlock window on the first press received while
// asleep; that press both opens the window and counts as the first press
// (§8 S6: 5 distinct presses within 3s wakes the device).
func (l *Lifecycle) BeginWakePuzzle(nowMs uint32) {
	l.puzzle = puzzleState{active: true, forWake: true, windowStart: nowMs, count: 1}
	l.publish(PuzzleGlyphTopic(), glyphFor(1))
}

// PuzzleActive reports whether an unlock window is currently open.
func (l *Lifecycle) PuzzleActive() bool { return l.puzzle.active }

// PuzzleForWake reports which puzzle variant is active; only meaningful
// while PuzzleActive is true.
func (l *Lifecycle) PuzzleForWake() bool { return l.puzzle.forWake }

// PuzzleGlyph reports the glyph frame matching the puzzle's current count,
// for the control loop to render while a window is open.
func (l *Lifecycle) PuzzleGlyph() string { return glyphFor(l.puzzle.count) }

// PuzzlePress registers one fire-button press against the open window. It
// reports whether the press committed the transition. A press after the
// window has silently expired is a no-op (the expiry itself is handled by
// PuzzleTick).
func (l *Lifecycle) PuzzlePress(nowMs uint32) (committed bool) {
	if !l.puzzle.active {
		return false
	}
	if timex.Since(nowMs, l.puzzle.windowStart, unlockMs) {
		l.puzzle.active = false
		return false
	}
	l.puzzle.count++
	l.publish(PuzzleGlyphTopic(), glyphFor(l.puzzle.count))
	if l.puzzle.count > 4 {
		l.puzzle.active = false
		return true
	}
	return false
}

// PuzzleTick expires an open window once UNLOCK_TIME has passed without a
// commit, applying the window's default action: sleep-puzzle does nothing, wake-puzzle stays
// asleep. Call once per control-loop iteration while a window is open.
func (l *Lifecycle) PuzzleTick(nowMs uint32) {
	if !l.puzzle.active {
		return
	}
	if timex.Since(nowMs, l.puzzle.windowStart, unlockMs) {
		l.puzzle.active = false
	}
}

// Wake commits a wake-puzzle success: resets the voltage filter, restores
// mode to the remembered fire-cluster mode, clears settings_mode, and
// refreshes the idle timer (§4.F.3).
func (l *Lifecycle) Wake(nowMs uint32, s *types.SampledState, sp *types.SetPoints) {
	l.resetVoltage()
	s.Mode = sp.FireMode
	s.SettingsView = false
	s.Sleeping = false
	l.deadline = nowMs
}

func (l *Lifecycle) publish(topic bus.Topic, payload any) {
	if l.conn == nil {
		return
	}
	l.conn.Publish(l.conn.NewMessage(topic, payload, false))
}

func glyphFor(count uint8) string {
	switch {
	case count >= 4:
		return "VAPE"
	case count == 3:
		return "VAP_"
	case count == 2:
		return "VA__"
	default:
		return "V___"
	}
}

func standbyMs(p types.DebounceProfile) uint32 {
	return uint32(p.Standby().Milliseconds())
}
