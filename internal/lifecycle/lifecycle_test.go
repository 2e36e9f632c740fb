package lifecycle

import (
	"testing"

	"vapecore-go/hal/sim"
	"vapecore-go/types"
)

func TestIdleTimeoutEntersSleep(t *testing.T) {
	sleeper := &sim.Sleeper{}
	l := New(types.ProfileEarly, sleeper, nil, func() {})
	s := &types.SampledState{}
	persisted := false

	l.RefreshIdle(0)
	if l.CheckIdle(1000, s, func() { persisted = true }) {
		t.Fatalf("must not sleep before STANDBY_TIME elapses")
	}
	standbyMs := uint32(types.ProfileEarly.Standby().Milliseconds())
	if !l.CheckIdle(standbyMs, s, func() { persisted = true }) {
		t.Fatalf("expected idle timeout to commit to sleep")
	}
	if !s.Sleeping || !persisted || sleeper.Count != 1 {
		t.Fatalf("expected sleep committed with persistence, got sleeping=%v persisted=%v sleeperCount=%d", s.Sleeping, persisted, sleeper.Count)
	}
}

func TestLowBatteryTripS5(t *testing.T) {
	sleeper := &sim.Sleeper{}
	l := New(types.ProfileEarly, sleeper, nil, func() {})
	s := &types.SampledState{}
	disarmed := false

	tripped := l.CheckLowBattery(0, 2799, s, func() { disarmed = true }, func() {})
	if !tripped || !disarmed || !s.Sleeping || sleeper.Count != 1 {
		t.Fatalf("S5: expected disarm+sleep on voltage=2799mV, got tripped=%v disarmed=%v sleeping=%v sleeperCount=%d",
			tripped, disarmed, s.Sleeping, sleeper.Count)
	}
}

func TestLowBatteryDoesNotTripAtExactMin(t *testing.T) {
	sleeper := &sim.Sleeper{}
	l := New(types.ProfileEarly, sleeper, nil, func() {})
	s := &types.SampledState{}
	if l.CheckLowBattery(0, types.BatteryMinMV, s, func() {}, func() {}) {
		t.Fatalf("voltage exactly at BATTERY_MIN must not trip")
	}
}

func TestUnlockPuzzleFivePressesWakesS6(t *testing.T) {
	sleeper := &sim.Sleeper{}
	resetCalls := 0
	l := New(types.ProfileEarly, sleeper, nil, func() { resetCalls++ })
	sp := &types.SetPoints{FireMode: types.VariWatt}
	s := &types.SampledState{Sleeping: true, SettingsView: true, Mode: types.Amp}

	now := uint32(0)
	l.BeginWakePuzzle(now) // press 1 (opens window, counts itself)
	committed := false
	for i := 0; i < 4; i++ { // presses 2..5
		now += 200
		if l.PuzzlePress(now) {
			committed = true
		}
	}
	if !committed {
		t.Fatalf("expected 5th press to commit the wake")
	}
	l.Wake(now, s, sp)
	if s.Sleeping || s.SettingsView || s.Mode != types.VariWatt || resetCalls != 1 {
		t.Fatalf("expected wake restoration per §4.F.3, got sleeping=%v settingsView=%v mode=%v resetCalls=%d",
			s.Sleeping, s.SettingsView, s.Mode, resetCalls)
	}
}

func TestUnlockPuzzleFourPressesStaysAsleep(t *testing.T) {
	sleeper := &sim.Sleeper{}
	l := New(types.ProfileEarly, sleeper, nil, func() {})

	now := uint32(0)
	l.BeginWakePuzzle(now) // press 1
	committed := false
	for i := 0; i < 3; i++ { // presses 2..4
		now += 200
		if l.PuzzlePress(now) {
			committed = true
		}
	}
	if committed {
		t.Fatalf("4 presses must not commit")
	}
	now += 3001
	l.PuzzleTick(now)
	if l.PuzzleActive() {
		t.Fatalf("expected window to expire and default to staying asleep")
	}
}

func TestPuzzleExpiresAfterUnlockTime(t *testing.T) {
	l := New(types.ProfileEarly, &sim.Sleeper{}, nil, func() {})
	l.BeginAwakePuzzle(0)
	if l.PuzzlePress(3001) {
		t.Fatalf("a press after the window closed must not commit")
	}
	if l.PuzzleActive() {
		t.Fatalf("expected the window to be closed by the late press")
	}
}
