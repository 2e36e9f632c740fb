package controller

import (
	"testing"

	"vapecore-go/bus"
	"vapecore-go/hal"
	"vapecore-go/hal/sim"
	"vapecore-go/types"
)

// newTestController boots a Controller whose voltage estimator is already
// seeded with initialMV by the time New's internal Reset runs (the fake
// ADC's zero value would otherwise seed a phantom 0mV reading and trip the
// low-battery guard before a test's first real tick).
func newTestController(t *testing.T, initialMV int32) (*Controller, *sim.ADC, *sim.PWM, *sim.Buttons, *sim.Sleeper, *sim.EEPROM) {
	t.Helper()
	adc := &sim.ADC{Code: codeForMV(initialMV)}
	pwm := &sim.PWM{}
	buttons := &sim.Buttons{}
	sleeper := &sim.Sleeper{}
	eeprom := &sim.EEPROM{}
	display := &sim.Display{}

	ports := Ports{Buttons: buttons, ADC: adc, PWM: pwm, Display: display, EEPROM: eeprom, Sleeper: sleeper}
	c := New(ports, types.ProfileEarly, bus.NewBus(4).NewConnection("test"), 0)
	return c, adc, pwm, buttons, sleeper, eeprom
}

// codeForMV returns the ADC 10-bit code that decodes to approximately mv,
// inverting the estimator's mv = 1.1 * 1023 * 1000 / code formula.
func codeForMV(mv int32) uint16 {
	return uint16((1.1 * 1023.0 * 1000.0) / float32(mv))
}

func TestArmsAndDrivesVariVoltScenarioS1(t *testing.T) {
	c, _, pwm, buttons, _, _ := newTestController(t, 4000)

	sp := c.SetPoints()
	sp.Ohm = 0.5
	sp.BattRes = 0.015
	sp.Volt = 3.70
	sp.FireMode = types.VariVolt
	c.sp = sp
	c.state.Mode = types.VariVolt

	now := uint32(0)
	for i := 0; i < 5; i++ {
		now += 10
		c.Tick(now)
	}

	buttons.Set(hal.ButtonFire, true)
	now += 10
	c.Tick(now) // the gate sees the press and starts its debounce
	now += 51
	c.Tick(now)

	if !c.state.AllowFire {
		t.Fatalf("expected gate armed once voltage/ohm guards pass")
	}

	for i := 0; i < 50; i++ {
		now += 10
		c.Tick(now)
	}
	if pwm.Duty < 930 || pwm.Duty > 960 {
		t.Fatalf("expected duty to settle near 946 (S1), got %d", pwm.Duty)
	}
}

func TestLowBatteryTripEntersSleepS5(t *testing.T) {
	c, _, _, _, sleeper, _ := newTestController(t, 2799)

	sp := c.sp
	sp.Ohm = 0.5
	sp.BattRes = 0.015
	c.sp = sp

	now := uint32(0)
	for i := 0; i < 5; i++ {
		now += 10
		c.Tick(now)
	}
	if !c.state.Sleeping || sleeper.Count == 0 {
		t.Fatalf("expected low-battery trip to sleep, got sleeping=%v sleeperCount=%d", c.state.Sleeping, sleeper.Count)
	}
}

func TestUnlockPuzzleWakesOnFiveDistinctPressesS6(t *testing.T) {
	c, _, _, buttons, _, _ := newTestController(t, 4000)
	c.state.Sleeping = true
	c.sp.FireMode = types.VariWatt

	now := uint32(0)
	for i := 0; i < 5; i++ {
		buttons.Set(hal.ButtonFire, true)
		now += 10
		c.Tick(now)
		buttons.Set(hal.ButtonFire, false)
		now += 10
		c.Tick(now)
		now += 300
	}

	if c.state.Sleeping {
		t.Fatalf("expected 5 distinct presses within 3s to wake the device")
	}
	if c.state.SettingsView {
		t.Fatalf("expected settings_mode cleared on wake")
	}
	if c.state.Mode != types.VariWatt {
		t.Fatalf("expected mode restored to last_fire_mode (VariWatt), got %v", c.state.Mode)
	}
}

func TestUnlockPuzzleStaysAsleepOnFourPresses(t *testing.T) {
	c, _, _, buttons, _, _ := newTestController(t, 4000)
	c.state.Sleeping = true

	now := uint32(0)
	for i := 0; i < 4; i++ {
		buttons.Set(hal.ButtonFire, true)
		now += 10
		c.Tick(now)
		buttons.Set(hal.ButtonFire, false)
		now += 10
		c.Tick(now)
		now += 300
	}
	now += 3001
	c.Tick(now)

	if !c.state.Sleeping {
		t.Fatalf("expected 4 presses within the window to leave the device asleep")
	}
}
