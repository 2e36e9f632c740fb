package duty

import (
	"testing"

	"vapecore-go/types"
)

func near(t *testing.T, name string, got, want int32, tol int32) {
	t.Helper()
	if got < want-tol || got > want+tol {
		t.Errorf("%s: got %d want %d (±%d)", name, got, want, tol)
	}
}

func TestVariVoltScenarioS1(t *testing.T) {
	sp := &types.SetPoints{Volt: 3.70, Ohm: 0.5, BattRes: 0.015}
	s := New()
	r := s.Update(types.VariVolt, sp, 4000, 0)
	near(t, "voltage_drop", r.VoltageDropMV, 108, 1)

	// Run the smoothing pipeline to settle before checking the raw target.
	var last uint16
	for i := 0; i < 100; i++ {
		r = s.Update(types.VariVolt, sp, 4000, r.VoltageDropMV)
		last = r.PWM
	}
	near(t, "pwm", int32(last), 946, 2)
}

func TestVariWattScenarioS2(t *testing.T) {
	sp := &types.SetPoints{Watt: 25, Ohm: 0.5, BattRes: 0.015}
	s := New()
	r := s.Update(types.VariWatt, sp, 4000, 0)
	near(t, "voltage_drop", r.VoltageDropMV, 106, 1)

	var last uint16
	for i := 0; i < 100; i++ {
		r = s.Update(types.VariWatt, sp, 4000, r.VoltageDropMV)
		last = r.PWM
	}
	near(t, "pwm", int32(last), 904, 2)
}

func TestHellScenarioS3(t *testing.T) {
	sp := &types.SetPoints{Ohm: 0.5, BattRes: 0.015}
	s := New()
	r := s.Update(types.Hell, sp, 4000, 0)
	near(t, "voltage_drop", r.VoltageDropMV, 117, 1)
	if r.PWM != 0 || !r.FullOn {
		t.Fatalf("Hell must request full-on, not PWM: %+v", r)
	}
}

func TestVariVoltClampOnSagS4(t *testing.T) {
	sp := &types.SetPoints{Volt: 3.00, Ohm: 0.5, BattRes: 0.015}
	s := New()
	r := s.Update(types.VariVolt, sp, 2900, 0)
	if sp.Volt != 2.90 {
		t.Fatalf("expected volt clamped to 2.90, got %v", sp.Volt)
	}
	_ = r
}

func TestNoCoilZeroesSetpoint(t *testing.T) {
	sp := &types.SetPoints{Volt: 3.0, Ohm: 0}
	s := New()
	r := s.Update(types.VariVolt, sp, 4000, 0)
	if sp.Volt != 0 || r.PWM != 0 {
		t.Fatalf("ohm=0 must force volt to 0 and refuse PWM, got volt=%v pwm=%d", sp.Volt, r.PWM)
	}
}

func TestPropertyPWMAndDropBounds(t *testing.T) {
	cases := []struct {
		mode    types.Mode
		voltage int32
		ohm     float32
		battRes float32
		volt    float32
		watt    uint8
	}{
		{types.VariVolt, 3000, 0.2, 0.02, 10.0, 0},
		{types.VariVolt, 4200, 1.0, 0.1, 5.0, 0},
		{types.VariWatt, 3500, 0.3, 0.05, 0, 200},
		{types.VariWatt, 2900, 0.05, 0.001, 0, 255},
		{types.Hell, 4000, 0.5, 0.015, 0, 0},
	}
	for _, c := range cases {
		sp := &types.SetPoints{Ohm: c.ohm, BattRes: c.battRes, Volt: c.volt, Watt: c.watt}
		s := New()
		r := s.Update(c.mode, sp, c.voltage, 0)
		if r.PWM > types.PWMMax {
			t.Errorf("pwm out of range: %d", r.PWM)
		}
		if r.VoltageDropMV < 0 || r.VoltageDropMV > c.voltage {
			t.Errorf("voltage_drop out of bounds: %d (voltage=%d)", r.VoltageDropMV, c.voltage)
		}
	}
}
