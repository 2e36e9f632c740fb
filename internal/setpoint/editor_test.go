package setpoint

import (
	"testing"

	"vapecore-go/types"
)

func TestVoltStepsAndClampsToVoltageCap(t *testing.T) {
	sp := &types.SetPoints{Ohm: 0.5}
	Apply(types.VariVolt, sp, Up, 3100) // cap 3.10V
	if sp.Volt != 0.05 {
		t.Fatalf("expected first up-step to land on 0.05, got %v", sp.Volt)
	}
	for i := 0; i < 100; i++ {
		Apply(types.VariVolt, sp, Up, 3100)
	}
	if sp.Volt != 3.10 {
		t.Fatalf("expected volt clamped at voltage cap 3.10, got %v", sp.Volt)
	}
}

func TestVoltNoOpWhenNoCoil(t *testing.T) {
	sp := &types.SetPoints{Ohm: 0, Volt: 2.0}
	Apply(types.VariVolt, sp, Up, 4000)
	if sp.Volt != 0 {
		t.Fatalf("expected volt zeroed when ohm==0, got %v", sp.Volt)
	}
}

func TestOhmNoOpWhenAmpZero(t *testing.T) {
	sp := &types.SetPoints{Amp: 0, Ohm: 0.5}
	Apply(types.Ohm, sp, Up, 4000)
	if sp.Ohm != 0 {
		t.Fatalf("expected ohm zeroed when amp==0, got %v", sp.Ohm)
	}
}

func TestOhmLowerBoundFollowsAmp(t *testing.T) {
	sp := &types.SetPoints{Amp: 50} // lower bound = 4200/(50*1000) = 0.084
	Apply(types.Ohm, sp, Down, 4000)
	if sp.Ohm < 0.083 || sp.Ohm > 0.085 {
		t.Fatalf("expected ohm floored at amp-derived bound ~0.084, got %v", sp.Ohm)
	}
}

func TestAmpZeroingForcesOhmZero(t *testing.T) {
	sp := &types.SetPoints{Amp: 1, Ohm: 0.5}
	Apply(types.Amp, sp, Down, 4000)
	if sp.Amp != 0 || sp.Ohm != 0 {
		t.Fatalf("expected amp->0 to force ohm->0, got amp=%d ohm=%v", sp.Amp, sp.Ohm)
	}
}

func TestWattCapFollowsVoltageAndOhm(t *testing.T) {
	sp := &types.SetPoints{Ohm: 0.5} // cap = floor(16/0.5) = 32 at 4000mV
	for i := 0; i < 100; i++ {
		Apply(types.VariWatt, sp, Up, 4000)
	}
	if sp.Watt != 32 {
		t.Fatalf("expected watt clamped at 32, got %d", sp.Watt)
	}
}

func TestVccConstClampedToCalibrationRange(t *testing.T) {
	sp := &types.SetPoints{VccConst: types.VccMin}
	for i := 0; i < 500; i++ {
		Apply(types.VccConst, sp, Down, 4000)
	}
	if sp.VccConst != types.VccMin {
		t.Fatalf("expected vcc_const floored at %v, got %v", types.VccMin, sp.VccConst)
	}
}

func TestHellIsNoOp(t *testing.T) {
	sp := &types.SetPoints{Volt: 1, Watt: 1, Amp: 1, Ohm: 1}
	before := *sp
	Apply(types.Hell, sp, Up, 4000)
	if *sp != before {
		t.Fatalf("Hell edit must be a no-op, got %+v vs %+v", *sp, before)
	}
}
