package types

import "time"

// Hardware and lifecycle constants (§6). Two tuning generations are exposed
// as alternative profiles rather than compile-time-only flags, so a single
// firmware image can be re-profiled without re-flashing the constant table.
const (
	BatteryMinMV = 2800
	BatteryMaxMV = 4200

	FireLimit  = 5000 * time.Millisecond
	UnlockTime = 3000 * time.Millisecond

	FireFrequencyHz    = 20000
	DisplayFrequencyHz = 30

	PWMMax = 1023 // 10-bit duty word

	VoltStep    = 0.05
	OhmStep     = 0.005
	BattResStep = 0.001
	VccStep     = 0.001

	OhmMax     = 1.0
	BattResMax = 0.100
	VccMin     = 1.000
	VccMax     = 1.200
	VccDefault = 1.100

	AmpMax = 100
)

// DebounceProfile selects one of the two historical debounce/standby tuning
// generations named in §6.
type DebounceProfile uint8

const (
	// ProfileEarly matches the original short-debounce, short-standby build.
	ProfileEarly DebounceProfile = iota
	// ProfileLater matches the later, longer-debounce, longer-standby build.
	ProfileLater
)

// Debounce returns T_deb for the profile.
func (p DebounceProfile) Debounce() time.Duration {
	if p == ProfileEarly {
		return 50 * time.Millisecond
	}
	return 100 * time.Millisecond
}

// Standby returns STANDBY_TIME for the profile.
func (p DebounceProfile) Standby() time.Duration {
	if p == ProfileEarly {
		return 60 * time.Second
	}
	return 300 * time.Second
}
