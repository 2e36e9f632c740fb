package types

// SetPoints holds every user-editable quantity (§3). They are created at
// first boot (all zero, VccConst = 1.1), mutated only by the set-point
// editor or the calibration collaborator, and flushed to EEPROM on sleep.
type SetPoints struct {
	Volt     float32 // 0 … V_batt/1000, step 0.05 V
	Watt     uint8   // 0 … floor(V^2/Ohm), step 1 W
	Amp      uint8   // 0 … 100 A, step 1 A
	Ohm      float32 // step 0.005 Ω, dynamic lower bound
	BattRes  float32 // step 0.001, clamped 0…0.1 Ω
	VccConst float32 // step 0.001, clamped 1.000…1.200

	// Mode remembers the last selection per cluster (§4.E), persisted so the
	// device resumes on the same fire mode it slept on.
	FireMode     Mode
	SettingsMode Mode
}

// DefaultSetPoints returns the first-boot state named in §3.
func DefaultSetPoints() SetPoints {
	return SetPoints{
		VccConst:     VccDefault,
		FireMode:     VariVolt,
		SettingsMode: Amp,
	}
}

// SampledState holds the volatile runtime fields (§3), re-initialised at
// every wake.
type SampledState struct {
	VoltageMV     int32 // filtered battery rail
	VoltageDropMV int32 // inferred IR drop under load
	PWM           uint16
	AllowFire     bool
	Sleeping      bool
	SettingsView  bool // which cluster Mode currently names
	Mode          Mode
}
