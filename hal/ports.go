// Package hal defines the contracts for the external collaborators named in
// §6: the peripherals and drivers the control loop is given rather than
// implements. Concrete instances live under hal/sim (host, for tests) and
// hal/avr (target hardware).
package hal

// ButtonID names one of the four momentary push buttons.
type ButtonID uint8

const (
	ButtonFire ButtonID = iota
	ButtonUp
	ButtonDown
	ButtonMode
	buttonCount
)

// Buttons is the push-button tick/long-press detector. Tick must be called
// once per control-loop iteration with the current monotonic millisecond
// clock (§5); Pressed/LongPress report the debounced level and the
// repeating long-press condition as of the last Tick.
type Buttons interface {
	Tick(nowMs uint32)
	Pressed(id ButtonID) bool
	// LongPress reports true once per repeat interval (~100ms) while id has
	// been held past the long-press threshold.
	LongPress(id ButtonID) bool
}

// VoltageADC performs one band-gap-referenced ADC conversion and returns the
// raw 10-bit code. The read path is synchronous: it blocks for the ADC's
// settle time and is considered impossible to fail in bounded time on this
// hardware (§7).
type VoltageADC interface {
	SampleCode() uint16
}

// PWM is the 20kHz MOSFET-gate timer peripheral (§6). Configure sets the
// frequency once at boot; Set commands a 10-bit duty word; Disable forces
// the gate line LOW regardless of any previously configured duty — the
// safety-critical operation invariant 1 depends on.
type PWM interface {
	Configure(freqHz uint32) error
	Set(duty uint16)
	Disable()
	// FullOn drives the gate continuously HIGH, used only by the
	// unregulated Hell mode.
	FullOn()
}

// Display is the 4-character 7-segment driver, given a glyph buffer. Frame
// is a 4-byte record; the concrete mapping from ASCII-ish glyph codes to
// segment patterns is the driver's concern, not the control loop's.
type Display interface {
	SetFrame(frame [4]byte)
}

// EEPROM is the byte/float persistence primitive (§6, §4.H). Writes use
// update-semantics: a write is a no-op if the stored value already matches.
type EEPROM interface {
	ReadByte(offset uint16) uint8
	WriteByteIfChanged(offset uint16, v uint8)
	ReadFloat32(offset uint16) float32
	WriteFloat32IfChanged(offset uint16, v float32)
}

// Sleeper is the MCU deep-sleep primitive. PowerDown parks the CPU until the
// fire-button falling edge, arming and then detaching the interrupt itself
// (§4.F.4); it returns once the CPU has woken.
type Sleeper interface {
	PowerDown()
}

// Clock exposes a monotonic millisecond clock. Comparisons against it must
// use unsigned modular subtraction so wrap-around is harmless (§5).
type Clock interface {
	NowMs() uint32
}
