// Package sim provides host-side fakes for every hal port, used by the
// control-loop tests and by cmd/vapecore-sim. They are deliberately inert:
// no timing emulation beyond what a caller explicitly drives.
package sim

import (
	"math"

	"vapecore-go/hal"
)

// Clock is a caller-advanced monotonic millisecond clock.
type Clock struct {
	ms uint32
}

func (c *Clock) NowMs() uint32    { return c.ms }
func (c *Clock) Advance(ms uint32) { c.ms += ms }
func (c *Clock) Set(ms uint32)     { c.ms = ms }

// ADC returns a caller-set raw code on every sample.
type ADC struct {
	Code uint16
}

func (a *ADC) SampleCode() uint16 { return a.Code }

// PWM records the last commanded state. Disabled starts false (the zero
// value); callers that care about invariant 1 at boot should call Disable
// explicitly before the first tick, as the real peripheral driver does in
// Configure.
type PWM struct {
	Duty     uint16
	Disabled bool
	Full     bool
}

func (p *PWM) Configure(freqHz uint32) error { return nil }
func (p *PWM) Set(duty uint16) {
	p.Duty = duty
	p.Disabled = false
	p.Full = false
}
func (p *PWM) Disable() {
	p.Duty = 0
	p.Disabled = true
	p.Full = false
}
func (p *PWM) FullOn() {
	p.Disabled = false
	p.Full = true
}

// Display records the last glyph frame written.
type Display struct {
	Frame [4]byte
}

func (d *Display) SetFrame(f [4]byte) { d.Frame = f }

// EEPROM is a byte-addressable in-memory image with update-if-changed
// write semantics matching the real primitive (§4.H).
type EEPROM struct {
	Image [32]byte
}

func (e *EEPROM) ReadByte(offset uint16) uint8 { return e.Image[offset] }

func (e *EEPROM) WriteByteIfChanged(offset uint16, v uint8) {
	if e.Image[offset] != v {
		e.Image[offset] = v
	}
}

func (e *EEPROM) ReadFloat32(offset uint16) float32 {
	var bits uint32
	for i := 0; i < 4; i++ {
		bits |= uint32(e.Image[int(offset)+i]) << (8 * i)
	}
	return math.Float32frombits(bits)
}

func (e *EEPROM) WriteFloat32IfChanged(offset uint16, v float32) {
	bits := math.Float32bits(v)
	for i := 0; i < 4; i++ {
		b := uint8(bits >> (8 * i))
		if e.Image[int(offset)+i] != b {
			e.Image[int(offset)+i] = b
		}
	}
}

// Buttons lets a test drive arbitrary press/long-press state directly,
// bypassing any debounce (the debounced signal is the contract here).
type Buttons struct {
	pressed   [4]bool
	longPress [4]bool
}

func (b *Buttons) Tick(nowMs uint32) {}

func (b *Buttons) Set(id hal.ButtonID, pressed bool) { b.pressed[id] = pressed }
func (b *Buttons) SetLongPress(id hal.ButtonID, v bool) { b.longPress[id] = v }

func (b *Buttons) Pressed(id hal.ButtonID) bool   { return b.pressed[id] }
func (b *Buttons) LongPress(id hal.ButtonID) bool { return b.longPress[id] }

// Sleeper counts PowerDown calls instead of blocking the test goroutine.
type Sleeper struct {
	Count int
}

func (s *Sleeper) PowerDown() { s.Count++ }
