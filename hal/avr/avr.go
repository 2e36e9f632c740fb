//go:build tinygo

// Package avr implements the hal ports against real hardware via TinyGo's
// machine package: four active-low buttons with internal pull-ups, a
// band-gap-referenced ADC channel, a hardware PWM timer on the MOSFET gate
// pin, the on-die EEPROM block accessed through its control registers, and a
// sleeper that waits for the fire button's falling edge. It provides no
// hal.Display implementation for the shift-register display. Pin
// configuration follows the teacher's rp2_pins.go shape, generalized from a
// GPIO-only contract to the ADC/PWM/EEPROM ports this firmware also needs.
package avr

import (
	avrreg "device/avr"
	"machine"
	"math"
	"time"

	"vapecore-go/hal"
	"vapecore-go/x/timex"
)

// ButtonPins names the four GPIO pins wired to the push buttons, active-low
// with internal pull-ups, matching §6's physical-input description.
type ButtonPins struct {
	Fire, Up, Down, Mode machine.Pin
}

const (
	idFire uint8 = iota
	idUp
	idDown
	idMode
)

const (
	longPressMs = 400
	repeatMs    = 100
)

// Buttons debounces nothing itself — the control loop's own components
// debounce the raw fire line and rely on a generically debounced level for
// Up/Down/Mode (§4.C, §4.D) — this driver only tracks how long each pin has
// read pressed, for LongPress's repeat signal.
type Buttons struct {
	pins       [4]machine.Pin
	level      [4]bool
	heldSince  [4]uint32
	lastRepeat [4]uint32
	now        uint32
}

// NewButtons configures p's four pins as pulled-up inputs.
func NewButtons(p ButtonPins) *Buttons {
	b := &Buttons{pins: [4]machine.Pin{idFire: p.Fire, idUp: p.Up, idDown: p.Down, idMode: p.Mode}}
	for _, pin := range b.pins {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return b
}

func (b *Buttons) Tick(nowMs uint32) {
	b.now = nowMs
	for i, pin := range b.pins {
		pressed := !pin.Get() // active-low
		if pressed && !b.level[i] {
			b.heldSince[i] = nowMs
			b.lastRepeat[i] = nowMs
		}
		b.level[i] = pressed
	}
}

func (b *Buttons) Pressed(id hal.ButtonID) bool { return b.level[id] }

// LongPress reports true once per repeat interval while id has been held
// past the long-press threshold, matching hal.Buttons' contract. It reads
// the nowMs last observed by Tick, which must run first each iteration.
func (b *Buttons) LongPress(id hal.ButtonID) bool {
	if !b.level[id] {
		return false
	}
	if !timex.Since(b.now, b.heldSince[id], longPressMs) {
		return false
	}
	if !timex.Since(b.now, b.lastRepeat[id], repeatMs) {
		return false
	}
	b.lastRepeat[id] = b.now
	return true
}

// VoltageADC samples the internal band-gap reference against Vcc on pin,
// per §4.A's raw-sample formula.
type VoltageADC struct {
	channel machine.ADC
}

// NewVoltageADC configures the band-gap channel. The 2ms settle delay named
// in §5 is charged here, once, at boot, rather than on every SampleCode.
func NewVoltageADC(pin machine.Pin) *VoltageADC {
	ch := machine.ADC{Pin: pin}
	ch.Configure(machine.ADCConfig{})
	time.Sleep(2 * time.Millisecond)
	return &VoltageADC{channel: ch}
}

// SampleCode converts machine.ADC's 16-bit left-justified reading down to
// the 10-bit code §4.A's formula is defined over.
func (v *VoltageADC) SampleCode() uint16 {
	return v.channel.Get() >> 6
}

// PWM drives the MOSFET gate pin at FIRE_FREQUENCY (§6).
type PWM struct {
	tim machine.PWM
	pin machine.Pin
	ch  uint8
}

// NewPWM wires pin to tim's channel. Configure must still be called once at
// boot with FIRE_FREQUENCY before the gate is armed for the first time.
func NewPWM(tim machine.PWM, pin machine.Pin) *PWM {
	return &PWM{tim: tim, pin: pin}
}

func (p *PWM) Configure(freqHz uint32) error {
	if err := p.tim.Configure(machine.PWMConfig{Period: uint64(1e9 / freqHz)}); err != nil {
		return err
	}
	ch, err := p.tim.Channel(p.pin)
	if err != nil {
		return err
	}
	p.ch = ch
	p.Disable()
	return nil
}

// Set commands a 10-bit duty word (0…1023), scaled to the timer's actual
// top value.
func (p *PWM) Set(duty uint16) {
	top := p.tim.Top()
	p.tim.Set(p.ch, uint32(duty)*top/1023)
}

func (p *PWM) Disable() { p.tim.Set(p.ch, 0) }

func (p *PWM) FullOn() { p.tim.Set(p.ch, p.tim.Top()) }

// Sleeper blocks PowerDown until the fire button's falling-edge interrupt
// fires, then detaches the interrupt (§4.F.4). It does not enter a hardware
// sleep mode or halt the core clock.
type Sleeper struct {
	firePin machine.Pin
}

func NewSleeper(firePin machine.Pin) *Sleeper { return &Sleeper{firePin: firePin} }

func (s *Sleeper) PowerDown() {
	woke := make(chan struct{}, 1)
	s.firePin.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		select {
		case woke <- struct{}{}:
		default:
		}
	})
	// The real deep-sleep primitive (SLEEP_FOREVER mode, §5) halts the core
	// clock here; parking on the interrupt channel is the host-testable
	// analogue until that primitive is wired per board.
	<-woke
	s.firePin.SetInterrupt(machine.PinFalling, nil)
}

// EEPROM drives the AVR's on-die EEPROM control registers directly
// (EEAR/EEDR/EECR), the classic avr-libc sequence: poll EEPE clear, load the
// address, strobe EERE for a read or EEMPE+EEPE for a write.
type EEPROM struct{}

func eepromWaitReady() {
	for avrreg.EECR.HasBits(avrreg.EECR_EEPE) {
	}
}

func (EEPROM) ReadByte(offset uint16) uint8 {
	eepromWaitReady()
	avrreg.EEARH.Set(uint8(offset >> 8))
	avrreg.EEARL.Set(uint8(offset))
	avrreg.EECR.SetBits(avrreg.EECR_EERE)
	return avrreg.EEDR.Get()
}

func (e EEPROM) WriteByteIfChanged(offset uint16, v uint8) {
	if e.ReadByte(offset) == v {
		return
	}
	eepromWaitReady()
	avrreg.EEARH.Set(uint8(offset >> 8))
	avrreg.EEARL.Set(uint8(offset))
	avrreg.EEDR.Set(v)
	avrreg.EECR.SetBits(avrreg.EECR_EEMPE)
	avrreg.EECR.SetBits(avrreg.EECR_EEPE)
}

func (e EEPROM) ReadFloat32(offset uint16) float32 {
	var bits uint32
	for i := uint16(0); i < 4; i++ {
		bits |= uint32(e.ReadByte(offset+i)) << (8 * i)
	}
	return math.Float32frombits(bits)
}

func (e EEPROM) WriteFloat32IfChanged(offset uint16, v float32) {
	bits := math.Float32bits(v)
	for i := uint16(0); i < 4; i++ {
		e.WriteByteIfChanged(offset+i, uint8(bits>>(8*i)))
	}
}
