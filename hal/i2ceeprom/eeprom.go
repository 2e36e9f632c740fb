// Package i2ceeprom implements hal.EEPROM over an I2C-attached 24-series-style
// EEPROM part, for boards where persistence lives off-die rather than in the
// MCU's own EEPROM block. Register addressing and the word read/write shape
// follow the teacher's drivers/ltc4015 bus helpers.
package i2ceeprom

import (
	"math"

	"tinygo.org/x/drivers"

	"vapecore-go/errcode"
)

const (
	// ErrWrite is returned by nothing in hal.EEPROM's interface (it has no
	// error return, per §7: EEPROM writes are not a representable runtime
	// failure on this hardware) but is recorded here for the rare caller
	// that wants to know a transaction actually NAK'd; see LastErr.
	ErrWrite errcode.Code = "i2ceeprom.write"
	ErrRead  errcode.Code = "i2ceeprom.read"
)

// Device talks to a byte-addressable I2C EEPROM at addr using 1-byte
// register addressing, matching the small capacities (≤256 bytes) this
// firmware's layout (§6) needs.
type Device struct {
	bus  drivers.I2C
	addr uint16

	lastErr errcode.Code
}

// New builds a Device. addr is the 7-bit I2C address of the EEPROM part.
func New(bus drivers.I2C, addr uint16) *Device {
	return &Device{bus: bus, addr: addr}
}

// LastErr reports the error code of the most recent failed transaction, if
// any; cleared on the next successful one.
func (d *Device) LastErr() errcode.Code { return d.lastErr }

func (d *Device) ReadByte(offset uint16) uint8 {
	var w [1]byte
	var r [1]byte
	w[0] = byte(offset)
	if err := d.bus.Tx(d.addr, w[:], r[:]); err != nil {
		d.lastErr = ErrRead
		return 0
	}
	d.lastErr = ""
	return r[0]
}

// WriteByteIfChanged only issues the transaction when the stored value
// differs, matching the on-die primitive's update-if-changed semantics (§6)
// and avoiding unnecessary wear on the external part's write cycles.
func (d *Device) WriteByteIfChanged(offset uint16, v uint8) {
	if d.ReadByte(offset) == v {
		return
	}
	w := [2]byte{byte(offset), v}
	if err := d.bus.Tx(d.addr, w[:], nil); err != nil {
		d.lastErr = ErrWrite
		return
	}
	d.lastErr = ""
}

func (d *Device) ReadFloat32(offset uint16) float32 {
	var bits uint32
	for i := uint16(0); i < 4; i++ {
		bits |= uint32(d.ReadByte(offset+i)) << (8 * i)
	}
	return math.Float32frombits(bits)
}

func (d *Device) WriteFloat32IfChanged(offset uint16, v float32) {
	bits := math.Float32bits(v)
	for i := uint16(0); i < 4; i++ {
		d.WriteByteIfChanged(offset+i, uint8(bits>>(8*i)))
	}
}
