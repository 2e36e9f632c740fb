// Package persistence implements Component H: reading set-points at boot
// and flushing them to EEPROM at the sleep transition, using the fixed
// little-endian layout in §6.
package persistence

import (
	"vapecore-go/hal"
	"vapecore-go/types"
)

// Store binds a persisted SetPoints image to an hal.EEPROM. includeBattRes
// selects the later layout variant, which adds the batt_res field at
// offset 15 (§6).
type Store struct {
	eeprom         hal.EEPROM
	includeBattRes bool
}

// New builds a Store. profile selects which layout generation to use —
// ProfileLater persists batt_res, ProfileEarly does not.
func New(eeprom hal.EEPROM, profile types.DebounceProfile) *Store {
	return &Store{eeprom: eeprom, includeBattRes: profile == types.ProfileLater}
}

// Load reads the persisted fields into a freshly defaulted SetPoints. A
// zero vcc_const is substituted with 1.1 (§7's one detected-and-corrected
// EEPROM fault); every other field is accepted as-is and relies on §4.D to
// clamp it on first use.
func (st *Store) Load() types.SetPoints {
	sp := types.DefaultSetPoints()

	sp.VccConst = st.eeprom.ReadFloat32(types.OffsetVccConst)
	if sp.VccConst == 0 {
		sp.VccConst = types.VccDefault
	}
	sp.FireMode = types.Mode(st.eeprom.ReadByte(types.OffsetMode))
	sp.Volt = st.eeprom.ReadFloat32(types.OffsetVolt)
	sp.Watt = st.eeprom.ReadByte(types.OffsetWatt)
	sp.Amp = st.eeprom.ReadByte(types.OffsetAmp)
	sp.Ohm = st.eeprom.ReadFloat32(types.OffsetOhm)
	if st.includeBattRes {
		sp.BattRes = st.eeprom.ReadFloat32(types.OffsetBattRes)
	}
	return sp
}

// Save flushes every persisted field using the update-if-changed primitive,
// so a sleep that changes nothing costs no EEPROM write cycles.
func (st *Store) Save(sp *types.SetPoints) {
	vcc := sp.VccConst
	if vcc == 0 {
		vcc = types.VccDefault
	}
	st.eeprom.WriteFloat32IfChanged(types.OffsetVccConst, vcc)
	st.eeprom.WriteByteIfChanged(types.OffsetMode, uint8(sp.FireMode))
	st.eeprom.WriteFloat32IfChanged(types.OffsetVolt, sp.Volt)
	st.eeprom.WriteByteIfChanged(types.OffsetWatt, sp.Watt)
	st.eeprom.WriteByteIfChanged(types.OffsetAmp, sp.Amp)
	st.eeprom.WriteFloat32IfChanged(types.OffsetOhm, sp.Ohm)
	if st.includeBattRes {
		st.eeprom.WriteFloat32IfChanged(types.OffsetBattRes, sp.BattRes)
	}
}
