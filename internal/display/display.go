// Package display implements Component I: maps (mode, value) to the 4-glyph
// frame the screen driver scans out. The mode-to-label table is a static,
// compile-time array keyed by the enum tag — not a map built at runtime
// pointing into transient storage, which is the bug the original firmware
// had (§9).
package display

import (
	"vapecore-go/types"
	"vapecore-go/x/conv"
)

// Frame is one 4-character glyph buffer, matching hal.Display.
type Frame [4]byte

type labelEntry struct {
	mode  types.Mode
	label Frame
}

var labels = [...]labelEntry{
	{types.VariVolt, Frame{'V', 'O', 'L', 'T'}},
	{types.VariWatt, Frame{'W', 'A', 'T', 'T'}},
	{types.Hell, Frame{'H', 'E', 'L', 'L'}},
	{types.Amp, Frame{'A', 'M', 'P', ' '}},
	{types.Ohm, Frame{'O', 'H', 'M', ' '}},
	{types.BattRes, Frame{'B', 'R', 'E', 'S'}},
	{types.VccConst, Frame{'V', 'C', 'C', ' '}},
}

// TitleFrame returns the mode-title slide glyph for mode.
func TitleFrame(mode types.Mode) Frame {
	for _, e := range labels {
		if e.mode == mode {
			return e.label
		}
	}
	return Frame{' ', ' ', ' ', ' '}
}

// ValueFrame renders the set-point currently named by mode.
func ValueFrame(mode types.Mode, sp *types.SetPoints) Frame {
	switch mode {
	case types.VariVolt:
		return fixed2(sp.Volt)
	case types.VariWatt:
		return intUnit(sp.Watt, 'W')
	case types.Hell:
		return Frame{'H', 'E', 'L', 'L'}
	case types.Amp:
		return intUnit(sp.Amp, 'A')
	case types.Ohm:
		return fixed2(sp.Ohm)
	case types.BattRes:
		return fixed2(sp.BattRes)
	case types.VccConst:
		return fixed2(sp.VccConst)
	default:
		return Frame{' ', ' ', ' ', ' '}
	}
}

// LowBatteryFrame is the "LOWb" slide shown on a low-battery trip.
func LowBatteryFrame() Frame { return Frame{'L', 'O', 'W', 'b'} }

// ByeFrame is the "bYE" slide shown on idle timeout.
func ByeFrame() Frame { return Frame{'b', 'Y', 'E', ' '} }

// PuzzleFrame renders one of the unlock glyphs ("V___".."VAPE").
func PuzzleFrame(glyph string) Frame {
	var f Frame
	for i := range f {
		f[i] = ' '
	}
	copy(f[:], glyph)
	return f
}

// intUnit right-justifies v in three digits, with unit in the last glyph.
func intUnit(v uint8, unit byte) Frame {
	var buf [3]byte
	digits := conv.Utoa(buf[:], uint64(v))

	var f Frame
	for i := 0; i < 3; i++ {
		f[i] = ' '
	}
	copy(f[3-len(digits):3], digits)
	f[3] = unit
	return f
}

// fixed2 renders a single leading digit plus two decimal places: "D.DD".
// Every fractional set-point in §3 stays under 10 (volt ≤ V_batt/1000 ≈ 4.2,
// ohm ≤ 1.0, batt_res ≤ 0.1, vcc_const ≤ 1.2), so one integer digit always
// suffices within the 4-glyph budget.
func fixed2(v float32) Frame {
	scaled := int32(v*100 + 0.5)
	if scaled < 0 {
		scaled = 0
	}
	if scaled > 999 {
		scaled = 999
	}
	whole := scaled / 100
	frac := scaled % 100
	return Frame{
		byte('0' + whole),
		'.',
		byte('0' + frac/10),
		byte('0' + frac%10),
	}
}
