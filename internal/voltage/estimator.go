// Package voltage implements the battery-voltage estimator (§4.A).
package voltage

import "vapecore-go/hal"

// Estimator filters the band-gap-referenced ADC into a stable millivolt
// reading. It implements the median-of-3 + EWMA design: cheaper to refill
// after a reset than the N=10 mean window, which matters on wake where
// invariant 5 requires a fresh sample before the first fire attempt, and
// sharper at rejecting the single-sample dips a MOSFET's pulsed draw causes
// than a plain moving average.
type Estimator struct {
	adc  hal.VoltageADC
	vcc  *float32 // calibrated reference; shared with the persisted set-point

	window [3]uint16
	out    float32
}

const alpha = 0.3

// New builds an Estimator reading through adc, calibrated by *vccConst (the
// live, persisted VccConst set-point — a pointer so recalibration takes
// effect on the next sample without rebuilding the estimator).
func New(adc hal.VoltageADC, vccConst *float32) *Estimator {
	return &Estimator{adc: adc, vcc: vccConst}
}

// Reset refills the window by raw sampling until all three slots are
// populated, then seeds the filtered output with their mean (§4.A). It
// blocks for three ADC conversions; must be called after every wake and
// whenever the sample history is suspected stale. Invariant 5 (a fresh
// sample before the first fire attempt after wake) follows directly from
// this running to completion before ReadMV is first called post-wake.
func (e *Estimator) Reset() {
	for i := range e.window {
		e.window[i] = e.rawSampleMV()
	}
	e.out = e.mean()
}

// rawSampleMV converts one ADC conversion to millivolts using the calibrated
// reference: mv = vcc_const * 1023 * 1000 / adc_code.
func (e *Estimator) rawSampleMV() uint16 {
	code := e.adc.SampleCode()
	if code == 0 {
		return 0
	}
	vcc := *e.vcc
	if vcc <= 0 {
		vcc = 1.1
	}
	mv := vcc * 1023.0 * 1000.0 / float32(code)
	return uint16(mv + 0.5)
}

// ReadMV returns the filtered battery rail in millivolts, shifting one fresh
// raw sample into the window on every call. Reset must have run at least
// once before the first call (guaranteed by the lifecycle manager on wake).
func (e *Estimator) ReadMV() uint16 {
	s := e.rawSampleMV()
	e.window[0], e.window[1], e.window[2] = e.window[1], e.window[2], s
	m := median3(e.window[0], e.window[1], e.window[2])
	e.out += alpha * (float32(m) - e.out)
	return uint16(e.out + 0.5)
}

func (e *Estimator) mean() float32 {
	return float32(e.window[0]+e.window[1]+e.window[2]) / 3.0
}

func median3(a, b, c uint16) uint16 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}
