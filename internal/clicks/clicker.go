// Package clicks classifies a raw button level into single/double-press
// events, used wherever a component needs press-counting rather than the
// debounced level the fire gate and set-point editor consume directly.
package clicks

import "vapecore-go/x/timex"

// Event is what one Tick can report.
type Event uint8

const (
	None Event = iota
	Single
	Double
)

// windowMs is how long a first press waits for a second before it is
// dispatched as a Single.
const windowMs = uint32(400)

// Clicker holds the rising-edge and pending-single state for one button.
type Clicker struct {
	level     bool
	pending   bool
	pendingAt uint32
}

// Tick reports at most one Event per call. A Single is deferred until the
// window closes with no second press; a Double fires immediately on the
// second rising edge.
func (c *Clicker) Tick(nowMs uint32, pressed bool) Event {
	rising := pressed && !c.level
	c.level = pressed

	if rising && c.pending {
		c.pending = false
		return Double
	}

	event := None
	if c.pending && timex.Since(nowMs, c.pendingAt, windowMs) {
		c.pending = false
		event = Single
	}

	if rising {
		c.pending = true
		c.pendingAt = nowMs
	}
	return event
}
