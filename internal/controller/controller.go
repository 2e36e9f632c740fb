// Package controller implements the control loop (§4.G): a single
// Controller aggregate that sequences the voltage estimator, duty
// synthesizer, fire gate, set-point editor, mode selector, lifecycle
// manager, and persistence store at the rates and in the order §4.G and §5
// require. Per the design note on global mutable state (§9), every
// component receives a mutable reference through this aggregate rather than
// touching process-wide variables.
package controller

import (
	"vapecore-go/bus"
	"vapecore-go/hal"
	"vapecore-go/internal/clicks"
	"vapecore-go/internal/display"
	"vapecore-go/internal/duty"
	"vapecore-go/internal/firegate"
	"vapecore-go/internal/lifecycle"
	"vapecore-go/internal/modesel"
	"vapecore-go/internal/persistence"
	"vapecore-go/internal/setpoint"
	"vapecore-go/internal/voltage"
	"vapecore-go/types"
	"vapecore-go/x/timex"
)

// Ports bundles every external collaborator named in §6.
type Ports struct {
	Buttons hal.Buttons
	ADC     hal.VoltageADC
	PWM     hal.PWM
	Display hal.Display
	EEPROM  hal.EEPROM
	Sleeper hal.Sleeper
}

// Controller is the single aggregate the firmware entry point owns.
type Controller struct {
	buttons hal.Buttons
	display hal.Display

	estimator *voltage.Estimator
	synth     *duty.Synth
	gate      *firegate.Gate
	selector  *modesel.Selector
	life      *lifecycle.Lifecycle
	store     *persistence.Store

	sp    types.SetPoints
	state types.SampledState

	valuesUpdateAt   uint32
	valuesIntervalMs uint32

	prevUp, prevDown    bool
	modeClicker         clicks.Clicker
	fireClicker         clicks.Clicker
	prevFireAwakePuzzle bool
	prevFireAsleep      bool
}

// New boots a Controller: loads persisted set-points (substituting a zeroed
// vcc_const per §7), resets the voltage filter (invariant 5), and arms the
// idle timer from nowMs.
func New(ports Ports, profile types.DebounceProfile, conn *bus.Connection, nowMs uint32) *Controller {
	store := persistence.New(ports.EEPROM, profile)
	sp := store.Load()

	c := &Controller{
		buttons: ports.Buttons,
		display: ports.Display,
		store:   store,
		sp:      sp,
	}
	c.estimator = voltage.New(ports.ADC, &c.sp.VccConst)
	c.synth = duty.New()
	c.gate = firegate.New(ports.PWM, profile)
	c.selector = modesel.New(conn)
	c.life = lifecycle.New(profile, ports.Sleeper, conn, c.estimator.Reset)

	c.state.Mode = sp.FireMode
	c.valuesIntervalMs = valuesUpdateIntervalMs(profile)

	c.estimator.Reset()
	c.life.RefreshIdle(nowMs)
	c.valuesUpdateAt = nowMs
	return c
}

// Tick runs one control-loop iteration, implementing the ordered steps of
// §4.G.
func (c *Controller) Tick(nowMs uint32) {
	c.buttons.Tick(nowMs) // step 1

	if c.state.Sleeping {
		c.tickWakePuzzle(nowMs) // step 2
		return
	}

	raw := c.buttons.Pressed(hal.ButtonFire) // step 3: the undebounced fire line; the gate debounces it itself (§4.C)

	if timex.Since(nowMs, c.valuesUpdateAt, c.valuesIntervalMs) { // step 4
		c.valuesUpdateAt = nowMs
		c.state.VoltageMV = int32(c.estimator.ReadMV())
		res := c.synth.Update(c.state.Mode, &c.sp, c.state.VoltageMV, c.state.VoltageDropMV)
		c.state.VoltageDropMV = res.VoltageDropMV
		c.state.PWM = res.PWM
		if !c.gate.IsArmed() {
			c.renderMainScreen() // shows the voltage peek instead while Mode is long-pressed
		}
	}

	gr := c.gate.Update(nowMs, raw, c.sp.Ohm, c.state.VoltageMV) // step 5
	c.state.AllowFire = gr.AllowFire
	if gr.ResetIdle {
		c.life.RefreshIdle(nowMs)
	}

	if gr.Armed { // step 6
		c.gate.Drive(c.state.Mode, c.state.PWM)
		c.renderMainScreen()
	}

	c.handleEditButtons(nowMs)
	c.handleModeButton(nowMs)
	c.handleAwakeFirePuzzle(nowMs, raw)

	if c.life.CheckLowBattery(nowMs, c.state.VoltageMV, &c.state, c.gate.ForceDisarm, c.persist) { // step 7
		c.display.SetFrame(display.LowBatteryFrame())
	}
	if c.life.CheckIdle(nowMs, &c.state, c.persist) {
		c.display.SetFrame(display.ByeFrame())
	}
}

func (c *Controller) persist() { c.store.Save(&c.sp) }

func (c *Controller) peekingVoltage() bool {
	return c.buttons.LongPress(hal.ButtonMode)
}

func (c *Controller) renderMainScreen() {
	if c.peekingVoltage() {
		c.display.SetFrame(peekFrame(c.state.VoltageMV))
		return
	}
	c.display.SetFrame(display.ValueFrame(c.state.Mode, &c.sp))
}

func peekFrame(voltageMV int32) [4]byte {
	v := float32(voltageMV) / 1000.0
	if v > 9.99 {
		v = 9.99
	}
	return display.ValueFrame(types.VariVolt, &types.SetPoints{Volt: v})
}

func (c *Controller) handleEditButtons(nowMs uint32) {
	up := c.buttons.Pressed(hal.ButtonUp)
	down := c.buttons.Pressed(hal.ButtonDown)
	upEdge := up && !c.prevUp
	downEdge := down && !c.prevDown
	c.prevUp, c.prevDown = up, down

	var dir setpoint.Dir
	switch {
	case upEdge || c.buttons.LongPress(hal.ButtonUp):
		dir = setpoint.Up
	case downEdge || c.buttons.LongPress(hal.ButtonDown):
		dir = setpoint.Down
	default:
		return
	}
	setpoint.Apply(c.state.Mode, &c.sp, dir, c.state.VoltageMV)
	c.life.RefreshIdle(nowMs)
}

func (c *Controller) handleModeButton(nowMs uint32) {
	switch c.modeClicker.Tick(nowMs, c.buttons.Pressed(hal.ButtonMode)) {
	case clicks.Single:
		c.selector.Advance(&c.state, &c.sp)
		c.display.SetFrame(display.TitleFrame(c.state.Mode))
		c.life.RefreshIdle(nowMs)
	case clicks.Double:
		c.selector.ToggleCluster(&c.state, &c.sp)
		c.display.SetFrame(display.TitleFrame(c.state.Mode))
		c.life.RefreshIdle(nowMs)
	}
}

// handleAwakeFirePuzzle implements the sleep-puzzle half of §4.F.3: a
// double-press on the fire button while awake opens the window. Once open,
// presses are counted from the raw rising edge directly rather than through
// the click classifier — the classifier's own double-press window would
// otherwise swallow rapid repeated presses as further Doubles instead of
// individual counted presses.
func (c *Controller) handleAwakeFirePuzzle(nowMs uint32, raw bool) {
	click := c.fireClicker.Tick(nowMs, raw) // always fed, so its level tracking never goes stale
	active := c.life.PuzzleActive()

	if !active {
		if click == clicks.Double {
			c.life.BeginAwakePuzzle(nowMs)
			active = true
		}
	} else {
		rising := raw && !c.prevFireAwakePuzzle
		if rising && c.life.PuzzlePress(nowMs) {
			c.prevFireAwakePuzzle = raw
			c.life.EnterSleep(nowMs, &c.state, c.persist)
			return
		}
	}
	c.prevFireAwakePuzzle = raw

	if active {
		c.life.PuzzleTick(nowMs)
		if c.life.PuzzleActive() {
			c.display.SetFrame(display.PuzzleFrame(c.life.PuzzleGlyph()))
		}
	}
}

// tickWakePuzzle implements the wake-puzzle half of §4.F.3: any rising edge
// on the fire line while asleep opens (or advances) the unlock window.
func (c *Controller) tickWakePuzzle(nowMs uint32) {
	raw := c.buttons.Pressed(hal.ButtonFire)
	rising := raw && !c.prevFireAsleep
	c.prevFireAsleep = raw

	if rising {
		if !c.life.PuzzleActive() {
			c.life.BeginWakePuzzle(nowMs)
		} else if c.life.PuzzlePress(nowMs) {
			c.life.Wake(nowMs, &c.state, &c.sp)
			c.display.SetFrame(display.ValueFrame(c.state.Mode, &c.sp))
			return
		}
		if c.life.PuzzleActive() {
			c.display.SetFrame(display.PuzzleFrame(c.life.PuzzleGlyph()))
		}
		return
	}
	c.life.PuzzleTick(nowMs)
}

func valuesUpdateIntervalMs(p types.DebounceProfile) uint32 {
	if p == types.ProfileEarly {
		return 10
	}
	return 50
}

// State exposes a read-only snapshot of the sampled state, mainly for tests
// and diagnostics.
func (c *Controller) State() types.SampledState { return c.state }

// SetPoints exposes a read-only snapshot of the set-points.
func (c *Controller) SetPoints() types.SetPoints { return c.sp }

// SetSetPoints overwrites the set-points wholesale — used by calibration
// tooling and demo harnesses to seed a starting configuration; the normal
// edit path is the set-point editor (§4.D) via handleEditButtons.
func (c *Controller) SetSetPoints(sp types.SetPoints) {
	c.sp = sp
	c.state.Mode = sp.FireMode
}
