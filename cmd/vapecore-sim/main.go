// Command vapecore-sim runs the control loop against the host-side hal/sim
// fakes, printing the display frame every 200ms of simulated time and every
// UI-bus event to stdout, in the
// same single-binary-demo spirit as the teacher's bus/cmd/selftest and
// services/hal/cmd/pico-demo: no real hardware, a real control loop.
package main

import (
	"context"
	"fmt"
	"time"

	"vapecore-go/bus"
	"vapecore-go/hal"
	"vapecore-go/hal/sim"
	"vapecore-go/internal/controller"
	"vapecore-go/types"
)

func main() {
	fmt.Println("== vapecore-sim: host control-loop demo ==")

	b := bus.NewBus(16)
	conn := b.NewConnection("main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go logUIEvents(ctx, conn)

	adc := &sim.ADC{Code: codeForMV(4000)}
	pwm := &sim.PWM{}
	buttons := &sim.Buttons{}
	sleeper := &sim.Sleeper{}
	eeprom := &sim.EEPROM{}
	display := &sim.Display{}

	ports := controller.Ports{
		Buttons: buttons,
		ADC:     adc,
		PWM:     pwm,
		Display: display,
		EEPROM:  eeprom,
		Sleeper: sleeper,
	}

	c := controller.New(ports, types.ProfileEarly, conn, 0)

	var now uint32
	sp := c.SetPoints()
	sp.Ohm = 0.5
	sp.BattRes = 0.015
	sp.Volt = 3.70
	sp.FireMode = types.VariVolt
	c.SetSetPoints(sp)
	fmt.Printf("booted: %+v\n", sp)

	buttons.Set(hal.ButtonFire, true)
	for i := 0; i < 200; i++ {
		now += 10
		c.Tick(now)
		if i%20 == 0 {
			fmt.Printf("t=%4dms duty=%4d voltage=%dmV frame=%q\n",
				now, c.State().PWM, c.State().VoltageMV, string(display.Frame[:]))
		}
		time.Sleep(time.Millisecond) // slow the demo down for a human reader
	}
	buttons.Set(hal.ButtonFire, false)
	for i := 0; i < 10; i++ {
		now += 10
		c.Tick(now)
	}

	fmt.Println("== done ==")
}

func logUIEvents(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(bus.T("ui", "#"))
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.Channel():
			fmt.Printf("[ui] %v\n", msg.Payload)
		}
	}
}

// codeForMV inverts the voltage estimator's mv = 1.1*1023*1000/code formula
// to seed the fake ADC with a chosen starting rail voltage.
func codeForMV(mv int32) uint16 {
	return uint16((1.1 * 1023.0 * 1000.0) / float32(mv))
}
