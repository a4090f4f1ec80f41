//go:build tinygo

package main

import (
	"machine"
	"runtime/volatile"
	"time"

	"github.com/itohio/goetarget/pkg/geometry"
	"github.com/itohio/goetarget/pkg/sensor"
)

// board is the counter hardware. Sensor arrival times are captured by pin
// interrupts on the latch outputs; a counter runs from its arrival until
// stop, like the gated counters it replaces.
type board struct {
	latches [sensor.Count]machine.Pin
	boot    time.Time

	arrival [sensor.Count]volatile.Register32 // us since boot, 0 when not latched
	face    volatile.Register32
	armed   volatile.Register8
	stopAt  uint32
	stopped bool
}

func newBoard() *board {
	b := &board{
		latches: [sensor.Count]machine.Pin{PIN_LATCH_N, PIN_LATCH_E, PIN_LATCH_S, PIN_LATCH_W},
		boot:    time.Now(),
	}

	PIN_ARM.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_FACE.Configure(machine.PinConfig{Mode: machine.PinInput})
	PIN_FACE.SetInterrupt(machine.PinRising, func(machine.Pin) {
		if b.armed.Get() != 0 {
			b.face.Set(b.face.Get() + 1)
		}
	})

	for i, pin := range b.latches {
		id := i
		pin.Configure(machine.PinConfig{Mode: machine.PinInput})
		pin.SetInterrupt(machine.PinRising, func(machine.Pin) {
			if b.arrival[id].Get() == 0 {
				b.arrival[id].Set(b.micros())
			}
		})
	}

	return b
}

// micros returns microseconds since boot, never 0.
func (b *board) micros() uint32 {
	return uint32(time.Since(b.boot)/time.Microsecond) + 1
}

func (b *board) LatchMask() sensor.Mask {
	var m sensor.Mask
	for i, pin := range b.latches {
		if pin.Get() {
			m |= sensor.Bit(sensor.ID(i))
		}
	}
	return m
}

func (b *board) Counters() [sensor.Count]uint32 {
	end := b.micros()
	if b.stopped {
		end = b.stopAt
	}

	var out [sensor.Count]uint32
	for i := range b.arrival {
		a := b.arrival[i].Get()
		if a == 0 || a > end {
			continue
		}
		out[i] = (end - a) * geometry.OscillatorMHz
	}
	return out
}

func (b *board) FaceStrikes() int {
	return int(b.face.Get())
}

func (b *board) Arm() {
	for i := range b.arrival {
		b.arrival[i].Set(0)
	}
	b.face.Set(0)
	b.stopped = false
	b.armed.Set(1)
	PIN_ARM.High()
}

func (b *board) Stop() {
	if !b.stopped {
		b.stopAt = b.micros()
		b.stopped = true
	}
	b.armed.Set(0)
	PIN_ARM.Low()
}
