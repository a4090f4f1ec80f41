//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/itohio/goetarget/pkg/acquisition"
	"github.com/itohio/goetarget/pkg/calibration"
	"github.com/itohio/goetarget/pkg/shot"
)

var uart = machine.UART0

func main() {
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	hw := newBoard()
	cal := calibration.Default()
	m := acquisition.New(hw, cal.MaxWaitTime, cal.MinRingTime,
		acquisition.WithTickPeriod(TICK_INTERVAL_US*time.Microsecond),
	)
	hw.Arm()

	println("etarget ready")

	next := time.Now()
	for {
		m.Tick()

		records, lost := m.Shots().Poll()
		if lost > 0 {
			println("lost shots:", lost)
		}
		for _, rec := range records {
			uart.Write([]byte(shot.FormatLine(rec)))
			uart.Write([]byte{'\n'})
		}

		// Keep a fixed tick rate regardless of how long the tick took
		next = next.Add(TICK_INTERVAL_US * time.Microsecond)
		if d := time.Until(next); d > 0 {
			time.Sleep(d)
		} else {
			next = time.Now()
		}
	}
}
