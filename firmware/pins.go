//go:build tinygo

package main

import "machine"

const (
	// Loop configuration
	TICK_INTERVAL_US = 1000 // Acquisition tick in microseconds

	// Latch inputs: Q outputs of the per-sensor run flip-flops
	PIN_LATCH_N = machine.D1
	PIN_LATCH_E = machine.D2
	PIN_LATCH_S = machine.D3
	PIN_LATCH_W = machine.D4

	// Face sensor comparator output
	PIN_FACE = machine.D5

	// Flip-flop reset, active low. Low holds every latch cleared.
	PIN_ARM = machine.D6

	// Serial configuration
	// Shot line: "S,<shot>,<ms>,<N>,<E>,<S>,<W>,<face>,<mask>\n" is ~60 bytes max.
	// A shot takes at least the ring-down time (~500 ms), so 115200 baud is plenty.
	UART_BAUD_RATE = 115200
)
