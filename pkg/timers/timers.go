// Package timers provides a small arena of countdown timers decremented once
// per tick by the acquisition interrupt.
package timers

import (
	"errors"
	"sync/atomic"
)

// DefaultSlots is the capacity of a bank.
const DefaultSlots = 8

// ErrBankExhausted is returned when no slot is free. Callers log it and carry
// on; the requested timer simply never runs.
var ErrBankExhausted = errors.New("no space for timer")

// Handle is the index of an allocated slot.
type Handle int

// NoHandle is returned when no slot was allocated.
const NoHandle Handle = -1

// Valid reports whether the handle refers to a slot.
func (h Handle) Valid() bool {
	return h >= 0
}

type slot struct {
	used      atomic.Bool
	remaining atomic.Uint32
}

// Bank is a fixed set of countdown timers. Allocation and Tick are expected
// from the single tick goroutine; Remaining and Expired may be read from
// anywhere.
type Bank struct {
	slots []slot
}

// New creates a bank with n slots (DefaultSlots when n <= 0).
func New(n int) *Bank {
	if n <= 0 {
		n = DefaultSlots
	}
	return &Bank{slots: make([]slot, n)}
}

// Start allocates a slot counting down from duration ticks.
// A zero duration is a no-op and returns NoHandle without error.
func (b *Bank) Start(duration uint32) (Handle, error) {
	if duration == 0 {
		return NoHandle, nil
	}
	for i := range b.slots {
		if b.slots[i].used.CompareAndSwap(false, true) {
			b.slots[i].remaining.Store(duration)
			return Handle(i), nil
		}
	}
	return NoHandle, ErrBankExhausted
}

// Set reloads an allocated timer.
func (b *Bank) Set(h Handle, duration uint32) bool {
	if !b.owns(h) {
		return false
	}
	b.slots[h].remaining.Store(duration)
	return true
}

// Remaining returns the ticks left on a timer, 0 for an invalid handle.
func (b *Bank) Remaining(h Handle) uint32 {
	if !b.owns(h) {
		return 0
	}
	return b.slots[h].remaining.Load()
}

// Expired reports whether the timer has reached zero. A timer that could not
// be allocated is treated as already expired.
func (b *Bank) Expired(h Handle) bool {
	return b.Remaining(h) == 0
}

// Release frees the slot.
func (b *Bank) Release(h Handle) {
	if !b.owns(h) {
		return
	}
	b.slots[h].remaining.Store(0)
	b.slots[h].used.Store(false)
}

// Free returns the number of unallocated slots.
func (b *Bank) Free() int {
	n := 0
	for i := range b.slots {
		if !b.slots[i].used.Load() {
			n++
		}
	}
	return n
}

// Tick decrements every running timer by one.
func (b *Bank) Tick() {
	for i := range b.slots {
		s := &b.slots[i]
		if !s.used.Load() {
			continue
		}
		if r := s.remaining.Load(); r != 0 {
			s.remaining.Store(r - 1)
		}
	}
}

func (b *Bank) owns(h Handle) bool {
	return h.Valid() && int(h) < len(b.slots) && b.slots[h].used.Load()
}
