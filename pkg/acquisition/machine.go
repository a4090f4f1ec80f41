// Package acquisition implements the shot acquisition state machine advanced
// once per tick by the periodic interrupt.
//
// The machine is the only writer of its state and of the timer bank. The
// scoring task only reads completed records from the Ring.
package acquisition

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/sensor"
	"github.com/itohio/goetarget/pkg/shot"
	"github.com/itohio/goetarget/pkg/timers"
)

// DefaultTickPeriod is the interrupt period. All timeouts are counted in ticks.
const DefaultTickPeriod = time.Millisecond

// State is the acquisition state.
type State int32

const (
	Idle     State = iota // No sensor latched
	Waiting               // Some sensors latched, waiting for the rest
	RingDown              // Counters captured, waiting for the ringing to stop
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case RingDown:
		return "ring-down"
	default:
		return "unknown"
	}
}

// Machine is the acquisition state machine.
type Machine struct {
	hw       Hardware
	bank     *timers.Bank
	ring     *Ring
	log      zerolog.Logger
	recorder Recorder
	period   time.Duration

	state   atomic.Int32
	maxWait atomic.Uint32
	minRing atomic.Uint32

	wait     timers.Handle
	ringDown timers.Handle
	ticks    uint64
	next     uint64 // Next shot number
}

// New creates a machine in the Idle state. The caller arms the hardware
// before the first tick.
func New(hw Hardware, maxWait, minRing uint32, opts ...Option) *Machine {
	m := &Machine{
		hw:       hw,
		log:      zerolog.Nop(),
		recorder: nopRecorder{},
		period:   DefaultTickPeriod,
		wait:     timers.NoHandle,
		ringDown: timers.NoHandle,
	}
	m.maxWait.Store(maxWait)
	m.minRing.Store(minRing)

	for _, opt := range opts {
		opt(m)
	}

	if m.bank == nil {
		m.bank = timers.New(timers.DefaultSlots)
	}
	if m.ring == nil {
		m.ring = NewRing(DefaultRingSize)
	}

	return m
}

// State returns the current state. Safe from any goroutine.
func (m *Machine) State() State {
	return State(m.state.Load())
}

// Shots returns the ring completed records are published to.
func (m *Machine) Shots() *Ring {
	return m.ring
}

// Timers returns the machine's timer bank.
func (m *Machine) Timers() *timers.Bank {
	return m.bank
}

// SetTiming updates the wait and ring-down windows. Takes effect the next
// time a timer is started.
func (m *Machine) SetTiming(maxWait, minRing uint32) {
	m.maxWait.Store(maxWait)
	m.minRing.Store(minRing)
}

// Tick advances the machine by one period. It must not block.
func (m *Machine) Tick() {
	mask := m.hw.LatchMask()

	switch m.State() {
	case Idle:
		if mask != 0 {
			m.wait = m.startTimer(m.wait, m.maxWait.Load())
			m.setState(Waiting)
		}

	case Waiting:
		if mask.Complete() || m.bank.Expired(m.wait) {
			m.capture(mask)
			m.ringDown = m.startTimer(m.ringDown, m.minRing.Load())
			m.setState(RingDown)
		}

	case RingDown:
		if mask != 0 {
			// Echo: hold the counters and start the ring-down again.
			m.ringDown = m.startTimer(m.ringDown, m.minRing.Load())
			m.hw.Stop()
		} else if m.bank.Expired(m.ringDown) {
			m.hw.Arm()
			m.setState(Idle)
		}
	}

	m.bank.Tick()
	m.ticks++
}

// Run calls Tick every period until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick()
		}
	}
}

// capture stops the counters and publishes a complete record.
func (m *Machine) capture(mask sensor.Mask) {
	m.hw.Stop()

	rec := shot.Record{
		Number:      m.next,
		Time:        time.Duration(m.ticks) * m.period,
		RawCounts:   m.hw.Counters(),
		FaceStrikes: m.hw.FaceStrikes(),
		LatchMask:   mask,
	}
	m.next++

	m.ring.Publish(rec)

	if !mask.Complete() {
		m.log.Debug().Uint64("shot", rec.Number).Str("sensors", mask.String()).Msg("window closed with missing sensors")
	}
}

// startTimer reloads an allocated timer or allocates a new one. A failed
// allocation is logged and the window runs as already expired.
func (m *Machine) startTimer(h timers.Handle, duration uint32) timers.Handle {
	if m.bank.Set(h, duration) {
		return h
	}
	nh, err := m.bank.Start(duration)
	if err != nil {
		m.log.Error().Err(err).Uint32("duration", duration).Msg("timer not started")
		m.recorder.TimerExhausted()
	}
	return nh
}

func (m *Machine) setState(s State) {
	m.state.Store(int32(s))
	m.recorder.AcquisitionState(int(s))
}
