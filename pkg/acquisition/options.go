package acquisition

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/timers"
)

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) {
		m.log = log
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Machine) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithTimers shares a timer bank with other tick-driven users.
func WithTimers(b *timers.Bank) Option {
	return func(m *Machine) {
		m.bank = b
	}
}

// WithRing sets the shot ring.
func WithRing(r *Ring) Option {
	return func(m *Machine) {
		m.ring = r
	}
}

// WithTickPeriod sets the tick period used by Run and for shot times.
func WithTickPeriod(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.period = d
		}
	}
}
