package device

import (
	"math"
	"sync"
	"time"

	"github.com/itohio/goetarget/pkg/acquisition"
	"github.com/itohio/goetarget/pkg/geometry"
	"github.com/itohio/goetarget/pkg/sensor"
)

// Impact is a simulated pellet strike in the sensor frame.
type Impact struct {
	X       float64     // mm
	Y       float64     // mm
	Face    bool        // Also trip the face sensor
	Missing sensor.Mask // Sensors that never hear the shot
}

// Simulator is a software counter board. Each counter runs from its
// sensor's arrival until Stop, so the nearest sensor holds the largest
// count.
type Simulator struct {
	mu sync.Mutex

	g       geometry.Geometry
	zOffset float64 // mm
	now     float64 // us since creation

	armed   bool
	stopped bool
	stopAt  float64
	arrival [sensor.Count]float64 // us, negative when not scheduled
	face    int
}

var _ acquisition.Hardware = (*Simulator)(nil)

// NewSimulator creates an armed board for the given geometry.
func NewSimulator(g geometry.Geometry) *Simulator {
	s := &Simulator{
		g:       g,
		zOffset: g.TicksToMM(g.ZOffsetTicks),
	}
	s.Arm()
	return s
}

// Advance moves simulated time forward.
func (s *Simulator) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += float64(d) / float64(time.Microsecond)
}

// Fire schedules the sound arrivals of an impact. It returns false when the
// board is not armed; the shot is lost as it would be on real hardware.
func (s *Simulator) Fire(im Impact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return false
	}
	if im.Face {
		s.face++
	}

	for _, sn := range s.g.Sensors {
		if im.Missing.Has(sn.ID) {
			continue
		}
		dx := im.X - s.g.TicksToMM(sn.X)
		dy := im.Y - s.g.TicksToMM(sn.Y)
		slant := math.Sqrt(dx*dx + dy*dy + s.zOffset*s.zOffset)
		s.arrival[sn.ID] = s.now + slant/s.g.SpeedOfSound
	}
	return true
}

func (s *Simulator) LatchMask() sensor.Mask {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0
	}
	var m sensor.Mask
	for _, id := range sensor.IDs {
		if a := s.arrival[id]; a >= 0 && a <= s.now {
			m |= sensor.Bit(id)
		}
	}
	return m
}

func (s *Simulator) Counters() [sensor.Count]uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.now
	if s.stopped {
		end = s.stopAt
	}

	var out [sensor.Count]uint32
	for _, id := range sensor.IDs {
		a := s.arrival[id]
		if a < 0 || a > end {
			continue
		}
		out[id] = uint32(math.Round((end - a) * geometry.OscillatorMHz))
	}
	return out
}

func (s *Simulator) FaceStrikes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.face
}

func (s *Simulator) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.armed = true
	s.stopped = false
	s.face = 0
	for i := range s.arrival {
		s.arrival[i] = -1
	}
}

// Stop freezes the counters and holds the latches in reset until Arm.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		s.stopAt = s.now
	}
	s.armed = false
	s.stopped = true
}
