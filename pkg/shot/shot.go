// Package shot defines the record captured for one acquisition window and
// the result computed from it.
package shot

import (
	"time"

	"github.com/itohio/goetarget/pkg/sensor"
)

// Record is the snapshot of one acquisition window.
type Record struct {
	Number      uint64               // Monotonic shot number
	Time        time.Duration        // Time into the session when the window closed
	RawCounts   [sensor.Count]uint32 // 0 = sensor never latched
	FaceStrikes int                  // Face sensor triggers during the window
	LatchMask   sensor.Mask          // Sensors latched when the window closed

	// Filled in after scoring, in millimetres on the target face.
	ResultX float64 // Relative to the nearest bull
	ResultY float64
	RealX   float64 // Before bull remapping
	RealY   float64
	Radius  float64 // Distance from the face centre
	Angle   float64 // Degrees, including sensor rotation
	Score   float32 // Decimal score
}

// Incomplete reports whether any sensor failed to latch.
func (r Record) Incomplete() bool {
	for _, c := range r.RawCounts {
		if c == 0 {
			return true
		}
	}
	return false
}

// Kind classifies a solve.
type Kind int

const (
	Position Kind = iota
	Miss
)

func (k Kind) String() string {
	if k == Miss {
		return "miss"
	}
	return "position"
}

// MissReason tells an incomplete capture from a face strike.
type MissReason int

const (
	NotMissed MissReason = iota
	IncompleteCapture
	FaceStrike
)

func (m MissReason) String() string {
	switch m {
	case IncompleteCapture:
		return "incomplete"
	case FaceStrike:
		return "face_strike"
	default:
		return "none"
	}
}

// Result is the outcome of solving one Record. X and Y are in ticks.
type Result struct {
	Kind       Kind
	Reason     MissReason
	X          float64
	Y          float64
	Reference  sensor.ID
	Iterations int
	Counts     [sensor.Count]float64 // Compensated counts used by the solve
}

// MissResult returns a Miss with the given reason.
func MissResult(reason MissReason) Result {
	return Result{Kind: Miss, Reason: reason}
}

// IsMiss reports whether no position was computed.
func (r Result) IsMiss() bool {
	return r.Kind == Miss
}
