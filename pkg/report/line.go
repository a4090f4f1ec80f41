package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/itohio/goetarget/pkg/shot"
)

// Message is one shot on the wire. Position fields are in mm.
type Message struct {
	Shot   uint64   `json:"shot"`
	Miss   int      `json:"miss"`
	Name   string   `json:"name"`
	Time   float64  `json:"time"`
	Reason string   `json:"reason,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	RealX  *float64 `json:"real_x,omitempty"`
	RealY  *float64 `json:"real_y,omitempty"`
	Radius *float64 `json:"r,omitempty"`
	Angle  *float64 `json:"a,omitempty"`
	Score  *float32 `json:"score,omitempty"`
	Clock  string   `json:"clock,omitempty"`
	N      int64    `json:"N"`
	E      int64    `json:"E"`
	S      int64    `json:"S"`
	W      int64    `json:"W"`
	Face   int      `json:"face"`
}

// NewMessage builds the message for a scored shot. Misses carry the raw
// counters, hits the compensated counts used by the solve. real_x and real_y
// are only set when the point was remapped onto a sub-bull.
func NewMessage(name string, rec shot.Record, res shot.Result, remapped bool) Message {
	m := Message{
		Shot: rec.Number,
		Name: name,
		Time: round2(rec.Time.Seconds()),
		Face: rec.FaceStrikes,
	}

	if res.IsMiss() {
		m.Miss = 1
		m.Reason = res.Reason.String()
		m.N = int64(rec.RawCounts[0])
		m.E = int64(rec.RawCounts[1])
		m.S = int64(rec.RawCounts[2])
		m.W = int64(rec.RawCounts[3])
		return m
	}

	m.X = ptr(round2(rec.ResultX))
	m.Y = ptr(round2(rec.ResultY))
	if remapped {
		m.RealX = ptr(round2(rec.RealX))
		m.RealY = ptr(round2(rec.RealY))
	}
	m.Radius = ptr(round2(rec.Radius))
	m.Angle = ptr(round2(rec.Angle))
	m.Score = ptr(rec.Score)
	m.Clock = Clock(rec.Angle)
	m.N = int64(res.Counts[0])
	m.E = int64(res.Counts[1])
	m.S = int64(res.Counts[2])
	m.W = int64(res.Counts[3])
	return m
}

// Line writes one JSON object per line.
type Line struct {
	mu       sync.Mutex
	enc      *json.Encoder
	name     string
	remapped func() bool
}

var _ Reporter = (*Line)(nil)

// NewLine creates a line reporter. remapped reports whether the current
// target type remaps shots; nil means never.
func NewLine(w io.Writer, name string, remapped func() bool) *Line {
	if remapped == nil {
		remapped = func() bool { return false }
	}
	return &Line{
		enc:      json.NewEncoder(w),
		name:     name,
		remapped: remapped,
	}
}

// Report writes the shot as one JSON line. Shots scored during shutdown are
// still written.
func (l *Line) Report(_ context.Context, rec shot.Record, res shot.Result) error {
	msg := NewMessage(l.name, rec, res, l.remapped())

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to write shot %d: %w", rec.Number, err)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
