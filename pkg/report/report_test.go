package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goetarget/pkg/sensor"
	"github.com/itohio/goetarget/pkg/shot"
)

func hit() (shot.Record, shot.Result) {
	rec := shot.Record{
		Number:    7,
		Time:      1500 * time.Millisecond,
		RawCounts: [4]uint32{17374, 17425, 17274, 17225},
		LatchMask: sensor.AllMask,
		ResultX:   1.234,
		ResultY:   -2.5,
		RealX:     38.234,
		RealY:     34.5,
		Radius:    2.79,
		Angle:     45,
		Score:     9.5,
	}
	res := shot.Result{
		Kind:       shot.Position,
		Reference:  sensor.East,
		Iterations: 4,
		Counts:     [4]float64{51, 0, 151, 200},
	}
	return rec, res
}

func TestDecimalScore(t *testing.T) {
	tests := []struct {
		name    string
		radius  float64
		ring1   float64
		calibre float64
		want    float32
	}{
		{"centre", 0, 0.5, 4.5, 10.9},
		{"edge", 2.5, 0.5, 4.5, 1.0},
		{"half way", 1.25, 0.5, 4.5, 5.95},
		{"far out clamps", 100, 0.5, 4.5, 0},
		{"no ring", 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DecimalScore(tt.radius, tt.ring1, tt.calibre), 1e-4)
		})
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		angle float64
		want  string
	}{
		{90, "12:00"},
		{0, "3:00"},
		{45, "1:30"},
		{180, "9:00"},
		{-90, "6:00"},
		{270, "6:00"},
		{100, "11:40"},
		{450, "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Clock(tt.angle))
		})
	}
}

func TestLine_Hit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf, "lane1", func() bool { return true })

	rec, res := hit()
	require.NoError(t, l.Report(context.Background(), rec, res))
	require.True(t, strings.HasSuffix(buf.String(), "\n"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, float64(7), got["shot"])
	assert.Equal(t, float64(0), got["miss"])
	assert.Equal(t, "lane1", got["name"])
	assert.Equal(t, 1.5, got["time"])
	assert.Equal(t, 1.23, got["x"])
	assert.Equal(t, -2.5, got["y"])
	assert.Equal(t, 38.23, got["real_x"])
	assert.Equal(t, 34.5, got["real_y"])
	assert.Equal(t, 2.79, got["r"])
	assert.Equal(t, float64(45), got["a"])
	assert.Equal(t, 9.5, got["score"])
	assert.Equal(t, "1:30", got["clock"])
	assert.Equal(t, float64(51), got["N"])
	assert.Equal(t, float64(0), got["E"])
	assert.Equal(t, float64(151), got["S"])
	assert.Equal(t, float64(200), got["W"])
	assert.Equal(t, float64(0), got["face"])
	assert.NotContains(t, got, "reason")
}

func TestLine_NotRemapped(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf, "lane1", nil)

	rec, res := hit()
	require.NoError(t, l.Report(context.Background(), rec, res))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.NotContains(t, got, "real_x")
	assert.NotContains(t, got, "real_y")
	assert.Contains(t, got, "x")
}

func TestLine_Miss(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf, "lane2", nil)

	rec := shot.Record{
		Number:      3,
		Time:        250 * time.Millisecond,
		RawCounts:   [4]uint32{10, 0, 12, 0},
		LatchMask:   sensor.Bit(sensor.North) | sensor.Bit(sensor.South),
		FaceStrikes: 0,
	}
	require.NoError(t, l.Report(context.Background(), rec, shot.MissResult(shot.IncompleteCapture)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(1), got["miss"])
	assert.Equal(t, "incomplete", got["reason"])
	assert.Equal(t, 0.25, got["time"])
	assert.Equal(t, float64(10), got["N"])
	assert.Equal(t, float64(12), got["S"])
	assert.NotContains(t, got, "x")
	assert.NotContains(t, got, "score")
}

func TestLine_WritesAfterCancel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf, "lane1", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, res := hit()
	require.NoError(t, l.Report(ctx, rec, res))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(rec.Number), got["shot"])
}

func TestMulti(t *testing.T) {
	var calls []string
	errA := errors.New("a failed")

	m := Multi{
		Func(func(context.Context, shot.Record, shot.Result) error {
			calls = append(calls, "a")
			return errA
		}),
		nil,
		Func(func(context.Context, shot.Record, shot.Result) error {
			calls = append(calls, "b")
			return nil
		}),
	}

	rec, res := hit()
	err := m.Report(context.Background(), rec, res)
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, []string{"a", "b"}, calls)

	assert.NoError(t, Multi{Discard}.Report(context.Background(), rec, res))
}

type fakeWriter struct {
	points []*influxdb2_write.Point
	err    error
}

func (f *fakeWriter) WritePoint(_ context.Context, p ...*influxdb2_write.Point) error {
	if f.err != nil {
		return f.err
	}
	f.points = append(f.points, p...)
	return nil
}

func TestInflux_Report(t *testing.T) {
	w := &fakeWriter{}
	r := NewInfluxWriter(w, "lane1")
	ts := time.Unix(1700000000, 0)
	r.now = func() time.Time { return ts }

	rec, res := hit()
	require.NoError(t, r.Report(context.Background(), rec, res))
	require.Len(t, w.points, 1)

	line := influxdb2_write.PointToLineProtocol(w.points[0], time.Second)
	assert.True(t, strings.HasPrefix(line, Measurement+","))
	assert.Contains(t, line, "target=lane1")
	assert.Contains(t, line, "result=position")
	assert.Contains(t, line, "reference=E")
	assert.Contains(t, line, "shot=7i")
	assert.Contains(t, line, "iterations=4i")
	assert.Contains(t, line, "score=9.5")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(line), "1700000000"))
}

func TestInflux_Miss(t *testing.T) {
	w := &fakeWriter{}
	r := NewInfluxWriter(w, "lane1")

	rec := shot.Record{Number: 2, FaceStrikes: 1}
	require.NoError(t, r.Report(context.Background(), rec, shot.MissResult(shot.FaceStrike)))
	require.Len(t, w.points, 1)

	line := influxdb2_write.PointToLineProtocol(w.points[0], time.Second)
	assert.Contains(t, line, "result=miss")
	assert.Contains(t, line, "reason=face_strike")
	assert.Contains(t, line, `mask="...."`)
	assert.NotContains(t, line, "score=")
}

func TestInflux_WriteError(t *testing.T) {
	boom := errors.New("boom")
	r := NewInfluxWriter(&fakeWriter{err: boom}, "lane1")

	rec, res := hit()
	err := r.Report(context.Background(), rec, res)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "shot 7")
}
