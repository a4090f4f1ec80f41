// Package scorer turns captured shot records into scored shots and hands
// each one to the reporter.
package scorer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/calibration"
	"github.com/itohio/goetarget/pkg/geometry"
	"github.com/itohio/goetarget/pkg/report"
	"github.com/itohio/goetarget/pkg/shot"
	"github.com/itohio/goetarget/pkg/solver"
	"github.com/itohio/goetarget/pkg/target"
)

const (
	DefaultBufferSize = 16
	sendTimeout       = time.Second
)

// Scored is a record with its result filled in.
type Scored struct {
	Record shot.Record
	Result shot.Result
}

// Recorder receives scoring metrics.
type Recorder interface {
	ShotScored(result string, iterations int)
	SolveDuration(seconds float64)
	ReportFailed()
}

type nopRecorder struct{}

func (nopRecorder) ShotScored(string, int) {}
func (nopRecorder) SolveDuration(float64)  {}
func (nopRecorder) ReportFailed()          {}

// settings is swapped as a whole so a shot never sees half an update.
type settings struct {
	params   calibration.Parameters
	env      calibration.Environment
	geometry geometry.Geometry
}

// Scorer scores shots with the current calibration.
type Scorer struct {
	current  atomic.Pointer[settings]
	reporter report.Reporter
	log      zerolog.Logger
	recorder Recorder
	bufSize  int
}

// New creates a scorer. A nil reporter discards shots.
func New(p calibration.Parameters, env calibration.Environment, reporter report.Reporter, opts ...Option) *Scorer {
	if reporter == nil {
		reporter = report.Discard
	}
	s := &Scorer{
		reporter: reporter,
		log:      zerolog.Nop(),
		recorder: nopRecorder{},
		bufSize:  DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.SetCalibration(p, env)
	return s
}

// SetCalibration replaces the calibration and environment. Shots scored
// after the call use the new geometry.
func (s *Scorer) SetCalibration(p calibration.Parameters, env calibration.Environment) {
	s.current.Store(&settings{
		params:   p,
		env:      env,
		geometry: geometry.Rebuild(p, env.TemperatureC, env.Humidity),
	})
	s.log.Debug().
		Float64("temperature", env.TemperatureC).
		Float64("humidity", env.Humidity).
		Int("target_type", p.TargetType).
		Msg("Calibration updated")
}

// Calibration returns the active calibration and environment.
func (s *Scorer) Calibration() (calibration.Parameters, calibration.Environment) {
	cur := s.current.Load()
	return cur.params, cur.env
}

// Geometry returns the active sensor geometry.
func (s *Scorer) Geometry() geometry.Geometry {
	return s.current.Load().geometry
}

// Remapped reports whether the active target type moves shots onto sub-bulls.
func (s *Scorer) Remapped() bool {
	_, ok := target.Layouts[s.current.Load().params.TargetType]
	return ok
}

// Score solves one record and reports it. Reporting errors are logged and
// counted; the scored shot is returned regardless.
func (s *Scorer) Score(ctx context.Context, rec shot.Record) Scored {
	cur := s.current.Load()

	start := time.Now()
	res := solver.Solve(rec, cur.geometry, cur.params)
	s.recorder.SolveDuration(time.Since(start).Seconds())

	if res.IsMiss() {
		s.log.Info().
			Uint64("shot", rec.Number).
			Stringer("reason", res.Reason).
			Stringer("mask", rec.LatchMask).
			Int("face", rec.FaceStrikes).
			Msg("Miss")
	} else {
		face := target.ToFace(res.X, res.Y, cur.geometry, cur.params.SensorAngle)
		rec.RealX, rec.RealY = face.X, face.Y
		rec.ResultX, rec.ResultY = target.Remap(face.X, face.Y, cur.params.TargetType)
		rec.Radius = face.Radius
		rec.Angle = face.Angle
		rec.Score = report.DecimalScore(face.Radius, cur.params.Ring1, cur.params.Calibre)

		s.log.Info().
			Uint64("shot", rec.Number).
			Float64("x", rec.ResultX).
			Float64("y", rec.ResultY).
			Float32("score", rec.Score).
			Int("iterations", res.Iterations).
			Stringer("reference", res.Reference).
			Msg("Hit")
	}
	s.recorder.ShotScored(resultLabel(res), res.Iterations)

	if err := s.reporter.Report(ctx, rec, res); err != nil {
		s.recorder.ReportFailed()
		s.log.Error().Err(err).Uint64("shot", rec.Number).Msg("Failed to report shot")
	}

	return Scored{Record: rec, Result: res}
}

// resultLabel is "position" for hits and the miss reason otherwise.
func resultLabel(res shot.Result) string {
	if res.IsMiss() {
		return res.Reason.String()
	}
	return res.Kind.String()
}

// Run scores records from in until it closes or ctx is done. The output
// channel is closed on return.
func (s *Scorer) Run(ctx context.Context, in <-chan shot.Record) <-chan Scored {
	out := make(chan Scored, s.bufSize)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case rec, ok := <-in:
				if !ok {
					return
				}

				scored := s.Score(ctx, rec)

				select {
				case out <- scored:
				case <-ctx.Done():
					return
				case <-time.After(sendTimeout):
					s.log.Warn().Uint64("shot", rec.Number).Msg("Scorer output channel full, dropping shot")
				}
			}
		}
	}()

	return out
}
