// Package solver computes the impact position from the four counter values.
//
// Counters start when their sensor latches and all stop together, so the
// sensor nearest the impact holds the largest count. That sensor is the
// reference; subtracting each count from it gives the extra path length to
// every other sensor. The unknown distance to the reference sensor (the
// estimate) is found by fixed-point iteration: each sensor and its cyclic
// neighbour form a triangle solved with the law of cosines, the four
// candidate positions are averaged, and the estimate is recomputed from the
// average.
package solver

import (
	"math"

	"github.com/itohio/goetarget/pkg/calibration"
	"github.com/itohio/goetarget/pkg/geometry"
	"github.com/itohio/goetarget/pkg/sensor"
	"github.com/itohio/goetarget/pkg/shot"
)

const (
	// Threshold is the estimate change, in ticks, that ends the iteration.
	Threshold = 0.001
	// MaxIterations bounds the refinement loop. Reaching it is not an error.
	MaxIterations = 20
)

// triangle is one sensor's view of the shot.
type triangle struct {
	id    sensor.ID
	x, y  float64 // Sensor position
	a     float64 // Neighbour's corrected count
	b     float64 // This sensor's corrected count
	c     float64 // Distance to the neighbour
	valid bool
}

// Solve computes the position for one record. Records with a face strike or a
// missing count are a Miss.
func Solve(rec shot.Record, g geometry.Geometry, p calibration.Parameters) shot.Result {
	if rec.FaceStrikes != 0 {
		return shot.MissResult(shot.FaceStrike)
	}
	if rec.Incomplete() {
		return shot.MissResult(shot.IncompleteCapture)
	}

	ref := Reference(rec.RawCounts)
	counts := Compensate(Correct(rec.RawCounts, ref), p.Attenuation)

	var tris [sensor.Count]triangle
	for _, id := range sensor.IDs {
		s := g.Sensors[id]
		tris[id] = triangle{
			id:    id,
			x:     s.X,
			y:     s.Y,
			a:     counts[id.Next()],
			b:     counts[id],
			c:     g.Side(id),
			valid: rec.RawCounts[id] != 0,
		}
	}

	smallest := counts[sensor.North]
	for _, id := range sensor.IDs[1:] {
		if counts[id] < smallest {
			smallest = counts[id]
		}
	}

	estimate := tris[sensor.North].c - smallest + 1.0
	refPos := g.Sensors[ref]

	var xAvg, yAvg float64
	iterations := 0
	for iterations < MaxIterations {
		last := estimate
		xAvg, yAvg = 0, 0

		for i := range tris {
			if x, y, ok := positionFor(tris[i], estimate, g.ZOffsetTicks); ok {
				xAvg += x
				yAvg += y
			}
		}

		// Sensors without data contribute zero but still count.
		xAvg /= sensor.Count
		yAvg /= sensor.Count

		estimate = math.Hypot(refPos.X-xAvg, refPos.Y-yAvg)
		iterations++

		if math.Abs(last-estimate) < Threshold {
			break
		}
	}

	return shot.Result{
		Kind:       shot.Position,
		X:          xAvg,
		Y:          yAvg,
		Reference:  ref,
		Iterations: iterations,
		Counts:     counts,
	}
}

// Reference returns the sensor with the largest count. Ties go to the first
// sensor in N, E, S, W order.
func Reference(raw [sensor.Count]uint32) sensor.ID {
	ref := sensor.North
	for _, id := range sensor.IDs[1:] {
		if raw[id] > raw[ref] {
			ref = id
		}
	}
	return ref
}

// Correct returns each count relative to the reference sensor.
func Correct(raw [sensor.Count]uint32, ref sensor.ID) [sensor.Count]float64 {
	var out [sensor.Count]float64
	for _, id := range sensor.IDs {
		out[id] = float64(raw[ref]) - float64(raw[id])
	}
	return out
}

// Compensate subtracts the attenuation term from each corrected count. Sound
// loses energy with distance so the later arrivals trigger late by an amount
// that grows with the square of the delay. The correction is whole ticks.
func Compensate(counts [sensor.Count]float64, attenuation float64) [sensor.Count]float64 {
	for i, c := range counts {
		us := c / geometry.OscillatorMHz
		correction := us * us * attenuation * geometry.OscillatorMHz
		counts[i] = c - math.Trunc(correction)
	}
	return counts
}
