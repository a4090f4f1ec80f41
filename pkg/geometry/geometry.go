// Package geometry converts the physical sensor layout into the time domain
// used by the solver.
//
// All positions are expressed in oscillator ticks: millimetres divided by the
// speed of sound and multiplied by the counter frequency. Counter values and
// sensor positions are then directly comparable.
//
//	              N    (+,+)
//
//	       W      0--R-->E
//
//	(-,-)         S
package geometry

import (
	"math"

	"github.com/itohio/goetarget/pkg/calibration"
	"github.com/itohio/goetarget/pkg/sensor"
)

// OscillatorMHz is the counter clock frequency.
const OscillatorMHz = 8.0

// Sensor is the position of one perimeter sensor in ticks.
type Sensor struct {
	ID sensor.ID
	X  float64
	Y  float64
}

// Geometry is the sensor layout for one set of conditions. It is a value;
// rebuilding never mutates a previously returned Geometry.
type Geometry struct {
	Sensors      [sensor.Count]Sensor
	SpeedOfSound float64 // mm/us
	CalibreTicks float64 // Half the projectile diameter in ticks
	ZOffsetTicks float64 // Paper to sensor plane distance in ticks
}

// SpeedOfSound returns the speed of sound in mm/us for the given
// temperature (C) and relative humidity (%).
func SpeedOfSound(temperatureC, humidity float64) float64 {
	mps := 331.3 + 0.606*temperatureC + 0.0124*humidity
	return mps * 1000.0 / 1000000.0
}

// Rebuild derives the sensor geometry from calibration and environment.
func Rebuild(p calibration.Parameters, temperatureC, humidity float64) Geometry {
	v := SpeedOfSound(temperatureC, humidity)
	toTicks := func(mm float64) float64 {
		return mm / v * OscillatorMHz
	}

	half := p.SensorDiameter / 2.0
	n := p.Trims[sensor.North]
	e := p.Trims[sensor.East]
	s := p.Trims[sensor.South]
	w := p.Trims[sensor.West]

	return Geometry{
		Sensors: [sensor.Count]Sensor{
			{ID: sensor.North, X: toTicks(n.X), Y: toTicks(half + n.Y)},
			{ID: sensor.East, X: toTicks(half + e.X), Y: toTicks(e.Y)},
			{ID: sensor.South, X: toTicks(s.X), Y: -toTicks(half + s.Y)},
			{ID: sensor.West, X: -toTicks(half + w.X), Y: toTicks(w.Y)},
		},
		SpeedOfSound: v,
		CalibreTicks: toTicks(p.Calibre / 2.0),
		ZOffsetTicks: toTicks(p.ZOffset),
	}
}

// Side returns the distance from a sensor to its cyclic neighbour.
func (g Geometry) Side(id sensor.ID) float64 {
	a := g.Sensors[id]
	b := g.Sensors[id.Next()]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// TicksToMM converts a time-domain distance back to millimetres.
func (g Geometry) TicksToMM(ticks float64) float64 {
	return ticks * g.SpeedOfSound / OscillatorMHz
}

// MMToTicks converts millimetres to a time-domain distance.
func (g Geometry) MMToTicks(mm float64) float64 {
	return mm / g.SpeedOfSound * OscillatorMHz
}
