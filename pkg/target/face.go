// Package target maps solver output onto the paper face of a target.
package target

import (
	"math"

	"github.com/itohio/goetarget/pkg/geometry"
)

// Face is a shot position on the target face.
type Face struct {
	X      float64 // mm, after sensor rotation
	Y      float64 // mm
	Radius float64 // mm from the centre
	Angle  float64 // degrees, counter-clockwise from +X, including sensor rotation
}

// ToFace converts a solver position in ticks into millimetres and rotates it
// by the angle the sensor array is mounted at.
func ToFace(x, y float64, g geometry.Geometry, sensorAngle float64) Face {
	xmm := g.TicksToMM(x)
	ymm := g.TicksToMM(y)

	radius := math.Hypot(xmm, ymm)
	angle := math.Atan2(y, x)*180.0/math.Pi + sensorAngle
	rad := angle * math.Pi / 180.0

	return Face{
		X:      radius * math.Cos(rad),
		Y:      radius * math.Sin(rad),
		Radius: radius,
		Angle:  angle,
	}
}
