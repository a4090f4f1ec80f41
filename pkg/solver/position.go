package solver

import (
	"math"

	"github.com/itohio/goetarget/pkg/sensor"
)

// mapping places a point at distance be from the sensor, at the angle
// subtended between the neighbour side and the shot.
type mapping func(x, y, be, angle float64) (float64, float64)

// mappings holds one rotation per sensor. Each sensor sees the target from a
// different quadrant, so the formulas differ.
var mappings = [sensor.Count]mapping{
	sensor.North: func(x, y, be, angle float64) (float64, float64) {
		r := math.Pi/4 - angle
		return x + be*math.Sin(r), y - be*math.Cos(r)
	},
	sensor.East: func(x, y, be, angle float64) (float64, float64) {
		r := angle - math.Pi/4
		return x - be*math.Cos(r), y + be*math.Sin(r)
	},
	sensor.South: func(x, y, be, angle float64) (float64, float64) {
		r := angle + math.Pi/4
		return x - be*math.Cos(r), y + be*math.Sin(r)
	},
	sensor.West: func(x, y, be, angle float64) (float64, float64) {
		r := math.Pi/4 - angle
		return x + be*math.Cos(r), y + be*math.Sin(r)
	},
}

// positionFor solves one sensor triangle in the paper plane.
//
//	              C
//	           /     \
//	       b             a
//	    /                   \
//	A ------------ c ---------- B
//
// a and b are the sound paths from the shot to the neighbour and to this
// sensor. They run from the paper to the sensor plane, so the z-offset is
// removed before the law of cosines is applied:
//
//	paper = sqrt(sound^2 - z^2)
//	A = acos((a^2 - b^2 - c^2) / (-2bc))
func positionFor(t triangle, estimate, zOffset float64) (float64, float64, bool) {
	if !t.valid {
		return 0, 0, false
	}

	ae := planeDistance(t.a+estimate, zOffset)
	be := planeDistance(t.b+estimate, zOffset)

	var angle float64
	if ae+be >= t.c && be > 0 && t.c > 0 {
		cos := (ae*ae - be*be - t.c*t.c) / (-2.0 * be * t.c)
		angle = math.Acos(math.Max(-1, math.Min(1, cos)))
	}
	// Otherwise accumulated rounding broke the triangle; the angle stays zero.

	x, y := mappings[t.id](t.x, t.y, be, angle)
	return x, y, true
}

// planeDistance removes the z component from a slant range. A slant shorter
// than z clamps to zero.
func planeDistance(slant, z float64) float64 {
	return math.Sqrt(math.Max(0, slant*slant-z*z))
}
