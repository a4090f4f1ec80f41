package report

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// DecimalScore returns the decimal ring score at radius mm. ring1 is the
// diameter of the 10 ring and calibre the pellet diameter, both in mm.
func DecimalScore(radius, ring1, calibre float64) float32 {
	edge := float32(ring1+calibre) / 2
	if edge <= 0 {
		return 0
	}
	coeff := float32(9.9) / edge
	return math32.Max(0, float32(10.9)-coeff*float32(radius))
}

// Clock returns the clock face position of an angle in degrees as "h:mm".
// 0 degrees is three o'clock and angles grow counter-clockwise.
func Clock(angle float64) string {
	z := 360 - ((int(angle) - 90) % 360)
	z = (z%360 + 360) % 360

	face := float32(z) / 30
	hours := math32.Trunc(face)
	minutes := math32.Trunc(60 * (face - hours))
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%d:%02d", int(hours), int(minutes))
}

// round2 rounds to two decimals for the wire format.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
