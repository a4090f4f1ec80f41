package target

import "math"

// initialClosest is larger than any distance on a real target.
const initialClosest = 100000.0

// Remap moves (x, y) so it is relative to the nearest bull of the target
// type. Unknown and single-bull types return the point unchanged. When two
// bulls are equally near the first one in layout order wins.
func Remap(x, y float64, targetType int) (float64, float64) {
	if targetType <= TypeSingleDecimal {
		return x, y
	}
	layout, ok := Layouts[targetType]
	if !ok || len(layout.Bulls) == 0 {
		return x, y
	}

	closest := initialClosest
	var centre Point
	for _, b := range layout.Bulls {
		d := math.Hypot(x-b.X, y-b.Y)
		if d < closest {
			closest = d
			centre = b
		}
	}
	if closest == initialClosest {
		return x, y
	}

	return x - centre.X, y - centre.Y
}
