package target

import "sort"

// Point is a bull centre on the face in mm.
type Point struct {
	X float64
	Y float64
}

// Layout is a multi-bull paper target.
type Layout struct {
	Type  int
	Name  string
	Bulls []Point
}

// Known target types. Types 0 and 1 are single-bull targets and are never
// remapped.
const (
	TypeSingle        = 0
	TypeSingleDecimal = 1
	TypeFiveBull      = 4
	TypeFiveBull79    = 5
	TypeOrion12       = 11
	TypeTwelveBull    = 12
)

const (
	fiveBullOffset   = 74.0 / 2.0 // Five bull air rifle, 74 mm centres
	fiveBull79Offset = 39.0       // Five bull air rifle, 79 mm centres halved to whole mm

	orion12H = 72.0        // Orion twelve bull horizontal spacing
	orion12V = 190.0 / 3.0 // Orion twelve bull vertical spacing

	twelveBullH = 95.5 // Twelve bull horizontal spacing
	twelveBullV = 65.0 // Twelve bull vertical spacing
)

// Layouts is indexed by target type.
var Layouts = map[int]Layout{
	TypeFiveBull:   {Type: TypeFiveBull, Name: "five bull", Bulls: fiveBull(fiveBullOffset)},
	TypeFiveBull79: {Type: TypeFiveBull79, Name: "five bull 79mm", Bulls: fiveBull(fiveBull79Offset)},
	TypeOrion12:    {Type: TypeOrion12, Name: "orion twelve bull", Bulls: twelveBull(orion12H, orion12V)},
	TypeTwelveBull: {Type: TypeTwelveBull, Name: "twelve bull", Bulls: twelveBull(twelveBullH, twelveBullV)},
}

// Types returns the known multi-bull target types in ascending order.
func Types() []int {
	types := make([]int, 0, len(Layouts))
	for t := range Layouts {
		types = append(types, t)
	}
	sort.Ints(types)
	return types
}

// fiveBull lays the bulls out like the five on a die.
func fiveBull(d float64) []Point {
	return []Point{
		{-d, d}, {d, d},
		{0, 0},
		{-d, -d}, {d, -d},
	}
}

// twelveBull lays out four rows of three, top row first.
func twelveBull(h, v float64) []Point {
	rows := []float64{v + v/2, v / 2, -v / 2, -(v + v/2)}
	bulls := make([]Point, 0, 12)
	for _, y := range rows {
		bulls = append(bulls, Point{-h, y}, Point{0, y}, Point{h, y})
	}
	return bulls
}
