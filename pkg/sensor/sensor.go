// Package sensor names the four perimeter microphones of the target and the
// latch bit mask reported by the counter hardware.
package sensor

import (
	"fmt"
	"strings"
)

// ID identifies a perimeter sensor. The order is cyclic: each sensor's
// neighbour is Next().
type ID int

const (
	North ID = iota
	East
	South
	West
)

// Count is the number of perimeter sensors.
const Count = 4

var names = [Count]string{"N", "E", "S", "W"}

// IDs lists the sensors in scan order.
var IDs = [Count]ID{North, East, South, West}

// Next returns the cyclic neighbour used to form the sensor triangle.
func (id ID) Next() ID {
	return (id + 1) % Count
}

func (id ID) String() string {
	if id < 0 || id >= Count {
		return "?"
	}
	return names[id]
}

// Mask is a latch bit mask, bit i set when sensor i has latched.
type Mask uint8

// AllMask has every sensor latched.
const AllMask Mask = 1<<Count - 1

// Bit returns the mask bit for a sensor.
func Bit(id ID) Mask {
	return 1 << uint(id)
}

// Has reports whether the sensor is latched.
func (m Mask) Has(id ID) bool {
	return m&Bit(id) != 0
}

// Complete reports whether all sensors are latched.
func (m Mask) Complete() bool {
	return m&AllMask == AllMask
}

// String renders the mask as "NESW" with '.' for sensors that did not latch.
func (m Mask) String() string {
	var b strings.Builder
	for _, id := range IDs {
		if m.Has(id) {
			b.WriteString(id.String())
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// ParseMask reads the form produced by Mask.String.
func ParseMask(s string) (Mask, error) {
	if len(s) != Count {
		return 0, fmt.Errorf("invalid mask %q: expected %d characters", s, Count)
	}
	var m Mask
	for _, id := range IDs {
		switch s[id] {
		case names[id][0]:
			m |= Bit(id)
		case '.':
		default:
			return 0, fmt.Errorf("invalid mask %q: unexpected %q at %d", s, s[id], id)
		}
	}
	return m, nil
}
