// Package calibration holds the read-only physical parameters of a target.
// Values are produced by the configuration layer and consumed by the
// geometry, acquisition, solver and target packages.
package calibration

import "github.com/itohio/goetarget/pkg/sensor"

// Trim is a per-sensor placement correction in millimetres.
type Trim struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Parameters describes sensor placement, projectile and compensation terms.
type Parameters struct {
	SensorDiameter float64            `yaml:"sensor_diameter"` // Distance between opposite sensors (mm)
	Trims          [sensor.Count]Trim `yaml:"trims"`           // N, E, S, W placement offsets (mm)
	Calibre        float64            `yaml:"calibre"`         // Projectile diameter (mm)
	ZOffset        float64            `yaml:"z_offset"`        // Paper to sensor plane distance (mm)
	Attenuation    float64            `yaml:"attenuation"`     // Sound attenuation coefficient (1/us)
	SensorAngle    float64            `yaml:"sensor_angle"`    // Rotation of the sensor array on the face (deg)
	MinRingTime    uint32             `yaml:"min_ring_time"`   // Ring-down hold (ticks)
	MaxWaitTime    uint32             `yaml:"max_wait_time"`   // Wait for the remaining sensors (ticks)
	Ring1          float64            `yaml:"ring1"`           // Diameter of the 10 ring used for decimal scoring (mm)
	TargetType     int                `yaml:"target_type"`     // Bull layout, see target.Layouts
}

// Environment carries the conditions that set the speed of sound.
type Environment struct {
	TemperatureC float64 `yaml:"temperature_c"`
	Humidity     float64 `yaml:"humidity"` // Relative humidity (%)
}

// Default returns factory calibration values.
func Default() Parameters {
	return Parameters{
		SensorDiameter: 230,
		Calibre:        4.5,
		ZOffset:        13,
		Attenuation:    7.0 / (700.0 * 700.0),
		SensorAngle:    45,
		MinRingTime:    500,
		MaxWaitTime:    10,
		Ring1:          0.5,
		TargetType:     0,
	}
}

// DefaultEnvironment is a 20C, 50% RH range.
func DefaultEnvironment() Environment {
	return Environment{
		TemperatureC: 20,
		Humidity:     50,
	}
}
