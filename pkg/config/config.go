package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/goetarget/pkg/calibration"
)

// Config represents the application configuration.
type Config struct {
	Name        string                  `yaml:"name"` // Target name reported with every shot
	Serial      SerialConfig            `yaml:"serial"`
	Calibration calibration.Parameters  `yaml:"calibration"`
	Environment calibration.Environment `yaml:"environment"`
	Acquisition AcquisitionConfig       `yaml:"acquisition"`
	Storage     StorageConfig           `yaml:"storage"`
	Influx      InfluxConfig            `yaml:"influx"`
	Metrics     MetricsConfig           `yaml:"metrics"`
	Log         LogConfig               `yaml:"log"`
	Mock        MockConfig              `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// AcquisitionConfig sizes the capture pipeline.
type AcquisitionConfig struct {
	RingSize   int           `yaml:"ring_size"`   // Shot ring slots between the tick handler and the scorer
	TickPeriod time.Duration `yaml:"tick_period"` // Acquisition tick
	BufferSize int           `yaml:"buffer_size"` // Shot channel buffer
}

// StorageConfig selects the shot history database.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // sqlite or postgres
	DSN     string `yaml:"dsn"`
}

// InfluxConfig contains InfluxDB connection settings.
type InfluxConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// MetricsConfig contains the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the endpoint
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// MockConfig contains mock target configuration.
type MockConfig struct {
	ShotPeriod      time.Duration `yaml:"shot_period"`      // Time between simulated shots, 0 disables
	Spread          float64       `yaml:"spread"`           // Group radius (mm)
	FaceProbability float64       `yaml:"face_probability"` // Chance of a face strike
	MissProbability float64       `yaml:"miss_probability"` // Chance that one sensor does not hear the shot
	TickPeriod      time.Duration `yaml:"tick_period"`      // Simulated acquisition tick
	Seed            int64         `yaml:"seed"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Name: "target",
		Serial: SerialConfig{
			Port:     "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
			BaudRate: 115200,
		},
		Calibration: calibration.Default(),
		Environment: calibration.DefaultEnvironment(),
		Acquisition: AcquisitionConfig{
			RingSize:   8,
			TickPeriod: time.Millisecond,
			BufferSize: 32,
		},
		Storage: StorageConfig{
			Enabled: false,
			Driver:  "sqlite",
			DSN:     "etarget.db",
		},
		Influx: InfluxConfig{
			Enabled: false,
			URL:     "http://localhost:8086",
			Org:     "etarget",
			Bucket:  "shots",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Log: LogConfig{
			Level: "info",
		},
		Mock: MockConfig{
			ShotPeriod:      2 * time.Second,
			Spread:          20,
			FaceProbability: 0.02,
			MissProbability: 0.02,
			TickPeriod:      time.Millisecond,
			Seed:            1,
		},
	}
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Calibration.SensorDiameter <= 0 {
		return fmt.Errorf("%w: calibration.sensor_diameter must be positive", ErrInvalidConfig)
	}
	if c.Calibration.MaxWaitTime == 0 {
		return fmt.Errorf("%w: calibration.max_wait_time must be positive", ErrInvalidConfig)
	}
	if c.Environment.Humidity < 0 || c.Environment.Humidity > 100 {
		return fmt.Errorf("%w: environment.humidity must be within 0..100", ErrInvalidConfig)
	}
	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Influx.Enabled && c.Influx.URL == "" {
		return fmt.Errorf("%w: influx.url is required", ErrInvalidConfig)
	}
	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Name == "" {
		c.Name = def.Name
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Calibration.SensorDiameter == 0 {
		c.Calibration.SensorDiameter = def.Calibration.SensorDiameter
	}
	if c.Calibration.Calibre == 0 {
		c.Calibration.Calibre = def.Calibration.Calibre
	}
	if c.Calibration.MaxWaitTime == 0 {
		c.Calibration.MaxWaitTime = def.Calibration.MaxWaitTime
	}
	if c.Calibration.MinRingTime == 0 {
		c.Calibration.MinRingTime = def.Calibration.MinRingTime
	}

	if c.Acquisition.RingSize <= 0 {
		c.Acquisition.RingSize = def.Acquisition.RingSize
	}
	if c.Acquisition.TickPeriod <= 0 {
		c.Acquisition.TickPeriod = def.Acquisition.TickPeriod
	}
	if c.Acquisition.BufferSize <= 0 {
		c.Acquisition.BufferSize = def.Acquisition.BufferSize
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}

	if c.Mock.TickPeriod <= 0 {
		c.Mock.TickPeriod = def.Mock.TickPeriod
	}
}
