package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment override. Sections are separated by
// a double underscore: ETARGET_CALIBRATION__SENSOR_DIAMETER=232.
const EnvPrefix = "ETARGET_"

// Load builds a Config by layering defaults, the YAML file and environment
// variables, in that order of precedence (low -> high). A missing file is
// not an error.
func Load(filename string) (*Config, error) {
	k := koanf.New(".")

	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if err := k.Load(file.Provider(filename), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("%w: failed to parse config file: %v", ErrLoadConfig, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrLoadConfig, err)
		}
	}

	// ETARGET_SERIAL__PORT -> serial.port
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: failed to read environment: %v", ErrLoadConfig, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}
