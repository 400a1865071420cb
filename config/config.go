// Package config loads the optional YAML file describing which I2C transport
// the CLI talks through.
//
//	adapter: periph
//	periph:
//	  bus: /dev/i2c-1
//	  speed_khz: 100
//	address: 0x5c
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AdapterMCP2221 = "mcp2221"
	AdapterPeriph  = "periph"
	AdapterGobot   = "gobot"
)

type Config struct {
	Adapter string        `yaml:"adapter"`
	Address uint8         `yaml:"address"`
	Verbose bool          `yaml:"verbose"`
	MCP2221 MCP2221Config `yaml:"mcp2221"`
	Periph  PeriphConfig  `yaml:"periph"`
	Gobot   GobotConfig   `yaml:"gobot"`
}

type MCP2221Config struct {
	ResponseWait time.Duration `yaml:"response_wait"`
	DeviceIndex  int           `yaml:"device_index"`
	SpeedHz      int           `yaml:"speed_hz"`
}

type PeriphConfig struct {
	// Bus name as understood by periph i2creg ("" = first bus).
	Bus      string `yaml:"bus"`
	SpeedKHz int    `yaml:"speed_khz"`
}

type GobotConfig struct {
	// Bus number, -1 selects the adaptor default.
	Bus int `yaml:"bus"`
}

func Default() *Config {
	return &Config{
		Adapter: AdapterMCP2221,
		MCP2221: MCP2221Config{
			ResponseWait: 50 * time.Millisecond,
			DeviceIndex:  -1,
		},
		Gobot: GobotConfig{Bus: -1},
	}
}

// Load reads path on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg := Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate performs declarative checks only and does not modify cfg.
func Validate(cfg *Config) error {
	switch cfg.Adapter {
	case AdapterMCP2221, AdapterPeriph, AdapterGobot:
	default:
		return fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}
	if cfg.Address > 0x7F {
		return fmt.Errorf("address %#x is not a 7-bit i2c address", cfg.Address)
	}
	if cfg.MCP2221.ResponseWait < 0 {
		return fmt.Errorf("mcp2221 response_wait must not be negative")
	}
	if cfg.MCP2221.SpeedHz < 0 || cfg.Periph.SpeedKHz < 0 {
		return fmt.Errorf("bus speed must not be negative")
	}
	return nil
}
