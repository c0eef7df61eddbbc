// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log   LogConfig   `yaml:"log"`
	Chain ChainConfig `yaml:"chain"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// ---- CHAIN ----

type ChainConfig struct {
	Loop   bool         `yaml:"loop"`
	Dim    *int         `yaml:"dim"`    // 0..1024 (optional)
	Dither bool         `yaml:"dither"` // LSB dithering on channel drivers
	Nodes  []NodeConfig `yaml:"nodes"`
}

// ---- NODE ----

type NodeConfig struct {
	Kind   string        `yaml:"kind"`   // "rgbi" or "said"
	Bridge bool          `yaml:"bridge"` // said only: channel 2 wired for I2C
	EEPROM *EEPROMConfig `yaml:"eeprom"` // bridge only (optional)
}

// ---- EEPROM ----

type EEPROMConfig struct {
	DAddr7 *uint8 `yaml:"daddr7"` // 7-bit I2C device address (optional)
	Script string `yaml:"script"` // stock script preloaded in the EEPROM
}

// Load reads and parses the YAML configuration at path. The result is
// unvalidated; call Validate and then Normalize before use.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config parse: %w", err)
	}
	return &cfg, nil
}
