// internal/config/normalize.go
package config

import (
	"github.com/ospkit/chainctl/internal/eeprom"
	"github.com/ospkit/chainctl/internal/topo"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Chain.Dim == nil {
		dim := topo.DimDefault
		cfg.Chain.Dim = &dim
	}

	for ni := range cfg.Chain.Nodes {
		n := &cfg.Chain.Nodes[ni]
		if n.EEPROM == nil {
			continue
		}
		// Flex sticks carry their EEPROM on 0x51.
		if n.EEPROM.DAddr7 == nil {
			daddr7 := uint8(eeprom.DAddr7Stick)
			n.EEPROM.DAddr7 = &daddr7
		}
	}
}
