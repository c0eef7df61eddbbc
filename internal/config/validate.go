// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/ospkit/chainctl/internal/script"
	"github.com/ospkit/chainctl/internal/topo"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "", "trace", "debug", "info", "warning", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	// ------------------------------------------------------------
	// CHAIN GEOMETRY
	// ------------------------------------------------------------

	if len(cfg.Chain.Nodes) == 0 {
		return fmt.Errorf("chain: no nodes defined")
	}
	if len(cfg.Chain.Nodes) > topo.MaxNodes {
		return fmt.Errorf("chain: %d nodes exceeds maximum of %d", len(cfg.Chain.Nodes), topo.MaxNodes)
	}

	if cfg.Chain.Dim != nil {
		if *cfg.Chain.Dim < 0 || *cfg.Chain.Dim > topo.DimMax {
			return fmt.Errorf("chain: dim %d out of range 0..%d", *cfg.Chain.Dim, topo.DimMax)
		}
	}

	// ------------------------------------------------------------
	// NODES
	// ------------------------------------------------------------

	triplets := 0
	bridges := 0

	for ni, n := range cfg.Chain.Nodes {
		addr := ni + 1 // chain addresses are 1-based

		switch n.Kind {
		case "rgbi":
			if n.Bridge {
				return fmt.Errorf("node %d: kind rgbi has no bridge channel", addr)
			}
			triplets++
		case "said":
			if n.Bridge {
				triplets += 2
				bridges++
			} else {
				triplets += 3
			}
		default:
			return fmt.Errorf("node %d: unknown kind %q", addr, n.Kind)
		}

		if n.EEPROM != nil {
			if !n.Bridge {
				return fmt.Errorf("node %d: eeprom requires a bridge", addr)
			}
			if n.EEPROM.DAddr7 != nil && *n.EEPROM.DAddr7 > 0x7F {
				return fmt.Errorf("node %d: daddr7 %#x is not a 7-bit address", addr, *n.EEPROM.DAddr7)
			}
			if n.EEPROM.Script != "" {
				if _, ok := script.Stock(n.EEPROM.Script); !ok {
					return fmt.Errorf("node %d: unknown script %q (have %v)", addr, n.EEPROM.Script, script.StockNames())
				}
			}
		}
	}

	if triplets > topo.MaxTriplets {
		return fmt.Errorf("chain: %d triplets exceeds maximum of %d", triplets, topo.MaxTriplets)
	}
	if bridges > topo.MaxBridges {
		return fmt.Errorf("chain: %d bridges exceeds maximum of %d", bridges, topo.MaxBridges)
	}

	return nil
}
