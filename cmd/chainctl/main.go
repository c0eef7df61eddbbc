// cmd/chainctl/main.go
package main

import (
	"log"
	"os"

	"github.com/ospkit/chainctl/internal/config"
	"github.com/ospkit/chainctl/internal/console"
	"github.com/ospkit/chainctl/internal/logger"
	"github.com/ospkit/chainctl/internal/osp"
	"github.com/ospkit/chainctl/internal/osp/sim"
	"github.com/ospkit/chainctl/internal/printer"
	"github.com/ospkit/chainctl/internal/script"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: chainctl <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	lg, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger setup failed: %v", err)
	}

	// --------------------
	// Build the simulated chain
	// --------------------

	bus := buildChain(cfg)

	// --------------------
	// Console over the chain
	// --------------------

	flags := uint8(osp.CurrentFlagDefault)
	if cfg.Chain.Dither {
		flags |= osp.CurrentFlagDither
	}

	con := console.New(bus, flags, lg, os.Stdout)
	con.Driver().SetDim(*cfg.Chain.Dim)

	printer.Info("chain console, %d configured nodes; type 'help' for commands\n", len(cfg.Chain.Nodes))
	if err := con.Run(os.Stdin); err != nil {
		log.Fatalf("console failed: %v", err)
	}
}

// buildChain turns the configured node list into a simulated chain,
// preloading EEPROM devices with their stock script where configured.
func buildChain(cfg *config.Config) *sim.Chain {
	nodes := make([]sim.Node, 0, len(cfg.Chain.Nodes))
	for _, nc := range cfg.Chain.Nodes {
		n := sim.Node{Part: osp.PartRGBI}
		if nc.Kind == "said" {
			n.Part = osp.PartSAID
			n.Bridge = nc.Bridge
		}
		if nc.EEPROM != nil {
			dev := &sim.Device{}
			if nc.EEPROM.Script != "" {
				insts, _ := script.Stock(nc.EEPROM.Script) // validated earlier
				copy(dev.Regs[:], script.Bytes(insts))
			}
			n.Devices = map[uint8]*sim.Device{*nc.EEPROM.DAddr7: dev}
		}
		nodes = append(nodes, n)
	}
	return sim.New(cfg.Chain.Loop, nodes)
}
