// Package console implements an interactive command interpreter for
// inspecting and driving a chain: build the topology map, paint flags,
// set triplets, and load and play animation scripts from EEPROM.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"

	"github.com/ospkit/chainctl/internal/eeprom"
	"github.com/ospkit/chainctl/internal/logger"
	"github.com/ospkit/chainctl/internal/osp"
	"github.com/ospkit/chainctl/internal/paint"
	"github.com/ospkit/chainctl/internal/printer"
	"github.com/ospkit/chainctl/internal/script"
	"github.com/ospkit/chainctl/internal/topo"
)

// ErrQuit is returned by Exec when the user asks to leave the console.
var ErrQuit = errors.New("console: quit")

// Console couples a bus to the interpreter. Command output goes to
// out; diagnostics go to the logger.
type Console struct {
	bus     osp.Bus
	builder *topo.Builder
	driver  *topo.Driver
	player  *script.Player
	log     *logger.Log
	out     io.Writer
}

// New creates a console over the given bus. A nil log discards.
func New(bus osp.Bus, currentFlags uint8, log *logger.Log, out io.Writer) *Console {
	if log == nil {
		log = logger.Discard()
	}
	b := topo.NewBuilder(bus, currentFlags, log)
	return &Console{
		bus:     bus,
		builder: b,
		driver:  topo.NewDriver(bus, b.Map()),
		log:     log.With(logger.Fields{"module": "console"}),
		out:     out,
	}
}

// Driver returns the color driver, for callers that mix console and
// programmatic control.
func (c *Console) Driver() *topo.Driver { return c.driver }

// Run reads lines from in and executes them until EOF or quit.
func (c *Console) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		printer.Prompt(">> ")
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		argv, err := shlex.Split(sc.Text())
		if err != nil {
			printer.Error("parse error: %v\n", err)
			continue
		}
		if err := c.Exec(argv); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			printer.Error("error: %v\n", err)
		}
	}
}

// Exec executes one tokenized command line. An empty line is a no-op.
func (c *Console) Exec(argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	switch argv[0] {
	case "help":
		c.help()
		return nil
	case "topo":
		return c.cmdTopo(argv[1:])
	case "flag":
		return c.cmdFlag(argv[1:])
	case "script":
		return c.cmdScript(argv[1:])
	case "eeprom":
		return c.cmdEEPROM(argv[1:])
	case "quit", "exit":
		return ErrQuit
	}
	return fmt.Errorf("unknown command %q (try help)", argv[0])
}

func (c *Console) help() {
	fmt.Fprint(c.out, ""+
		"topo build                    scan the chain and build the topology map\n"+
		"topo enum                     show the map (nodes, triplets, bridges)\n"+
		"topo dim [level]              show or set the dim level (0..1024)\n"+
		"topo dither on|off            re-apply node currents with or without dithering\n"+
		"topo pwm <tix> <r> <g> <b>    set one triplet (components 0..32767)\n"+
		"flag list                     list available flags\n"+
		"flag <name>                   paint a flag over the whole chain\n"+
		"script install <name>         install a stock script (see script info)\n"+
		"script load <daddr7>          load a script from an EEPROM on the chain\n"+
		"script play [frames]          play animation frames (default 1)\n"+
		"script info                   show installed script and stock names\n"+
		"eeprom find <daddr7>          locate an I2C device on any bridge\n"+
		"eeprom read <daddr7> <raddr> <count>  hex dump EEPROM content\n"+
		"quit                          leave the console\n")
}

// built guards commands that need a topology map.
func (c *Console) built() error {
	if !c.builder.Done() || c.builder.Err() != nil {
		return errors.New("no topology map (run 'topo build' first)")
	}
	return nil
}

func (c *Console) cmdTopo(argv []string) error {
	if len(argv) == 0 {
		return errors.New("topo: missing subcommand (try help)")
	}
	switch argv[0] {
	case "build":
		// Step-wise, so a caller embedding the console can interleave
		// other work; one telegram-equivalent per step.
		c.builder.Start()
		steps := 0
		for !c.builder.Done() {
			if err := c.builder.Step(); err != nil {
				return err
			}
			steps++
		}
		c.log.Debugf("topology built in %d steps", steps)
		m := c.builder.Map()
		printer.Success("chain active: %d nodes, %d triplets\n", m.NumNodes(), m.NumTriplets())
		m.DumpSummary(c.out)
		return nil

	case "enum":
		if err := c.built(); err != nil {
			return err
		}
		m := c.builder.Map()
		m.DumpSummary(c.out)
		m.DumpNodes(c.out)
		return nil

	case "dim":
		if len(argv) == 1 {
			fmt.Fprintf(c.out, "dim %d/%d\n", c.driver.Dim(), topo.DimMax)
			return nil
		}
		dim, err := parseInt(argv[1], 0, topo.DimMax)
		if err != nil {
			return fmt.Errorf("topo dim: %w", err)
		}
		c.driver.SetDim(dim)
		return nil

	case "dither":
		if err := c.built(); err != nil {
			return err
		}
		if len(argv) != 2 || (argv[1] != "on" && argv[1] != "off") {
			return errors.New("topo dither: expected on or off")
		}
		flags := uint8(osp.CurrentFlagDefault)
		if argv[1] == "on" {
			flags = osp.CurrentFlagDither
		}
		// Re-apply the current profile of every node with the new flags.
		m := c.driver.Map()
		for addr := uint16(1); int(addr) <= m.NumNodes(); addr++ {
			if err := c.driver.SetNodeCurrents(addr, flags); err != nil {
				return err
			}
		}
		return nil

	case "pwm":
		if err := c.built(); err != nil {
			return err
		}
		if len(argv) != 5 {
			return errors.New("topo pwm: expected <tix> <r> <g> <b>")
		}
		tix, err := parseInt(argv[1], 0, c.driver.Map().NumTriplets()-1)
		if err != nil {
			return fmt.Errorf("topo pwm: %w", err)
		}
		var rgb [3]uint16
		for i := 0; i < 3; i++ {
			v, err := parseInt(argv[2+i], 0, int(topo.BrightnessMax))
			if err != nil {
				return fmt.Errorf("topo pwm: %w", err)
			}
			rgb[i] = uint16(v)
		}
		return c.driver.SetTriplet(tix, topo.RGB{R: rgb[0], G: rgb[1], B: rgb[2], Name: "custom"})
	}
	return fmt.Errorf("topo: unknown subcommand %q", argv[0])
}

func (c *Console) cmdFlag(argv []string) error {
	if len(argv) == 0 || argv[0] == "list" {
		for pix := 0; pix < paint.Count(); pix++ {
			fmt.Fprintln(c.out, paint.Name(pix))
		}
		return nil
	}
	if err := c.built(); err != nil {
		return err
	}
	painter := paint.Find(argv[0])
	if painter == nil {
		return fmt.Errorf("flag: unknown flag %q (try flag list)", argv[0])
	}
	return painter(c.driver)
}

func (c *Console) cmdScript(argv []string) error {
	if len(argv) == 0 {
		return errors.New("script: missing subcommand (try help)")
	}
	switch argv[0] {
	case "install":
		if err := c.built(); err != nil {
			return err
		}
		if len(argv) != 2 {
			return errors.New("script install: expected <name>")
		}
		insts, ok := script.Stock(argv[1])
		if !ok {
			return fmt.Errorf("script install: unknown script %q", argv[1])
		}
		c.player = script.NewPlayer(insts, c.driver.Map().NumTriplets(), c.driver)
		fmt.Fprintf(c.out, "installed %s (%d instructions)\n", argv[1], len(insts))
		return nil

	case "load":
		if err := c.built(); err != nil {
			return err
		}
		if len(argv) != 2 {
			return errors.New("script load: expected <daddr7>")
		}
		daddr7, err := parseInt(argv[1], 0, 0x7F)
		if err != nil {
			return fmt.Errorf("script load: %w", err)
		}
		return c.loadFromEEPROM(uint8(daddr7))

	case "play":
		if c.player == nil {
			return errors.New("no script installed (run 'script install' or 'script load' first)")
		}
		frames := 1
		if len(argv) == 2 {
			var err error
			if frames, err = parseInt(argv[1], 1, 1<<20); err != nil {
				return fmt.Errorf("script play: %w", err)
			}
		}
		for i := 0; i < frames; i++ {
			if err := c.player.PlayFrame(); err != nil {
				return err
			}
		}
		return nil

	case "info":
		if c.player == nil {
			fmt.Fprintln(c.out, "no script installed")
		} else {
			fmt.Fprintln(c.out, "script installed")
		}
		fmt.Fprintf(c.out, "stock: %v\n", script.StockNames())
		return nil
	}
	return fmt.Errorf("script: unknown subcommand %q", argv[0])
}

// loadFromEEPROM locates the EEPROM on any bridge, reads it fully and
// installs its content as the current script.
func (c *Console) loadFromEEPROM(daddr7 uint8) error {
	m := c.driver.Map()
	addr, err := topo.FindI2CDevice(c.bus, m, daddr7)
	if err != nil {
		return err
	}
	raw, err := eeprom.Read(c.bus, addr, daddr7, 0, eeprom.Size)
	if err != nil {
		return err
	}
	insts, err := script.Parse(raw)
	if err != nil {
		return err
	}
	if !script.Terminated(insts) {
		return fmt.Errorf("eeprom %#02x on node %03x holds no terminated script", daddr7, addr)
	}
	c.player = script.NewPlayer(insts, m.NumTriplets(), c.driver)
	if c.player.AtEnd() {
		printer.Warning("script from N%03X is empty\n", addr)
	}
	c.log.Debugf("script loaded from node %03x eeprom %#02x", addr, daddr7)
	fmt.Fprintf(c.out, "loaded script from N%03X\n", addr)
	return nil
}

func (c *Console) cmdEEPROM(argv []string) error {
	if len(argv) == 0 {
		return errors.New("eeprom: missing subcommand (try help)")
	}
	if err := c.built(); err != nil {
		return err
	}
	switch argv[0] {
	case "find":
		if len(argv) != 2 {
			return errors.New("eeprom find: expected <daddr7>")
		}
		daddr7, err := parseInt(argv[1], 0, 0x7F)
		if err != nil {
			return fmt.Errorf("eeprom find: %w", err)
		}
		addr, err := topo.FindI2CDevice(c.bus, c.driver.Map(), uint8(daddr7))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "device %#02x found on N%03X\n", daddr7, addr)
		return nil

	case "read":
		if len(argv) != 4 {
			return errors.New("eeprom read: expected <daddr7> <raddr> <count>")
		}
		daddr7, err := parseInt(argv[1], 0, 0x7F)
		if err != nil {
			return fmt.Errorf("eeprom read: %w", err)
		}
		raddr, err := parseInt(argv[2], 0, eeprom.Size-1)
		if err != nil {
			return fmt.Errorf("eeprom read: %w", err)
		}
		count, err := parseInt(argv[3], 1, eeprom.Size)
		if err != nil {
			return fmt.Errorf("eeprom read: %w", err)
		}
		addr, err := topo.FindI2CDevice(c.bus, c.driver.Map(), uint8(daddr7))
		if err != nil {
			return err
		}
		raw, err := eeprom.Read(c.bus, addr, uint8(daddr7), uint8(raddr), count)
		if err != nil {
			return err
		}
		dumpHex(c.out, raddr, raw)
		return nil
	}
	return fmt.Errorf("eeprom: unknown subcommand %q", argv[0])
}

// dumpHex writes raw as rows of 8 bytes prefixed with their register
// address.
func dumpHex(w io.Writer, raddr int, raw []byte) {
	for i := 0; i < len(raw); i += 8 {
		end := i + 8
		if end > len(raw) {
			end = len(raw)
		}
		fmt.Fprintf(w, "%02x:", raddr+i)
		for _, b := range raw[i:end] {
			fmt.Fprintf(w, " %02x", b)
		}
		fmt.Fprintln(w)
	}
}

// parseInt parses a decimal, hex (0x) or octal (0o) integer and checks
// it against the inclusive range.
func parseInt(s string, lo, hi int) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	if int(v) < lo || int(v) > hi {
		return 0, fmt.Errorf("%d out of range %d..%d", v, lo, hi)
	}
	return int(v), nil
}
