// internal/osp/sim/sim.go
// Package sim is a capability-level simulation of a chain of RGB nodes.
// It implements osp.Bus for tests and for the demo console: commands are
// validated, recorded in order, and can be made to fail on demand.
// It does not model the wire (framing and CRC stay out of scope).
package sim

import (
	"fmt"

	"github.com/ospkit/chainctl/internal/osp"
)

// Operation names, used for command recording and fault injection.
const (
	OpResetInit  = "resetinit"
	OpIdentify   = "identify"
	OpClearError = "clrerror"
	OpSetSetup   = "setsetup"
	OpI2CEnabled = "i2cenabled"
	OpSetCurrent = "setcurrent"
	OpGoActive   = "goactive"
	OpSetPWM     = "setpwm"
	OpSetPWMChn  = "setpwmchn"
	OpI2CRead    = "i2cread"
	OpI2CWrite   = "i2cwrite"
)

// Command is one accepted bus call. Only the fields relevant to Op are set.
type Command struct {
	Op       string
	Addr     uint16
	Chn      uint8
	Flags    uint8
	Levels   [3]uint8
	R, G, B  uint16
	Daytimes uint8
	DAddr7   uint8
	RAddr    uint8
	Data     []byte
}

// Node describes one simulated device on the chain.
type Node struct {
	Part   uint16 // osp.PartRGBI or osp.PartSAID
	Bridge bool   // channel 2 wired for I2C (multi-channel kind only)

	// Devices holds the I2C devices behind the bridge, keyed by
	// 7-bit device address.
	Devices map[uint8]*Device
}

// Device is an I2C register file, enough to emulate an 8-bit-addressed
// EEPROM. Register addresses wrap at 256 like the real part.
type Device struct {
	Regs [256]byte
}

// Chain is a simulated chain. The zero value is not usable; use New.
type Chain struct {
	loop  bool
	nodes []Node

	cmds   []Command
	counts map[string]int

	failOp  string
	failNth int
	failErr error
}

// New creates a simulated chain. Node order is chain order; the node at
// slice index 0 gets address 1.
func New(loop bool, nodes []Node) *Chain {
	return &Chain{
		loop:   loop,
		nodes:  nodes,
		counts: make(map[string]int),
	}
}

// FailOn makes the nth call (1-based) of op from this moment on fail
// with err; calls made before arming do not count. Only one fault is
// armed at a time; it stays armed until it fires.
func (c *Chain) FailOn(op string, nth int, err error) {
	c.failOp = op
	c.failNth = c.counts[op] + nth
	c.failErr = err
}

// Commands returns the accepted commands, optionally filtered by op
// (empty op means all).
func (c *Chain) Commands(op string) []Command {
	if op == "" {
		return c.cmds
	}
	var out []Command
	for _, cmd := range c.cmds {
		if cmd.Op == op {
			out = append(out, cmd)
		}
	}
	return out
}

// ClearLog drops the recorded commands (counts used for fault injection
// are kept).
func (c *Chain) ClearLog() { c.cmds = nil }

// Device returns the I2C device daddr7 behind the bridge of addr, or
// nil if absent.
func (c *Chain) Device(addr uint16, daddr7 uint8) *Device {
	n := c.node(addr)
	if n == nil {
		return nil
	}
	return n.Devices[daddr7]
}

// NumNodes returns the number of simulated nodes.
func (c *Chain) NumNodes() int { return len(c.nodes) }

func (c *Chain) node(addr uint16) *Node {
	if addr < 1 || int(addr) > len(c.nodes) {
		return nil
	}
	return &c.nodes[addr-1]
}

// begin accounts one call of op and fires an armed fault when due.
func (c *Chain) begin(op string) error {
	c.counts[op]++
	if c.failErr != nil && op == c.failOp && c.counts[op] == c.failNth {
		err := c.failErr
		c.failErr = nil
		return err
	}
	return nil
}

func (c *Chain) record(cmd Command) {
	c.cmds = append(c.cmds, cmd)
}

func (c *Chain) idFor(n *Node) uint32 {
	const manufacturer = 0x40
	const revision = 0x01
	return uint32(manufacturer)<<24 | uint32(n.Part)<<8 | revision
}

// ---- osp.Bus ----

func (c *Chain) ResetInit() (uint16, bool, error) {
	if err := c.begin(OpResetInit); err != nil {
		return 0, false, err
	}
	c.record(Command{Op: OpResetInit})
	return uint16(len(c.nodes)), c.loop, nil
}

func (c *Chain) Identify(addr uint16) (uint32, error) {
	if err := c.begin(OpIdentify); err != nil {
		return 0, err
	}
	n := c.node(addr)
	if n == nil {
		return 0, fmt.Errorf("sim: identify addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpIdentify, Addr: addr})
	return c.idFor(n), nil
}

func (c *Chain) ClearError(addr uint16) error {
	if err := c.begin(OpClearError); err != nil {
		return err
	}
	if addr != osp.Broadcast && c.node(addr) == nil {
		return fmt.Errorf("sim: clrerror addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpClearError, Addr: addr})
	return nil
}

func (c *Chain) SetSetup(addr uint16, flags uint8) error {
	if err := c.begin(OpSetSetup); err != nil {
		return err
	}
	if c.node(addr) == nil {
		return fmt.Errorf("sim: setsetup addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpSetSetup, Addr: addr, Flags: flags})
	return nil
}

func (c *Chain) I2CEnabled(addr uint16) (bool, error) {
	if err := c.begin(OpI2CEnabled); err != nil {
		return false, err
	}
	n := c.node(addr)
	if n == nil {
		return false, fmt.Errorf("sim: i2cenabled addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpI2CEnabled, Addr: addr})
	return n.Part == osp.PartSAID && n.Bridge, nil
}

func (c *Chain) SetCurrent(addr uint16, chn uint8, flags uint8, rcur, gcur, bcur uint8) error {
	if err := c.begin(OpSetCurrent); err != nil {
		return err
	}
	if c.node(addr) == nil {
		return fmt.Errorf("sim: setcurrent addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{
		Op: OpSetCurrent, Addr: addr, Chn: chn, Flags: flags,
		Levels: [3]uint8{rcur, gcur, bcur},
	})
	return nil
}

func (c *Chain) GoActive(addr uint16) error {
	if err := c.begin(OpGoActive); err != nil {
		return err
	}
	if addr != osp.Broadcast && c.node(addr) == nil {
		return fmt.Errorf("sim: goactive addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpGoActive, Addr: addr})
	return nil
}

func (c *Chain) SetPWM(addr uint16, red, green, blue uint16, daytimes uint8) error {
	if err := c.begin(OpSetPWM); err != nil {
		return err
	}
	if c.node(addr) == nil {
		return fmt.Errorf("sim: setpwm addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpSetPWM, Addr: addr, R: red, G: green, B: blue, Daytimes: daytimes})
	return nil
}

func (c *Chain) SetPWMChn(addr uint16, chn uint8, red, green, blue uint16) error {
	if err := c.begin(OpSetPWMChn); err != nil {
		return err
	}
	if c.node(addr) == nil {
		return fmt.Errorf("sim: setpwmchn addr %d: %w", addr, osp.ErrNoAck)
	}
	c.record(Command{Op: OpSetPWMChn, Addr: addr, Chn: chn, R: red, G: green, B: blue})
	return nil
}

func (c *Chain) I2CRead(addr uint16, daddr7 uint8, raddr uint8, buf []byte) error {
	if err := c.begin(OpI2CRead); err != nil {
		return err
	}
	n := c.node(addr)
	if n == nil || n.Part != osp.PartSAID || !n.Bridge {
		return fmt.Errorf("sim: i2cread addr %d: %w", addr, osp.ErrNoAck)
	}
	dev := n.Devices[daddr7]
	if dev == nil {
		return fmt.Errorf("sim: i2cread dev %#02x: %w", daddr7, osp.ErrI2CNack)
	}
	for i := range buf {
		buf[i] = dev.Regs[(int(raddr)+i)%len(dev.Regs)]
	}
	c.record(Command{Op: OpI2CRead, Addr: addr, DAddr7: daddr7, RAddr: raddr, Data: append([]byte(nil), buf...)})
	return nil
}

func (c *Chain) I2CWrite(addr uint16, daddr7 uint8, raddr uint8, data []byte) error {
	if err := c.begin(OpI2CWrite); err != nil {
		return err
	}
	n := c.node(addr)
	if n == nil || n.Part != osp.PartSAID || !n.Bridge {
		return fmt.Errorf("sim: i2cwrite addr %d: %w", addr, osp.ErrNoAck)
	}
	dev := n.Devices[daddr7]
	if dev == nil {
		return fmt.Errorf("sim: i2cwrite dev %#02x: %w", daddr7, osp.ErrI2CNack)
	}
	for i, b := range data {
		dev.Regs[(int(raddr)+i)%len(dev.Regs)] = b
	}
	c.record(Command{Op: OpI2CWrite, Addr: addr, DAddr7: daddr7, RAddr: raddr, Data: append([]byte(nil), data...)})
	return nil
}
