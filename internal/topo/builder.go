// internal/topo/builder.go
package topo

import (
	"fmt"

	"github.com/ospkit/chainctl/internal/logger"
	"github.com/ospkit/chainctl/internal/osp"
)

type buildState int

const (
	stateStart buildState = iota
	stateIdentifying
	stateClearError
	stateEnableCRC
	stateBridgePower
	stateSetCurrent
	stateGoActive
	stateDone
)

func (s buildState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateIdentifying:
		return "identifying"
	case stateClearError:
		return "clrerror"
	case stateEnableCRC:
		return "enablecrc"
	case stateBridgePower:
		return "bridgepower"
	case stateSetCurrent:
		return "setcurrent"
	case stateGoActive:
		return "goactive"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// Builder populates a topology map by driving the bus through the
// discovery and configuration protocol.
//
// Filling the map takes several telegrams per node: reset+init,
// identify, bridge query, clear error, setup, current, go-active. Sent
// in one function the runtime would be proportional to chain length,
// so the builder is step-wise: Start once, then Step until Done, one
// telegram-equivalent per Step. When the long runtime is of no concern
// call the convenience Build.
type Builder struct {
	bus osp.Bus
	log *logger.Log

	m *Map

	state    buildState
	substate int // node address or bridge index within looped states
	last     uint16
	result   error

	// currentFlags is passed through to every SetCurrent telegram
	// (e.g. osp.CurrentFlagDither).
	currentFlags uint8
}

// NewBuilder creates a builder for the given bus. currentFlags are
// applied unmodified when the builder sets the standard current
// profile. A nil log discards.
func NewBuilder(bus osp.Bus, currentFlags uint8, log *logger.Log) *Builder {
	if log == nil {
		log = logger.Discard()
	}
	return &Builder{
		bus:          bus,
		log:          log.With(logger.Fields{"module": "topo"}),
		m:            &Map{},
		state:        stateStart,
		currentFlags: currentFlags,
	}
}

// Map returns the topology map owned by this builder. The pointer is
// stable across builds; the content is only valid after a successful
// build.
func (b *Builder) Map() *Map { return b.m }

// Start resets the builder unconditionally, abandoning any prior
// progress. The map itself is cleared once the first Step executes.
func (b *Builder) Start() {
	b.state = stateStart
	b.substate = 0
	b.result = nil
}

// Done reports whether the build has finished (successfully or not).
func (b *Builder) Done() bool { return b.state == stateDone }

// Err returns the stored result of the build; only meaningful once
// Done holds.
func (b *Builder) Err() error { return b.result }

// fail records err, forces the machine to done, and returns err.
func (b *Builder) fail(err error) error {
	b.result = err
	b.state = stateDone
	b.log.With(logger.Fields{"state": "done"}).Warnf("build failed: %v", err)
	return err
}

// Step performs approximately one unit of bus work. Call repeatedly
// until Done. Any bus failure halts the build immediately: no retries,
// no rollback; the map must not be trusted until a later successful
// build. Stepping after Done re-returns the stored result without side
// effects.
func (b *Builder) Step() error {
	switch b.state {

	case stateStart:
		last, loop, err := b.bus.ResetInit()
		if err != nil {
			return b.fail(err)
		}
		b.last = last
		b.m.reset(loop)
		b.substate = 1 // nodes to scan: 1 <= substate <= last
		b.state = stateIdentifying
		b.log.Debugf("chain init: %d nodes, loop=%v", last, loop)
		return nil

	case stateIdentifying:
		if addr := uint16(b.substate); addr <= b.last {
			if err := b.identifyNode(addr); err != nil {
				return b.fail(err)
			}
			b.substate++
			return nil
		}
		if b.m.NumNodes() != int(b.last) {
			panic(fmt.Sprintf("topo: scanned %d nodes, init reported %d", b.m.NumNodes(), b.last))
		}
		b.state = stateClearError
		return nil

	case stateClearError:
		// Broadcast, to clear the under-voltage latch of all
		// multi-channel nodes; without it they will not go active.
		if err := b.bus.ClearError(osp.Broadcast); err != nil {
			return b.fail(err)
		}
		b.substate = 1 // nodes to enable CRC for
		b.state = stateEnableCRC
		return nil

	case stateEnableCRC:
		if addr := uint16(b.substate); addr <= b.last {
			if err := b.enableCRC(addr); err != nil {
				return b.fail(err)
			}
			b.substate++
			return nil
		}
		b.substate = 0 // bridges to power: 0 <= substate < NumBridges
		b.state = stateBridgePower
		return nil

	case stateBridgePower:
		if bix := b.substate; bix < b.m.NumBridges() {
			// Supply current to the I2C pads (channel 2).
			err := b.bus.SetCurrent(b.m.BridgeAddr(bix), 2, osp.CurrentFlagDefault,
				osp.CurrentLevelBridge, osp.CurrentLevelBridge, osp.CurrentLevelBridge)
			if err != nil {
				return b.fail(err)
			}
			b.substate++
			return nil
		}
		b.substate = 1 // nodes to set PWM current for
		b.state = stateSetCurrent
		return nil

	case stateSetCurrent:
		if addr := uint16(b.substate); addr <= b.last {
			if err := setNodeCurrents(b.bus, b.m, addr, b.currentFlags); err != nil {
				return b.fail(err)
			}
			b.substate++
			return nil
		}
		b.state = stateGoActive
		return nil

	case stateGoActive:
		if err := b.bus.GoActive(osp.Broadcast); err != nil {
			return b.fail(err)
		}
		b.result = nil
		b.state = stateDone
		b.log.Debugf("build done: %d nodes, %d triplets, %d bridges",
			b.m.NumNodes(), b.m.NumTriplets(), b.m.NumBridges())
		return nil

	case stateDone:
		return b.result
	}

	panic("topo: builder in impossible state")
}

// Build runs the full discovery in one call. Runtime is proportional
// to chain length; prefer Start/Step/Done where responsiveness matters.
func (b *Builder) Build() error {
	b.Start()
	for !b.Done() {
		if err := b.Step(); err != nil {
			return err
		}
	}
	return nil
}

// identifyNode queries the identity of the node at addr and registers
// the node, its triplets, and its bridge (if any) in the map.
func (b *Builder) identifyNode(addr uint16) error {
	id, err := b.bus.Identify(addr)
	if err != nil {
		return err
	}
	if err := b.m.addNode(id); err != nil {
		return err
	}
	if uint16(b.m.NumNodes()) != addr {
		panic("topo: node registration out of order")
	}

	switch {
	case osp.IsRGBI(id):
		// One triplet, no channel.
		if err := b.m.addTriplet(addr, ChanNone); err != nil {
			return err
		}

	case osp.IsSAID(id):
		// Three triplets, or two plus an I2C bridge.
		if err := b.m.addTriplet(addr, 0); err != nil {
			return err
		}
		if err := b.m.addTriplet(addr, 1); err != nil {
			return err
		}
		bridge, err := b.bus.I2CEnabled(addr)
		if err != nil {
			return err
		}
		if bridge {
			if err := b.m.addBridge(addr); err != nil {
				return err
			}
		} else {
			if err := b.m.addTriplet(addr, 2); err != nil {
				return err
			}
		}

	default:
		return fmt.Errorf("%w: node %d reports id %#08x", ErrUnknownID, addr, id)
	}
	return nil
}

// enableCRC sends the kind-appropriate setup telegram to addr.
func (b *Builder) enableCRC(addr uint16) error {
	id := b.m.NodeID(addr)
	switch {
	case osp.IsRGBI(id):
		return b.bus.SetSetup(addr, osp.SetupDefaultRGBI|osp.SetupCRCEnable)
	case osp.IsSAID(id):
		return b.bus.SetSetup(addr, osp.SetupDefaultSAID|osp.SetupCRCEnable)
	}
	return fmt.Errorf("%w: node %d reports id %#08x", ErrUnknownID, addr, id)
}
