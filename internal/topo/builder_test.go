// internal/topo/builder_test.go
package topo

import (
	"errors"
	"testing"

	"github.com/ospkit/chainctl/internal/osp"
	"github.com/ospkit/chainctl/internal/osp/sim"
)

// mixedChain is one node of every flavor: a single-triplet node, a
// multi-channel node with a bridge, and a full multi-channel node.
func mixedChain(loop bool) *sim.Chain {
	return sim.New(loop, []sim.Node{
		{Part: osp.PartRGBI},
		{Part: osp.PartSAID, Bridge: true},
		{Part: osp.PartSAID},
	})
}

// build runs a full build with a step cap so a broken state machine
// fails the test instead of hanging it.
func build(t *testing.T, b *Builder) error {
	t.Helper()
	b.Start()
	for i := 0; !b.Done(); i++ {
		if i > 10000 {
			t.Fatal("builder not done after 10000 steps")
		}
		if err := b.Step(); err != nil {
			return err
		}
	}
	return nil
}

func TestBuild_MixedChain(t *testing.T) {
	b := NewBuilder(mixedChain(true), osp.CurrentFlagDefault, nil)
	if err := build(t, b); err != nil {
		t.Fatalf("build err=%v", err)
	}

	m := b.Map()
	if !m.Loop() {
		t.Error("expected loop direction")
	}
	if m.NumNodes() != 3 {
		t.Fatalf("NumNodes=%d, want 3", m.NumNodes())
	}
	if m.NumTriplets() != 6 {
		t.Fatalf("NumTriplets=%d, want 6", m.NumTriplets())
	}
	if m.NumBridges() != 1 {
		t.Fatalf("NumBridges=%d, want 1", m.NumBridges())
	}
	if m.BridgeAddr(0) != 2 {
		t.Errorf("BridgeAddr(0)=%d, want 2", m.BridgeAddr(0))
	}

	// Node 1 has the single channel-less triplet.
	if m.NodeNumTriplets(1) != 1 || m.TripletOnChan(0) {
		t.Error("node 1 should own triplet 0 without a channel")
	}
	// Node 2 lost channel 2 to the bridge.
	if m.NodeNumTriplets(2) != 2 {
		t.Errorf("NodeNumTriplets(2)=%d, want 2", m.NodeNumTriplets(2))
	}
	// Node 3 is a full multi-channel node.
	if m.NodeNumTriplets(3) != 3 {
		t.Errorf("NodeNumTriplets(3)=%d, want 3", m.NodeNumTriplets(3))
	}
	if m.NodeTriplet1(3) != 3 || m.TripletChan(5) != 2 {
		t.Error("node 3 triplets misnumbered")
	}
	// Triplet indices are dense and addressable.
	for tix := 0; tix < m.NumTriplets(); tix++ {
		if a := m.TripletAddr(tix); a < 1 || a > 3 {
			t.Fatalf("TripletAddr(%d)=%d out of range", tix, a)
		}
	}
}

func TestBuild_Bidir(t *testing.T) {
	b := NewBuilder(mixedChain(false), osp.CurrentFlagDefault, nil)
	if err := build(t, b); err != nil {
		t.Fatalf("build err=%v", err)
	}
	if b.Map().Loop() {
		t.Error("expected bidir direction")
	}
}

func TestBuild_CommandSequence(t *testing.T) {
	c := mixedChain(true)
	b := NewBuilder(c, osp.CurrentFlagDefault, nil)
	if err := build(t, b); err != nil {
		t.Fatalf("build err=%v", err)
	}

	// Broadcast error clear happens once, after identification.
	clr := c.Commands(sim.OpClearError)
	if len(clr) != 1 || clr[0].Addr != osp.Broadcast {
		t.Fatalf("clrerror commands=%v, want one broadcast", clr)
	}

	// Every node gets a setup telegram with the CRC bit.
	setups := c.Commands(sim.OpSetSetup)
	if len(setups) != 3 {
		t.Fatalf("setsetup count=%d, want 3", len(setups))
	}
	for _, s := range setups {
		if s.Flags&osp.SetupCRCEnable == 0 {
			t.Errorf("node %d setup %#02x lacks CRC enable", s.Addr, s.Flags)
		}
	}

	// The bridge pads get their own current level before the PWM
	// currents are set.
	curr := c.Commands(sim.OpSetCurrent)
	if len(curr) == 0 || curr[0].Addr != 2 || curr[0].Chn != 2 ||
		curr[0].Levels != [3]uint8{osp.CurrentLevelBridge, osp.CurrentLevelBridge, osp.CurrentLevelBridge} {
		t.Fatalf("first setcurrent=%+v, want bridge power on node 2 chn 2", curr)
	}

	// Go-active is the last command and a broadcast.
	all := c.Commands("")
	last := all[len(all)-1]
	if last.Op != sim.OpGoActive || last.Addr != osp.Broadcast {
		t.Fatalf("last command=%+v, want broadcast goactive", last)
	}
}

func TestBuild_DitherFlagPassthrough(t *testing.T) {
	c := mixedChain(true)
	b := NewBuilder(c, osp.CurrentFlagDither, nil)
	if err := build(t, b); err != nil {
		t.Fatalf("build err=%v", err)
	}
	for _, cmd := range c.Commands(sim.OpSetCurrent) {
		if cmd.Chn == 2 && cmd.Addr == 2 {
			continue // bridge power always uses default flags
		}
		if cmd.Flags != osp.CurrentFlagDither {
			t.Errorf("setcurrent node %d chn %d flags=%#02x, want dither", cmd.Addr, cmd.Chn, cmd.Flags)
		}
	}
}

func TestBuild_FailureHalts(t *testing.T) {
	c := mixedChain(true)
	c.FailOn(sim.OpSetSetup, 2, osp.ErrTimeout)
	b := NewBuilder(c, osp.CurrentFlagDefault, nil)

	err := build(t, b)
	if !errors.Is(err, osp.ErrTimeout) {
		t.Fatalf("build err=%v, want timeout", err)
	}
	if !b.Done() {
		t.Fatal("builder not done after failure")
	}
	if !errors.Is(b.Err(), osp.ErrTimeout) {
		t.Fatalf("Err()=%v, want timeout", b.Err())
	}

	// No configuration continues past the failure.
	if n := len(c.Commands(sim.OpGoActive)); n != 0 {
		t.Errorf("goactive sent %d times after failure", n)
	}

	// Stepping after done re-returns the result without bus traffic.
	before := len(c.Commands(""))
	if err := b.Step(); !errors.Is(err, osp.ErrTimeout) {
		t.Fatalf("Step after done err=%v, want stored timeout", err)
	}
	if len(c.Commands("")) != before {
		t.Error("Step after done sent bus commands")
	}
}

func TestBuild_RestartAfterFailure(t *testing.T) {
	c := mixedChain(true)
	c.FailOn(sim.OpIdentify, 1, osp.ErrNoAck)
	b := NewBuilder(c, osp.CurrentFlagDefault, nil)

	if err := build(t, b); !errors.Is(err, osp.ErrNoAck) {
		t.Fatalf("first build err=%v, want no ack", err)
	}
	// The fault fired once; a fresh run succeeds on the same builder.
	if err := build(t, b); err != nil {
		t.Fatalf("rebuild err=%v", err)
	}
	if b.Err() != nil {
		t.Fatalf("Err()=%v after successful rebuild", b.Err())
	}
	if b.Map().NumNodes() != 3 {
		t.Errorf("NumNodes=%d after rebuild, want 3", b.Map().NumNodes())
	}
}

func TestBuild_NodeCapacity(t *testing.T) {
	nodes := make([]sim.Node, MaxNodes+1)
	for i := range nodes {
		nodes[i] = sim.Node{Part: osp.PartRGBI}
	}
	b := NewBuilder(sim.New(false, nodes), osp.CurrentFlagDefault, nil)

	err := build(t, b)
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("build err=%v, want capacity", err)
	}
	if !errors.Is(b.Err(), ErrCapacity) {
		t.Fatalf("Err()=%v, want capacity", b.Err())
	}
}

func TestBuild_TripletCapacity(t *testing.T) {
	// 67 full multi-channel nodes carry 201 triplets.
	nodes := make([]sim.Node, 67)
	for i := range nodes {
		nodes[i] = sim.Node{Part: osp.PartSAID}
	}
	b := NewBuilder(sim.New(false, nodes), osp.CurrentFlagDefault, nil)

	if err := build(t, b); !errors.Is(err, ErrCapacity) {
		t.Fatalf("build err=%v, want capacity", err)
	}
}

func TestBuild_BridgeCapacity(t *testing.T) {
	nodes := make([]sim.Node, MaxBridges+1)
	for i := range nodes {
		nodes[i] = sim.Node{Part: osp.PartSAID, Bridge: true}
	}
	b := NewBuilder(sim.New(false, nodes), osp.CurrentFlagDefault, nil)

	if err := build(t, b); !errors.Is(err, ErrCapacity) {
		t.Fatalf("build err=%v, want capacity", err)
	}
}

// badIDBus reports an identity of no known kind for every node.
type badIDBus struct {
	*sim.Chain
}

func (b badIDBus) Identify(addr uint16) (uint32, error) {
	return 0x40999901, nil
}

func TestBuild_UnknownIdentity(t *testing.T) {
	b := NewBuilder(badIDBus{mixedChain(true)}, osp.CurrentFlagDefault, nil)

	err := build(t, b)
	if !errors.Is(err, ErrUnknownID) {
		t.Fatalf("build err=%v, want unknown identity", err)
	}
}

func TestBuild_StartAbandonsProgress(t *testing.T) {
	c := mixedChain(true)
	b := NewBuilder(c, osp.CurrentFlagDefault, nil)

	b.Start()
	for i := 0; i < 3; i++ {
		if err := b.Step(); err != nil {
			t.Fatalf("Step err=%v", err)
		}
	}
	if b.Done() {
		t.Fatal("done after 3 steps")
	}

	// A restart mid-run begins from scratch and still converges.
	if err := build(t, b); err != nil {
		t.Fatalf("build err=%v", err)
	}
	if b.Map().NumNodes() != 3 {
		t.Errorf("NumNodes=%d, want 3", b.Map().NumNodes())
	}
}

func TestBuild_MapPointerStable(t *testing.T) {
	b := NewBuilder(mixedChain(true), osp.CurrentFlagDefault, nil)
	m := b.Map()
	if err := build(t, b); err != nil {
		t.Fatalf("build err=%v", err)
	}
	if b.Map() != m {
		t.Error("map pointer changed across build")
	}
	if err := build(t, b); err != nil {
		t.Fatalf("rebuild err=%v", err)
	}
	if b.Map() != m {
		t.Error("map pointer changed across rebuild")
	}
}
