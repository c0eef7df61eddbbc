// internal/topo/map.go
// Package topo builds and queries the topology map of a chain of
// addressable RGB nodes.
//
// Terminology: a node is one element on the chain, identified by a
// dense 1-based address. A triplet is one independently drivable RGB
// output, identified by a dense 0-based index; the single-triplet kind
// embeds one, the multi-channel kind drives one per channel. A bridge
// is a multi-channel node whose last channel is wired for I2C instead
// of a triplet.
//
// The map is populated exclusively by a Builder run and is read-only
// until the next run. Accessors assume a successful prior build;
// violating an index precondition is a programmer error and panics.
package topo

import "errors"

// Capacities of the topology map. Exceeding any of them is a terminal
// discovery error, not a partial result.
const (
	MaxNodes    = 100
	MaxTriplets = 200
	MaxBridges  = 5
)

// ChanNone marks triplets of nodes that have no notion of channels.
const ChanNone uint8 = 0xFF

var (
	// ErrCapacity is returned by the builder when the chain holds
	// more nodes, triplets or bridges than the map can carry.
	ErrCapacity = errors.New("topo: capacity exceeded")

	// ErrUnknownID is returned by the builder when a node reports an
	// identity of no known kind. Unknown nodes are never skipped.
	ErrUnknownID = errors.New("topo: unknown device identity")
)

// Node is one device on the chain.
type Node struct {
	ID          uint32 // identity code as reported by the node
	NumTriplets uint8  // 1 for the single-triplet kind, 3 or 2 for the multi-channel kind
	Triplet1    uint16 // index of the first triplet driven by this node
}

// Triplet is one RGB output.
type Triplet struct {
	Addr uint16 // owning node
	Chn  uint8  // channel within the node, or ChanNone
}

// Bridge is a node whose last channel forwards a secondary I2C bus.
type Bridge struct {
	Addr uint16 // owning node
}

// Map is the topology map. Obtain one through a Builder.
type Map struct {
	loop     bool
	nodes    []Node // index 0 holds address 1
	triplets []Triplet
	bridges  []Bridge
}

// Loop reports whether the chain closes into a loop (true) or runs
// bidirectional with two open ends (false).
func (m *Map) Loop() bool { return m.loop }

// NumNodes returns the number of nodes in the scanned chain.
func (m *Map) NumNodes() int { return len(m.nodes) }

// NodeID returns the identity of the node at addr; 1 <= addr <= NumNodes.
func (m *Map) NodeID(addr uint16) uint32 {
	return m.node(addr).ID
}

// NodeNumTriplets returns the number of triplets driven by the node at
// addr; 1 <= addr <= NumNodes.
func (m *Map) NodeNumTriplets(addr uint16) int {
	return int(m.node(addr).NumTriplets)
}

// NodeTriplet1 returns the index of the first triplet driven by the
// node at addr; 1 <= addr <= NumNodes. When a node drives more than
// one triplet the next ones are consecutively numbered.
func (m *Map) NodeTriplet1(addr uint16) uint16 {
	return m.node(addr).Triplet1
}

// NumTriplets returns the number of triplets in the scanned chain.
func (m *Map) NumTriplets() int { return len(m.triplets) }

// TripletAddr returns the address of the node that drives triplet tix;
// 0 <= tix < NumTriplets. Animations operate in the triplet domain,
// but sending the right command needs the owning address (and channel,
// see TripletChan).
func (m *Map) TripletAddr(tix int) uint16 {
	return m.triplet(tix).Addr
}

// TripletOnChan reports whether triplet tix sits on a channel of a
// multi-channel node; 0 <= tix < NumTriplets. Channel-less nodes take
// a whole-node color command, channeled ones a per-channel command.
func (m *Map) TripletOnChan(tix int) bool {
	return m.triplet(tix).Chn != ChanNone
}

// TripletChan returns the channel triplet tix is attached to;
// 0 <= tix < NumTriplets. Only defined when TripletOnChan(tix).
func (m *Map) TripletChan(tix int) uint8 {
	t := m.triplet(tix)
	if t.Chn == ChanNone {
		panic("topo: TripletChan on channel-less triplet")
	}
	return t.Chn
}

// NumBridges returns the number of I2C bridges in the scanned chain.
func (m *Map) NumBridges() int { return len(m.bridges) }

// BridgeAddr returns the address of the node that holds bridge bix;
// 0 <= bix < NumBridges.
func (m *Map) BridgeAddr(bix int) uint16 {
	if bix < 0 || bix >= len(m.bridges) {
		panic("topo: bridge index out of range")
	}
	return m.bridges[bix].Addr
}

func (m *Map) node(addr uint16) *Node {
	if addr < 1 || int(addr) > len(m.nodes) {
		panic("topo: node address out of range")
	}
	return &m.nodes[addr-1]
}

func (m *Map) triplet(tix int) *Triplet {
	if tix < 0 || tix >= len(m.triplets) {
		panic("topo: triplet index out of range")
	}
	return &m.triplets[tix]
}

// ---- builder-side mutation ----

func (m *Map) reset(loop bool) {
	m.loop = loop
	m.nodes = m.nodes[:0]
	m.triplets = m.triplets[:0]
	m.bridges = m.bridges[:0]
}

func (m *Map) addNode(id uint32) error {
	if len(m.nodes) >= MaxNodes {
		return ErrCapacity
	}
	m.nodes = append(m.nodes, Node{ID: id, Triplet1: uint16(len(m.triplets))})
	return nil
}

func (m *Map) addTriplet(addr uint16, chn uint8) error {
	if len(m.triplets) >= MaxTriplets {
		return ErrCapacity
	}
	m.triplets = append(m.triplets, Triplet{Addr: addr, Chn: chn})
	m.nodes[len(m.nodes)-1].NumTriplets++
	return nil
}

func (m *Map) addBridge(addr uint16) error {
	if len(m.bridges) >= MaxBridges {
		return ErrCapacity
	}
	m.bridges = append(m.bridges, Bridge{Addr: addr})
	return nil
}
