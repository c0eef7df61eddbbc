// internal/topo/dump.go
package topo

import (
	"fmt"
	"io"
)

// DumpSummary writes a one-line summary of the topology map.
func (m *Map) DumpSummary(w io.Writer) {
	fmt.Fprintf(w, "nodes(N) 1..%d, ", m.NumNodes())
	fmt.Fprintf(w, "triplets(T) 0..%d, ", m.NumTriplets()-1)
	if m.NumBridges() == 0 {
		fmt.Fprintf(w, "i2cbridges(I) none, ")
	} else {
		fmt.Fprintf(w, "i2cbridges(I) 0..%d, ", m.NumBridges()-1)
	}
	dir := "bidir"
	if m.Loop() {
		dir = "loop"
	}
	fmt.Fprintf(w, "dir %s\n", dir)
}

// DumpNodes writes one line per node with its identity, triplets and
// bridge.
func (m *Map) DumpNodes(w io.Writer) {
	bix := 0
	for addr := uint16(1); int(addr) <= m.NumNodes(); addr++ {
		fmt.Fprintf(w, "N%03X (%08X)", addr, m.NodeID(addr))
		first := m.NodeTriplet1(addr)
		for tix := int(first); tix < int(first)+m.NodeNumTriplets(addr); tix++ {
			fmt.Fprintf(w, " T%d", tix)
		}
		if bix < m.NumBridges() && m.BridgeAddr(bix) == addr {
			fmt.Fprintf(w, " I%d", bix)
			bix++
		}
		fmt.Fprintln(w)
	}
}

// DumpTriplets writes one line per triplet with its owning node and
// channel.
func (m *Map) DumpTriplets(w io.Writer) {
	for tix := 0; tix < m.NumTriplets(); tix++ {
		fmt.Fprintf(w, "T%d N%03X", tix, m.TripletAddr(tix))
		if m.TripletOnChan(tix) {
			fmt.Fprintf(w, ".C%d", m.TripletChan(tix))
		}
		fmt.Fprintln(w)
	}
}

// DumpBridges writes one line per I2C bridge.
func (m *Map) DumpBridges(w io.Writer) {
	for bix := 0; bix < m.NumBridges(); bix++ {
		fmt.Fprintf(w, "I%d N%03X\n", bix, m.BridgeAddr(bix))
	}
}
