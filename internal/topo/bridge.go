// internal/topo/bridge.go
package topo

import "github.com/ospkit/chainctl/internal/osp"

// FindI2CDevice scans every bridge in the map for an I2C device with
// the 7-bit address daddr7 and returns the chain address of the first
// node that has it, searching from low to high address.
//
// The probe is a one-byte read of register 0, so false positives are
// possible. A device answering nowhere yields osp.ErrNoDevice; a chain
// communication error aborts the scan and is returned as-is.
func FindI2CDevice(b osp.Bus, m *Map, daddr7 uint8) (uint16, error) {
	var buf [1]byte
	for bix := 0; bix < m.NumBridges(); bix++ {
		addr := m.BridgeAddr(bix)
		err := b.I2CRead(addr, daddr7, 0x00, buf[:])
		if err == nil {
			return addr, nil
		}
		if !osp.DeviceAbsent(err) {
			return 0, err
		}
	}
	return 0, osp.ErrNoDevice
}
