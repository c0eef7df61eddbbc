// internal/osp/osp.go
// Package osp defines the capability surface of the two-wire chain bus.
// The control layer consumes this interface; the physical transport
// (framing, CRC, timeouts) lives behind it and is never implemented here.
package osp

import "errors"

// Broadcast is the address that targets every node on the chain.
const Broadcast uint16 = 0

// Bus is the abstract command set of the chain.
// One method call is approximately one telegram on the wire.
type Bus interface {
	// ResetInit resets and initializes the whole chain.
	// It reports the address of the last node and whether the chain
	// closes into a loop (both ends reachable) or runs bidirectional.
	ResetInit() (last uint16, loop bool, err error)

	// Identify reads the 32-bit identity code of the node at addr.
	Identify(addr uint16) (uint32, error)

	// ClearError clears the error flags of addr (or all nodes when
	// addr is Broadcast). Required to leave the under-voltage latch.
	ClearError(addr uint16) error

	// SetSetup writes the setup flags of addr (CRC checking etc).
	SetSetup(addr uint16, flags uint8) error

	// I2CEnabled reports whether the node at addr has its last
	// channel wired as an I2C bridge.
	I2CEnabled(addr uint16) (bool, error)

	// SetCurrent sets the current levels of one channel of addr.
	SetCurrent(addr uint16, chn uint8, flags uint8, rcur, gcur, bcur uint8) error

	// GoActive switches addr (or all nodes when addr is Broadcast)
	// into active output mode.
	GoActive(addr uint16) error

	// SetPWM sets the color of a whole node (single-triplet kinds).
	// The daytimes bits select the current profile per color.
	SetPWM(addr uint16, red, green, blue uint16, daytimes uint8) error

	// SetPWMChn sets the color of one channel of addr.
	SetPWMChn(addr uint16, chn uint8, red, green, blue uint16) error

	// I2CRead reads len(buf) bytes from register raddr of the I2C
	// device daddr7 behind the bridge of addr.
	I2CRead(addr uint16, daddr7 uint8, raddr uint8, buf []byte) error

	// I2CWrite writes data to register raddr of the I2C device
	// daddr7 behind the bridge of addr.
	I2CWrite(addr uint16, daddr7 uint8, raddr uint8, data []byte) error
}

// Transport and device error taxonomy. Errors from a Bus implementation
// wrap (or are) one of these; callers classify with errors.Is.
var (
	ErrNoAck      = errors.New("osp: no acknowledge")
	ErrTimeout    = errors.New("osp: timeout")
	ErrI2CNack    = errors.New("osp: i2c device nack")
	ErrI2CTimeout = errors.New("osp: i2c timeout")

	// ErrNoDevice is the non-fatal "device absent" outcome of
	// presence probes and bridge scans.
	ErrNoDevice = errors.New("osp: no i2c device found")
)

// DeviceAbsent reports whether err is the per-device failure of an I2C
// probe (as opposed to a chain communication error). Discovery scans
// continue past these.
func DeviceAbsent(err error) bool {
	return errors.Is(err, ErrI2CNack) || errors.Is(err, ErrI2CTimeout)
}
