// Package eeprom drives a small I2C EEPROM (AT24C02C class) behind the
// I2C bridge of a chain node. Memory locations hold one byte and are
// addressed with 8 bits, so the maximum size is 256 bytes.
//
// All functions require an initialized chain and a powered bridge on
// the target node.
package eeprom

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/ospkit/chainctl/internal/osp"
)

// Well-known 7-bit device addresses of EEPROMs in the demo hardware.
const (
	DAddr7Controller = 0x54 // EEPROM on the controller board
	DAddr7Board      = 0x50 // EEPROM on an I2C extension board
	DAddr7Stick      = 0x51 // EEPROM on a flex stick
)

const (
	// Size is the EEPROM capacity in bytes (8-bit register addresses).
	Size = 256
	// maxReadChunk is dictated by the telegram payload limit.
	maxReadChunk = 8
	// pageSize is the EEPROM write page buffer size. Some parts have
	// 16-byte pages; 8 is safe for all of them.
	pageSize = 8
	// writeCycle is the self-timed write cycle of the part (5ms max).
	writeCycle = 5 * time.Millisecond
)

// ErrCompare is returned by Compare when the EEPROM content differs
// from the expected bytes.
var ErrCompare = errors.New("eeprom: compare mismatch")

// Present checks whether an EEPROM with device address daddr7 is
// connected to the bridge of node addr. The probe is a one-byte read
// from register 0, so false positives are possible for other device
// types. A non-responding device maps to osp.ErrNoDevice; other errors
// indicate a communication problem.
func Present(b osp.Bus, addr uint16, daddr7 uint8) error {
	var buf [1]byte
	err := b.I2CRead(addr, daddr7, 0x00, buf[:])
	if osp.DeviceAbsent(err) {
		return fmt.Errorf("eeprom: probe %#02x on node %03x: %w", daddr7, addr, osp.ErrNoDevice)
	}
	return err
}

// Read reads count bytes starting at register address raddr from the
// EEPROM daddr7 behind the bridge of node addr. Reads are chunked to
// the telegram payload limit.
func Read(b osp.Bus, addr uint16, daddr7 uint8, raddr uint8, count int) ([]byte, error) {
	if int(raddr)+count > Size {
		return nil, fmt.Errorf("eeprom: read %d bytes at %#02x exceeds %d byte capacity", count, raddr, Size)
	}
	buf := make([]byte, 0, count)
	for count > 0 {
		chunk := count
		if chunk > maxReadChunk {
			chunk = maxReadChunk
		}
		part := make([]byte, chunk)
		if err := b.I2CRead(addr, daddr7, raddr, part); err != nil {
			return nil, err
		}
		buf = append(buf, part...)
		raddr += uint8(chunk)
		count -= chunk
	}
	return buf, nil
}

// Write writes data to the EEPROM daddr7 behind the bridge of node
// addr, starting at register address raddr.
//
// Chunking honors two hardware constraints: a write burst must not
// cross an EEPROM page boundary, and the bridge only accepts write
// payloads of 1, 2, 4 or 6 bytes. After every burst the EEPROM runs
// its self-timed write cycle, so each chunk is followed by a delay.
func Write(b osp.Bus, addr uint16, daddr7 uint8, raddr uint8, data []byte) error {
	if int(raddr)+len(data) > Size {
		return fmt.Errorf("eeprom: write %d bytes at %#02x exceeds %d byte capacity", len(data), raddr, Size)
	}
	for len(data) > 0 {
		fitInPage := pageSize - int(raddr)%pageSize
		writeToPage := len(data)
		if writeToPage > fitInPage {
			writeToPage = fitInPage
		}
		var chunk int
		switch {
		case writeToPage >= 6:
			chunk = 6
		case writeToPage >= 4:
			chunk = 4
		case writeToPage >= 2:
			chunk = 2
		default:
			chunk = 1
		}
		err := b.I2CWrite(addr, daddr7, raddr, data[:chunk])
		time.Sleep(writeCycle)
		if err != nil {
			return err
		}
		raddr += uint8(chunk)
		data = data[chunk:]
	}
	return nil
}

// Compare reads count bytes starting at raddr and checks them against
// want. Returns ErrCompare on a mismatch.
func Compare(b osp.Bus, addr uint16, daddr7 uint8, raddr uint8, want []byte) error {
	if int(raddr)+len(want) > Size {
		return fmt.Errorf("eeprom: compare %d bytes at %#02x exceeds %d byte capacity", len(want), raddr, Size)
	}
	for len(want) > 0 {
		chunk := len(want)
		if chunk > maxReadChunk {
			chunk = maxReadChunk
		}
		tmp := make([]byte, chunk)
		if err := b.I2CRead(addr, daddr7, raddr, tmp); err != nil {
			return err
		}
		if !bytes.Equal(tmp, want[:chunk]) {
			return fmt.Errorf("%w at %#02x", ErrCompare, raddr)
		}
		raddr += uint8(chunk)
		want = want[chunk:]
	}
	return nil
}
