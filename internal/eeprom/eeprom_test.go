// internal/eeprom/eeprom_test.go
package eeprom

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ospkit/chainctl/internal/osp"
	"github.com/ospkit/chainctl/internal/osp/sim"
)

// bridged returns a chain with one bridge node carrying an EEPROM on
// the stick address.
func bridged() *sim.Chain {
	return sim.New(false, []sim.Node{
		{Part: osp.PartSAID, Bridge: true, Devices: map[uint8]*sim.Device{
			DAddr7Stick: {},
		}},
	})
}

func TestPresent(t *testing.T) {
	c := bridged()

	if err := Present(c, 1, DAddr7Stick); err != nil {
		t.Fatalf("Present err=%v", err)
	}
	if err := Present(c, 1, DAddr7Board); !errors.Is(err, osp.ErrNoDevice) {
		t.Fatalf("Present on empty address err=%v, want no device", err)
	}

	// A chain error is not the same as an absent device.
	c.FailOn(sim.OpI2CRead, 1, osp.ErrTimeout)
	if err := Present(c, 1, DAddr7Stick); !errors.Is(err, osp.ErrTimeout) {
		t.Fatalf("Present during chain error err=%v, want timeout", err)
	}
}

func TestReadWriteRoundtrip(t *testing.T) {
	c := bridged()
	data := make([]byte, 21)
	for i := range data {
		data[i] = byte(0xA0 + i)
	}

	if err := Write(c, 1, DAddr7Stick, 0x30, data); err != nil {
		t.Fatalf("Write err=%v", err)
	}
	got, err := Read(c, 1, DAddr7Stick, 0x30, len(data))
	if err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("Read=%x, want %x", got, data)
	}
	// Neighbours untouched.
	dev := c.Device(1, DAddr7Stick)
	if dev.Regs[0x2F] != 0 || dev.Regs[0x30+len(data)] != 0 {
		t.Error("write spilled outside its range")
	}
}

func TestWrite_ChunkDiscipline(t *testing.T) {
	c := bridged()
	// Start mid-page so the first chunks must shrink to the boundary.
	if err := Write(c, 1, DAddr7Stick, 0x35, make([]byte, 10)); err != nil {
		t.Fatalf("Write err=%v", err)
	}

	cmds := c.Commands(sim.OpI2CWrite)
	total := 0
	for _, cmd := range cmds {
		n := len(cmd.Data)
		total += n
		if n != 1 && n != 2 && n != 4 && n != 6 {
			t.Errorf("chunk of %d bytes at %#02x", n, cmd.RAddr)
		}
		// No chunk crosses an 8-byte page boundary.
		if int(cmd.RAddr)%8+n > 8 {
			t.Errorf("chunk of %d bytes at %#02x crosses a page", n, cmd.RAddr)
		}
	}
	if total != 10 {
		t.Errorf("chunks sum to %d bytes, want 10", total)
	}
}

func TestRead_Chunked(t *testing.T) {
	c := bridged()
	if _, err := Read(c, 1, DAddr7Stick, 0, 20); err != nil {
		t.Fatalf("Read err=%v", err)
	}
	cmds := c.Commands(sim.OpI2CRead)
	if len(cmds) != 3 {
		t.Fatalf("20 bytes read in %d chunks, want 3", len(cmds))
	}
	for _, cmd := range cmds[:2] {
		if len(cmd.Data) != 8 {
			t.Errorf("full chunk read %d bytes, want 8", len(cmd.Data))
		}
	}
	if len(cmds[2].Data) != 4 {
		t.Errorf("tail chunk read %d bytes, want 4", len(cmds[2].Data))
	}
}

func TestBounds(t *testing.T) {
	c := bridged()
	if _, err := Read(c, 1, DAddr7Stick, 0xF8, 9); err == nil {
		t.Error("read past capacity accepted")
	}
	if err := Write(c, 1, DAddr7Stick, 0xFF, []byte{1, 2}); err == nil {
		t.Error("write past capacity accepted")
	}
	if err := Compare(c, 1, DAddr7Stick, 0x80, make([]byte, 129)); err == nil {
		t.Error("compare past capacity accepted")
	}
	// The last byte is still reachable.
	if _, err := Read(c, 1, DAddr7Stick, 0xFF, 1); err != nil {
		t.Errorf("read of last byte err=%v", err)
	}
}

func TestCompare(t *testing.T) {
	c := bridged()
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x11, 0x22, 0x33, 0x44}
	if err := Write(c, 1, DAddr7Stick, 0x10, data); err != nil {
		t.Fatalf("Write err=%v", err)
	}

	if err := Compare(c, 1, DAddr7Stick, 0x10, data); err != nil {
		t.Fatalf("Compare err=%v", err)
	}

	c.Device(1, DAddr7Stick).Regs[0x12] ^= 0xFF
	if err := Compare(c, 1, DAddr7Stick, 0x10, data); !errors.Is(err, ErrCompare) {
		t.Fatalf("Compare after corruption err=%v, want mismatch", err)
	}
}
