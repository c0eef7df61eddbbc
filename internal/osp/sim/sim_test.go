// internal/osp/sim/sim_test.go
package sim

import (
	"errors"
	"testing"

	"github.com/ospkit/chainctl/internal/osp"
)

func bridgeChain() *Chain {
	return New(false, []Node{
		{Part: osp.PartSAID, Bridge: true, Devices: map[uint8]*Device{
			0x51: {},
		}},
	})
}

func TestFailOn_FiresOnNthCall(t *testing.T) {
	c := bridgeChain()
	c.FailOn(OpIdentify, 2, osp.ErrTimeout)

	if _, err := c.Identify(1); err != nil {
		t.Fatalf("call 1 err=%v", err)
	}
	if _, err := c.Identify(1); !errors.Is(err, osp.ErrTimeout) {
		t.Fatalf("call 2 err=%v, want timeout", err)
	}
	// The fault fired once and disarmed.
	if _, err := c.Identify(1); err != nil {
		t.Fatalf("call 3 err=%v", err)
	}
}

func TestFailOn_CountsFromArming(t *testing.T) {
	c := bridgeChain()
	var buf [1]byte

	// Earlier traffic of the same op must not eat the armed fault.
	for i := 0; i < 3; i++ {
		if err := c.I2CRead(1, 0x51, 0, buf[:]); err != nil {
			t.Fatalf("pre-arm read %d err=%v", i, err)
		}
	}

	c.FailOn(OpI2CRead, 1, osp.ErrTimeout)
	if err := c.I2CRead(1, 0x51, 0, buf[:]); !errors.Is(err, osp.ErrTimeout) {
		t.Fatalf("first post-arm read err=%v, want timeout", err)
	}
	if err := c.I2CRead(1, 0x51, 0, buf[:]); err != nil {
		t.Fatalf("read after fired fault err=%v", err)
	}
}

func TestFailOn_OtherOpsUnaffected(t *testing.T) {
	c := bridgeChain()
	c.FailOn(OpGoActive, 1, osp.ErrNoAck)

	if _, _, err := c.ResetInit(); err != nil {
		t.Fatalf("resetinit err=%v", err)
	}
	if _, err := c.Identify(1); err != nil {
		t.Fatalf("identify err=%v", err)
	}
	if err := c.GoActive(osp.Broadcast); !errors.Is(err, osp.ErrNoAck) {
		t.Fatalf("goactive err=%v, want no ack", err)
	}
}
