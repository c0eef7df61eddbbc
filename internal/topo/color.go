// internal/topo/color.go
package topo

import "github.com/ospkit/chainctl/internal/osp"

// BrightnessMax is the top of the abstract brightness range. Color
// components are 0..BrightnessMax; the actual PWM setting depends on
// the device kind and its current settings, both hidden by the Driver.
const BrightnessMax uint16 = 0x7FFF

// Dim levels are "pro-kibi": 0..1024. The default of 100 is ~10% of
// max PWM; with the 12mA base current (1/2 of max) effective
// brightness is ~1/20 of max.
const (
	DimMax     = 1024
	DimDefault = 100
)

// RGB is an abstract color; each component is 0..BrightnessMax.
type RGB struct {
	R, G, B uint16
	Name    string
}

// Predefined colors.
var (
	Red     = RGB{0x7FFF, 0x0000, 0x0000, "red"}
	Yellow  = RGB{0x7FFF, 0x7FFF, 0x0000, "yellow"}
	Green   = RGB{0x0000, 0x7FFF, 0x0000, "green"}
	Cyan    = RGB{0x0000, 0x7FFF, 0x7FFF, "cyan"}
	Blue    = RGB{0x0000, 0x0000, 0x7FFF, "blue"}
	Magenta = RGB{0x7FFF, 0x0000, 0x7FFF, "magenta"}
	White   = RGB{0x7FFF, 0x7FFF, 0x7FFF, "white"}
	Off     = RGB{0x0000, 0x0000, 0x0000, "off"}
)

// Driver applies abstract colors to triplets. It hides whether a
// triplet is addressed directly or via a channel, and the current
// profile differences between device kinds. It owns the global dim
// level; single writer, no locking.
type Driver struct {
	bus osp.Bus
	m   *Map
	dim int
}

// NewDriver creates a driver over a built (or to-be-built) map.
func NewDriver(bus osp.Bus, m *Map) *Driver {
	return &Driver{bus: bus, m: m, dim: DimDefault}
}

// Map returns the topology map this driver reads.
func (d *Driver) Map() *Map { return d.m }

// SetDim sets the global dim level, clipped to 0..DimMax. Changing it
// has no effect on triplets already commanded, only on later
// SetTriplet calls.
func (d *Driver) SetDim(dim int) {
	if dim < 0 {
		dim = 0
	}
	if dim > DimMax {
		dim = DimMax
	}
	d.dim = dim
}

// Dim returns the global dim level.
func (d *Driver) Dim() int { return d.dim }

// SetTriplet sets the color of triplet tix; 0 <= tix < NumTriplets.
// Exactly one bus command is sent; its result is returned unmodified.
func (d *Driver) SetTriplet(tix int, c RGB) error {
	// Dim here to prevent under voltage on long chains.
	r := uint16(int(c.R) * d.dim / DimMax)
	g := uint16(int(c.G) * d.dim / DimMax)
	b := uint16(int(c.B) * d.dim / DimMax)

	addr := d.m.TripletAddr(tix)
	if d.m.TripletOnChan(tix) {
		// Brightness levels target 10mA drivers; shift in the
		// disable-0 for LSB dithering.
		return d.bus.SetPWMChn(addr, d.m.TripletChan(tix), r<<1, g<<1, b<<1)
	}
	// Channel-less kinds have one current profile; select the
	// reduced-power nighttime mode (~10mA).
	return d.bus.SetPWM(addr, r, g, b, osp.PWMNighttimeAll)
}

// SetNodeCurrents applies the standard current profile to the node at
// addr. The builder already did this for every node; this re-applies
// it with different flags (e.g. osp.CurrentFlagDither), which are
// passed through unmodified.
func (d *Driver) SetNodeCurrents(addr uint16, flags uint8) error {
	return setNodeCurrents(d.bus, d.m, addr, flags)
}

// setNodeCurrents selects a 12mA base current for every channel so all
// triplets light equally bright. Channel-less kinds carry the current
// in their PWM setting and are skipped entirely.
func setNodeCurrents(b osp.Bus, m *Map, addr uint16, flags uint8) error {
	id := m.NodeID(addr)
	if osp.IsRGBI(id) {
		return nil
	}
	if !osp.IsSAID(id) {
		return ErrUnknownID
	}

	// Channel 0 is high power: level 2 is 12mA there.
	if err := b.SetCurrent(addr, 0, flags,
		osp.CurrentLevelChn0, osp.CurrentLevelChn0, osp.CurrentLevelChn0); err != nil {
		return err
	}

	// Channel 1 is low power: level 3 is 12mA there.
	if err := b.SetCurrent(addr, 1, flags,
		osp.CurrentLevelChnLow, osp.CurrentLevelChnLow, osp.CurrentLevelChnLow); err != nil {
		return err
	}

	// Channel 2 only drives a triplet when it is not a bridge.
	if m.NodeNumTriplets(addr) == 2 {
		return nil
	}
	return b.SetCurrent(addr, 2, flags,
		osp.CurrentLevelChnLow, osp.CurrentLevelChnLow, osp.CurrentLevelChnLow)
}
