// internal/osp/identity.go
package osp

// Identity code layout:
//
//	[31:24] manufacturer
//	[23:8]  part number
//	[7:0]   revision
//
// The part number determines the device kind. The kind set is closed
// and protocol-defined; an unrecognized part is a discovery error,
// never silently skipped.
const (
	// PartRGBI is the single-triplet kind: one RGB output, no
	// channels, current profile selected via the PWM daytime bits.
	PartRGBI uint16 = 0x0040

	// PartSAID is the multi-channel kind: three channels, each
	// driving one triplet, unless channel 2 is wired as I2C bridge.
	PartSAID uint16 = 0x0140
)

func Manufacturer(id uint32) uint8 { return uint8(id >> 24) }
func Part(id uint32) uint16        { return uint16(id >> 8) }
func Revision(id uint32) uint8     { return uint8(id) }

// IsRGBI reports whether id identifies a single-triplet node.
func IsRGBI(id uint32) bool { return Part(id) == PartRGBI }

// IsSAID reports whether id identifies a multi-channel node.
func IsSAID(id uint32) bool { return Part(id) == PartSAID }
